package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/smazurov/ledsaver/internal/pattern"
)

func TestParsePatterns(t *testing.T) {
	specs, err := ParsePatterns([]byte(`
[[pattern]]
name = "heartbeat"
color = "green"
priority = "background"

[[pattern]]
name = "battery-low"
color = "#FF6000"
priority = "critical"
period_ms = 2000
flashes = 3
`))
	if err != nil {
		t.Fatalf("ParsePatterns() error: %v", err)
	}
	if len(specs) != 2 {
		t.Fatalf("got %d patterns, want 2", len(specs))
	}

	tests := []struct {
		spec     PatternSpec
		name     string
		color    pattern.Color
		priority pattern.Priority
		period   uint32
		flashes  uint8
	}{
		{specs[0], "heartbeat", pattern.Green, pattern.PriorityBackground, pattern.DefaultPeriod, pattern.DefaultFlashes},
		{specs[1], "battery-low", pattern.Orange, pattern.PriorityCritical, 2000, 3},
	}
	for _, tt := range tests {
		if tt.spec.Name != tt.name || tt.spec.Color != tt.color || tt.spec.Priority != tt.priority {
			t.Errorf("spec = %+v, want name=%s color=%v priority=%v", tt.spec, tt.name, tt.color, tt.priority)
		}
		if tt.spec.Period() != tt.period || tt.spec.FlashCount() != tt.flashes {
			t.Errorf("%s: period/flashes = %d/%d, want %d/%d",
				tt.name, tt.spec.Period(), tt.spec.FlashCount(), tt.period, tt.flashes)
		}
	}
}

func TestParsePatternsErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{name: "missing name", data: "[[pattern]]\ncolor = \"red\"\n", wantErr: ErrPatternName},
		{name: "zero flashes", data: "[[pattern]]\nname = \"a\"\nflashes = 0\n", wantErr: ErrInvalidFlashes},
		{name: "too many flashes", data: "[[pattern]]\nname = \"a\"\nflashes = 256\n", wantErr: ErrInvalidFlashes},
		{name: "duplicate", data: "[[pattern]]\nname = \"a\"\n[[pattern]]\nname = \"a\"\n", wantErr: ErrDuplicatePattern},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePatterns([]byte(tt.data))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ParsePatterns() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	for _, data := range []string{
		"[[pattern]]\nname = \"a\"\ncolor = \"chartreuse\"\n",
		"[[pattern]]\nname = \"a\"\npriority = \"urgent\"\n",
		"[[pattern\n",
	} {
		if _, err := ParsePatterns([]byte(data)); err == nil {
			t.Errorf("ParsePatterns(%q) succeeded, want error", data)
		}
	}
}

func TestParsePatternsEmptyFile(t *testing.T) {
	for _, data := range []string{"", "# all patterns disabled\n"} {
		specs, err := ParsePatterns([]byte(data))
		if err != nil {
			t.Fatalf("ParsePatterns(%q) error: %v", data, err)
		}
		if specs == nil || len(specs) != 0 {
			t.Errorf("ParsePatterns(%q) = %#v, want empty list", data, specs)
		}
	}
}

func TestParsePatternsShortPeriodAccepted(t *testing.T) {
	specs, err := ParsePatterns([]byte("[[pattern]]\nname = \"fast\"\nperiod_ms = 80\n"))
	if err != nil {
		t.Fatalf("ParsePatterns() error: %v", err)
	}
	if specs[0].Period() != 80 {
		t.Errorf("Period() = %d, want 80", specs[0].Period())
	}
}

func TestPatternSpecBuild(t *testing.T) {
	period := uint32(500)
	flashes := 2
	spec := PatternSpec{Name: "x", Color: pattern.Blue, PeriodMS: &period, Flashes: &flashes}

	p := spec.Build()
	if p.Color() != pattern.Blue || p.Period() != 500 || p.Flashes() != 2 {
		t.Errorf("Build() = color %v period %d flashes %d", p.Color(), p.Period(), p.Flashes())
	}

	// Each Build starts from the initial state.
	p.Update(10, pattern.SetterFunc(func(pattern.Color) {}))
	if s := spec.Build().Snapshot(); s.PeriodTicks != 0 || s.Phase != pattern.PhaseInit {
		t.Errorf("fresh Build() state = %+v", s)
	}
}

func TestLoadPatternsMissingFile(t *testing.T) {
	if _, err := LoadPatterns(filepath.Join(t.TempDir(), "none.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadPatterns() error = %v, want not exist", err)
	}
}
