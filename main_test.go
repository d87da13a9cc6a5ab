package main

import (
	"reflect"
	"testing"

	"github.com/smazurov/ledsaver/internal/config"
	"github.com/smazurov/ledsaver/internal/pattern"
)

func TestParseSysfsMap(t *testing.T) {
	tests := []struct {
		in   string
		want map[string]string
	}{
		{"", nil},
		{"system=sys_led", map[string]string{"system": "sys_led"}},
		{" system = sys_led , user=usr_led", map[string]string{"system": "sys_led", "user": "usr_led"}},
		{"system=sys_led,bogus,=x,y=", map[string]string{"system": "sys_led"}},
	}

	for _, tt := range tests {
		if got := parseSysfsMap(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseSysfsMap(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSourcesFromSpecs(t *testing.T) {
	specs, err := config.ParsePatterns([]byte(`
[[pattern]]
name = "heartbeat"
color = "green"

[[pattern]]
name = "battery-low"
color = "red"
priority = "critical"
flashes = 3
`))
	if err != nil {
		t.Fatal(err)
	}

	sources := sourcesFromSpecs(specs)
	if len(sources) != 2 {
		t.Fatalf("got %d sources, want 2", len(sources))
	}
	if sources[0].Name != "heartbeat" || sources[0].Priority != pattern.PriorityBackground {
		t.Errorf("sources[0] = %+v", sources[0])
	}
	if sources[1].Name != "battery-low" || sources[1].Priority != pattern.PriorityCritical {
		t.Errorf("sources[1] = %+v", sources[1])
	}
	if p, ok := sources[1].Pattern.(*pattern.EnergySaver); !ok || p.Flashes() != 3 {
		t.Errorf("sources[1].Pattern = %#v, want 3-flash EnergySaver", sources[1].Pattern)
	}

	if got := patternNames(specs); !reflect.DeepEqual(got, []string{"heartbeat", "battery-low"}) {
		t.Errorf("patternNames() = %v", got)
	}
}
