package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func resetLogging(t *testing.T) {
	t.Helper()
	mutex.Lock()
	moduleLoggers = make(map[string]*slog.Logger)
	moduleLevelVars = make(map[string]*slog.LevelVar)
	isInitialized = false
	globalConfig = Config{}
	mutex.Unlock()
}

func TestModuleLevelOverride(t *testing.T) {
	resetLogging(t)

	var buf bytes.Buffer
	Initialize(Config{
		Level:  "info",
		Format: "text",
		Modules: map[string]string{
			"led": "debug",
			"api": "warn",
		},
		Output: &buf,
	})

	tests := []struct {
		module    string
		wantDebug bool
		wantInfo  bool
		wantWarn  bool
	}{
		{"led", true, true, true},
		{"api", false, false, true},
		{"config", false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.module, func(t *testing.T) {
			handler := GetLogger(tt.module).Handler()
			ctx := context.Background()

			if got := handler.Enabled(ctx, slog.LevelDebug); got != tt.wantDebug {
				t.Errorf("module %q: Debug enabled = %v, want %v", tt.module, got, tt.wantDebug)
			}
			if got := handler.Enabled(ctx, slog.LevelInfo); got != tt.wantInfo {
				t.Errorf("module %q: Info enabled = %v, want %v", tt.module, got, tt.wantInfo)
			}
			if got := handler.Enabled(ctx, slog.LevelWarn); got != tt.wantWarn {
				t.Errorf("module %q: Warn enabled = %v, want %v", tt.module, got, tt.wantWarn)
			}
		})
	}
}

func TestModuleAttributeWritten(t *testing.T) {
	resetLogging(t)

	var buf bytes.Buffer
	Initialize(Config{Level: "debug", Format: "text", Output: &buf})

	GetLogger("led").Debug("LED color changed", "color", "#FF0000")

	output := buf.String()
	if !strings.Contains(output, "LED color changed") {
		t.Errorf("message not written. Output: %s", output)
	}
	if !strings.Contains(output, "module=led") {
		t.Errorf("module attribute missing. Output: %s", output)
	}
	if !strings.Contains(output, "level=DEBUG") {
		t.Errorf("level missing. Output: %s", output)
	}
}

func TestJSONFormat(t *testing.T) {
	resetLogging(t)

	var buf bytes.Buffer
	Initialize(Config{Level: "info", Format: "json", Output: &buf})

	GetLogger("api").Info("Starting API server", "addr", ":8091")

	if !strings.Contains(buf.String(), `"module":"api"`) {
		t.Errorf("json output missing module. Output: %s", buf.String())
	}
}

func TestGetLoggerBeforeInitialize(t *testing.T) {
	resetLogging(t)

	before := GetLogger("led")
	if before.Handler().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("logger created before Initialize should default to info")
	}

	var buf bytes.Buffer
	Initialize(Config{
		Level:   "info",
		Modules: map[string]string{"led": "debug"},
		Output:  &buf,
	})

	after := GetLogger("led")
	if before != after {
		t.Error("logger should be cached across Initialize")
	}
	if !before.Handler().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("cached logger should pick up the module level set by Initialize")
	}

	before.Debug("routed after initialize")
	if !strings.Contains(buf.String(), "routed after initialize") {
		t.Errorf("cached logger should write to the configured output. Output: %s", buf.String())
	}
}

func TestSetModuleLevel(t *testing.T) {
	resetLogging(t)
	Initialize(Config{Level: "info", Output: &bytes.Buffer{}})

	if !SetModuleLevel("config", "error") {
		t.Fatal("SetModuleLevel should accept error")
	}
	if GetLogger("config").Handler().Enabled(context.Background(), slog.LevelWarn) {
		t.Error("warn should be disabled after raising level to error")
	}
	if SetModuleLevel("config", "loud") {
		t.Error("SetModuleLevel should reject unknown levels")
	}
}

func TestMultiHandlerDebugOutput(t *testing.T) {
	var buf bytes.Buffer

	debugHandler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	infoHandler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})

	logger := slog.New(NewMultiHandler(debugHandler, infoHandler)).With("module", "test")
	logger.Debug("debug only message")

	if count := strings.Count(buf.String(), "debug only message"); count != 1 {
		t.Errorf("expected 1 debug message, got %d. Output: %s", count, buf.String())
	}

	logger.Info("info message")
	if count := strings.Count(buf.String(), "info message"); count != 2 {
		t.Errorf("expected 2 info messages, got %d. Output: %s", count, buf.String())
	}
}

func TestAddJournalField(t *testing.T) {
	fields := make(map[string]string)

	addJournalField(fields, slog.String("module", "led"), nil)
	addJournalField(fields, slog.Int("period_ms", 1000), []string{"pattern"})
	addJournalField(fields, slog.Group("state", slog.String("phase", "blank")), nil)

	want := map[string]string{
		"MODULE":            "led",
		"PATTERN_PERIOD_MS": "1000",
		"STATE_PHASE":       "blank",
	}
	for k, v := range want {
		if fields[k] != v {
			t.Errorf("fields[%q] = %q, want %q", k, fields[k], v)
		}
	}
}

func TestParseLevelValues(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
		isNil bool
	}{
		{"debug", slog.LevelDebug, false},
		{"DEBUG", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"invalid", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := parseLevel(tt.input)
			switch {
			case tt.isNil && got != nil:
				t.Errorf("parseLevel(%q) = %v, want nil", tt.input, *got)
			case !tt.isNil && got == nil:
				t.Errorf("parseLevel(%q) = nil, want %v", tt.input, tt.want)
			case !tt.isNil && *got != tt.want:
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, *got, tt.want)
			}
		})
	}
}
