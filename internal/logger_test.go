package internal

import (
	"bytes"
	"strings"
	"testing"
)

func TestLogger_FiltersLevelAndComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LogLevelInfo, []Component{ComponentCache})

	logger.Debug(ComponentCache, "hidden debug")
	logger.Info(ComponentAPI, "hidden component")
	logger.Warn(ComponentCache, "entry %s invalidated", "images/list")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("logger wrote a filtered line: %q", out)
	}
	if !strings.Contains(out, "entry images/list invalidated") {
		t.Errorf("logger output %q is missing the warning", out)
	}
	if !strings.Contains(out, "component=Cache") {
		t.Errorf("logger output %q is missing the component field", out)
	}
}

func TestLogger_EnableDisableComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LogLevelDebug, nil)

	if logger.IsComponentEnabled(ComponentRepo) {
		t.Fatal("component enabled before EnableComponent")
	}
	logger.EnableComponent(ComponentRepo)
	logger.Debug(ComponentRepo, "visible")
	logger.DisableComponent(ComponentRepo)
	logger.Debug(ComponentRepo, "invisible")

	out := buf.String()
	if !strings.Contains(out, "visible") || strings.Contains(out, "invisible") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    LogLevel
		wantErr bool
	}{
		{"debug", LogLevelDebug, false},
		{"INFO", LogLevelInfo, false},
		{"", LogLevelInfo, false},
		{"warning", LogLevelWarn, false},
		{"error", LogLevelError, false},
		{"verbose", LogLevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLogLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLogLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
