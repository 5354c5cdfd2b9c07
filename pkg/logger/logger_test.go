package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{"default valid", DefaultConfig(), false},
		{"json format", &Config{Level: InfoLevel, Format: JSONFormat}, false},
		{"invalid level", &Config{Level: "trace2", Format: TextFormat}, true},
		{"invalid format", &Config{Level: InfoLevel, Format: "xml"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewLogger_InvalidConfig(t *testing.T) {
	if _, err := NewLogger(&Config{Level: "bogus", Format: TextFormat}); err == nil {
		t.Error("Expected error for invalid level")
	}
}

func TestLogger_TextOutput(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewLogger(&Config{Level: InfoLevel, Format: TextFormat, Output: &buf})
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	log.Info("reconciliation started")

	if !strings.Contains(buf.String(), "reconciliation started") {
		t.Errorf("Expected message in output, got: %s", buf.String())
	}
}

func TestLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewLogger(&Config{Level: InfoLevel, Format: JSONFormat, Output: &buf})
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	log.WithField("records", 42).Info("parsed")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if entry["msg"] != "parsed" {
		t.Errorf("Expected msg 'parsed', got %v", entry["msg"])
	}
	if entry["records"] != float64(42) {
		t.Errorf("Expected records field, got %v", entry["records"])
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewLogger(&Config{Level: WarnLevel, Format: TextFormat, Output: &buf})
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	log.Info("should be suppressed")
	log.Warn("should appear")

	output := buf.String()
	if strings.Contains(output, "suppressed") {
		t.Error("Info message should be filtered at warn level")
	}
	if !strings.Contains(output, "should appear") {
		t.Error("Warn message should pass the filter")
	}
}

func TestLogger_WithFieldsAndComponent(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewLogger(&Config{Level: DebugLevel, Format: JSONFormat, Output: &buf})
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	log.WithComponent("matcher").WithFields(Fields{"bank": 10, "ledger": 12}).Debug("matching")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if entry["component"] != "matcher" {
		t.Errorf("Expected component field, got %v", entry["component"])
	}
	if entry["bank"] != float64(10) {
		t.Errorf("Expected bank field, got %v", entry["bank"])
	}
}

func TestGlobalLogger(t *testing.T) {
	original := GetGlobalLogger()
	defer SetGlobalLogger(original)

	var buf bytes.Buffer
	replacement, err := NewLogger(&Config{Level: InfoLevel, Format: TextFormat, Output: &buf})
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	SetGlobalLogger(replacement)
	Info("through the global logger")

	if !strings.Contains(buf.String(), "through the global logger") {
		t.Error("Expected global logger to use the replacement")
	}
}
