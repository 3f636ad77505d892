package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestSetupLevel(t *testing.T) {
	tests := []struct {
		in       string
		expected zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"warn", zerolog.WarnLevel},
		{"", zerolog.InfoLevel},
		{"nonsense", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			logger := SetupWithWriter(tt.in, false, &bytes.Buffer{})
			if logger.GetLevel() != tt.expected {
				t.Errorf("expected=%s, got=%s", tt.expected, logger.GetLevel())
			}
		})
	}
}

func TestSetupJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupWithWriter("info", false, &buf)
	logger.Info().Int("slot", 2).Msg("add task")

	var line map[string]any
	err := json.Unmarshal(buf.Bytes(), &line)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if line["message"] != "add task" || line["slot"] != float64(2) {
		t.Errorf("unexpected log line: %v", line)
	}
}
