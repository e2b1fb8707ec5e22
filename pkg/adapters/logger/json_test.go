package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/user/framecheck/pkg/ports"
)

func TestJSONLogger_WritesComponentField(t *testing.T) {
	var buf bytes.Buffer
	log := NewJSON(ports.LevelDebug, &buf).WithComponent("player-A")

	log.Info("Loaded %s (%d frames)", "clip.mp4", 10)

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if line["component"] != "player-A" {
		t.Errorf("expected component field, got %v", line["component"])
	}
	if !strings.Contains(line["msg"].(string), "clip.mp4") {
		t.Errorf("expected formatted message, got %v", line["msg"])
	}
	if line["level"] != "info" {
		t.Errorf("expected level info, got %v", line["level"])
	}
}

func TestJSONLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewJSON(ports.LevelWarn, &buf)

	log.Debug("hidden")
	log.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected nothing below warn, got %q", buf.String())
	}

	log.Warn("shown")
	if buf.Len() == 0 {
		t.Error("expected warn output")
	}
}

func TestJSONLogger_QuietDropsEverything(t *testing.T) {
	var buf bytes.Buffer
	log := NewJSON(ports.LevelQuiet, &buf)
	log.Error("dropped")
	if buf.Len() != 0 {
		t.Errorf("expected no output in quiet mode, got %q", buf.String())
	}
}
