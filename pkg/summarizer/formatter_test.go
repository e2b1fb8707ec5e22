package summarizer

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func TestYAMLFormatter_Sequence(t *testing.T) {
	s := NewBuilder("/shots/shot01.%04d.png").
		WithStream(48, 24, 640, 480).
		WithSequence(1001, 1048).
		Build()

	out := YAMLFormatter().Format(s)

	var doc map[string]interface{}
	if err := yaml.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, out)
	}
	src := doc["source"].(map[string]interface{})
	if src["kind"] != "sequence" {
		t.Errorf("expected kind sequence, got %v", src["kind"])
	}
	seq, ok := doc["sequence"].(map[string]interface{})
	if !ok || seq["first_frame"] != 1001 || seq["last_frame"] != 1048 {
		t.Errorf("unexpected sequence block %v", doc["sequence"])
	}
	if doc["duration_seconds"] != 2.0 {
		t.Errorf("expected 2 seconds, got %v", doc["duration_seconds"])
	}
	if _, ok := doc["audio"]; ok {
		t.Error("empty audio block should be omitted")
	}
}

func TestFormatterFor(t *testing.T) {
	for _, name := range []string{"", "markdown", "md", "yaml", "yml"} {
		if _, err := FormatterFor(name); err != nil {
			t.Errorf("FormatterFor(%q): %v", name, err)
		}
	}
	if _, err := FormatterFor("xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}
