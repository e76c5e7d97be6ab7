package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteTextfile(t *testing.T) {
	RendersTotal.WithLabelValues(OutcomeOK).Inc()
	SamplesGeneratedTotal.Add(2048)

	path := filepath.Join(t.TempDir(), "tonegen.prom")
	if err := WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{
		"tonegen_renders_total",
		"tonegen_samples_generated_total",
		"tonegen_active_renders",
	} {
		if !strings.Contains(string(data), name) {
			t.Errorf("expected %s in textfile output", name)
		}
	}
}
