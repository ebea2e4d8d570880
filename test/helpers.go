package test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// EmbedModelPath points at a tiny GGUF kept next to the integration tests.
// Any sentence-embedding model works, the assertions only look at vector
// shape.
const EmbedModelPath = "./models/stsb-bert-tiny-i1.gguf"

// GetEmbedModelPath returns the embedding model for integration tests and
// skips the calling test when none is available.
func GetEmbedModelPath(t *testing.T) string {
	path := os.Getenv("PULSE_TEST_EMBED_MODEL")
	if path == "" {
		_, filename, _, _ := runtime.Caller(0)
		path = filepath.Join(filepath.Dir(filename), EmbedModelPath)
	}

	if _, err := os.Stat(path); err != nil {
		t.Skipf("model not found at %s: %v", path, err)
	}
	return path
}
