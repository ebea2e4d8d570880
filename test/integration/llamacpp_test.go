//go:build integration

package integration

import (
	"context"
	"testing"

	"github.com/pulsebit/pulsebot/pkg/llamacpp"
	"github.com/pulsebit/pulsebot/test"
)

func TestLlamaEmbedder(t *testing.T) {
	modelPath := test.GetEmbedModelPath(t)

	embedder, err := llamacpp.NewLlamaEmbedder(modelPath)
	if err != nil {
		t.Fatalf("failed to create embedder: %v", err)
	}
	defer embedder.Free()

	vec, err := embedder.Embed(context.Background(), "deep sleep was 92 minutes last night")
	if err != nil {
		t.Fatalf("embed failed: %v", err)
	}

	if len(vec) == 0 {
		t.Fatal("generated vector is empty")
	}

	t.Logf("vector dimensions: %d", len(vec))

	// Sanity check: ensure not all zeros
	allZeros := true
	for _, v := range vec {
		if v != 0 {
			allZeros = false
			break
		}
	}
	if allZeros {
		t.Fatal("vector contains all zeros")
	}
}
