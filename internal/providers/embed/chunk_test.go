package embed

import (
	"testing"
)

func TestChunkText(t *testing.T) {
	tests := []struct {
		name           string
		text           string
		cfg            ChunkerConfig
		expectedChunks []string
	}{
		{
			name:           "Empty input",
			text:           "",
			cfg:            ChunkerConfig{MaxTokens: 400, OverlapTokens: 50},
			expectedChunks: nil,
		},
		{
			name:           "Whitespace only",
			text:           "   \n\t   ",
			cfg:            ChunkerConfig{MaxTokens: 400, OverlapTokens: 50},
			expectedChunks: nil,
		},
		{
			name: "Single sentence fits",
			text: "Sleep was short last night.",
			cfg: ChunkerConfig{
				MaxTokens:     20,
				OverlapTokens: 0,
			},
			expectedChunks: []string{"Sleep was short last night."},
		},
		{
			name: "Two sentences fit in one chunk",
			text: "Sleep was short. Readiness dropped too.",
			cfg: ChunkerConfig{
				MaxTokens:     20,
				OverlapTokens: 0,
			},
			expectedChunks: []string{"Sleep was short. Readiness dropped too."},
		},
		{
			name: "Split by sentence without overlap",
			text: "First sentence. Second sentence.",
			cfg: ChunkerConfig{
				// "First sentence." is 3 tokens: [First][ sentence][.]
				MaxTokens:     3,
				OverlapTokens: 0,
			},
			expectedChunks: []string{
				"First sentence.",
				"Second sentence.",
			},
		},
		{
			name: "Split by sentence with overlap",
			text: "Sentence one. Sentence two. Sentence three.",
			cfg: ChunkerConfig{
				// Each sentence is 3 tokens, so two fit per chunk and the
				// overlap carries one sentence over.
				MaxTokens:     6,
				OverlapTokens: 3,
			},
			expectedChunks: []string{
				"Sentence one. Sentence two.",
				"Sentence two. Sentence three.",
			},
		},
		{
			name: "Long sentence forced split",
			text: "One two three four five six.",
			cfg: ChunkerConfig{
				MaxTokens:     3,
				OverlapTokens: 0,
			},
			// Token slicing: [One][ two][ three] | [ four][ five][ six] | [.]
			expectedChunks: []string{
				"One two three",
				"four five six",
				".",
			},
		},
		{
			name: "Abbreviations survive rejoin",
			text: "Mr. Smith met Dr. Jones at the U.S.A. embassy.",
			cfg: ChunkerConfig{
				MaxTokens:     50,
				OverlapTokens: 0,
			},
			// The splitter cuts at "Mr." and "Dr." but the pieces land in
			// the same chunk and rejoin with single spaces.
			expectedChunks: []string{
				"Mr. Smith met Dr. Jones at the U.S.A. embassy.",
			},
		},
		{
			name: "CJK text",
			text: "你好世界。这是一个测试。",
			cfg: ChunkerConfig{
				MaxTokens:     20,
				OverlapTokens: 0,
			},
			expectedChunks: []string{
				"你好世界。 这是一个测试。",
			},
		},
		{
			name: "Paragraphs collapse into sentences",
			text: "Para one.\n\nPara two.",
			cfg: ChunkerConfig{
				MaxTokens:     10,
				OverlapTokens: 0,
			},
			expectedChunks: []string{
				"Para one. Para two.",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := ChunkText(tt.text, tt.cfg)

			if len(chunks) != len(tt.expectedChunks) {
				t.Errorf("Expected %d chunks, got %d", len(tt.expectedChunks), len(chunks))
				for i, c := range chunks {
					t.Logf("Chunk %d: %q (Tokens: %d)", i, c.Text, c.TokenSize)
				}
				return
			}

			for i, chunk := range chunks {
				if chunk.Text != tt.expectedChunks[i] {
					t.Errorf("Chunk %d mismatch.\nExpected: %q\nGot:      %q", i, tt.expectedChunks[i], chunk.Text)
				}
			}
		})
	}
}

func TestChunkIndexesAreSequential(t *testing.T) {
	text := "Sentence one. Sentence two. Sentence three. Sentence four."
	chunks := ChunkText(text, ChunkerConfig{MaxTokens: 6, OverlapTokens: 0})

	if len(chunks) < 2 {
		t.Fatalf("Expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("Chunk %d has index %d", i, c.Index)
		}
	}
}

func TestCountTokens(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"Hello", 1},
		{"Hello world", 2},
		// Punctuation counts: [Hello][,][ world][!] = 4
		{"Hello, world!", 4},
		{"", 0},
	}

	for _, tt := range tests {
		got := CountTokens(tt.text)
		if got != tt.want {
			t.Errorf("CountTokens(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestSplitSentences(t *testing.T) {
	text := "Sleep was short. Did you train hard? Take a rest day."
	sentences := splitSentences(text)

	expected := []string{
		"Sleep was short.",
		"Did you train hard?",
		"Take a rest day.",
	}

	if len(sentences) != len(expected) {
		t.Fatalf("Expected %d sentences, got %d", len(expected), len(sentences))
	}

	for i, s := range sentences {
		if s != expected[i] {
			t.Errorf("Sentence %d mismatch. Got %q, want %q", i, s, expected[i])
		}
	}
}

func TestSplitSentencesDecimalsIntact(t *testing.T) {
	text := "Efficiency was 92.5 percent. HRV averaged 48.1 ms."
	sentences := splitSentences(text)

	expected := []string{
		"Efficiency was 92.5 percent.",
		"HRV averaged 48.1 ms.",
	}

	if len(sentences) != len(expected) {
		t.Fatalf("Expected %d sentences, got %d: %q", len(expected), len(sentences), sentences)
	}

	for i, s := range sentences {
		if s != expected[i] {
			t.Errorf("Sentence %d mismatch. Got %q, want %q", i, s, expected[i])
		}
	}
}
