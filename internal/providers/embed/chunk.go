package embed

import (
	"strings"
	"sync"
	"unicode"

	"github.com/pkoukk/tiktoken-go"

	"github.com/pulsebit/pulsebot/internal/config"
)

var (
	tk     *tiktoken.Tiktoken
	tkOnce sync.Once
)

type Chunk struct {
	Text      string
	TokenSize int
	Index     int
}

type ChunkerConfig struct {
	MaxTokens     int
	OverlapTokens int
}

func NewChunkerConfig(cfg *config.EmbeddingConfig) ChunkerConfig {
	return ChunkerConfig{
		MaxTokens:     cfg.ChunkMaxTokens,
		OverlapTokens: cfg.ChunkOverlap,
	}
}

// ChunkText splits text into chunks that fit the embedding model context,
// preferring sentence boundaries and carrying a token overlap between
// neighboring chunks.
func ChunkText(text string, cfg ChunkerConfig) []Chunk {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	sentences := splitSentences(text)

	var chunks []Chunk
	var current strings.Builder
	currentTokens := 0
	chunkIndex := 0

	for i, sentence := range sentences {
		sentenceTokens := CountTokens(sentence)

		// A sentence larger than the limit gets sliced at token level.
		if sentenceTokens > cfg.MaxTokens {
			if current.Len() > 0 {
				chunks = append(chunks, Chunk{
					Text:      strings.TrimSpace(current.String()),
					TokenSize: currentTokens,
					Index:     chunkIndex,
				})
				chunkIndex++
				current.Reset()
				currentTokens = 0
			}

			for _, sc := range chunkLongText(sentence, cfg.MaxTokens) {
				chunks = append(chunks, Chunk{
					Text:      strings.TrimSpace(sc.Text),
					TokenSize: sc.TokenSize,
					Index:     chunkIndex,
				})
				chunkIndex++
			}
			continue
		}

		// Flush when the next sentence would not fit, seeding the new
		// chunk with trailing sentences as overlap.
		if currentTokens+sentenceTokens > cfg.MaxTokens && current.Len() > 0 {
			chunks = append(chunks, Chunk{
				Text:      strings.TrimSpace(current.String()),
				TokenSize: currentTokens,
				Index:     chunkIndex,
			})
			chunkIndex++

			overlap := overlapFromSentences(sentences, i, cfg.OverlapTokens)
			current.Reset()
			current.WriteString(overlap)
			currentTokens = CountTokens(overlap)
		}

		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(sentence)
		currentTokens += sentenceTokens
	}

	if current.Len() > 0 {
		chunks = append(chunks, Chunk{
			Text:      strings.TrimSpace(current.String()),
			TokenSize: currentTokens,
			Index:     chunkIndex,
		})
	}

	return chunks
}

// chunkLongText splits by encoding to tokens and slicing the array.
func chunkLongText(text string, maxTokens int) []Chunk {
	enc := tokenizer()
	tokens := enc.Encode(text, nil, nil)

	var chunks []Chunk
	numTokens := len(tokens)

	for i := 0; i < numTokens; i += maxTokens {
		end := i + maxTokens
		if end > numTokens {
			end = numTokens
		}

		part := tokens[i:end]
		chunks = append(chunks, Chunk{
			Text:      enc.Decode(part),
			TokenSize: len(part),
		})
	}

	return chunks
}

func splitSentences(text string) []string {
	paragraphs := splitParagraphs(text)

	// Sentence terminators across scripts.
	enders := map[rune]bool{
		'.': true, '!': true, '?': true,
		'。': true, '！': true, '？': true, '．': true, '…': true,
	}

	var sentences []string

	for _, para := range paragraphs {
		var current strings.Builder
		runes := []rune(para)

		for i, r := range runes {
			current.WriteRune(r)

			if enders[r] {
				// Only cut when followed by whitespace, end of text or a
				// CJK rune, so "85.3" and "e.g." stay intact.
				if i+1 >= len(runes) || unicode.IsSpace(runes[i+1]) || isCJK(runes[i+1]) {
					if s := strings.TrimSpace(current.String()); s != "" {
						sentences = append(sentences, s)
					}
					current.Reset()
				}
			}
		}

		if s := strings.TrimSpace(current.String()); s != "" {
			sentences = append(sentences, s)
		}
	}

	if len(sentences) == 0 && text != "" {
		return []string{text}
	}

	return sentences
}

func splitParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	parts := strings.Split(text, "\n\n")

	var result []string
	for _, p := range parts {
		// Single newlines inside a paragraph are soft wraps.
		p = strings.ReplaceAll(p, "\n", " ")
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

func tokenizer() *tiktoken.Tiktoken {
	tkOnce.Do(func() {
		var err error
		tk, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			panic("failed to load tiktoken: " + err.Error())
		}
	})
	return tk
}

// CountTokens reports the cl100k_base token count of text. The working
// memory budget and the chunker share this count so their limits agree.
func CountTokens(text string) int {
	if text == "" {
		return 0
	}
	return len(tokenizer().Encode(text, nil, nil))
}

func overlapFromSentences(sentences []string, currentIdx int, targetTokens int) string {
	if currentIdx == 0 {
		return ""
	}

	var overlap []string
	tokens := 0

	for i := currentIdx - 1; i >= 0 && tokens < targetTokens; i-- {
		overlap = append([]string{sentences[i]}, overlap...)
		tokens += CountTokens(sentences[i])
	}

	return strings.Join(overlap, " ")
}

func isCJK(r rune) bool {
	return unicode.Is(unicode.Han, r) ||
		unicode.Is(unicode.Hiragana, r) ||
		unicode.Is(unicode.Katakana, r) ||
		unicode.Is(unicode.Hangul, r)
}
