package memory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pulsebit/pulsebot/internal/config"
	"github.com/pulsebit/pulsebot/internal/core"
	"github.com/pulsebit/pulsebot/internal/providers/embed"
	"github.com/pulsebit/pulsebot/pkg/log"
)

const (
	maxRecordedQuery = 200
	maxRecordedReply = 500
)

type Episodic struct {
	episodes core.EpisodeRepository
	embedder core.Embedder
	chunker  embed.ChunkerConfig
}

func NewEpisodic(cfg *config.EmbeddingConfig, episodes core.EpisodeRepository, embedder core.Embedder) *Episodic {
	return &Episodic{
		episodes: episodes,
		embedder: embedder,
		chunker:  embed.NewChunkerConfig(cfg),
	}
}

// Record persists one answered exchange. The query and reply are truncated
// to keep entries summary-sized, then chunked and embedded. Duplicate
// entries are dropped silently so replays do not pollute recall.
func (e *Episodic) Record(ctx context.Context, threadID, query, reply string) error {
	text := formatExchange(query, reply)

	chunks := embed.ChunkText(text, e.chunker)
	for _, chunk := range chunks {
		vec, err := e.embedder.Embed(ctx, chunk.Text)
		if err != nil {
			return fmt.Errorf("embed chunk %d: %w", chunk.Index, err)
		}

		err = e.episodes.AppendEpisode(ctx, core.EpisodicEntry{
			ThreadID:  threadID,
			Text:      chunk.Text,
			Embedding: vec,
			CreatedAt: time.Now(),
		})
		if err != nil {
			if isDuplicateError(err) {
				log.FromCtx(ctx).Debug().Str("thread_id", threadID).Msg("skipping duplicate episode")
				continue
			}
			return fmt.Errorf("append episode: %w", err)
		}
	}

	return nil
}

func (e *Episodic) Search(ctx context.Context, text string, k int) ([]core.EpisodicEntry, error) {
	vec, err := e.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	return e.episodes.SearchEpisodes(ctx, vec, k)
}

func (e *Episodic) Recent(ctx context.Context, threadID string, n int) ([]core.EpisodicEntry, error) {
	return e.episodes.RecentEpisodes(ctx, threadID, n)
}

func formatExchange(query, reply string) string {
	q := truncateRunes(query, maxRecordedQuery)
	r := reply
	if len([]rune(reply)) > maxRecordedReply {
		r = truncateRunes(reply, maxRecordedReply) + "..."
	}
	return fmt.Sprintf("User asked about: %s\nOutcome: %s", q, r)
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") ||
		strings.Contains(msg, "constraint failed")
}
