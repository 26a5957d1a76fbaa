package memory

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/telmii/telmii/internal/core"
	"github.com/telmii/telmii/pkg/log"
)

const DefaultTopK = 3

type TokenCounter interface {
	Count(text string) int
}

// Recall is the long-term semantic memory. Every document is tagged with the
// owning user and every query is filtered by it. Failures never surface:
// they are logged and turn into empty results.
type Recall struct {
	embedder  core.Embedder
	index     core.VectorIndex
	tokens    TokenCounter
	minTokens int
	now       func() time.Time

	mu      sync.Mutex
	entropy io.Reader
}

func NewRecall(embedder core.Embedder, index core.VectorIndex, tokens TokenCounter, minTokens int) *Recall {
	return &Recall{
		embedder:  embedder,
		index:     index,
		tokens:    tokens,
		minTokens: minTokens,
		now:       time.Now,
		entropy:   ulid.Monotonic(rand.Reader, 0),
	}
}

// CompanionFileName is the fileName metadata value for a companion id.
func CompanionFileName(companionID string) string {
	return companionID + ".txt"
}

// ShouldStore reports whether text is long enough to be worth remembering.
func (r *Recall) ShouldStore(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	if r.tokens == nil || r.minTokens <= 0 {
		return true
	}
	return r.tokens.Count(text) >= r.minTokens
}

func (r *Recall) Store(ctx context.Context, text string, key core.CompanionKey) bool {
	logger := log.FromCtx(ctx)
	if !key.Valid() {
		logger.Warn().Str("companion", key.CompanionName).Msg("companion key set incorrectly, memory not stored")
		return false
	}
	if strings.TrimSpace(text) == "" {
		return false
	}

	vec, err := r.embedder.Embed(ctx, text)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to embed memory")
		return false
	}

	now := r.now()
	rec := core.VectorRecord{
		ID:      r.newID(now),
		Content: text,
		Vector:  vec,
		Metadata: map[string]string{
			core.MetaFileName:  CompanionFileName(key.CompanionName),
			core.MetaUserID:    key.UserID,
			core.MetaModelName: key.ModelName,
			core.MetaTimestamp: now.UTC().Format(time.RFC3339Nano),
		},
	}

	if err := r.index.Upsert(ctx, rec); err != nil {
		logger.Error().Err(err).Str("id", rec.ID).Msg("failed to store memory")
		return false
	}
	return true
}

// Search returns up to topK documents for one companion and one user, most similar first.
func (r *Recall) Search(ctx context.Context, query, companionFileName, userID string, topK int) []core.MemoryDocument {
	logger := log.FromCtx(ctx)
	if companionFileName == "" || userID == "" {
		logger.Warn().Msg("vector search needs both companion and user, skipping")
		return []core.MemoryDocument{}
	}
	if strings.TrimSpace(query) == "" {
		return []core.MemoryDocument{}
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to embed query for vector search")
		return []core.MemoryDocument{}
	}

	matches, err := r.index.Query(ctx, vec, topK, map[string]string{
		core.MetaFileName: companionFileName,
		core.MetaUserID:   userID,
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to get vector search results")
		return []core.MemoryDocument{}
	}

	docs := make([]core.MemoryDocument, 0, len(matches))
	for _, m := range matches {
		// The index filter is trusted but not relied on for privacy
		if m.Metadata[core.MetaUserID] != userID {
			logger.Error().Str("id", m.ID).Msg("vector index returned a document for another user, dropped")
			continue
		}
		docs = append(docs, toDocument(m))
	}
	return docs
}

// Forget removes every long-term memory of userID with one companion.
func (r *Recall) Forget(ctx context.Context, companionFileName, userID string) error {
	if companionFileName == "" || userID == "" {
		return core.ErrInvalidKey
	}
	if err := r.index.DeleteWhere(ctx, map[string]string{
		core.MetaFileName: companionFileName,
		core.MetaUserID:   userID,
	}); err != nil {
		return fmt.Errorf("forget memories: %w", err)
	}
	return nil
}

func (r *Recall) newID(at time.Time) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(at), r.entropy).String()
}

func toDocument(m core.VectorMatch) core.MemoryDocument {
	ts, _ := time.Parse(time.RFC3339Nano, m.Metadata[core.MetaTimestamp])
	return core.MemoryDocument{
		ID:          m.ID,
		PageContent: m.Content,
		Metadata: core.MemoryMetadata{
			FileName:  m.Metadata[core.MetaFileName],
			UserID:    m.Metadata[core.MetaUserID],
			ModelName: m.Metadata[core.MetaModelName],
			Timestamp: ts,
		},
		Score: m.Similarity,
	}
}
