package memory

import (
	"context"

	"github.com/telmii/telmii/internal/core"
	"github.com/telmii/telmii/pkg/log"
)

var _ core.Memory = (*Manager)(nil)

// Manager is the memory facade a chat turn talks to. It is constructed once
// per process with its stores injected.
type Manager struct {
	history *History
	recall  *Recall
	window  int
	topK    int
}

func NewManager(history *History, recall *Recall, window, topK int) *Manager {
	if window <= 0 {
		window = DefaultWindow
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Manager{
		history: history,
		recall:  recall,
		window:  window,
		topK:    topK,
	}
}

func (m *Manager) WriteToHistory(ctx context.Context, text string, key core.CompanionKey) (bool, error) {
	return m.history.Write(ctx, text, key)
}

func (m *Manager) ReadLatestHistory(ctx context.Context, key core.CompanionKey) (string, error) {
	return m.history.ReadRecent(ctx, key, m.window)
}

func (m *Manager) SeedChatHistory(ctx context.Context, seed, delimiter string, key core.CompanionKey) error {
	return m.history.SeedIfEmpty(ctx, seed, delimiter, key)
}

// ClearUserMemories drops the transcript and, best effort, the long-term
// memories of the key's user with this companion.
func (m *Manager) ClearUserMemories(ctx context.Context, key core.CompanionKey) error {
	if err := m.history.Clear(ctx, key); err != nil {
		return err
	}
	if !key.Valid() {
		return nil
	}
	if err := m.recall.Forget(ctx, CompanionFileName(key.CompanionName), key.UserID); err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("companion", key.CompanionName).Msg("failed to purge long-term memories")
	}
	return nil
}

func (m *Manager) VectorSearch(ctx context.Context, query, companionFileName, userID string) []core.MemoryDocument {
	return m.recall.Search(ctx, query, companionFileName, userID, m.topK)
}

func (m *Manager) StoreMemory(ctx context.Context, text string, key core.CompanionKey) bool {
	return m.recall.Store(ctx, text, key)
}

// ShouldStore reports whether text clears the long-term memory threshold.
func (m *Manager) ShouldStore(text string) bool {
	return m.recall.ShouldStore(text)
}
