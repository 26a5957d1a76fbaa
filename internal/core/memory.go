package core

import "context"

// Memory is what a chat turn needs from the memory layer.
type Memory interface {
	WriteToHistory(ctx context.Context, text string, key CompanionKey) (bool, error)
	ReadLatestHistory(ctx context.Context, key CompanionKey) (string, error)
	SeedChatHistory(ctx context.Context, seed, delimiter string, key CompanionKey) error
	ClearUserMemories(ctx context.Context, key CompanionKey) error
	VectorSearch(ctx context.Context, query, companionFileName, userID string) []MemoryDocument
	StoreMemory(ctx context.Context, text string, key CompanionKey) bool
}

// Metadata keys written on every long-term memory document.
const (
	MetaFileName  = "fileName"
	MetaUserID    = "userId"
	MetaModelName = "modelName"
	MetaTimestamp = "timestamp"
)
