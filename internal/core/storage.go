package core

import "context"

// SortedSet is the score-ordered associative store backing short-term history.
type SortedSet interface {
	Add(ctx context.Context, key string, score float64, member string) error
	RangeByScore(ctx context.Context, key string, min, max float64) ([]string, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
}

type VectorRecord struct {
	ID       string
	Content  string
	Vector   []float32
	Metadata map[string]string
}

type VectorMatch struct {
	ID         string
	Content    string
	Metadata   map[string]string
	Similarity float32
}

// VectorIndex is the long-term memory backend. Filters are metadata equality matches.
type VectorIndex interface {
	Upsert(ctx context.Context, rec VectorRecord) error
	Query(ctx context.Context, vector []float32, topK int, filter map[string]string) ([]VectorMatch, error)
	DeleteWhere(ctx context.Context, filter map[string]string) error
	Count() int
}
