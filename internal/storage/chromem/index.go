package chromem

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/philippgille/chromem-go"
	"github.com/telmii/telmii/internal/core"
)

var errNoEmbeddingFunc = errors.New("vectors must be embedded before they reach the index")

// Index keeps long-term memories in a single chromem collection and scopes
// every query with metadata where-filters.
type Index struct {
	db         *chromem.DB
	collection *chromem.Collection
}

// NewIndex opens a persistent index when persistPath is set, in-memory otherwise.
func NewIndex(persistPath, collection string, compress bool) (*Index, error) {
	var (
		db  *chromem.DB
		err error
	)
	if persistPath == "" {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(persistPath, compress)
		if err != nil {
			return nil, fmt.Errorf("create persistent DB: %w", err)
		}
	}

	col, err := db.GetOrCreateCollection(collection, nil, refuseEmbedding)
	if err != nil {
		return nil, fmt.Errorf("get or create collection: %w", err)
	}

	return &Index{db: db, collection: col}, nil
}

func (i *Index) Upsert(ctx context.Context, rec core.VectorRecord) error {
	if rec.ID == "" {
		return errors.New("vector record has no id")
	}
	if len(rec.Vector) == 0 {
		return errors.New("vector record has no embedding")
	}
	if !usableVector(rec.Vector) {
		return errors.New("vector record embedding is zero or not finite")
	}

	doc := chromem.Document{
		ID:        rec.ID,
		Content:   rec.Content,
		Embedding: rec.Vector,
		Metadata:  rec.Metadata,
	}
	if err := i.collection.AddDocument(ctx, doc); err != nil {
		return fmt.Errorf("add document: %w", err)
	}
	return nil
}

func (i *Index) Query(ctx context.Context, vector []float32, topK int, filter map[string]string) ([]core.VectorMatch, error) {
	if topK <= 0 {
		return nil, nil
	}

	count := i.collection.Count()
	if count == 0 {
		return nil, nil
	}

	// chromem rejects nResults above the collection size and clamps to the filtered count itself
	results, err := i.collection.QueryEmbedding(ctx, vector, min(topK, count), filter, nil)
	if err != nil {
		return nil, fmt.Errorf("query collection: %w", err)
	}

	matches := make([]core.VectorMatch, 0, len(results))
	for _, r := range results {
		matches = append(matches, core.VectorMatch{
			ID:         r.ID,
			Content:    r.Content,
			Metadata:   r.Metadata,
			Similarity: r.Similarity,
		})
	}
	return matches, nil
}

func (i *Index) DeleteWhere(ctx context.Context, filter map[string]string) error {
	if len(filter) == 0 {
		return errors.New("refusing to delete without a filter")
	}
	if err := i.collection.Delete(ctx, filter, nil); err != nil {
		return fmt.Errorf("delete documents: %w", err)
	}
	return nil
}

func (i *Index) Count() int {
	return i.collection.Count()
}

func refuseEmbedding(context.Context, string) ([]float32, error) {
	return nil, errNoEmbeddingFunc
}

// usableVector is false for all-zero vectors and any NaN or Inf component,
// which would score NaN against every query.
func usableVector(v []float32) bool {
	nonZero := false
	for _, x := range v {
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
		if x != 0 {
			nonZero = true
		}
	}
	return nonZero
}
