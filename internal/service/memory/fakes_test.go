package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/telmii/telmii/internal/core"
)

type zmember struct {
	score  float64
	member string
}

// fakeSortedSet mirrors Redis ordering: score, then member bytes.
type fakeSortedSet struct {
	mu   sync.Mutex
	sets map[string]map[string]float64
	err  error

	// existsOverride forces Exists to report false, as two racing first turns would observe
	existsOverride bool
}

func newFakeSortedSet() *fakeSortedSet {
	return &fakeSortedSet{sets: make(map[string]map[string]float64)}
}

func (f *fakeSortedSet) Add(_ context.Context, key string, score float64, member string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.sets[key] == nil {
		f.sets[key] = make(map[string]float64)
	}
	f.sets[key][member] = score
	return nil
}

func (f *fakeSortedSet) RangeByScore(_ context.Context, key string, min, max float64) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var all []zmember
	for m, s := range f.sets[key] {
		if s >= min && s <= max {
			all = append(all, zmember{score: s, member: m})
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].score != all[j].score {
			return all[i].score < all[j].score
		}
		return all[i].member < all[j].member
	})
	out := make([]string, len(all))
	for i, z := range all {
		out[i] = z.member
	}
	return out, nil
}

func (f *fakeSortedSet) Exists(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	if f.existsOverride {
		return false, nil
	}
	return len(f.sets[key]) > 0, nil
}

func (f *fakeSortedSet) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	delete(f.sets, key)
	return nil
}

func (f *fakeSortedSet) keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.sets))
	for k := range f.sets {
		out = append(out, k)
	}
	return out
}

type fakeEmbedder struct {
	err   error
	calls []string
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.calls = append(f.calls, text)
	if f.err != nil {
		return nil, f.err
	}
	return []float32{float32(len(text)), 1}, nil
}

// fakeIndex records calls. With leaky set it ignores the userId filter, to
// prove the recall layer filters on its own.
type fakeIndex struct {
	records   []core.VectorRecord
	lastTopK  int
	lastQuery map[string]string
	deleted   []map[string]string
	leaky     bool

	upsertErr error
	queryErr  error
	deleteErr error
}

func (f *fakeIndex) Upsert(_ context.Context, rec core.VectorRecord) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.records = append(f.records, rec)
	return nil
}

func (f *fakeIndex) Query(_ context.Context, _ []float32, topK int, filter map[string]string) ([]core.VectorMatch, error) {
	f.lastTopK = topK
	f.lastQuery = filter
	if f.queryErr != nil {
		return nil, f.queryErr
	}

	var out []core.VectorMatch
	for _, r := range f.records {
		if r.Metadata[core.MetaFileName] != filter[core.MetaFileName] {
			continue
		}
		if !f.leaky && r.Metadata[core.MetaUserID] != filter[core.MetaUserID] {
			continue
		}
		out = append(out, core.VectorMatch{ID: r.ID, Content: r.Content, Metadata: r.Metadata, Similarity: 0.5})
		if len(out) == topK {
			break
		}
	}
	return out, nil
}

func (f *fakeIndex) DeleteWhere(_ context.Context, filter map[string]string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, filter)
	kept := f.records[:0]
	for _, r := range f.records {
		match := true
		for k, v := range filter {
			if r.Metadata[k] != v {
				match = false
			}
		}
		if !match {
			kept = append(kept, r)
		}
	}
	f.records = kept
	return nil
}

func (f *fakeIndex) Count() int { return len(f.records) }

type wordCounter struct{}

func (wordCounter) Count(text string) int {
	n := 0
	inWord := false
	for _, r := range text {
		if r == ' ' || r == '\n' || r == '\t' {
			inWord = false
			continue
		}
		if !inWord {
			n++
			inWord = true
		}
	}
	return n
}

var errStoreDown = errors.New("store down")
