package sqlite

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/telmii/telmii/pkg/log"
)

func newTestSet(t *testing.T) *SortedSet {
	t.Helper()
	ctx := log.TestContext(t)

	db, err := NewDB(ctx, filepath.Join(t.TempDir(), "data", "history.db"), time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewSortedSet(db)
}

func TestSortedSet_RangeOrdersByScore(t *testing.T) {
	ctx := log.TestContext(t)
	s := newTestSet(t)

	require.NoError(t, s.Add(ctx, "k", 3, "c"))
	require.NoError(t, s.Add(ctx, "k", 1, "a"))
	require.NoError(t, s.Add(ctx, "k", 2, "b"))
	require.NoError(t, s.Add(ctx, "other", 0, "z"))

	all, err := s.RangeByScore(ctx, "k", math.Inf(-1), math.Inf(1))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, all)

	bounded, err := s.RangeByScore(ctx, "k", 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, bounded)
}

func TestSortedSet_ReAddUpdatesScore(t *testing.T) {
	ctx := log.TestContext(t)
	s := newTestSet(t)

	require.NoError(t, s.Add(ctx, "k", 1, "a"))
	require.NoError(t, s.Add(ctx, "k", 2, "b"))
	require.NoError(t, s.Add(ctx, "k", 5, "a"))

	all, err := s.RangeByScore(ctx, "k", math.Inf(-1), math.Inf(1))
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, all)
}

func TestSortedSet_ExistsAndDelete(t *testing.T) {
	ctx := log.TestContext(t)
	s := newTestSet(t)

	ok, err := s.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Add(ctx, "k", 1, "a"))
	require.NoError(t, s.Add(ctx, "keep", 1, "a"))

	ok, err = s.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.Delete(ctx, "k"))

	ok, err = s.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.Exists(ctx, "keep")
	require.NoError(t, err)
	assert.True(t, ok, "delete must only touch its own key")
}

func TestNewDB_MigrationsAreIdempotent(t *testing.T) {
	ctx := log.TestContext(t)
	path := filepath.Join(t.TempDir(), "history.db")

	db, err := NewDB(ctx, path, time.Second)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = NewDB(ctx, path, time.Second)
	require.NoError(t, err)
	require.NoError(t, db.Close())
}
