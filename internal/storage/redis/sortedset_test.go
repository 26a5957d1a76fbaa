package redis

import (
	"context"
	"math"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSet(t *testing.T) (*SortedSet, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSortedSet(client, "test"), mr
}

func TestSortedSet_AddAndRange(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestSet(t)

	require.NoError(t, s.Add(ctx, "h", 30, "c"))
	require.NoError(t, s.Add(ctx, "h", 10, "a"))
	require.NoError(t, s.Add(ctx, "h", 20, "b"))

	all, err := s.RangeByScore(ctx, "h", math.Inf(-1), math.Inf(1))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, all)

	some, err := s.RangeByScore(ctx, "h", 15, 30)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, some)

	assert.True(t, mr.Exists("test:h"), "prefix must be applied")
}

func TestSortedSet_ExistsAndDelete(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSet(t)

	ok, err := s.Exists(ctx, "h")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Add(ctx, "h", 1, "x"))
	ok, err = s.Exists(ctx, "h")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.Delete(ctx, "h"))
	ok, err = s.Exists(ctx, "h")
	require.NoError(t, err)
	assert.False(t, ok)

	all, err := s.RangeByScore(ctx, "h", math.Inf(-1), math.Inf(1))
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSortedSet_StoreError(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestSet(t)
	mr.Close()

	err := s.Add(ctx, "h", 1, "x")
	assert.Error(t, err)
}

func TestFormatScore(t *testing.T) {
	assert.Equal(t, "-inf", formatScore(math.Inf(-1)))
	assert.Equal(t, "+inf", formatScore(math.Inf(1)))
	assert.Equal(t, "1700000000000", formatScore(1700000000000))
	assert.Equal(t, "1.5", formatScore(1.5))
}
