package memory

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/telmii/telmii/pkg/log"
)

func TestStoreWorker_ProcessesJobs(t *testing.T) {
	ctx, cancel := context.WithCancel(log.TestContext(t))
	defer cancel()

	idx := &fakeIndex{}
	w := NewStoreWorker(NewRecall(&fakeEmbedder{}, idx, nil, 0), 4)

	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	require.True(t, w.Enqueue(ctx, "Human: first", testKey))
	require.True(t, w.Enqueue(ctx, "Human: second", testKey))

	require.Eventually(t, func() bool {
		stored, _ := w.Stats()
		return stored == 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestStoreWorker_ShutdownFlushesQueue(t *testing.T) {
	ctx := log.TestContext(t)
	idx := &fakeIndex{}
	w := NewStoreWorker(NewRecall(&fakeEmbedder{}, idx, nil, 0), 2)

	require.True(t, w.Enqueue(ctx, "Human: one", testKey))
	require.True(t, w.Enqueue(ctx, "", testKey))
	assert.False(t, w.Enqueue(ctx, "Human: overflow", testKey), "full queue drops")

	require.NoError(t, w.Shutdown(ctx))

	stored, failed := w.Stats()
	assert.Equal(t, int64(1), stored)
	assert.Equal(t, int64(1), failed)
	require.Len(t, idx.records, 1)
	assert.Equal(t, "Human: one", idx.records[0].Content)
}

func TestStoreWorker_ShutdownLogsTotals(t *testing.T) {
	var buf bytes.Buffer
	ctx := zerolog.New(&buf).WithContext(context.Background())
	w := NewStoreWorker(NewRecall(&fakeEmbedder{}, &fakeIndex{}, nil, 0), 4)

	require.True(t, w.Enqueue(ctx, "Human: one", testKey))
	require.True(t, w.Enqueue(ctx, "Human: two", testKey))
	require.True(t, w.Enqueue(ctx, "", testKey))
	require.NoError(t, w.Shutdown(ctx))

	out := buf.String()
	assert.Contains(t, out, `"stored":2`)
	assert.Contains(t, out, `"failed":1`)
	assert.Contains(t, out, "memory store worker stopped")
}
