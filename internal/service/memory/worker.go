package memory

import (
	"context"
	"sync/atomic"

	"github.com/telmii/telmii/internal/core"
	"github.com/telmii/telmii/pkg/log"
)

const DefaultStoreQueueSize = 64

type storeJob struct {
	ctx  context.Context
	text string
	key  core.CompanionKey
}

// StoreWorker writes long-term memories off the chat turn's critical path.
type StoreWorker struct {
	recall *Recall
	jobs   chan storeJob

	stored atomic.Int64
	failed atomic.Int64
}

func NewStoreWorker(recall *Recall, queueSize int) *StoreWorker {
	if queueSize <= 0 {
		queueSize = DefaultStoreQueueSize
	}
	return &StoreWorker{
		recall: recall,
		jobs:   make(chan storeJob, queueSize),
	}
}

// Enqueue schedules text for storage. It never blocks; a full queue drops the job.
func (w *StoreWorker) Enqueue(ctx context.Context, text string, key core.CompanionKey) bool {
	select {
	case w.jobs <- storeJob{ctx: context.WithoutCancel(ctx), text: text, key: key}:
		return true
	default:
		log.FromCtx(ctx).Warn().Str("companion", key.CompanionName).Msg("memory store queue full, dropping memory")
		return false
	}
}

func (w *StoreWorker) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx).With().Str("component", "memory_store_worker").Logger()
	logger.Info().Msg("starting memory store worker")

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("shutting down memory store worker")
			return nil
		case job := <-w.jobs:
			w.process(job)
		}
	}
}

// Shutdown flushes whatever is still queued and logs the totals.
func (w *StoreWorker) Shutdown(ctx context.Context) error {
	defer func() {
		stored, failed := w.Stats()
		log.FromCtx(ctx).Info().
			Str("component", "memory_store_worker").
			Int64("stored", stored).
			Int64("failed", failed).
			Msg("memory store worker stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case job := <-w.jobs:
			w.process(job)
		default:
			return nil
		}
	}
}

// Stats returns how many memories were stored and how many failed.
func (w *StoreWorker) Stats() (stored, failed int64) {
	return w.stored.Load(), w.failed.Load()
}

func (w *StoreWorker) process(job storeJob) {
	if w.recall.Store(job.ctx, job.text, job.key) {
		w.stored.Add(1)
	} else {
		w.failed.Add(1)
	}
}
