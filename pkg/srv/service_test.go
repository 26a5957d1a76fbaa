package srv

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingService struct {
	name  string
	start func(ctx context.Context) error
	mu    *sync.Mutex
	order *[]string
}

func (r *recordingService) Start(ctx context.Context) error {
	return r.start(ctx)
}

func (r *recordingService) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	*r.order = append(*r.order, r.name)
	return nil
}

func TestRun_FinishedServiceStopsTheRest(t *testing.T) {
	var mu sync.Mutex
	var order []string

	blocking := &recordingService{name: "db", mu: &mu, order: &order, start: func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	}}
	oneShot := &recordingService{name: "repl", mu: &mu, order: &order, start: func(ctx context.Context) error {
		return nil
	}}

	done := make(chan error, 1)
	go func() { done <- Run(context.Background(), []Service{blocking, oneShot}) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after the one-shot service finished")
	}

	assert.Equal(t, []string{"repl", "db"}, order)
}

func TestRun_PropagatesStartError(t *testing.T) {
	var mu sync.Mutex
	var order []string
	boom := errors.New("boom")

	failing := &recordingService{name: "bad", mu: &mu, order: &order, start: func(ctx context.Context) error {
		return boom
	}}

	err := Run(context.Background(), []Service{failing, NewCleanup(nil)})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"bad"}, order)
}

func TestCleanup_RunsOnShutdown(t *testing.T) {
	called := false
	svc := NewCleanup(func() error {
		called = true
		return nil
	})

	require.NoError(t, svc.Shutdown(context.Background()))
	assert.True(t, called)
}
