package srv

import (
	"context"
	"errors"

	"github.com/telmii/telmii/pkg/log"
	"golang.org/x/sync/errgroup"
)

type Service interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// Run starts every service and blocks until the context is cancelled or one
// of them returns. A service returning nil (e.g. an interactive session that
// ended) cancels the rest. Shutdown runs for every service in reverse order.
func Run(ctx context.Context, services []Service) error {
	logger := log.FromCtx(ctx)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(runCtx)
	for _, service := range services {
		g.Go(func() error {
			defer cancel()
			if err := service.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error().Err(err).Msgf("%T failed", service)
				return err
			}
			return nil
		})
	}

	err := g.Wait()
	Shutdown(context.WithoutCancel(ctx), services)
	return err
}

func Shutdown(ctx context.Context, services []Service) {
	for i := len(services) - 1; i >= 0; i-- {
		if err := services[i].Shutdown(ctx); err != nil {
			log.FromCtx(ctx).Error().Err(err).Msgf("%T failed to shutdown", services[i])
		}
	}
}
