package srv

import (
	"context"
	"time"

	"github.com/sandevgo/sentinel/pkg/log"
)

const shutdownTimeout = 10 * time.Second

// Service is a long-running component owned by the start command.
type Service interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// Run starts every service in its own goroutine, blocks until ctx is done or
// a service fails to start, then shuts all of them down in reverse order.
func Run(ctx context.Context, services []Service) error {
	logger := log.FromCtx(ctx)
	failed := make(chan error, len(services))

	for _, service := range services {
		go func(service Service) {
			if err := service.Start(ctx); err != nil {
				logger.Error().Err(err).Msgf("%T failed to start", service)
				failed <- err
			}
		}(service)
	}

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-failed:
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	for i := len(services) - 1; i >= 0; i-- {
		if err := services[i].Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msgf("%T failed to shutdown", services[i])
		}
	}
	return runErr
}
