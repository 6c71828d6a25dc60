package services

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const defaultBackgroundTimeout = 10 * time.Second

// Background runs fire-and-forget work on behalf of a request. Failures are logged
// and never reach the caller. Drain waits for in-flight work during shutdown.
type Background struct {
	logger  zerolog.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewBackground(timeout time.Duration) *Background {
	if timeout <= 0 {
		timeout = defaultBackgroundTimeout
	}
	return &Background{
		logger:  log.With().Str("service", "background").Logger(),
		timeout: timeout,
	}
}

// Go runs fn in its own goroutine with a fresh context bounded by the runner's timeout
func (b *Background) Go(name string, fn func(ctx context.Context) error) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				b.logger.Error().Str("task", name).Interface("panic", r).Msg("Recovered from panic in background task")
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			b.logger.Warn().Err(err).Str("task", name).Msg("Background task failed")
		}
	}()
}

// Drain blocks until all started tasks finish or ctx is done
func (b *Background) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
