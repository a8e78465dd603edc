package retention

import (
	"context"
	"time"

	"github.com/sandevgo/tunebot/pkg/log"
)

const sweepInterval = 24 * time.Hour

// Sweeper deletes conversation threads that have been idle past the
// retention window. It runs once at startup and then daily.
type Sweeper struct {
	store  ThreadSweeper
	maxAge time.Duration
	done   chan struct{}
}

type ThreadSweeper interface {
	Sweep(ctx context.Context, maxAge time.Duration) (int, error)
}

func NewSweeper(store ThreadSweeper, retentionDays int) *Sweeper {
	return &Sweeper{
		store:  store,
		maxAge: time.Duration(retentionDays) * 24 * time.Hour,
		done:   make(chan struct{}),
	}
}

func (s *Sweeper) Start(ctx context.Context) error {
	s.sweep(ctx)

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.done:
			return nil
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	logger := log.FromCtx(ctx)

	removed, err := s.store.Sweep(ctx, s.maxAge)
	if err != nil {
		logger.Error().Err(err).Msg("retention sweep failed")
		return
	}
	if removed > 0 {
		logger.Info().Int("threads", removed).Msg("swept expired conversation threads")
	}
}

func (s *Sweeper) Shutdown(ctx context.Context) error {
	close(s.done)
	return nil
}
