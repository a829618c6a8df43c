// Package scheduler periodically copies the remote collections into the
// local store so the fallback mirror stays warm even when no writes pass
// through the data layer.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/user/streamflix-go/internal/catalog"
	"github.com/user/streamflix-go/internal/config"
	"github.com/user/streamflix-go/internal/store"
)

// Collection paths refreshed on every cycle
var mirroredCollections = []string{
	catalog.PathMovies,
	catalog.PathRequests,
	catalog.PathGuides,
	catalog.PathLegal,
}

// Singleton paths refreshed on every cycle
var mirroredSingletons = []string{
	catalog.PathCategories,
	catalog.PathNavigation,
}

// Scheduler runs the periodic remote-to-local mirror refresh
type Scheduler struct {
	remote store.Store
	local  store.Store
	config *config.MirrorConfig
	mu     sync.Mutex // prevents overlapping refresh runs
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewScheduler creates a mirror scheduler. remote may be nil, in which
// case Start is a no-op.
func NewScheduler(remote, local store.Store, cfg *config.MirrorConfig) *Scheduler {
	return &Scheduler{
		remote: remote,
		local:  local,
		config: cfg,
		stopCh: make(chan struct{}),
	}
}

// Start begins the periodic refresh with a short initial delay
func (s *Scheduler) Start(ctx context.Context) {
	if !s.config.Enabled || s.remote == nil {
		log.Info().Msg("Mirror scheduler is disabled")
		return
	}

	s.wg.Add(1)
	go s.run(ctx)
}

func (s *Scheduler) run(ctx context.Context) {
	defer s.wg.Done()

	initialDelay := 5 * time.Second
	log.Info().Dur("delay", initialDelay).Msg("Mirror scheduler starting with initial delay")

	select {
	case <-time.After(initialDelay):
		s.refresh(ctx)
	case <-s.stopCh:
		return
	case <-ctx.Done():
		return
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	log.Info().Dur("interval", s.config.Interval).Msg("Mirror scheduler started periodic refresh")

	for {
		select {
		case <-ticker.C:
			s.refresh(ctx)
		case <-s.stopCh:
			log.Info().Msg("Mirror scheduler stopped")
			return
		case <-ctx.Done():
			log.Info().Msg("Mirror scheduler context cancelled")
			return
		}
	}
}

// refresh copies every mirrored path remote-to-local once
func (s *Scheduler) refresh(ctx context.Context) {
	if !s.mu.TryLock() {
		log.Debug().Msg("Mirror refresh already running, skipping")
		return
	}
	defer s.mu.Unlock()

	start := time.Now()
	var copied, failed int

	for _, prefix := range mirroredCollections {
		records, err := s.remote.List(ctx, prefix)
		if err != nil {
			log.Warn().Err(err).Str("path", prefix).Msg("Mirror refresh: remote list failed")
			failed++
			continue
		}
		for _, rec := range records {
			if err := s.local.Set(ctx, rec.Path, rec.Value); err != nil {
				failed++
				continue
			}
			copied++
		}
	}

	for _, p := range mirroredSingletons {
		raw, err := s.remote.Get(ctx, p)
		if err != nil {
			continue // absent singletons are a valid state
		}
		if err := s.local.Set(ctx, p, raw); err != nil {
			failed++
			continue
		}
		copied++
	}

	log.Info().
		Int("copied", copied).
		Int("failed", failed).
		Dur("took", time.Since(start)).
		Msg("Mirror refresh completed")
}

// Stop halts the periodic refresh and waits for an in-flight run
func (s *Scheduler) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}
