package app

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/five82/movieflix/internal/feed"
	"github.com/five82/movieflix/internal/logging"
	"github.com/five82/movieflix/internal/state"
)

const (
	defaultRefreshInterval = 30 * time.Minute
	retryInterval          = 15 * time.Second
	maxBackoff             = 5 * time.Minute
	loadTimeout            = 20 * time.Second
)

// Refresher reloads the home feed into a store. After a load where every
// row failed it retries with exponential backoff instead of waiting for the
// full interval.
type Refresher struct {
	store    *state.Store
	fetcher  feed.Fetcher
	interval time.Duration
	rng      *rand.Rand
	log      *zap.Logger
	trigger  chan struct{}
}

// NewRefresher builds a refresher. A non-positive interval uses the default
// of 30 minutes.
func NewRefresher(store *state.Store, fetcher feed.Fetcher, interval time.Duration, log *zap.Logger) *Refresher {
	if interval <= 0 {
		interval = defaultRefreshInterval
	}
	log = logging.OrNop(log)
	return &Refresher{
		store:    store,
		fetcher:  fetcher,
		interval: interval,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		log:      log,
		trigger:  make(chan struct{}, 1),
	}
}

// Trigger requests an immediate reload. Requests made while one is already
// pending are dropped.
func (r *Refresher) Trigger() {
	select {
	case r.trigger <- struct{}{}:
	default:
	}
}

// Start runs the refresh loop in a goroutine. The returned channel closes
// once the loop has exited after ctx is cancelled.
func (r *Refresher) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.run(ctx)
	}()
	return done
}

func (r *Refresher) run(ctx context.Context) {
	for {
		r.refresh(ctx)

		wait := r.interval
		if failures := r.store.Snapshot().ConsecutiveFailures; failures > 0 {
			wait = calculateBackoff(failures-1, retryInterval)
			r.log.Info("feed unavailable, retrying", zap.Int("failures", failures), zap.Duration("retry_in", wait))
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-r.trigger:
			timer.Stop()
		case <-timer.C:
		}
	}
}

// refresh performs one load and stores the result.
func (r *Refresher) refresh(ctx context.Context) {
	loadCtx, cancel := context.WithTimeout(ctx, loadTimeout)
	defer cancel()

	home := feed.Load(loadCtx, r.fetcher, r.rng, r.log)
	if ctx.Err() != nil {
		// Shutting down; keep the previous snapshot untouched.
		return
	}
	r.store.Update(home)
	if err := home.Err(); err != nil {
		r.log.Warn("feed refresh incomplete", zap.Error(err))
		return
	}
	r.log.Debug("feed refreshed")
}

// calculateBackoff returns base doubled once per failure, capped at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	backoff := base
	for range failures {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}
