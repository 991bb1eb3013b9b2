// Package janitor runs periodic maintenance: expiring old sessions,
// enforcing the session cap, and pruning idle rate limiter state.
package janitor

import (
	"context"
	"log/slog"
	"time"

	"repopilot"
)

// DefaultInterval is how often maintenance runs.
const DefaultInterval = 10 * time.Minute

// Janitor periodically cleans up expired and excess sessions.
type Janitor struct {
	sessions repopilot.SessionService
	logger   *slog.Logger

	interval    time.Duration
	ttl         time.Duration
	maxSessions int

	// prune, when set, is invoked each cycle to drop idle limiter state.
	prune func(idle time.Duration) int
}

// Option configures a Janitor.
type Option func(*Janitor)

// WithInterval overrides the maintenance interval.
func WithInterval(d time.Duration) Option {
	return func(j *Janitor) { j.interval = d }
}

// WithTTL overrides the session time-to-live.
func WithTTL(d time.Duration) Option {
	return func(j *Janitor) { j.ttl = d }
}

// WithMaxSessions overrides the session cap.
func WithMaxSessions(n int) Option {
	return func(j *Janitor) { j.maxSessions = n }
}

// WithLimiterPrune registers a rate limiter prune hook.
func WithLimiterPrune(prune func(idle time.Duration) int) Option {
	return func(j *Janitor) { j.prune = prune }
}

// New creates a Janitor with default limits.
func New(sessions repopilot.SessionService, logger *slog.Logger, opts ...Option) *Janitor {
	j := &Janitor{
		sessions:    sessions,
		logger:      logger,
		interval:    DefaultInterval,
		ttl:         repopilot.DefaultSessionTTL,
		maxSessions: repopilot.DefaultMaxSessions,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Run performs maintenance on a ticker until the context is canceled.
func (j *Janitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.Sweep(ctx)
		}
	}
}

// Sweep runs one maintenance cycle.
func (j *Janitor) Sweep(ctx context.Context) {
	expired, err := j.sessions.DeleteExpiredSessions(ctx, j.ttl)
	if err != nil {
		j.logger.Error("expired session cleanup failed", "err", err)
	}

	evicted, err := j.sessions.EvictSessions(ctx, j.maxSessions)
	if err != nil {
		j.logger.Error("session eviction failed", "err", err)
	}

	pruned := 0
	if j.prune != nil {
		pruned = j.prune(j.ttl)
	}

	stats, err := j.sessions.Stats(ctx)
	if err != nil {
		j.logger.Error("session stats failed", "err", err)
		return
	}

	j.logger.Info("maintenance sweep",
		"expired", expired,
		"evicted", evicted,
		"limiters_pruned", pruned,
		"sessions", stats.Sessions,
		"conversations", stats.Conversations,
		"stored_bytes", stats.TotalBytes(),
	)
}
