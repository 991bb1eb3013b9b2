// Package ratelimit provides per-client request limiting using token
// buckets. Each client IP gets its own limiter; a shared global limiter
// protects the service as a whole.
package ratelimit

import (
	"sync"
	"time"

	"repopilot"

	"golang.org/x/time/rate"
)

// Default limits, matching the service's public documentation.
const (
	DefaultClientRequests = 30
	DefaultClientWindow   = 60 * time.Second
	DefaultGlobalRequests = 100
	DefaultGlobalWindow   = time.Minute
)

var _ repopilot.ClientLimiter = (*Limiter)(nil)

// Config configures a Limiter.
type Config struct {
	// ClientRequests per ClientWindow allowed for each client IP.
	ClientRequests int
	ClientWindow   time.Duration

	// GlobalRequests per GlobalWindow allowed across all clients.
	GlobalRequests int
	GlobalWindow   time.Duration
}

// DefaultConfig returns the service's documented limits.
func DefaultConfig() Config {
	return Config{
		ClientRequests: DefaultClientRequests,
		ClientWindow:   DefaultClientWindow,
		GlobalRequests: DefaultGlobalRequests,
		GlobalWindow:   DefaultGlobalWindow,
	}
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter implements repopilot.ClientLimiter with token buckets.
// The global bucket is checked first so a flood from many IPs still
// degrades gracefully.
type Limiter struct {
	mu      sync.Mutex
	clients map[string]*client
	global  *rate.Limiter
	cfg     Config

	// now is stubbed in tests.
	now func() time.Time
}

// New creates a Limiter with the given config. Zero-valued fields fall back
// to the defaults.
func New(cfg Config) *Limiter {
	def := DefaultConfig()
	if cfg.ClientRequests <= 0 {
		cfg.ClientRequests = def.ClientRequests
	}
	if cfg.ClientWindow <= 0 {
		cfg.ClientWindow = def.ClientWindow
	}
	if cfg.GlobalRequests <= 0 {
		cfg.GlobalRequests = def.GlobalRequests
	}
	if cfg.GlobalWindow <= 0 {
		cfg.GlobalWindow = def.GlobalWindow
	}

	return &Limiter{
		clients: make(map[string]*client),
		global:  rate.NewLimiter(perWindow(cfg.GlobalRequests, cfg.GlobalWindow), cfg.GlobalRequests),
		cfg:     cfg,
		now:     time.Now,
	}
}

// perWindow converts "n requests per window" into a refill rate.
func perWindow(n int, window time.Duration) rate.Limit {
	return rate.Limit(float64(n) / window.Seconds())
}

// Allow returns nil if a request from the client may proceed.
func (l *Limiter) Allow(clientIP string) error {
	if !l.global.Allow() {
		return repopilot.Errorf(repopilot.ERATELIMIT,
			"service temporarily unavailable due to high load, please try again later")
	}

	l.mu.Lock()
	c, ok := l.clients[clientIP]
	if !ok {
		c = &client{limiter: rate.NewLimiter(perWindow(l.cfg.ClientRequests, l.cfg.ClientWindow), l.cfg.ClientRequests)}
		l.clients[clientIP] = c
	}
	c.lastSeen = l.now()
	l.mu.Unlock()

	if !c.limiter.Allow() {
		return repopilot.Errorf(repopilot.ERATELIMIT,
			"rate limit exceeded, maximum %d requests per %s",
			l.cfg.ClientRequests, l.cfg.ClientWindow)
	}
	return nil
}

// Prune removes client entries idle for longer than the given duration.
// Returns the number of entries removed.
func (l *Limiter) Prune(idle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-idle)
	removed := 0
	for ip, c := range l.clients {
		if c.lastSeen.Before(cutoff) {
			delete(l.clients, ip)
			removed++
		}
	}
	return removed
}

// ActiveClients returns the number of tracked client entries.
func (l *Limiter) ActiveClients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}
