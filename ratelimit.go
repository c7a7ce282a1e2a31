package friendzone

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultAddRate  float64 = 10.0
	defaultAddBurst int     = 20

	defaultLimiterTTL = 10 * time.Minute
)

// RateLimitConfig configures token-bucket rate limiting for qualifying
// submissions. Limiting is off unless Rate or Burst is set; a zero field then
// falls back to its default. Rate of -1 disables limiting entirely.
type RateLimitConfig struct {
	Rate  float64
	Burst int
}

// newLimiter creates a *rate.Limiter from cfg, substituting defaults for zero
// values. A Rate of -1 disables limiting (returns nil).
func newLimiter(cfg RateLimitConfig, defaultRate float64, defaultBurst int) *rate.Limiter {
	r := cfg.Rate
	b := cfg.Burst
	if r == -1 {
		return nil
	}
	if r == 0 {
		r = defaultRate
	}
	if b == 0 {
		b = defaultBurst
	}
	return rate.NewLimiter(rate.Limit(r), b)
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterRegistry hands out one limiter per session key. A nil registry
// allows everything.
type limiterRegistry struct {
	mu      sync.Mutex
	cfg     RateLimitConfig
	entries map[string]*limiterEntry
}

// newLimiterRegistry returns nil when cfg leaves limiting off.
func newLimiterRegistry(cfg RateLimitConfig) *limiterRegistry {
	if cfg.Rate == -1 || (cfg.Rate == 0 && cfg.Burst == 0) {
		return nil
	}
	return &limiterRegistry{cfg: cfg, entries: make(map[string]*limiterEntry)}
}

func (r *limiterRegistry) allow(key string, now time.Time) bool {
	if r == nil {
		return true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[key]
	if !ok {
		e = &limiterEntry{limiter: newLimiter(r.cfg, defaultAddRate, defaultAddBurst)}
		r.entries[key] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

// reap drops limiters idle for longer than ttl and returns how many went.
func (r *limiterRegistry) reap(ttl time.Duration, now time.Time) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for key, e := range r.entries {
		if now.Sub(e.lastSeen) > ttl {
			delete(r.entries, key)
			n++
		}
	}
	return n
}

func (r *limiterRegistry) len() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
