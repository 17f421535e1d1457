package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Config stores KeyedLimiter settings.
type Config struct {
	Rate    float64       // events per second
	Burst   int           // bucket size
	TTL     time.Duration // idle keys are forgotten after TTL (0 keeps them)
	MaxKeys int           // 0 means unbounded; new keys beyond it are refused
}

// KeyedLimiter keeps one rate.Limiter per key.
type KeyedLimiter struct {
	cfg   Config
	clock Clock

	mu          sync.Mutex
	entries     map[string]*entry
	lastCleanup time.Time
}

type entry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// NewKeyedLimiter creates a limiter with an injected clock.
func NewKeyedLimiter(clock Clock, cfg Config) *KeyedLimiter {
	if clock == nil {
		clock = RealClock{}
	}
	if cfg.Rate <= 0 {
		cfg.Rate = 1
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.MaxKeys < 0 {
		cfg.MaxKeys = 0
	}
	return &KeyedLimiter{
		cfg:     cfg,
		clock:   clock,
		entries: make(map[string]*entry),
	}
}

// Allow reports whether one more event for key fits the budget at the clock's now.
func (l *KeyedLimiter) Allow(key string) bool {
	now := l.clock.Now()

	l.mu.Lock()
	l.cleanupLocked(now)
	e, ok := l.entries[key]
	if !ok {
		if l.cfg.MaxKeys > 0 && len(l.entries) >= l.cfg.MaxKeys {
			l.mu.Unlock()
			return false
		}
		e = &entry{lim: rate.NewLimiter(rate.Limit(l.cfg.Rate), l.cfg.Burst)}
		l.entries[key] = e
	}
	e.lastSeen = now
	l.mu.Unlock()

	return e.lim.AllowN(now, 1)
}

// Len returns the number of tracked keys.
func (l *KeyedLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func (l *KeyedLimiter) cleanupLocked(now time.Time) {
	if l.cfg.TTL <= 0 {
		return
	}
	interval := max(time.Second, l.cfg.TTL/2)
	if !l.lastCleanup.IsZero() && now.Sub(l.lastCleanup) < interval {
		return
	}
	l.lastCleanup = now
	for k, e := range l.entries {
		if now.Sub(e.lastSeen) > l.cfg.TTL {
			delete(l.entries, k)
		}
	}
}
