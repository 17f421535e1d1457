package checkout

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"corporate-checkout/internal/apperr"
	"corporate-checkout/internal/logx"
	"corporate-checkout/internal/metrics"
)

// RegistryOption tunes session retention.
type RegistryOption func(*Registry)

// WithSessionTTL forgets sessions nobody touched for ttl. Zero keeps them.
func WithSessionTTL(ttl time.Duration) RegistryOption {
	return func(r *Registry) { r.ttl = max(0, ttl) }
}

// WithMaxSessions caps live sessions; at the cap Create evicts the least
// recently used idle session. Zero means unbounded.
func WithMaxSessions(n int) RegistryOption {
	return func(r *Registry) { r.maxSessions = max(0, n) }
}

// Registry keeps the live sessions of this process in memory.
type Registry struct {
	engine  *Engine
	logger  logx.Logger
	metrics *metrics.Checkout
	newID   func() string

	ttl         time.Duration
	maxSessions int

	mu        sync.Mutex
	sessions  map[string]*tracked
	lastSweep time.Time
}

type tracked struct {
	s        *Session
	lastSeen time.Time
}

// NewRegistry returns an empty registry creating sessions over engine.
func NewRegistry(engine *Engine, logger logx.Logger, m *metrics.Checkout, opts ...RegistryOption) *Registry {
	r := &Registry{
		engine:   engine,
		logger:   logger,
		metrics:  m,
		newID:    uuid.NewString,
		sessions: make(map[string]*tracked),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create starts a new session on vendorID (default vendor when empty).
func (r *Registry) Create(vendorID string) *Session {
	s := NewSession(r.newID(), vendorID, r.engine, r.logger, r.metrics, r.newID)
	now := r.engine.Now()

	r.mu.Lock()
	r.sweepLocked(now, false)
	if r.maxSessions > 0 && len(r.sessions) >= r.maxSessions {
		r.sweepLocked(now, true)
		if len(r.sessions) >= r.maxSessions {
			r.evictOldestLocked()
		}
	}
	r.sessions[s.ID()] = &tracked{s: s, lastSeen: now}
	r.mu.Unlock()

	r.metrics.ObserveOutcome(string(s.Snapshot().Decision.Outcome))
	r.logger.Info("checkout created",
		logx.String("event", "checkout_created"),
		logx.String("session_id", s.ID()),
	)
	return s
}

// Get returns the session with id or apperr.ErrNotFound. An expired session
// is dropped on lookup.
func (r *Registry) Get(id string) (*Session, error) {
	now := r.engine.Now()

	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.sessions[id]
	if ok && r.expired(t, now) {
		r.dropLocked(id, "expired")
		ok = false
	}
	if !ok {
		return nil, fmt.Errorf("%w: checkout %q", apperr.ErrNotFound, id)
	}
	t.lastSeen = now
	return t.s, nil
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) expired(t *tracked, now time.Time) bool {
	return r.ttl > 0 && now.Sub(t.lastSeen) > r.ttl && !t.s.busy()
}

// sweepLocked drops expired sessions, at most every ttl/2 unless forced.
func (r *Registry) sweepLocked(now time.Time, force bool) {
	if r.ttl <= 0 {
		return
	}
	if !force && !r.lastSweep.IsZero() && now.Sub(r.lastSweep) < r.ttl/2 {
		return
	}
	r.lastSweep = now
	for id, t := range r.sessions {
		if r.expired(t, now) {
			r.dropLocked(id, "expired")
		}
	}
}

// evictOldestLocked drops the least recently used session without a task
// in flight; when every session is busy the oldest one goes.
func (r *Registry) evictOldestLocked() {
	var victim, busyVictim string
	var oldest, busyOldest time.Time
	for id, t := range r.sessions {
		if t.s.busy() {
			if busyVictim == "" || t.lastSeen.Before(busyOldest) {
				busyVictim, busyOldest = id, t.lastSeen
			}
			continue
		}
		if victim == "" || t.lastSeen.Before(oldest) {
			victim, oldest = id, t.lastSeen
		}
	}
	if victim == "" {
		victim = busyVictim
	}
	if victim != "" {
		r.dropLocked(victim, "capacity")
	}
}

func (r *Registry) dropLocked(id, reason string) {
	delete(r.sessions, id)
	r.logger.Debug("checkout evicted",
		logx.String("event", "checkout_evicted"),
		logx.String("session_id", id),
		logx.String("reason", reason),
	)
}
