package ratelimit

import (
	"io"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"corporate-checkout/internal/logx"
)

// KeyFunc picks the bucket a request is charged to.
type KeyFunc func(*http.Request) string

// Option tunes a Middleware.
type Option func(*Middleware)

// WithKeyFunc replaces the default client IP key.
func WithKeyFunc(f KeyFunc) Option {
	return func(m *Middleware) {
		if f != nil {
			m.key = f
		}
	}
}

// WithRetryAfter sets the Retry-After hint; it is rounded up to whole seconds.
func WithRetryAfter(d time.Duration) Option {
	return func(m *Middleware) {
		m.retryAfter = retryAfterSeconds(d)
	}
}

// Middleware answers 429 once a client spends its token budget.
type Middleware struct {
	logger     logx.Logger
	denied     prometheus.Counter
	limiter    Limiter
	key        KeyFunc
	retryAfter string
}

// New builds the middleware. A nil limiter admits everything and a nil
// counter skips the metric.
func New(logger logx.Logger, denied prometheus.Counter, limiter Limiter, opts ...Option) *Middleware {
	if logger == nil {
		logger = logx.Nop()
	}
	if limiter == nil {
		limiter = NopLimiter{}
	}
	m := &Middleware{
		logger:     logger,
		denied:     denied,
		limiter:    limiter,
		key:        clientIP,
		retryAfter: "1",
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Middleware) Handler() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := m.key(r)
			if !m.limiter.Allow(key) {
				m.reject(w, r, key)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (m *Middleware) reject(w http.ResponseWriter, r *http.Request, key string) {
	if m.denied != nil {
		m.denied.Inc()
	}
	m.logger.Warn("rate limit exceeded",
		logx.String("client", key),
		logx.String("method", r.Method),
		logx.String("path", r.URL.Path),
	)
	h := w.Header()
	h.Set("Content-Type", "application/json")
	h.Set("Retry-After", m.retryAfter)
	w.WriteHeader(http.StatusTooManyRequests)
	if _, err := io.WriteString(w, `{"error":"too many requests"}`); err != nil {
		m.logger.Debug("rate limit response write failed", logx.String("client", key), logx.Err(err))
	}
}

func retryAfterSeconds(d time.Duration) string {
	s := int64(math.Ceil(d.Seconds()))
	if s < 1 {
		s = 1
	}
	return strconv.FormatInt(s, 10)
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	if r.RemoteAddr == "" {
		return "unknown"
	}
	return r.RemoteAddr
}
