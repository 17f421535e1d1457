package app

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"corporate-checkout/internal/config"
	"corporate-checkout/internal/http/middleware/ratelimit"
	"corporate-checkout/internal/logx"
)

// limiterSettings maps the env-level knobs onto the keyed limiter.
func limiterSettings(rl config.RateLimit) ratelimit.Config {
	return ratelimit.Config{
		Rate:    rl.Rate,
		Burst:   rl.Burst,
		TTL:     rl.TTL,
		MaxKeys: rl.MaxKeys,
	}
}

// refillInterval is how long a drained client waits for one token.
func refillInterval(rate float64) time.Duration {
	if rate <= 0 {
		return time.Second
	}
	return time.Duration(float64(time.Second) / rate)
}

type rateLimitIn struct {
	dig.In
	Config *config.Config
	Logger logx.Logger
	Denied prometheus.Counter `name:"rate_limit_exceeded_total"`
}

// newRateLimitMiddleware builds the per-client limiter from config; when
// disabled the middleware admits everything.
func newRateLimitMiddleware(in rateLimitIn) *ratelimit.Middleware {
	rl := in.Config.RateLimit
	if !rl.Enabled {
		return ratelimit.New(in.Logger, in.Denied, ratelimit.NopLimiter{})
	}
	in.Logger.Info("rate limiting enabled",
		logx.Any("rate", rl.Rate),
		logx.Int("burst", rl.Burst),
		logx.Duration("ttl", rl.TTL),
	)
	limiter := ratelimit.NewKeyedLimiter(ratelimit.RealClock{}, limiterSettings(rl))
	return ratelimit.New(in.Logger, in.Denied, limiter, ratelimit.WithRetryAfter(refillInterval(rl.Rate)))
}
