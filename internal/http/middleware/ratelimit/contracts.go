package ratelimit

import "time"

// Limiter decides whether a request for key may proceed.
type Limiter interface {
	Allow(key string) bool
}

// Clock provides current time.
type Clock interface {
	Now() time.Time
}

// RealClock reads the wall clock.
type RealClock struct{}

// Now returns current time.
func (RealClock) Now() time.Time { return time.Now() }

// NopLimiter admits every request.
type NopLimiter struct{}

// Allow always returns true
func (NopLimiter) Allow(string) bool { return true }
