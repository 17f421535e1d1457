package config

import "time"

const (
	defaultPort     = 8080
	defaultLogLevel = "info"
)

var defaultPolicy = Policy{
	Version:            "checkout-policy/v1",
	ApprovalThreshold:  200000,
	SignatureThreshold: 500000,
	HighValueThreshold: 1000000,
}

var defaultRoute = Route{
	MaxDistanceKm: 300,
	OpenHour:      6,
	CloseHour:     23,
}

var defaultCheckout = Checkout{
	SubmissionDelay: 800 * time.Millisecond,
	ProvisionDelay:  1500 * time.Millisecond,
	SessionTTL:      30 * time.Minute,
	MaxSessions:     10000,
}

var defaultRateLimit = RateLimit{
	Enabled: false,
	Rate:    10,
	Burst:   20,
	TTL:     5 * time.Minute,
	MaxKeys: 10000,
}

var defaultPprof = Pprof{
	Enabled: false,
	Addr:    "127.0.0.1:6060",
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Port:      defaultPort,
		LogLevel:  defaultLogLevel,
		Policy:    DefaultPolicy(),
		Route:     DefaultRoute(),
		Checkout:  DefaultCheckout(),
		RateLimit: DefaultRateLimit(),
		Pprof:     defaultPprof,
	}
}

// DefaultPort returns the default port.
func DefaultPort() int {
	return defaultPort
}

// DefaultPolicy returns the default policy thresholds.
func DefaultPolicy() Policy {
	return defaultPolicy
}

// DefaultRoute returns the default route control settings.
func DefaultRoute() Route {
	r := defaultRoute
	r.RestrictedZones = []string{"airside", "military zone"}
	return r
}

// DefaultCheckout returns the default task delays.
func DefaultCheckout() Checkout {
	return defaultCheckout
}

// DefaultRateLimit returns the default rate limiting settings.
func DefaultRateLimit() RateLimit {
	return defaultRateLimit
}
