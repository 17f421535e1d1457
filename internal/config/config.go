package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"corporate-checkout/internal/logx"
)

// Config stores service settings.
type Config struct {
	Port      int
	LogLevel  string
	Policy    Policy
	Route     Route
	Checkout  Checkout
	RateLimit RateLimit
	Pprof     Pprof
}

// Policy stores the policy thresholds in currency minor units.
type Policy struct {
	Version            string
	ApprovalThreshold  int64
	SignatureThreshold int64
	HighValueThreshold int64
}

// Route stores route control settings.
type Route struct {
	MaxDistanceKm   float64
	OpenHour        int
	CloseHour       int
	RestrictedZones []string
}

// Checkout stores the simulated task delays and session retention.
type Checkout struct {
	SubmissionDelay time.Duration
	ProvisionDelay  time.Duration
	SessionTTL      time.Duration
	MaxSessions     int
}

// RateLimit stores per-client rate limiting settings.
type RateLimit struct {
	Enabled bool
	Rate    float64
	Burst   int
	TTL     time.Duration
	MaxKeys int
}

// Pprof stores the debug profiling server settings.
type Pprof struct {
	Enabled bool
	Addr    string
	User    string
	Pass    string
}

// Load reads configuration in order: .env (if present) → environment → flags.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: .env not loaded: %v", err)
	}

	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}

	fs := pflag.CommandLine
	fs.IntVarP(&cfg.Port, "port", "p", cfg.Port, "port to listen on")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	fs.Int64Var(&cfg.Policy.ApprovalThreshold, "approval-threshold", cfg.Policy.ApprovalThreshold,
		"estimate total above which corporate checkouts need approval")
	fs.BoolVar(&cfg.RateLimit.Enabled, "rate-limit", cfg.RateLimit.Enabled, "enable per-client rate limiting")
	if err := fs.Parse(os.Args[1:]); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv builds a Config from defaults overridden by environment variables.
func FromEnv() (*Config, error) {
	cfg := Default()
	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	collect(envInt("PORT", &cfg.Port))
	envString("LOG_LEVEL", &cfg.LogLevel)

	envString("POLICY_VERSION", &cfg.Policy.Version)
	collect(envInt64("POLICY_APPROVAL_THRESHOLD", &cfg.Policy.ApprovalThreshold))
	collect(envInt64("POLICY_SIGNATURE_THRESHOLD", &cfg.Policy.SignatureThreshold))
	collect(envInt64("POLICY_HIGH_VALUE_THRESHOLD", &cfg.Policy.HighValueThreshold))

	collect(envFloat("ROUTE_MAX_DISTANCE_KM", &cfg.Route.MaxDistanceKm))
	collect(envInt("ROUTE_OPEN_HOUR", &cfg.Route.OpenHour))
	collect(envInt("ROUTE_CLOSE_HOUR", &cfg.Route.CloseHour))
	if v, ok := lookup("ROUTE_RESTRICTED_ZONES"); ok {
		cfg.Route.RestrictedZones = splitList(v)
	}

	collect(envDuration("SUBMISSION_DELAY", &cfg.Checkout.SubmissionDelay))
	collect(envDuration("PROVISION_DELAY", &cfg.Checkout.ProvisionDelay))
	collect(envDuration("CHECKOUT_SESSION_TTL", &cfg.Checkout.SessionTTL))
	collect(envInt("CHECKOUT_MAX_SESSIONS", &cfg.Checkout.MaxSessions))

	collect(envBool("RATE_LIMIT_ENABLED", &cfg.RateLimit.Enabled))
	collect(envFloat("RATE_LIMIT_RPS", &cfg.RateLimit.Rate))
	collect(envInt("RATE_LIMIT_BURST", &cfg.RateLimit.Burst))
	collect(envDuration("RATE_LIMIT_TTL", &cfg.RateLimit.TTL))
	collect(envInt("RATE_LIMIT_MAX_KEYS", &cfg.RateLimit.MaxKeys))

	collect(envBool("PPROF_ENABLED", &cfg.Pprof.Enabled))
	envString("PPROF_ADDR", &cfg.Pprof.Addr)
	envString("PPROF_USER", &cfg.Pprof.User)
	envString("PPROF_PASS", &cfg.Pprof.Pass)

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if _, err := logx.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	p := c.Policy
	if p.ApprovalThreshold < 0 || p.SignatureThreshold < 0 || p.HighValueThreshold < 0 {
		return fmt.Errorf("policy thresholds must not be negative")
	}
	if strings.TrimSpace(p.Version) == "" {
		return fmt.Errorf("policy version is required")
	}
	r := c.Route
	if r.MaxDistanceKm <= 0 {
		return fmt.Errorf("invalid route max distance: %v", r.MaxDistanceKm)
	}
	if r.OpenHour < 0 || r.CloseHour > 24 || r.OpenHour >= r.CloseHour {
		return fmt.Errorf("invalid route hours: [%d, %d)", r.OpenHour, r.CloseHour)
	}
	if c.Checkout.SubmissionDelay < 0 || c.Checkout.ProvisionDelay < 0 {
		return fmt.Errorf("task delays must not be negative")
	}
	if c.Checkout.SessionTTL < 0 || c.Checkout.MaxSessions < 0 {
		return fmt.Errorf("session retention must not be negative")
	}
	if c.RateLimit.Enabled && (c.RateLimit.Rate <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("invalid rate limit: rate=%v burst=%d", c.RateLimit.Rate, c.RateLimit.Burst)
	}
	if c.Pprof.Enabled && strings.TrimSpace(c.Pprof.Addr) == "" {
		return fmt.Errorf("pprof address is required when pprof is enabled")
	}
	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func envString(key string, dst *string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}

func envInt(key string, dst *int) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func envInt64(key string, dst *int64) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func envFloat(key string, dst *float64) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = f
	return nil
}

func envBool(key string, dst *bool) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}

func envDuration(key string, dst *time.Duration) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
