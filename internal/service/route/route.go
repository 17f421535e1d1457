// Package route computes the geofence and dispatch-time gates.
package route

import (
	"strings"
	"time"

	"corporate-checkout/internal/domain"
)

// Config stores route control settings.
type Config struct {
	MaxDistanceKm   float64
	OpenHour        int // inclusive
	CloseHour       int // exclusive
	RestrictedZones []string
}

// Gates is the result of route control.
type Gates struct {
	GeoAllowed  bool
	TimeAllowed bool
}

// Evaluate derives both gates for r at now.
func Evaluate(cfg Config, r domain.DeliveryRequest, now time.Time) Gates {
	return Gates{
		GeoAllowed:  GeoAllowed(cfg, r),
		TimeAllowed: TimeAllowed(cfg, r, now),
	}
}

// GeoAllowed checks the service radius and restricted zones.
func GeoAllowed(cfg Config, r domain.DeliveryRequest) bool {
	if cfg.MaxDistanceKm > 0 && r.DistanceKm > cfg.MaxDistanceKm {
		return false
	}
	return !restricted(cfg.RestrictedZones, r.Pickup) && !restricted(cfg.RestrictedZones, r.Dropoff)
}

// TimeAllowed checks the dispatch time against operating hours.
func TimeAllowed(cfg Config, r domain.DeliveryRequest, now time.Time) bool {
	at := now
	if r.Schedule == domain.ScheduleScheduled {
		if !r.ScheduledAt.After(now) {
			return false
		}
		at = r.ScheduledAt.In(now.Location())
	}
	h := at.Hour()
	return h >= cfg.OpenHour && h < cfg.CloseHour
}

func restricted(zones []string, label string) bool {
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" {
		return false
	}
	for _, z := range zones {
		z = strings.ToLower(strings.TrimSpace(z))
		if z != "" && strings.Contains(label, z) {
			return true
		}
	}
	return false
}
