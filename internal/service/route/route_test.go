package route

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"corporate-checkout/internal/domain"
)

var cfg = Config{
	MaxDistanceKm:   300,
	OpenHour:        6,
	CloseHour:       23,
	RestrictedZones: []string{"Airside", " customs "},
}

func TestGeoAllowed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		req  domain.DeliveryRequest
		want bool
	}{
		{"inside radius", domain.DeliveryRequest{Pickup: "HQ", Dropoff: "Depot", DistanceKm: 12}, true},
		{"radius inclusive", domain.DeliveryRequest{Pickup: "HQ", Dropoff: "Depot", DistanceKm: 300}, true},
		{"outside radius", domain.DeliveryRequest{Pickup: "HQ", Dropoff: "Depot", DistanceKm: 300.1}, false},
		{"restricted pickup", domain.DeliveryRequest{Pickup: "Terminal 2 airside", Dropoff: "Depot", DistanceKm: 5}, false},
		{"restricted dropoff", domain.DeliveryRequest{Pickup: "HQ", Dropoff: "CUSTOMS yard", DistanceKm: 5}, false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, GeoAllowed(cfg, tt.req))
		})
	}
}

func TestTimeAllowed(t *testing.T) {
	t.Parallel()

	noon := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	night := time.Date(2026, 5, 4, 23, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		req  domain.DeliveryRequest
		now  time.Time
		want bool
	}{
		{"now during hours", domain.DeliveryRequest{Schedule: domain.ScheduleNow}, noon, true},
		{"now after close", domain.DeliveryRequest{Schedule: domain.ScheduleNow}, night, false},
		{"scheduled tomorrow morning", domain.DeliveryRequest{Schedule: domain.ScheduleScheduled, ScheduledAt: noon.Add(20 * time.Hour)}, noon, true},
		{"scheduled in the past", domain.DeliveryRequest{Schedule: domain.ScheduleScheduled, ScheduledAt: noon.Add(-time.Hour)}, noon, false},
		{"scheduled at night", domain.DeliveryRequest{Schedule: domain.ScheduleScheduled, ScheduledAt: noon.Add(16 * time.Hour)}, noon, false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, TimeAllowed(cfg, tt.req, tt.now))
		})
	}
}
