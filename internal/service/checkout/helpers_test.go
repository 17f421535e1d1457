package checkout

import (
	"fmt"
	"sync"
	"time"

	"corporate-checkout/internal/catalog"
	"corporate-checkout/internal/domain"
	"corporate-checkout/internal/metrics"
	"corporate-checkout/internal/service/policy"
	"corporate-checkout/internal/service/proof"
	"corporate-checkout/internal/service/route"
	testlog "corporate-checkout/internal/testutil"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

func testConfig() Config {
	return Config{
		PolicyVersion: "checkout-policy/v1",
		Policy:        policy.Thresholds{Approval: 200000, HighValue: 1000000},
		Proof:         proof.Thresholds{Signature: 500000, HighValue: 1000000},
		Route: route.Config{
			MaxDistanceKm:   300,
			OpenHour:        6,
			CloseHour:       23,
			RestrictedZones: []string{"airport"},
		},
		SubmissionDelay: 5 * time.Millisecond,
		ProvisionDelay:  5 * time.Millisecond,
	}
}

type fixture struct {
	clock   *fakeClock
	engine  *Engine
	logs    *testlog.Recorder
	metrics *metrics.Checkout
	session *Session
}

func newFixture(cfg Config) *fixture {
	clock := newFakeClock()
	engine := NewEngine(catalog.Default(), cfg).WithClock(clock.Now)
	logs := testlog.New()
	m := metrics.NewCheckout()
	n := 0
	newID := func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return &fixture{
		clock:   clock,
		engine:  engine,
		logs:    logs,
		metrics: m,
		session: NewSession("s-1", "", engine, logs.Logger(), m, newID),
	}
}

func ptr[T any](v T) *T { return &v }

// validUpdate fills every field a corporate checkout needs on the default vendor.
func validUpdate() domain.PartialDeliveryUpdate {
	return domain.PartialDeliveryUpdate{
		Pickup:     ptr("HQ, Floor 3"),
		Dropoff:    ptr("Client office"),
		DistanceKm: ptr(9.0),
		WeightKg:   ptr(2.0),
		CostCenter: ptr("CC-100"),
		ProjectTag: ptr("PRJ-7"),
		Purpose:    ptr("contract signing"),
		Notes:      ptr("urgent paperwork"),
	}
}
