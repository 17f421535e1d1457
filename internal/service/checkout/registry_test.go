package checkout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"corporate-checkout/internal/apperr"
	"corporate-checkout/internal/catalog"
	"corporate-checkout/internal/logx"
)

func TestRegistry_CreateAndGet(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(NewEngine(catalog.Default(), testConfig()), logx.Nop(), nil)

	a := reg.Create("")
	b := reg.Create("metrovan")
	require.NotEqual(t, a.ID(), b.ID())
	require.Equal(t, 2, reg.Len())

	got, err := reg.Get(b.ID())
	require.NoError(t, err)
	require.Same(t, b, got)
	require.Equal(t, "metrovan", got.Snapshot().Request.VendorID)
	require.Equal(t, catalog.DefaultVendorID, a.Snapshot().Request.VendorID)

	_, err = reg.Get("missing")
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func newClockedRegistry(opts ...RegistryOption) (*Registry, *fakeClock) {
	clock := newFakeClock()
	engine := NewEngine(catalog.Default(), testConfig()).WithClock(clock.Now)
	return NewRegistry(engine, logx.Nop(), nil, opts...), clock
}

func TestRegistry_IdleSessionsExpire(t *testing.T) {
	t.Parallel()

	reg, clock := newClockedRegistry(WithSessionTTL(time.Minute))
	start := clock.Now()

	idle := reg.Create("")
	active := reg.Create("")

	clock.Set(start.Add(40 * time.Second))
	_, err := reg.Get(active.ID())
	require.NoError(t, err)

	clock.Set(start.Add(90 * time.Second))
	_, err = reg.Get(idle.ID())
	require.ErrorIs(t, err, apperr.ErrNotFound)
	got, err := reg.Get(active.ID())
	require.NoError(t, err)
	require.Same(t, active, got)
	require.Equal(t, 1, reg.Len())
}

func TestRegistry_SweepOnCreateDropsIdleSessions(t *testing.T) {
	t.Parallel()

	reg, clock := newClockedRegistry(WithSessionTTL(time.Minute))
	start := clock.Now()

	for range 5 {
		reg.Create("")
	}
	require.Equal(t, 5, reg.Len())

	clock.Set(start.Add(2 * time.Minute))
	reg.Create("")
	require.Equal(t, 1, reg.Len())
}

func TestRegistry_CapEvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()

	reg, clock := newClockedRegistry(WithMaxSessions(2))
	start := clock.Now()

	a := reg.Create("")
	clock.Set(start.Add(time.Second))
	b := reg.Create("")
	clock.Set(start.Add(2 * time.Second))
	_, err := reg.Get(a.ID())
	require.NoError(t, err)

	clock.Set(start.Add(3 * time.Second))
	c := reg.Create("")

	require.Equal(t, 2, reg.Len())
	_, err = reg.Get(b.ID())
	require.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = reg.Get(a.ID())
	require.NoError(t, err)
	_, err = reg.Get(c.ID())
	require.NoError(t, err)
}

func TestRegistry_CapSparesSessionsWithTaskInFlight(t *testing.T) {
	t.Parallel()

	reg, clock := newClockedRegistry(WithMaxSessions(2))
	start := clock.Now()

	busy := reg.Create("")
	busy.mu.Lock()
	busy.submitting = true
	busy.mu.Unlock()

	clock.Set(start.Add(time.Second))
	idle := reg.Create("")
	clock.Set(start.Add(2 * time.Second))
	reg.Create("")

	_, err := reg.Get(busy.ID())
	require.NoError(t, err)
	_, err = reg.Get(idle.ID())
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRegistry_UnboundedByDefault(t *testing.T) {
	t.Parallel()

	reg, clock := newClockedRegistry()
	first := reg.Create("")
	clock.Set(clock.Now().Add(24 * time.Hour))
	for range 10 {
		reg.Create("")
	}
	require.Equal(t, 11, reg.Len())
	_, err := reg.Get(first.ID())
	require.NoError(t, err)
}
