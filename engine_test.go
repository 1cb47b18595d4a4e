package virtlist

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// engineHost derives ScrollSize from the engine's total extent the same
// way the terminal widget does, so measurement growth is visible to the
// scroll range clamp.
type engineHost struct {
	fakeHost
	engine *Engine
}

func (h *engineHost) Metrics() HostMetrics {
	m := h.metrics
	if h.engine != nil {
		m.ScrollSize = h.engine.TotalExtent()
	}
	return m
}

// recordingProxy captures every snapshot pushed to the scrollbar side.
type recordingProxy struct {
	snapshots []HostDimensionSnapshot
}

func (p *recordingProxy) Update(snapshot HostDimensionSnapshot) {
	p.snapshots = append(p.snapshots, snapshot)
}

func (p *recordingProxy) last() HostDimensionSnapshot {
	return p.snapshots[len(p.snapshots)-1]
}

func TestEngineFixedMode(t *testing.T) {
	host := &engineHost{}
	host.metrics = HostMetrics{Size: 10}

	e, err := NewEngine(host, nil, nil, Options{Count: 100, Mode: SizeModeFixed, ItemSize: 2})
	require.NoError(t, err)
	host.engine = e
	e.Refresh()

	require.Equal(t, 100, e.Len())
	require.Equal(t, 200, e.TotalExtent())
	require.True(t, e.Settled(), "fixed mode needs no measurement")
	require.Equal(t, Viewport{Start: 0, End: 4}, e.Viewport())

	e.ScrollToIndex(50)
	e.Refresh()
	require.Equal(t, 100, host.metrics.ScrollPos)
	require.Equal(t, Viewport{Start: 50, End: 54}, e.Viewport())
}

func TestEngineRejectsIncompleteDynamicWiring(t *testing.T) {
	_, err := NewEngine(&engineHost{}, nil, (&tickPump{}).Tick, Options{Count: 10, Mode: SizeModeDynamic})
	require.ErrorIs(t, err, ErrNoMeasurer)

	_, err = NewEngine(&engineHost{}, func(int) int { return 1 }, nil, Options{Count: 10, Mode: SizeModeDynamic})
	require.ErrorIs(t, err, ErrNoTick)

	// Fixed mode never measures, so neither capability is needed.
	_, err = NewEngine(&engineHost{}, nil, nil, Options{Count: 10, Mode: SizeModeFixed})
	require.NoError(t, err)
}

func TestEngineOversizedSeedFailsConstruction(t *testing.T) {
	_, err := NewEngine(&engineHost{}, nil, nil, Options{
		Count:     1,
		Mode:      SizeModeFixed,
		ItemSize:  10_000_001,
		MaxExtent: 10_000_000,
	})
	var extErr *ExtentError
	require.ErrorAs(t, err, &extErr)
	require.Equal(t, 0, extErr.Index)
}

func TestEngineMeasurementConvergence(t *testing.T) {
	host := &engineHost{}
	host.metrics = HostMetrics{Size: 50}
	pump := &tickPump{}

	e, err := NewEngine(host, func(int) int { return 40 }, pump.Tick, Options{
		Count:     1000,
		Mode:      SizeModeDynamic,
		ItemSize:  20,
		BatchSize: 200,
	})
	require.NoError(t, err)
	host.engine = e
	e.Refresh()

	require.Equal(t, 20000, e.TotalExtent(), "estimates seed the index")
	require.False(t, e.Settled())

	// First batch: 200 items re-measured at twice the estimate.
	require.True(t, pump.Run())
	require.Equal(t, 24000, e.TotalExtent())
	require.True(t, e.Extent(199).Resolved)
	require.False(t, e.Extent(200).Resolved)

	require.Equal(t, 4, pump.Drain(), "remaining batches drain one per tick")
	require.True(t, e.Settled())
	require.Equal(t, 40000, e.TotalExtent())
	require.Equal(t, 40*500, e.Extent(500).Offset)
}

func TestEngineDeferredRepositionHoldsUntilSettled(t *testing.T) {
	host := &engineHost{}
	host.metrics = HostMetrics{Size: 50}
	pump := &tickPump{}

	e, err := NewEngine(host, func(int) int { return 40 }, pump.Tick, Options{
		Count:           1000,
		Mode:            SizeModeDynamic,
		ItemSize:        20,
		BatchSize:       200,
		DeferReposition: true,
	})
	require.NoError(t, err)
	host.engine = e

	require.True(t, pump.Run())
	e.ScrollToIndex(500)
	e.Refresh()
	require.Equal(t, ControllerMeasuring, e.State())
	require.Empty(t, host.applied, "reposition is held while offsets shift")

	pump.Drain()
	require.True(t, e.Settled())
	require.Equal(t, ControllerIdle, e.State())
	// The request resolved against the final geometry, not the estimate
	// it was issued under.
	require.Equal(t, []int{20000}, host.applied)
	require.Equal(t, e.Extent(500).Offset, host.metrics.ScrollPos)
	require.Equal(t, Viewport{Start: 500, End: 501}, e.Viewport())
}

func TestEngineImmediateRepositionWithoutDeferral(t *testing.T) {
	host := &engineHost{}
	host.metrics = HostMetrics{Size: 50}
	pump := &tickPump{}

	e, err := NewEngine(host, func(int) int { return 40 }, pump.Tick, Options{
		Count:     1000,
		Mode:      SizeModeDynamic,
		ItemSize:  20,
		BatchSize: 200,
	})
	require.NoError(t, err)
	host.engine = e

	e.ScrollToIndex(500)
	e.Refresh()
	require.NotEmpty(t, host.applied, "without deferral the request lands at once")
	require.Equal(t, 10000, host.metrics.ScrollPos, "estimated offset of item 500")
}

func TestEngineSetCountRestartsMeasurement(t *testing.T) {
	host := &engineHost{}
	host.metrics = HostMetrics{Size: 10}
	pump := &tickPump{}

	e, err := NewEngine(host, func(int) int { return 3 }, pump.Tick, Options{
		Count:     8,
		Mode:      SizeModeDynamic,
		ItemSize:  2,
		BatchSize: 4,
	})
	require.NoError(t, err)
	host.engine = e

	require.True(t, pump.Run())
	require.False(t, e.Settled())

	// Shrink mid-pass: the stale batch must not leak into the new index.
	require.NoError(t, e.SetCount(3))
	require.Equal(t, 3, e.Len())
	require.Equal(t, 6, e.TotalExtent(), "fresh estimates after the rebuild")

	pump.Drain()
	require.True(t, e.Settled())
	require.Equal(t, 9, e.TotalExtent())
}

func TestEngineFailedRebuildLeavesIdleScheduler(t *testing.T) {
	host := &engineHost{}
	host.metrics = HostMetrics{Size: 10}
	pump := &tickPump{}

	e, err := NewEngine(host, func(int) int { return 2 }, pump.Tick, Options{
		Count:           4,
		Mode:            SizeModeDynamic,
		ItemSize:        2,
		MaxExtent:       100,
		DeferReposition: true,
	})
	require.NoError(t, err)
	host.engine = e
	pump.Drain()
	require.True(t, e.Settled())

	// An oversized count fails the rebuild; the stale queue must not
	// keep reporting measurements pending against the emptied index.
	var extErr *ExtentError
	require.ErrorAs(t, e.SetCount(1000), &extErr)
	require.Equal(t, 0, e.Len())
	require.True(t, e.Settled())

	// With deferral on, a request after the failed rebuild would be held
	// forever if the scheduler still looked busy.
	e.ScrollToTop()
	e.Refresh()
	require.Equal(t, ControllerIdle, e.State())
	require.Equal(t, 0, host.metrics.ScrollPos)

	// The next successful rebuild measures normally.
	require.NoError(t, e.SetCount(4))
	pump.Drain()
	require.True(t, e.Settled())
	require.Equal(t, 8, e.TotalExtent())
}

func TestEngineInvalidateSizes(t *testing.T) {
	host := &engineHost{}
	host.metrics = HostMetrics{Size: 10}
	pump := &tickPump{}

	e, err := NewEngine(host, func(int) int { return 5 }, pump.Tick, Options{
		Count:    6,
		Mode:     SizeModeDynamic,
		ItemSize: 2,
	})
	require.NoError(t, err)
	host.engine = e
	pump.Drain()
	require.Equal(t, 30, e.TotalExtent())

	e.InvalidateSizes()
	require.Equal(t, 6, e.Len(), "count survives invalidation")
	require.Equal(t, 12, e.TotalExtent(), "sizes fall back to estimates")
	require.False(t, e.Settled())
	pump.Drain()
	require.Equal(t, 30, e.TotalExtent())
}

func TestEngineForceRefreshIsIdempotent(t *testing.T) {
	host := &engineHost{}
	host.metrics = HostMetrics{Size: 10}

	e, err := NewEngine(host, nil, nil, Options{Count: 40, Mode: SizeModeFixed, ItemSize: 3})
	require.NoError(t, err)
	host.engine = e

	e.ForceRefresh(33)
	first := e.Viewport()
	applied := len(host.applied)

	e.ForceRefresh()
	require.Equal(t, first, e.Viewport(), "recompute without input change is stable")
	require.Equal(t, applied, len(host.applied), "no spurious scroll applications")
}

func TestEngineProxyReceivesSnapshots(t *testing.T) {
	host := &engineHost{}
	host.metrics = HostMetrics{Left: 2, Top: 1, Size: 10, CrossSize: 30}

	e, err := NewEngine(host, nil, nil, Options{Count: 50, Mode: SizeModeFixed, ItemSize: 2})
	require.NoError(t, err)
	host.engine = e

	proxy := &recordingProxy{}
	e.SetProxy(proxy)
	require.Len(t, proxy.snapshots, 1, "attach pushes an immediate snapshot")
	require.Equal(t, HostDimensionSnapshot{
		HostLeft:       2,
		HostTop:        1,
		HostSize:       10,
		HostCrossSize:  30,
		HostScrollSize: 100,
	}, proxy.last())

	e.RequestOffset(40)
	e.Refresh()
	require.Equal(t, 40, proxy.last().HostScrollPos)

	host.metrics.Size = 20
	e.HostResized()
	require.Equal(t, 20, proxy.last().HostSize)
}

func TestEngineHostScrolledResolvesViewport(t *testing.T) {
	host := &engineHost{}
	host.metrics = HostMetrics{Size: 10}

	e, err := NewEngine(host, nil, nil, Options{Count: 100, Mode: SizeModeFixed, ItemSize: 2})
	require.NoError(t, err)
	host.engine = e

	// The host scrolled on its own, e.g. a drag handled upstream.
	host.metrics.ScrollPos = 66
	e.HostScrolled(66)
	require.Equal(t, Viewport{Start: 33, End: 37}, e.Viewport())
	require.Empty(t, host.applied, "an externally applied offset is not re-applied")
}

func TestEngineOptionDefaults(t *testing.T) {
	opts := Options{}.withDefaults()
	require.Equal(t, 1, opts.ItemSize)
	require.Equal(t, 64, opts.BatchSize)
	require.Equal(t, DefaultMaxExtent, opts.MaxExtent)
	require.Equal(t, 3, opts.WheelSpeed)
	require.Equal(t, ScrollBarAuto, opts.ScrollBars)
}
