package virtlist

import "errors"

// ScrollBarVisibility controls when the scrollbar overlay is shown.
type ScrollBarVisibility int

const (
	// ScrollBarAuto shows the scrollbar only when the content overflows
	// the viewport.
	ScrollBarAuto ScrollBarVisibility = iota
	// ScrollBarAlways shows the scrollbar whenever there is content.
	ScrollBarAlways
	// ScrollBarOnHover shows the scrollbar while the pointer is over the
	// host rect.
	ScrollBarOnHover
)

// Options configures an Engine or a VirtualList.
type Options struct {
	// Count is the number of items.
	Count int

	// Mode selects fixed or dynamic item sizing.
	Mode SizeMode

	// ItemSize is the fixed item size, or the estimate seeded before
	// measurement in dynamic mode. Defaults to 1.
	ItemSize int

	// BatchSize bounds how many items one measurement batch may realize.
	// Defaults to 64.
	BatchSize int

	// MaxExtent bounds the total content extent. Defaults to
	// DefaultMaxExtent.
	MaxExtent int

	// DeferReposition holds scroll requests while measurement is in
	// flight instead of applying them against still-shifting offsets.
	DeferReposition bool

	// WheelSpeed is the wheel-scroll multiplier in cells per notch.
	// Defaults to 3.
	WheelSpeed int

	// ScrollBars selects the scrollbar visibility policy.
	ScrollBars ScrollBarVisibility
}

func (o Options) withDefaults() Options {
	if o.ItemSize < 1 {
		o.ItemSize = 1
	}
	if o.BatchSize < 1 {
		o.BatchSize = 64
	}
	if o.MaxExtent < 1 {
		o.MaxExtent = DefaultMaxExtent
	}
	if o.WheelSpeed < 1 {
		o.WheelSpeed = 3
	}
	return o
}

// HostMetrics is a snapshot of the scrollable container's box: position,
// main-axis size, cross-axis size, current scroll offset, and the full
// scrollable extent. The engine re-queries it on every pass and never
// caches it across passes.
type HostMetrics struct {
	Left       int
	Top        int
	Size       int
	CrossSize  int
	ScrollPos  int
	ScrollSize int
}

// Host is the scrollable container the engine drives. The terminal widget
// is the usual implementation; tests substitute their own.
type Host interface {
	// Metrics reports the container's current box.
	Metrics() HostMetrics
	// SetScrollPos applies a reconciled scroll offset.
	SetScrollPos(offset int)
	// Focus gives the container input focus.
	Focus()
}

// HostDimensionSnapshot is the datum emitted to the scrollbar proxy on
// every dimension-relevant change. The proxy turns it into thumb geometry
// and visibility; the engine never computes thumb pixels itself.
type HostDimensionSnapshot struct {
	HostLeft       int
	HostTop        int
	HostSize       int
	HostCrossSize  int
	HostScrollPos  int
	HostScrollSize int
}

// ScrollbarProxy consumes host dimension snapshots. Drag gestures travel
// the other way, as requested offsets fed into the engine.
type ScrollbarProxy interface {
	Update(snapshot HostDimensionSnapshot)
}

// ErrNoMeasurer is returned when a dynamic-mode engine is constructed
// without a measure capability.
var ErrNoMeasurer = errors.New("virtlist: dynamic size mode requires a measure function")

// ErrNoTick is returned when a dynamic-mode engine is constructed without
// a tick scheduler to run measurement batches on.
var ErrNoTick = errors.New("virtlist: dynamic size mode requires a tick function")

// Engine is the windowing core: it owns the position index, the
// measurement scheduler, and the scroll controller, and keeps the visible
// range and the scrollbar proxy in sync with the host.
//
// The engine is single-threaded and cooperative. All calls must come from
// the same execution context as the host's rendering cycle; the only
// suspension points are the ticks between measurement batches.
type Engine struct {
	opts  Options
	host  Host
	index *PositionIndex
	sched *Scheduler
	ctrl  *ScrollController
	proxy ScrollbarProxy

	viewport Viewport
}

// NewEngine builds an engine for host. measure realizes item sizes for
// dynamic mode; tick schedules measurement batches onto future render
// ticks. Both are required in dynamic mode and may be nil in fixed mode,
// where no measurement ever runs. The initial rebuild runs before
// NewEngine returns, so an oversized Count/ItemSize combination surfaces
// here as an *ExtentError.
func NewEngine(host Host, measure MeasureFunc, tick TickFunc, opts Options) (*Engine, error) {
	opts = opts.withDefaults()
	if opts.Mode == SizeModeDynamic {
		if measure == nil {
			return nil, ErrNoMeasurer
		}
		if tick == nil {
			return nil, ErrNoTick
		}
	}

	e := &Engine{
		opts:  opts,
		host:  host,
		index: NewPositionIndex(opts.MaxExtent),
	}
	e.sched = NewScheduler(e.index, measure, tick, opts.BatchSize).
		SetAppliedFunc(e.Refresh).
		SetSettledFunc(e.Refresh)
	e.ctrl = NewScrollController(e.index, host, func() bool { return !e.sched.Settled() }).
		SetDeferReposition(opts.DeferReposition)

	if err := e.SetCount(opts.Count); err != nil {
		return nil, err
	}
	return e, nil
}

// SetProxy attaches a scrollbar proxy; it receives a snapshot immediately
// and on every subsequent refresh.
func (e *Engine) SetProxy(proxy ScrollbarProxy) *Engine {
	e.proxy = proxy
	if proxy != nil {
		proxy.Update(e.snapshot(e.host.Metrics()))
	}
	return e
}

// SetCount rebuilds the position index for a new item count. Any in-flight
// measurement pass is cancelled; in dynamic mode every index is re-enqueued
// front-to-back and the first batch is scheduled on a future tick. The
// rebuild fails with an *ExtentError when the seeded extent would overflow
// the configured maximum.
func (e *Engine) SetCount(count int) error {
	e.sched.Cancel()
	if err := e.index.Rebuild(count, e.opts.Mode, e.opts.ItemSize); err != nil {
		// The index is now empty; drop the stale queue so the engine
		// settles into a coherent idle state instead of reporting
		// measurements pending against items that no longer exist.
		e.sched.Reset(nil)
		return err
	}

	var queue []int
	if e.opts.Mode == SizeModeDynamic {
		queue = make([]int, count)
		for i := range queue {
			queue[i] = i
		}
	}
	e.sched.Reset(queue)
	e.sched.Kick()
	e.Refresh()
	return nil
}

// InvalidateSizes discards all measurements and re-enqueues every index,
// keeping the item count. The host calls this when the cross-axis size
// changes and dynamic heights are no longer trustworthy.
func (e *Engine) InvalidateSizes() {
	e.SetCount(e.index.Len()) //nolint:errcheck // same count and seed cannot overflow again
}

// Refresh is one reconciliation pass: apply any due scroll request,
// re-resolve the viewport against current host metrics, and push a fresh
// snapshot to the scrollbar proxy. It runs even when offsets and sizes
// look unchanged, which is what ForceRefresh relies on after external
// structural changes.
func (e *Engine) Refresh() {
	e.ctrl.Reconcile()

	m := e.host.Metrics()
	e.viewport = e.index.ResolveViewport(m.ScrollPos, m.Size)
	if e.proxy != nil {
		e.proxy.Update(e.snapshot(m))
	}
}

// ForceRefresh performs a full recompute; with a position it first
// requests that absolute offset. The position is subject to the same
// deferral rules as any other request.
func (e *Engine) ForceRefresh(position ...int) {
	if len(position) > 0 {
		e.ctrl.RequestOffset(position[0])
	}
	e.Refresh()
}

// HostResized is the host resize notification.
func (e *Engine) HostResized() {
	e.Refresh()
}

// HostScrolled is the host scroll notification; offset is the new scroll
// position as reported by the host.
func (e *Engine) HostScrolled(offset int) {
	e.ctrl.noteOffset(offset)
	e.Refresh()
}

// Viewport returns the visible index range from the last refresh.
func (e *Engine) Viewport() Viewport {
	return e.viewport
}

// Len returns the item count.
func (e *Engine) Len() int {
	return e.index.Len()
}

// Extent returns a copy of item i's extent.
func (e *Engine) Extent(i int) ItemExtent {
	return e.index.Extent(i)
}

// TotalExtent returns the total content extent.
func (e *Engine) TotalExtent() int {
	return e.index.TotalExtent()
}

// Settled reports whether all pending measurements have been applied.
func (e *Engine) Settled() bool {
	return e.sched.Settled()
}

// State returns the scroll controller's state.
func (e *Engine) State() ControllerState {
	return e.ctrl.State()
}

// ScrollToTop requests scrolling to the start of the content.
func (e *Engine) ScrollToTop() {
	e.ctrl.ScrollToTop()
}

// ScrollToBottom requests scrolling to the end of the content.
func (e *Engine) ScrollToBottom() {
	e.ctrl.ScrollToBottom()
}

// ScrollToIndex requests scrolling so item i starts at the top of the
// viewport.
func (e *Engine) ScrollToIndex(i int) {
	e.ctrl.ScrollToIndex(i)
}

// EnsureVisible requests the smallest scroll that brings item i fully into
// view under the given anchor; a fully visible item is left alone.
func (e *Engine) EnsureVisible(i int, anchor Anchor) {
	e.ctrl.EnsureVisible(i, anchor)
}

// ScrollBy requests a relative scroll of delta cells.
func (e *Engine) ScrollBy(delta int) {
	e.ctrl.ScrollBy(delta)
}

// RequestOffset requests an absolute scroll offset; scrollbar drags arrive
// through here.
func (e *Engine) RequestOffset(offset int) {
	e.ctrl.RequestOffset(offset)
}

// Focus passes focus through to the host.
func (e *Engine) Focus() {
	e.ctrl.Focus()
}

// WheelSpeed returns the configured wheel multiplier.
func (e *Engine) WheelSpeed() int {
	return e.opts.WheelSpeed
}

// ScrollBars returns the configured scrollbar visibility policy.
func (e *Engine) ScrollBars() ScrollBarVisibility {
	return e.opts.ScrollBars
}

func (e *Engine) snapshot(m HostMetrics) HostDimensionSnapshot {
	return HostDimensionSnapshot{
		HostLeft:       m.Left,
		HostTop:        m.Top,
		HostSize:       m.Size,
		HostCrossSize:  m.CrossSize,
		HostScrollPos:  m.ScrollPos,
		HostScrollSize: m.ScrollSize,
	}
}
