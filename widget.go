package virtlist

import "github.com/gdamore/tcell/v3"

// Item represents a primitive which can be measured for a given width.
//
// Items report their own height so the list can lay out and scroll
// variable-height content. Height is the measure capability of the
// windowing engine: in dynamic mode it is invoked once per item per
// measurement pass, off the drawing path.
type Item interface {
	Primitive
	Height(width int) int
}

// Builder returns the item for the given index. It is called only for
// indices inside the configured count; returning nil renders a blank row.
type Builder func(index int) Item

// VirtualList displays a virtual list of primitives returned by a builder
// function. Only the items intersecting the viewport are materialized on
// each draw; item positions come from the engine's position index, so
// landing anywhere in a million-item list costs a binary search, not a
// walk.
type VirtualList struct {
	*Box

	builder Builder
	engine  *Engine
	thumb   *ThumbBar

	// scrollPos is the host scroll offset in cells.
	scrollPos int

	// measureWidth is the inner width current measurements were taken
	// for. A width change invalidates all dynamic sizes.
	measureWidth int

	mode    SizeMode
	hovered bool

	// tickImpl schedules measurement batches onto future render ticks.
	// The default queues them for the next draw; an attached Application
	// replaces it with an event-loop post.
	tickImpl TickFunc
	ticks    []func()
}

// listHost adapts the widget to the engine's Host interface. The engine
// re-queries it on every pass, so the metrics always reflect the inner
// rect of the most recent layout.
type listHost struct {
	l *VirtualList
}

func (h listHost) Metrics() HostMetrics {
	x, y, width, height := h.l.GetInnerRect()
	m := HostMetrics{
		Left:      x,
		Top:       y,
		Size:      height,
		CrossSize: width,
		ScrollPos: h.l.scrollPos,
	}
	if h.l.engine != nil {
		m.ScrollSize = h.l.engine.TotalExtent()
	}
	return m
}

func (h listHost) SetScrollPos(offset int) {
	if h.l.scrollPos != offset {
		h.l.scrollPos = offset
		h.l.MarkDirty()
	}
}

func (h listHost) Focus() {
	h.l.Box.Focus(nil)
}

// NewVirtualList returns a new virtual list for the given builder and
// options. Construction performs the initial index rebuild, so an
// oversized count surfaces here as an *ExtentError.
func NewVirtualList(builder Builder, opts Options) (*VirtualList, error) {
	l := &VirtualList{
		Box:     NewBox(),
		builder: builder,
		mode:    opts.Mode,
	}
	l.tickImpl = func(fn func()) {
		l.ticks = append(l.ticks, fn)
		l.MarkDirty()
	}

	l.thumb = NewThumbBar().SetVisibility(opts.ScrollBars)

	var measure MeasureFunc
	if opts.Mode == SizeModeDynamic {
		measure = l.measureItem
	}
	engine, err := NewEngine(listHost{l}, measure, func(fn func()) { l.tickImpl(fn) }, opts)
	if err != nil {
		return nil, err
	}
	l.engine = engine
	engine.SetProxy(l.thumb)
	l.thumb.SetRequestFunc(func(offset int) {
		engine.RequestOffset(offset)
		l.MarkDirty()
	})
	return l, nil
}

// measureItem realizes the item at index for the current inner width and
// reports its height; this is the off-screen measurement the scheduler
// batches.
func (l *VirtualList) measureItem(index int) int {
	if l.builder == nil {
		return 1
	}
	item := l.builder(index)
	if item == nil {
		return 1
	}
	return max(item.Height(max(l.measureWidth, 1)), 1)
}

// Engine returns the windowing engine driving this list.
func (l *VirtualList) Engine() *Engine {
	return l.engine
}

// ThumbBar returns the scrollbar overlay for styling.
func (l *VirtualList) ThumbBar() *ThumbBar {
	return l.thumb
}

// SetTickFunc replaces the scheduler used for measurement batches, e.g.
// with Application.Post so batches run between event-loop draws instead of
// at the start of the next one.
func (l *VirtualList) SetTickFunc(tick TickFunc) *VirtualList {
	if tick != nil {
		l.tickImpl = tick
	}
	return l
}

// SetCount rebuilds the list for a new item count, cancelling any
// measurement pass in flight.
func (l *VirtualList) SetCount(count int) error {
	err := l.engine.SetCount(count)
	l.MarkDirty()
	return err
}

// Len returns the item count.
func (l *VirtualList) Len() int {
	return l.engine.Len()
}

// GetViewport returns the visible index range from the last refresh; both
// bounds are -1 when nothing is visible.
func (l *VirtualList) GetViewport() Viewport {
	return l.engine.Viewport()
}

// ForceRefresh recomputes the viewport and re-syncs the scrollbar even if
// offsets and sizes look unchanged; with a position it first requests that
// absolute offset.
func (l *VirtualList) ForceRefresh(position ...int) *VirtualList {
	l.engine.ForceRefresh(position...)
	l.MarkDirty()
	return l
}

// ScrollToTop requests scrolling to the start of the content.
func (l *VirtualList) ScrollToTop() *VirtualList {
	l.engine.ScrollToTop()
	l.MarkDirty()
	return l
}

// ScrollToBottom requests scrolling to the end of the content.
func (l *VirtualList) ScrollToBottom() *VirtualList {
	l.engine.ScrollToBottom()
	l.MarkDirty()
	return l
}

// ScrollToIndex requests scrolling so the given item starts at the top of
// the viewport.
func (l *VirtualList) ScrollToIndex(index int) *VirtualList {
	l.engine.ScrollToIndex(index)
	l.MarkDirty()
	return l
}

// EnsureVisible requests the smallest scroll that brings the given item
// fully into view under the anchor; an already fully visible item is left
// alone.
func (l *VirtualList) EnsureVisible(index int, anchor Anchor) *VirtualList {
	l.engine.EnsureVisible(index, anchor)
	l.MarkDirty()
	return l
}

// runTicks executes the measurement ticks that were due before this draw.
// Ticks scheduled while running, such as the follow-up batch, land in the
// next draw's slice; batches never nest within one tick.
func (l *VirtualList) runTicks() {
	due := l.ticks
	l.ticks = nil
	for _, fn := range due {
		fn()
	}
}

func (l *VirtualList) clampScroll(height int) {
	limit := max(l.engine.TotalExtent()-height, 0)
	l.scrollPos = min(max(l.scrollPos, 0), limit)
}

// Draw draws this primitive onto the screen.
func (l *VirtualList) Draw(screen tcell.Screen) {
	l.DrawForSubclass(screen, l)

	x, y, width, height := l.GetInnerRect()
	if width <= 0 || height <= 0 || l.builder == nil {
		return
	}

	// A width change invalidates every dynamic measurement; rebuild and
	// re-enqueue before resolving the viewport against stale sizes.
	if l.mode == SizeModeDynamic && width != l.measureWidth {
		l.measureWidth = width
		l.engine.InvalidateSizes()
	}

	l.runTicks()
	l.clampScroll(height)
	l.engine.Refresh()
	l.clampScroll(height)

	viewport := l.engine.Viewport()
	if viewport.Start >= 0 {
		clipped := newClippedScreen(screen, x, y, width, height)
		for i := viewport.Start; i <= viewport.End; i++ {
			item := l.builder(i)
			if item == nil {
				continue
			}
			ext := l.engine.Extent(i)
			item.SetRect(x, y+ext.Offset-l.scrollPos, width, ext.Size)
			item.Draw(clipped)
		}
	}

	l.thumb.Draw(screen)
}

// InputHandler returns the handler for this primitive.
func (l *VirtualList) InputHandler(event *tcell.EventKey) Command {
	_, _, _, height := l.GetInnerRect()
	switch event.Key() {
	case tcell.KeyUp:
		l.engine.ScrollBy(-1)
	case tcell.KeyDown:
		l.engine.ScrollBy(1)
	case tcell.KeyPgUp:
		l.engine.ScrollBy(-max(height, 1))
	case tcell.KeyPgDn:
		l.engine.ScrollBy(max(height, 1))
	case tcell.KeyHome:
		l.engine.ScrollToTop()
	case tcell.KeyEnd:
		l.engine.ScrollToBottom()
	default:
		return nil
	}
	l.MarkDirty()
	return RedrawCommand{}
}

// MouseHandler returns the mouse handler for this primitive.
func (l *VirtualList) MouseHandler(action MouseAction, event *tcell.EventMouse) (Primitive, Command) {
	// The thumb overlay gets first claim; it captures the mouse during
	// drags.
	if capture, cmd := l.thumb.MouseHandler(action, event); capture != nil || cmd != nil {
		l.MarkDirty()
		return capture, cmd
	}

	x, y := event.Position()
	inside := l.InRect(x, y)

	if action == MouseMove && l.hovered != inside {
		l.hovered = inside
		l.thumb.SetHovered(inside)
		if l.engine.ScrollBars() == ScrollBarOnHover {
			l.MarkDirty()
			return nil, RedrawCommand{}
		}
	}
	if !inside {
		return nil, nil
	}

	switch action {
	case MouseLeftDown:
		return nil, SetFocusCommand{Target: l}
	case MouseScrollUp:
		l.engine.ScrollBy(-l.engine.WheelSpeed())
		l.MarkDirty()
		return nil, RedrawCommand{}
	case MouseScrollDown:
		l.engine.ScrollBy(l.engine.WheelSpeed())
		l.MarkDirty()
		return nil, RedrawCommand{}
	}

	return nil, nil
}

var _ Primitive = &VirtualList{}
