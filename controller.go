package virtlist

// Anchor selects how EnsureVisible lands the target item in the viewport.
type Anchor int

const (
	// AnchorTop aligns the item's leading edge with the top of the window.
	AnchorTop Anchor = iota
	// AnchorBottom aligns the item's trailing edge with the bottom.
	AnchorBottom
	// AnchorCenter centers the item within the window.
	AnchorCenter
)

// String returns the anchor name.
func (a Anchor) String() string {
	switch a {
	case AnchorTop:
		return "top"
	case AnchorBottom:
		return "bottom"
	case AnchorCenter:
		return "center"
	}
	return "unknown"
}

// ControllerState describes what the scroll controller is currently doing.
type ControllerState int

const (
	// ControllerIdle means no scroll request is outstanding.
	ControllerIdle ControllerState = iota
	// ControllerPending means a request is waiting for the next
	// reconciliation pass.
	ControllerPending
	// ControllerMeasuring means a request is being held back until the
	// in-flight measurement pass settles.
	ControllerMeasuring
)

// ScrollController translates imperative navigation commands and scrollbar
// drag deltas into a target scroll offset and applies it to the host on
// the next reconciliation pass. At most one request is outstanding at a
// time; a newer request overwrites an unapplied one.
//
// When reposition deferral is enabled, a request issued while measurement
// is in flight is held, not dropped, until the queue settles. Requests are
// stored as targets, not offsets: an index-based request held across a
// measurement pass resolves against the final offsets when it is applied,
// so it lands on the item even though every offset shifted in between.
type ScrollController struct {
	index     *PositionIndex
	host      Host
	measuring func() bool

	deferReposition bool

	pending    func() int
	lastOffset int

	scrolled func(offset int)
}

// NewScrollController returns a controller reading extents from index and
// applying offsets to host. measuring reports whether a measurement pass
// is still in flight; it may be nil when the list is fixed-size.
func NewScrollController(index *PositionIndex, host Host, measuring func() bool) *ScrollController {
	return &ScrollController{
		index:     index,
		host:      host,
		measuring: measuring,
	}
}

// SetDeferReposition toggles holding requests while measurement is in
// flight.
func (c *ScrollController) SetDeferReposition(deferReposition bool) *ScrollController {
	c.deferReposition = deferReposition
	return c
}

// SetScrolledFunc sets a handler invoked with the applied offset whenever
// a request lands on the host.
func (c *ScrollController) SetScrolledFunc(handler func(offset int)) *ScrollController {
	c.scrolled = handler
	return c
}

// State returns the controller's current state.
func (c *ScrollController) State() ControllerState {
	if c.pending == nil {
		return ControllerIdle
	}
	if c.deferReposition && c.isMeasuring() {
		return ControllerMeasuring
	}
	return ControllerPending
}

// LastOffset returns the offset most recently applied to the host.
func (c *ScrollController) LastOffset() int {
	return c.lastOffset
}

// ScrollToTop requests the zero offset.
func (c *ScrollController) ScrollToTop() {
	c.requestOffset(0)
}

// ScrollToBottom requests the maximum representable extent; the host range
// clamp lands it on the real end of the content.
func (c *ScrollController) ScrollToBottom() {
	c.request(func() int { return c.index.MaxExtent() })
}

// ScrollToIndex requests the offset of item i. Out-of-range indices clamp
// to the list bounds; an empty list ignores the call. The offset is read
// when the request is applied, so a request held across a measurement
// pass follows the item to its settled position.
func (c *ScrollController) ScrollToIndex(i int) {
	if c.index.Len() == 0 {
		return
	}
	c.request(func() int {
		n := c.index.Len()
		if n == 0 {
			return 0
		}
		return c.index.Extent(min(max(i, 0), n-1)).Offset
	})
}

// EnsureVisible requests an offset that brings item i fully inside the
// viewport under the given anchor. An item that is already fully visible
// generates no request. Like ScrollToIndex, the anchor math runs against
// the extents and metrics current when the request is applied.
func (c *ScrollController) EnsureVisible(i int, anchor Anchor) {
	n := c.index.Len()
	if n == 0 {
		return
	}
	ext := c.index.Extent(min(max(i, 0), n-1))
	m := c.host.Metrics()
	if m.Size > 0 && ext.Offset >= m.ScrollPos && ext.End() <= m.ScrollPos+m.Size {
		return
	}

	c.request(func() int {
		n := c.index.Len()
		if n == 0 {
			return 0
		}
		ext := c.index.Extent(min(max(i, 0), n-1))
		m := c.host.Metrics()
		switch anchor {
		case AnchorBottom:
			return ext.End() - m.Size
		case AnchorCenter:
			return ext.Offset - (m.Size-ext.Size)/2
		}
		return ext.Offset
	})
}

// RequestOffset requests an absolute scroll offset. Scrollbar drags and
// wheel deltas funnel through here and are subject to the same deferral
// rules as index-based navigation.
func (c *ScrollController) RequestOffset(offset int) {
	c.requestOffset(offset)
}

// ScrollBy requests a relative scroll of delta cells. Deltas issued within
// the same pass accumulate onto the still-pending target rather than the
// stale host position.
func (c *ScrollController) ScrollBy(delta int) {
	base := c.host.Metrics().ScrollPos
	if c.pending != nil {
		base = c.pending()
	}
	c.requestOffset(base + delta)
}

// noteOffset records a scroll position the host reached on its own, so
// LastOffset stays truthful for externally driven scrolls.
func (c *ScrollController) noteOffset(offset int) {
	c.lastOffset = max(offset, 0)
}

func (c *ScrollController) request(target func() int) {
	// Last write wins; there is no queue of historical requests.
	c.pending = target
}

func (c *ScrollController) requestOffset(offset int) {
	offset = max(offset, 0)
	c.request(func() int { return offset })
}

func (c *ScrollController) isMeasuring() bool {
	return c.measuring != nil && c.measuring()
}

// Reconcile applies the outstanding request, if any. A request held back
// by reposition deferral stays pending until measurement settles. It
// returns true when an offset was applied to the host.
func (c *ScrollController) Reconcile() bool {
	if c.pending == nil {
		return false
	}
	if c.deferReposition && c.isMeasuring() {
		return false
	}

	m := c.host.Metrics()
	limit := max(m.ScrollSize-m.Size, 0)
	offset := min(max(c.pending(), 0), limit)

	c.pending = nil
	c.lastOffset = offset
	c.host.SetScrollPos(offset)
	if c.scrolled != nil {
		c.scrolled(offset)
	}
	return true
}

// Focus passes focus through to the host element.
func (c *ScrollController) Focus() {
	c.host.Focus()
}
