package virtlist

import "github.com/gdamore/tcell/v3"

// ThumbBarArrows controls which endcaps are rendered.
type ThumbBarArrows uint8

const (
	ThumbBarArrowsNone ThumbBarArrows = iota
	ThumbBarArrowsStart
	ThumbBarArrowsEnd
	ThumbBarArrowsBoth
)

func (a ThumbBarArrows) hasStart() bool {
	return a == ThumbBarArrowsStart || a == ThumbBarArrowsBoth
}

func (a ThumbBarArrows) hasEnd() bool {
	return a == ThumbBarArrowsEnd || a == ThumbBarArrowsBoth
}

// TrackClickBehavior configures behavior when clicking track cells outside
// the thumb.
type TrackClickBehavior uint8

const (
	// TrackClickBehaviorPage scrolls one viewport towards the click.
	TrackClickBehaviorPage TrackClickBehavior = iota
	// TrackClickBehaviorJumpToClick centers the thumb on the click.
	TrackClickBehaviorJumpToClick
)

const subcell = 8

// GlyphSet defines vertical track, arrow, and fractional thumb glyphs.
type GlyphSet struct {
	Track string

	ArrowStart string
	ArrowEnd   string

	ThumbLower [8]string
	ThumbUpper [8]string
}

// MinimalGlyphSet returns the minimal glyph set (space track, fractional
// thumbs).
func MinimalGlyphSet() GlyphSet {
	g := LegacyComputingGlyphSet()
	g.Track = " "
	return g
}

// LegacyComputingGlyphSet returns legacy-computing symbols for full
// 1/8-cell fractional fidelity.
func LegacyComputingGlyphSet() GlyphSet {
	return GlyphSet{
		Track: "│",

		ArrowStart: "▲",
		ArrowEnd:   "▼",

		ThumbLower: [8]string{"▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"},
		ThumbUpper: [8]string{"▔", "🮂", "🮃", "▀", "🮄", "🮅", "🮆", "█"},
	}
}

// UnicodeGlyphSet returns a standard-unicode-only approximation set.
func UnicodeGlyphSet() GlyphSet {
	return GlyphSet{
		Track: "│",

		ArrowStart: "▲",
		ArrowEnd:   "▼",

		ThumbLower: [8]string{"▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"},
		ThumbUpper: [8]string{"▔", "▔", "▀", "▀", "▀", "▀", "█", "█"},
	}
}

// ThumbBar is a floating vertical scrollbar driven entirely by host
// dimension snapshots: it implements ScrollbarProxy, derives its thumb
// geometry from the latest snapshot, and reports drag gestures, track
// clicks, and wheel steps back as requested absolute offsets. The engine
// treats those exactly like any other navigation request.
type ThumbBar struct {
	*Box

	visibility  ScrollBarVisibility
	hovered     bool
	contentLen  int
	viewportLen int
	offset      int

	trackStyle tcell.Style
	thumbStyle tcell.Style
	arrowStyle tcell.Style

	glyphSet GlyphSet
	arrows   ThumbBarArrows

	trackClickBehavior TrackClickBehavior
	scrollStep         int

	showTrack bool

	dragging bool
	dragGrab int // subcell distance from the thumb start to the grab point

	request func(offset int)
}

// NewThumbBar returns a new vertical thumb bar.
func NewThumbBar() *ThumbBar {
	return &ThumbBar{
		Box:                NewBox(),
		trackStyle:         tcell.StyleDefault.Dim(true),
		thumbStyle:         tcell.StyleDefault,
		arrowStyle:         tcell.StyleDefault.Dim(true),
		glyphSet:           MinimalGlyphSet(),
		arrows:             ThumbBarArrowsNone,
		trackClickBehavior: TrackClickBehaviorPage,
		scrollStep:         1,
		showTrack:          true,
	}
}

// SetRequestFunc sets the handler receiving requested offsets from user
// gestures.
func (s *ThumbBar) SetRequestFunc(handler func(offset int)) *ThumbBar {
	s.request = handler
	return s
}

// SetVisibility sets the visibility policy.
func (s *ThumbBar) SetVisibility(visibility ScrollBarVisibility) *ThumbBar {
	if s.visibility != visibility {
		s.visibility = visibility
		s.MarkDirty()
	}
	return s
}

// SetHovered reports whether the pointer is currently over the host rect.
// Only relevant under ScrollBarOnHover.
func (s *ThumbBar) SetHovered(hovered bool) *ThumbBar {
	if s.hovered != hovered {
		s.hovered = hovered
		s.MarkDirty()
	}
	return s
}

// Update consumes a host dimension snapshot. The bar floats over the right
// edge of the host rect and spans its main-axis size.
func (s *ThumbBar) Update(snapshot HostDimensionSnapshot) {
	s.contentLen = max(snapshot.HostScrollSize, 0)
	s.viewportLen = max(snapshot.HostSize, 0)
	s.offset = max(snapshot.HostScrollPos, 0)
	s.SetRect(snapshot.HostLeft+snapshot.HostCrossSize-1, snapshot.HostTop, 1, snapshot.HostSize)
	s.MarkDirty()
}

// SetGlyphSet applies a glyph set.
func (s *ThumbBar) SetGlyphSet(g GlyphSet) *ThumbBar {
	s.glyphSet = g
	return s
}

// SetArrows sets which arrow endcaps are rendered.
func (s *ThumbBar) SetArrows(arrows ThumbBarArrows) *ThumbBar {
	if s.arrows != arrows {
		s.arrows = arrows
	}
	return s
}

// SetTrackClickBehavior sets behavior used for track clicks.
func (s *ThumbBar) SetTrackClickBehavior(behavior TrackClickBehavior) *ThumbBar {
	if s.trackClickBehavior != behavior {
		s.trackClickBehavior = behavior
	}
	return s
}

// SetScrollStep sets the scroll step used by wheel and arrow interactions.
func (s *ThumbBar) SetScrollStep(step int) *ThumbBar {
	if step < 1 {
		step = 1
	}
	if s.scrollStep != step {
		s.scrollStep = step
	}
	return s
}

// SetThumbStyle sets the thumb style.
func (s *ThumbBar) SetThumbStyle(style tcell.Style) *ThumbBar {
	if s.thumbStyle != style {
		s.thumbStyle = style
	}
	return s
}

// SetTrackGlyph sets the track symbol and visibility.
func (s *ThumbBar) SetTrackGlyph(glyph string, visible bool) *ThumbBar {
	s.glyphSet.Track = glyph
	s.showTrack = visible
	return s
}

// SetTrackStyle sets the track style.
func (s *ThumbBar) SetTrackStyle(style tcell.Style) *ThumbBar {
	if s.trackStyle != style {
		s.trackStyle = style
	}
	return s
}

// SetArrowStyle sets the arrow endcap style.
func (s *ThumbBar) SetArrowStyle(style tcell.Style) *ThumbBar {
	if s.arrowStyle != style {
		s.arrowStyle = style
	}
	return s
}

func (s *ThumbBar) trackLengthExcludingArrowHeads(length int) int {
	if length <= 0 {
		return 0
	}
	arrows := 0
	if s.arrows.hasStart() {
		arrows++
	}
	if s.arrows.hasEnd() {
		arrows++
	}
	return max(length-arrows, 0)
}

type scrollMetrics struct {
	trackCells int
	trackLen   int
	thumbLen   int
	thumbStart int
}

// metrics computes scrollbar geometry in subcell units.
func (s *ThumbBar) metrics(length int) scrollMetrics {
	trackCells := s.trackLengthExcludingArrowHeads(length)
	return computeScrollMetrics(trackCells, s.contentLen, s.viewportLen, s.offset)
}

func computeScrollMetrics(trackCells int, contentLen int, viewportLen int, offset int) scrollMetrics {
	trackLen := trackCells * subcell
	if trackLen == 0 {
		return scrollMetrics{}
	}

	contentLen = max(contentLen, 1)
	viewportLen = min(max(viewportLen, 1), contentLen)
	maxOffset := max(contentLen-viewportLen, 0)
	offset = min(max(offset, 0), maxOffset)

	if maxOffset == 0 {
		return scrollMetrics{trackCells: trackCells, trackLen: trackLen, thumbLen: trackLen, thumbStart: 0}
	}

	// Subcell math lets the thumb move in 1/8-cell steps while staying
	// proportional to viewport/content size.
	thumbLen := min(max((trackLen*viewportLen)/contentLen, subcell), trackLen)
	thumbTravel := max(trackLen-thumbLen, 0)
	thumbStart := (thumbTravel * offset) / maxOffset
	return scrollMetrics{trackCells: trackCells, trackLen: trackLen, thumbLen: thumbLen, thumbStart: thumbStart}
}

// offsetForThumbStart inverts the thumb placement: the content offset that
// would put the thumb's leading edge at the given subcell position.
func offsetForThumbStart(m scrollMetrics, contentLen, viewportLen, thumbStart int) int {
	thumbTravel := max(m.trackLen-m.thumbLen, 0)
	contentLen = max(contentLen, 1)
	viewportLen = min(max(viewportLen, 1), contentLen)
	maxOffset := contentLen - viewportLen
	if thumbTravel == 0 || maxOffset == 0 {
		return 0
	}
	thumbStart = min(max(thumbStart, 0), thumbTravel)
	return (thumbStart * maxOffset) / thumbTravel
}

func (s *ThumbBar) shouldDraw(length int, m scrollMetrics) bool {
	if length <= 0 || m.trackLen == 0 || s.contentLen <= 0 {
		return false
	}
	switch s.visibility {
	case ScrollBarAlways:
		return true
	case ScrollBarOnHover:
		if !s.hovered && !s.dragging {
			return false
		}
	}
	return s.contentLen > min(max(s.viewportLen, 1), s.contentLen)
}

func cellFill(m scrollMetrics, cellIndex int) (start int, fillLen int) {
	if m.thumbLen == 0 {
		return 0, 0
	}
	cellStart := cellIndex * subcell
	cellEnd := cellStart + subcell
	thumbEnd := m.thumbStart + m.thumbLen
	start = max(m.thumbStart, cellStart)
	end := min(thumbEnd, cellEnd)
	if end <= start {
		return 0, 0
	}
	// Convert absolute subcell coverage into cell-local [start,len] used
	// by fractional glyph selection.
	fillLen = min(end-start, subcell)
	start = min(max(start-cellStart, 0), subcell)
	return start, fillLen
}

func (s *ThumbBar) glyphFor(start, fillLen int) (string, tcell.Style) {
	if fillLen <= 0 {
		if !s.showTrack {
			return " ", s.trackStyle
		}
		return s.glyphSet.Track, s.trackStyle
	}
	if fillLen >= subcell {
		return s.glyphSet.ThumbLower[7], s.thumbStyle
	}
	ix := fillLen - 1
	if start == 0 {
		return s.glyphSet.ThumbUpper[ix], s.thumbStyle
	}
	return s.glyphSet.ThumbLower[ix], s.thumbStyle
}

// Draw draws the thumb bar.
func (s *ThumbBar) Draw(screen tcell.Screen) {
	x, y, _, height := s.GetRect()
	if height <= 0 {
		return
	}
	m := s.metrics(height)
	if !s.shouldDraw(height, m) {
		return
	}

	idx := 0
	if s.arrows.hasStart() {
		screen.Put(x, y+idx, s.glyphSet.ArrowStart, s.arrowStyle)
		idx++
	}

	for cell := 0; cell < m.trackCells; cell++ {
		start, fillLen := cellFill(m, cell)
		glyph, style := s.glyphFor(start, fillLen)
		screen.Put(x, y+idx, glyph, style)
		idx++
	}

	if s.arrows.hasEnd() {
		screen.Put(x, y+idx, s.glyphSet.ArrowEnd, s.arrowStyle)
	}
}

func (s *ThumbBar) emit(offset int) {
	if s.request != nil {
		s.request(max(offset, 0))
	}
}

// trackCellAt maps a screen row to a track cell index, or -1 for arrow
// endcaps and out-of-track rows.
func (s *ThumbBar) trackCellAt(y int) int {
	_, top, _, height := s.GetRect()
	row := y - top
	if s.arrows.hasStart() {
		row--
	}
	if row < 0 || row >= s.trackLengthExcludingArrowHeads(height) {
		return -1
	}
	return row
}

// MouseHandler turns gestures on the bar into requested offsets. While the
// thumb is being dragged the bar captures the mouse so moves outside the
// one-cell column keep steering the scroll.
func (s *ThumbBar) MouseHandler(action MouseAction, event *tcell.EventMouse) (Primitive, Command) {
	x, y := event.Position()
	_, top, _, height := s.GetRect()
	m := s.metrics(height)

	if s.dragging {
		switch action {
		case MouseMove:
			cell := min(max(y-top, 0), max(height-1, 0))
			s.emit(offsetForThumbStart(m, s.contentLen, s.viewportLen, cell*subcell-s.dragGrab))
			return s, RedrawCommand{}
		case MouseLeftUp:
			s.dragging = false
			return nil, RedrawCommand{}
		}
		return s, nil
	}

	if !s.InRect(x, y) || !s.shouldDraw(height, m) {
		return nil, nil
	}

	switch action {
	case MouseLeftDown:
		cell := s.trackCellAt(y)
		if cell < 0 {
			// Arrow endcap.
			if s.arrows.hasStart() && y == top {
				s.emit(s.offset - s.scrollStep)
			} else if s.arrows.hasEnd() && y == top+height-1 {
				s.emit(s.offset + s.scrollStep)
			}
			return nil, RedrawCommand{}
		}
		sub := cell * subcell
		if sub >= m.thumbStart && sub < m.thumbStart+m.thumbLen {
			// Grab the thumb.
			s.dragging = true
			s.dragGrab = sub - m.thumbStart
			return s, RedrawCommand{}
		}
		switch s.trackClickBehavior {
		case TrackClickBehaviorJumpToClick:
			s.emit(offsetForThumbStart(m, s.contentLen, s.viewportLen, sub-m.thumbLen/2))
		default:
			if sub < m.thumbStart {
				s.emit(s.offset - s.viewportLen)
			} else {
				s.emit(s.offset + s.viewportLen)
			}
		}
		return nil, RedrawCommand{}
	case MouseScrollUp:
		s.emit(s.offset - s.scrollStep)
		return nil, RedrawCommand{}
	case MouseScrollDown:
		s.emit(s.offset + s.scrollStep)
		return nil, RedrawCommand{}
	}

	return nil, nil
}

var _ Primitive = &ThumbBar{}
var _ ScrollbarProxy = &ThumbBar{}
