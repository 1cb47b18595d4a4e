package virtlist

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// stubItem is an Item with a canned height; the width it was measured at
// is recorded so tests can assert measurement plumbing.
type stubItem struct {
	*Box
	height        int
	measuredWidth int
}

func (s *stubItem) Height(width int) int {
	s.measuredWidth = width
	return s.height
}

func stubBuilder(heights map[int]int) (Builder, map[int]*stubItem) {
	built := map[int]*stubItem{}
	return func(index int) Item {
		item := &stubItem{Box: NewBox(), height: heights[index]}
		built[index] = item
		return item
	}, built
}

func TestVirtualListConstruction(t *testing.T) {
	builder, _ := stubBuilder(nil)

	l, err := NewVirtualList(builder, Options{Count: 100, Mode: SizeModeFixed, ItemSize: 2})
	require.NoError(t, err)
	require.Equal(t, 100, l.Len())
	require.Equal(t, 200, l.Engine().TotalExtent())
	require.NotNil(t, l.ThumbBar())

	_, err = NewVirtualList(builder, Options{
		Count:     2,
		Mode:      SizeModeFixed,
		ItemSize:  800,
		MaxExtent: 1000,
	})
	var extErr *ExtentError
	require.ErrorAs(t, err, &extErr)
	require.Equal(t, 1, extErr.Index)
}

func TestVirtualListHostMetrics(t *testing.T) {
	builder, _ := stubBuilder(nil)
	l, err := NewVirtualList(builder, Options{Count: 50, Mode: SizeModeFixed, ItemSize: 3})
	require.NoError(t, err)
	l.SetRect(4, 2, 30, 12)
	l.scrollPos = 9

	m := listHost{l}.Metrics()
	require.Equal(t, 4, m.Left)
	require.Equal(t, 2, m.Top)
	require.Equal(t, 12, m.Size)
	require.Equal(t, 30, m.CrossSize)
	require.Equal(t, 9, m.ScrollPos)
	require.Equal(t, 150, m.ScrollSize, "scroll range tracks the total extent")

	// A border shrinks the inner rect the metrics are taken from.
	l.SetBorder(true)
	m = listHost{l}.Metrics()
	require.Equal(t, 5, m.Left)
	require.Equal(t, 10, m.Size)
	require.Equal(t, 28, m.CrossSize)
}

func TestVirtualListDefaultTickQueuesForNextDraw(t *testing.T) {
	builder, _ := stubBuilder(nil)
	l, err := NewVirtualList(builder, Options{Count: 10, Mode: SizeModeDynamic, ItemSize: 2, BatchSize: 4})
	require.NoError(t, err)

	// Construction kicked the first batch; nothing may run until the
	// widget drains its tick queue.
	require.Len(t, l.ticks, 1)
	require.False(t, l.Engine().Settled())
	require.Equal(t, 20, l.Engine().TotalExtent())

	l.measureWidth = 25
	l.runTicks()
	// The batch ran and scheduled its successor for the next draw, not
	// within the same drain.
	require.Len(t, l.ticks, 1)
	require.False(t, l.Engine().Settled())

	l.runTicks()
	l.runTicks()
	require.Empty(t, l.ticks)
	require.True(t, l.Engine().Settled())
}

func TestVirtualListMeasuresAtInnerWidth(t *testing.T) {
	builder, built := stubBuilder(map[int]int{0: 3, 1: 5, 2: 0})
	l, err := NewVirtualList(builder, Options{Count: 3, Mode: SizeModeDynamic, ItemSize: 2, BatchSize: 8})
	require.NoError(t, err)

	l.measureWidth = 40
	l.runTicks()
	require.True(t, l.Engine().Settled())
	require.Equal(t, 3+5+1, l.Engine().TotalExtent())
	require.Equal(t, 40, built[1].measuredWidth)

	// Zero heights clamp to one cell so empty items cannot collapse the
	// offset table.
	require.Equal(t, 1, l.Engine().Extent(2).Size)
}

func TestVirtualListMeasureItemFloorsAtOne(t *testing.T) {
	builder := func(index int) Item {
		if index == 0 {
			return nil
		}
		return &stubItem{Box: NewBox(), height: 0}
	}
	l, err := NewVirtualList(builder, Options{Count: 2, Mode: SizeModeDynamic, ItemSize: 2})
	require.NoError(t, err)

	require.Equal(t, 1, l.measureItem(0), "nil items occupy a blank row")
	require.Equal(t, 1, l.measureItem(1), "zero heights clamp to one cell")
}

func TestVirtualListSetCountRestarts(t *testing.T) {
	builder, _ := stubBuilder(map[int]int{})
	l, err := NewVirtualList(builder, Options{Count: 6, Mode: SizeModeDynamic, ItemSize: 2, BatchSize: 16})
	require.NoError(t, err)
	l.runTicks()
	require.True(t, l.Engine().Settled())

	require.NoError(t, l.SetCount(4))
	require.Equal(t, 4, l.Len())
	require.False(t, l.Engine().Settled(), "a new count re-enqueues every index")
	for len(l.ticks) > 0 {
		l.runTicks()
	}
	require.True(t, l.Engine().Settled())
}

func TestVirtualListClampScroll(t *testing.T) {
	builder, _ := stubBuilder(nil)
	l, err := NewVirtualList(builder, Options{Count: 20, Mode: SizeModeFixed, ItemSize: 2})
	require.NoError(t, err)

	l.scrollPos = 999
	l.clampScroll(10)
	require.Equal(t, 30, l.scrollPos, "scroll stops at content end minus one window")

	l.scrollPos = -4
	l.clampScroll(10)
	require.Equal(t, 0, l.scrollPos)

	// A window taller than the content pins the scroll at zero.
	l.scrollPos = 5
	l.clampScroll(100)
	require.Equal(t, 0, l.scrollPos)
}

func TestVirtualListNavigationDrivesScrollPos(t *testing.T) {
	builder, _ := stubBuilder(nil)
	l, err := NewVirtualList(builder, Options{Count: 100, Mode: SizeModeFixed, ItemSize: 2})
	require.NoError(t, err)
	l.SetRect(0, 0, 20, 10)

	l.ScrollToIndex(40)
	l.Engine().Refresh()
	require.Equal(t, 80, l.scrollPos)
	require.Equal(t, Viewport{Start: 40, End: 44}, l.GetViewport())

	l.ScrollToBottom()
	l.Engine().Refresh()
	require.Equal(t, 190, l.scrollPos)

	l.ScrollToTop()
	l.Engine().Refresh()
	require.Equal(t, 0, l.scrollPos)

	l.ForceRefresh(64)
	require.Equal(t, 64, l.scrollPos)
}

func TestVirtualListThumbRequestsFeedTheEngine(t *testing.T) {
	builder, _ := stubBuilder(nil)
	l, err := NewVirtualList(builder, Options{Count: 100, Mode: SizeModeFixed, ItemSize: 2})
	require.NoError(t, err)
	l.SetRect(0, 0, 20, 10)

	// A drag gesture surfaces as a request; the next refresh applies it
	// like any other navigation.
	l.ThumbBar().emit(120)
	require.Equal(t, ControllerPending, l.Engine().State())
	l.Engine().Refresh()
	require.Equal(t, 120, l.scrollPos)
	require.Equal(t, Viewport{Start: 60, End: 64}, l.GetViewport())
}
