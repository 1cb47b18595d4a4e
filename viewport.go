package virtlist

import "sort"

// Viewport is the contiguous index range currently intersecting the
// visible window. Both bounds are inclusive; both are -1 when the list is
// empty or the window has no size.
type Viewport struct {
	Start int
	End   int
}

// EmptyViewport is the sentinel returned for degenerate queries.
var EmptyViewport = Viewport{Start: -1, End: -1}

// Contains reports whether index i lies within the viewport.
func (v Viewport) Contains(i int) bool {
	return v.Start >= 0 && i >= v.Start && i <= v.End
}

// IndexAt returns the index of the item whose extent contains the given
// offset: the item i with offset[i] <= v < offset[i]+size[i]. A value at
// an item's exact starting offset resolves to that item, so a value at an
// item's trailing boundary resolves to the next one. Values past the total
// extent clamp to the last index, negative values to the first.
//
// Runs in O(log N); the resolver is on the per-frame path and a linear
// fallback is not acceptable even transiently.
func (p *PositionIndex) IndexAt(v int) int {
	n := len(p.extents)
	if n == 0 {
		return -1
	}
	if v < 0 {
		return 0
	}
	// First index whose extent ends past v, i.e. the smallest i with
	// v < offset[i]+size[i]. Offsets are non-decreasing, so this is a
	// plain predicate search.
	i := sort.Search(n, func(i int) bool {
		return v < p.extents[i].End()
	})
	if i == n {
		return n - 1
	}
	return i
}

// ResolveViewport binary-searches the index for the first and last items
// intersecting the window [scrollOffset, scrollOffset+viewportSize). An
// empty index or a non-positive window yields EmptyViewport; this is a
// normal transient state, not an error.
func (p *PositionIndex) ResolveViewport(scrollOffset, viewportSize int) Viewport {
	if len(p.extents) == 0 || viewportSize <= 0 {
		return EmptyViewport
	}
	start := p.IndexAt(scrollOffset)
	// The window is half-open, so search its last contained cell. Searching
	// scrollOffset+viewportSize itself would land on an item that starts
	// exactly at the bottom edge and is not visible at all.
	end := p.IndexAt(scrollOffset + viewportSize - 1)
	if end < start {
		end = start
	}
	return Viewport{Start: start, End: end}
}
