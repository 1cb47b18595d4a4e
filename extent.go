package virtlist

import "fmt"

// SizeMode selects how item sizes are determined.
type SizeMode int

const (
	// SizeModeFixed gives every item the same, known size. No measurement
	// pass is needed; all extents are resolved immediately.
	SizeModeFixed SizeMode = iota

	// SizeModeDynamic seeds every item with an estimated size and resolves
	// real sizes through the measurement scheduler.
	SizeModeDynamic
)

// String returns the mode name.
func (m SizeMode) String() string {
	switch m {
	case SizeModeFixed:
		return "fixed"
	case SizeModeDynamic:
		return "dynamic"
	}
	return "unknown"
}

// ItemExtent records one item's position within the cumulative layout.
// Offset is the distance from the start of the content, Size the item's
// current (measured or estimated) size, both in cells.
type ItemExtent struct {
	Offset int
	Size   int

	// Resolved is true once Size came from a real measurement rather than
	// an estimate. Fixed mode resolves everything at rebuild time.
	Resolved bool
}

// End returns the first offset past this extent.
func (e ItemExtent) End() int {
	return e.Offset + e.Size
}

// ExtentError reports a rebuild whose cumulative extent would overflow the
// maximum representable extent. Index names the first offending item.
type ExtentError struct {
	Index  int
	Extent int
	Max    int
}

func (e *ExtentError) Error() string {
	return fmt.Sprintf("virtlist: extent %d at index %d exceeds maximum representable extent %d", e.Extent, e.Index, e.Max)
}

// DefaultMaxExtent is the maximum total extent used when Options.MaxExtent
// is left zero.
const DefaultMaxExtent = 1 << 30

// PositionIndex maps an item index to its extent and maintains the
// prefix-sum invariant: the first offset is zero and every offset is the
// previous offset plus the previous size. The invariant holds after every
// mutation, not just once measurement settles.
//
// The index is exclusively owned by the engine and its scheduler. Callers
// must re-query after any rebuild or measured run; returned extents are
// copies, never references into the table.
type PositionIndex struct {
	extents    []ItemExtent
	maxExtent  int
	unresolved int
}

// NewPositionIndex returns an empty index. maxExtent bounds the total
// extent of any rebuild; values below one fall back to DefaultMaxExtent.
func NewPositionIndex(maxExtent int) *PositionIndex {
	if maxExtent < 1 {
		maxExtent = DefaultMaxExtent
	}
	return &PositionIndex{maxExtent: maxExtent}
}

// Rebuild reseeds the index with count extents of the given size. In fixed
// mode every extent is resolved; in dynamic mode every extent carries the
// estimate and remains unresolved until a measured run covers it.
//
// A count/size combination whose total extent would exceed the maximum
// representable extent fails with an *ExtentError naming the first item
// that does not fit. The previous contents are discarded either way.
func (p *PositionIndex) Rebuild(count int, mode SizeMode, size int) error {
	if count < 0 {
		count = 0
	}
	if size < 1 {
		size = 1
	}
	p.extents = make([]ItemExtent, count)
	p.unresolved = 0

	resolved := mode == SizeModeFixed
	offset := 0
	for i := range count {
		if offset+size > p.maxExtent {
			p.extents = nil
			return &ExtentError{Index: i, Extent: offset + size, Max: p.maxExtent}
		}
		p.extents[i] = ItemExtent{Offset: offset, Size: size, Resolved: resolved}
		offset += size
	}
	if !resolved {
		p.unresolved = count
	}
	return nil
}

// ApplyMeasuredRun overwrites the extents for [first, first+len(sizes))
// with measured sizes, marks them resolved, recomputes their offsets from
// the extent preceding the run, and shifts every offset after the run so
// the prefix-sum invariant holds again. It returns the new total extent.
//
// Out-of-range portions of the run are ignored; a run from a superseded
// rebuild generation is expected to be filtered out by the scheduler
// before it gets here.
func (p *PositionIndex) ApplyMeasuredRun(first int, sizes []int) int {
	if first < 0 {
		sizes = sizes[min(-first, len(sizes)):]
		first = 0
	}
	if first >= len(p.extents) || len(sizes) == 0 {
		return p.TotalExtent()
	}
	n := min(len(sizes), len(p.extents)-first)

	offset := 0
	if first > 0 {
		offset = p.extents[first-1].End()
	}
	for i := range n {
		size := max(sizes[i], 1)
		ext := &p.extents[first+i]
		if !ext.Resolved {
			p.unresolved--
		}
		ext.Offset = offset
		ext.Size = size
		ext.Resolved = true
		offset += size
	}

	// Shift the tail; sizes after the run are untouched.
	for i := first + n; i < len(p.extents); i++ {
		p.extents[i].Offset = offset
		offset += p.extents[i].Size
	}
	return offset
}

// Len returns the number of items in the index.
func (p *PositionIndex) Len() int {
	return len(p.extents)
}

// Extent returns a copy of the extent at index i. It panics when i is out
// of range, matching slice semantics.
func (p *PositionIndex) Extent(i int) ItemExtent {
	return p.extents[i]
}

// TotalExtent returns the total content extent, zero for an empty index.
func (p *PositionIndex) TotalExtent() int {
	if len(p.extents) == 0 {
		return 0
	}
	return p.extents[len(p.extents)-1].End()
}

// Unresolved returns how many extents still carry an estimated size.
func (p *PositionIndex) Unresolved() int {
	return p.unresolved
}

// MaxExtent returns the configured maximum representable extent.
func (p *PositionIndex) MaxExtent() int {
	return p.maxExtent
}
