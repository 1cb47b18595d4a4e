package virtlist

// MeasureFunc realizes the item at the given index and reports its size in
// cells. How the size is obtained is the host's business; the terminal
// widget asks the item to lay itself out for the current inner width, a
// test harness can return canned values.
type MeasureFunc func(index int) int

// TickFunc schedules fn onto a future render tick. Implementations must
// never invoke fn synchronously from the same call stack; the scheduler
// relies on this to bound per-tick work and yield to the host's rendering
// cycle between batches.
type TickFunc func(fn func())

// schedulerState owns the pending queue and the cancellation flag for one
// rebuild generation. Every scheduled batch closes over the state that was
// current when it was scheduled; a batch whose state belongs to a
// superseded generation is detected and discarded instead of applied.
type schedulerState struct {
	queue      []int
	cancelled  bool
	generation uint64
}

// Scheduler drains the measurement queue in bounded batches across render
// ticks. Items are measured strictly front-to-back; each completed batch
// mutates the PositionIndex through ApplyMeasuredRun and shifts downstream
// offsets. Successive batches run on successive ticks, never nested within
// one tick.
type Scheduler struct {
	index     *PositionIndex
	measure   MeasureFunc
	tick      TickFunc
	batchSize int

	state      *schedulerState
	generation uint64
	scheduled  bool

	applied func()
	settled func()
}

// NewScheduler returns a scheduler draining measurements into index.
// batchSize values below one are clamped to one.
func NewScheduler(index *PositionIndex, measure MeasureFunc, tick TickFunc, batchSize int) *Scheduler {
	if batchSize < 1 {
		batchSize = 1
	}
	return &Scheduler{
		index:     index,
		measure:   measure,
		tick:      tick,
		batchSize: batchSize,
	}
}

// SetAppliedFunc sets a handler invoked after a batch has applied measured
// sizes, i.e. whenever the total extent may have changed.
func (s *Scheduler) SetAppliedFunc(handler func()) *Scheduler {
	s.applied = handler
	return s
}

// SetSettledFunc sets a handler invoked when the queue drains completely.
func (s *Scheduler) SetSettledFunc(handler func()) *Scheduler {
	s.settled = handler
	return s
}

// Reset discards any in-flight measurement pass and installs a fresh queue
// for a new rebuild generation. The superseded state is cancelled so a
// batch already scheduled on a future tick aborts instead of touching the
// rebuilt index.
func (s *Scheduler) Reset(queue []int) {
	if s.state != nil {
		s.state.cancelled = true
	}
	s.generation++
	s.state = &schedulerState{queue: queue, generation: s.generation}
}

// Cancel requests cooperative cancellation of the in-flight batch. The
// flag is observed at the next item boundary; the remaining queue,
// including the item that was not completed, stays intact.
func (s *Scheduler) Cancel() {
	if s.state != nil {
		s.state.cancelled = true
	}
}

// Settled reports whether no measurements are pending.
func (s *Scheduler) Settled() bool {
	return s.state == nil || len(s.state.queue) == 0
}

// Pending returns the number of queued, unmeasured indices.
func (s *Scheduler) Pending() int {
	if s.state == nil {
		return 0
	}
	return len(s.state.queue)
}

// Kick schedules the next batch on a future tick if there is work and no
// batch is already scheduled.
func (s *Scheduler) Kick() {
	if s.scheduled || s.Settled() {
		return
	}
	s.scheduled = true
	st := s.state
	s.tick(func() {
		s.scheduled = false
		s.runBatch(st)
	})
}

// runBatch measures up to batchSize items from the front of st's queue.
// The cancellation flag is checked between items, not between batches, so
// an in-progress batch aborts early without losing the uncompleted index.
func (s *Scheduler) runBatch(st *schedulerState) {
	if st.generation != s.generation {
		// Stale batch from a superseded rebuild. Its tick slot is the
		// one the current generation was denied while this batch was
		// scheduled, so hand it over.
		s.Kick()
		return
	}

	limit := min(s.batchSize, len(st.queue))
	var (
		runFirst = -1
		sizes    []int
		applied  bool
	)
	flush := func() {
		if runFirst >= 0 && len(sizes) > 0 {
			s.index.ApplyMeasuredRun(runFirst, sizes)
			applied = true
		}
		runFirst, sizes = -1, nil
	}

	done := 0
	for ; done < limit; done++ {
		if st.cancelled {
			break
		}
		idx := st.queue[done]
		size := s.measure(idx)
		if st.generation != s.generation {
			// The measure callback rebuilt the list underneath us. The
			// partial batch belongs to a dead index; drop it wholesale
			// and let the fresh queue take the next tick.
			s.Kick()
			return
		}
		if runFirst >= 0 && idx == runFirst+len(sizes) {
			sizes = append(sizes, size)
		} else {
			flush()
			runFirst, sizes = idx, []int{size}
		}
	}
	aborted := st.cancelled
	st.queue = st.queue[done:]
	st.cancelled = false
	flush()

	if applied && s.applied != nil {
		s.applied()
	}
	if aborted {
		// A rebuild is on its way; it reseeds the queue unconditionally.
		return
	}
	if len(st.queue) > 0 {
		s.Kick()
	} else if s.settled != nil {
		s.settled()
	}
}
