package workshare

// StaticResult distinguishes the three outcomes of a static scheduler's
// Next call: a range was produced and more may follow, a range was
// produced and it was the team's absolutely final one, or no range was
// produced at all.
type StaticResult int

const (
	// StaticMore indicates a range was produced, and this worker may be
	// handed further ranges by future calls.
	StaticMore StaticResult = iota
	// StaticDone indicates no range was produced: this worker's share has
	// no further iterations.
	StaticDone
	// StaticLast indicates a range was produced and it was the final one
	// of the whole team's iteration space. Every call made after a
	// worker's assignment is exhausted also returns it, with an empty
	// range.
	StaticLast
)

func (r StaticResult) String() string {
	switch r {
	case StaticMore:
		return "more"
	case StaticDone:
		return "done"
	case StaticLast:
		return "last"
	default:
		return "unknown"
	}
}

// StaticScheduler implements the static policy: a closed-form
// partitioning of the iteration space with no shared writes once the
// WorkShare is published (spec.md §4.1).
type StaticScheduler struct {
	ts *ThreadState
}

// NewStaticScheduler wraps ts for the static policy.
func NewStaticScheduler(ts *ThreadState) *StaticScheduler { return &StaticScheduler{ts: ts} }

// Next returns this worker's next static range. Once a worker's
// assignment is exhausted, staticTrip is set to -1 and every subsequent
// call returns (0, 0, StaticLast) without any further side effects,
// matching spec.md §4.1's terminal behavior literally.
func (s *StaticScheduler) Next() (pstart, pend int64, result StaticResult) {
	ts := s.ts
	ws := ts.ws

	if ts.staticTrip < 0 {
		return 0, 0, StaticLast
	}

	n := ws.numIterationsTotal
	nthreads := int64(ws.nthreads)
	tid := int64(ts.teamID)

	if ws.chunkSize == 0 {
		// one trip per thread
		ts.staticTrip = -1

		q := ceilDiv(n, nthreads)
		b0 := q * tid
		e0 := q * (tid + 1)
		if e0 > n {
			e0 = n
		}

		if b0 >= e0 {
			return 0, 0, StaticDone
		}

		pstart = fromIndex(ws.startT0, ws.incr, b0)
		pend = fromIndex(ws.startT0, ws.incr, e0)
		if e0 == n {
			return pstart, pend, StaticLast
		}
		return pstart, pend, StaticMore
	}

	// round-robin chunks
	c := ws.chunkSize
	t := int64(ts.staticTrip)
	b0 := (t*nthreads + tid) * c
	if b0 >= n {
		ts.staticTrip = -1
		return 0, 0, StaticDone
	}

	e0 := b0 + c
	last := e0 >= n
	if last {
		e0 = n
	}

	pstart = fromIndex(ws.startT0, ws.incr, b0)
	pend = fromIndex(ws.startT0, ws.incr, e0)

	if last {
		ts.staticTrip = -1
		return pstart, pend, StaticLast
	}
	ts.staticTrip++
	return pstart, pend, StaticMore
}
