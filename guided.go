package workshare

// GuidedScheduler implements the guided policy: the same shared cursor as
// dynamic, but each claim size shrinks toward a configured floor as the
// remaining work shrinks (spec.md §4.3).
type GuidedScheduler struct {
	ts *ThreadState
}

// NewGuidedScheduler wraps ts for the guided policy.
func NewGuidedScheduler(ts *ThreadState) *GuidedScheduler { return &GuidedScheduler{ts: ts} }

func (s *GuidedScheduler) floor() int64 {
	if c := s.ts.ws.chunkSize; c > 0 {
		return c
	}
	return 1
}

// claim computes the next [start, nend) run for a cursor currently at
// start: approximately remaining/nthreads, never smaller than the
// configured floor, and never larger than what remains. Termination is
// decided by the remaining count reaching zero, not by start reaching
// ws.end exactly: like static, adaptive and dynamic's CAS path, the last
// claim's nend may
// legitimately land past ws.end when (end-start) isn't an exact multiple
// of incr, so comparing start against the literal End would either
// overshoot forever or stop one claim early.
func (s *GuidedScheduler) claim(start int64) (nend int64, ok bool) {
	ws := s.ts.ws
	n := numIterations(start, ws.end, ws.incr)
	if n <= 0 {
		return 0, false
	}

	q := ceilDiv(n, int64(ws.nthreads))
	if floor := s.floor(); q < floor {
		q = floor
	}
	if q > n {
		q = n
	}
	return fromIndex(start, ws.incr, q), true
}

// Next claims the next run via a CAS retry loop on WorkShare.next.
func (s *GuidedScheduler) Next() (pstart, pend int64, ok bool) {
	ws := s.ts.ws
	for {
		start := ws.next.Load()
		nend, more := s.claim(start)
		if !more {
			return 0, 0, false
		}
		if ws.next.CompareAndSwap(start, nend) {
			return start, nend, true
		}
	}
}

// NextLocked is the ws.lock-guarded equivalent of Next, for the "atomics
// unavailable" slot in spec.md §6's external interface.
func (s *GuidedScheduler) NextLocked() (pstart, pend int64, ok bool) {
	ws := s.ts.ws
	ws.lock.Lock()
	defer ws.lock.Unlock()

	start := ws.next.Load()
	nend, more := s.claim(start)
	if !more {
		return 0, 0, false
	}
	ws.next.Store(nend)
	return start, nend, true
}
