package workshare

import "runtime"

// AdaptiveScheduler implements the adaptive, work-stealing policy:
// initial iterations are split evenly across per-worker deques, and
// imbalance is corrected by a worker stealing half of another's
// remaining range when its own deque runs dry (spec.md §4.4).
type AdaptiveScheduler struct {
	ts *ThreadState
}

// NewAdaptiveScheduler wraps ts for the adaptive policy.
func NewAdaptiveScheduler(ts *ThreadState) *AdaptiveScheduler { return &AdaptiveScheduler{ts: ts} }

func (s *AdaptiveScheduler) chunk() *adaptiveChunk { return &s.ts.ws.chunks[s.ts.teamID] }

func (s *AdaptiveScheduler) chunkSize() int64 {
	if c := s.ts.ws.chunkSize; c > 0 {
		return c
	}
	return 1
}

// Next returns this worker's next range: from its own deque if it has
// one, otherwise by stealing from a victim, otherwise reporting the
// whole loop finished. Every observer of ws.nbIterationsLeft reaching
// zero returns false, regardless of whether its own deque happens to be
// empty at that instant (spec.md §4.4's Termination paragraph).
func (s *AdaptiveScheduler) Next() (pstart, pend int64, ok bool) {
	ws := s.ts.ws
	me := s.chunk()

	for {
		if pstart, pend, ok = s.acquireLocal(me); ok {
			ws.stats.localAcquires.Add(1)
			s.recordExec(me, pstart, pend)
			return pstart, pend, true
		}

		if ws.nbIterationsLeft.Load() <= 0 {
			ws.logExhaustionOnce()
			return 0, 0, false
		}

		if !ws.disableStealing {
			if pstart, pend, ok = s.steal(me); ok {
				s.recordExec(me, pstart, pend)
				return pstart, pend, true
			}
		}

		if ws.nbIterationsLeft.Load() <= 0 {
			ws.logExhaustionOnce()
			return 0, 0, false
		}

		runtime.Gosched()
	}
}

// recordExec reconciles a just-claimed range into the shared iterations-
// left counter immediately, rather than batching it on the owning
// adaptiveChunk until the next steal attempt; spec.md's data model leaves
// room for either, and an immediate decrement keeps Next's termination
// check (nbIterationsLeft <= 0) accurate for every other worker without
// needing a separate flush step.
func (s *AdaptiveScheduler) recordExec(me *adaptiveChunk, pstart, pend int64) {
	n := numIterations(pstart, pend, s.ts.ws.incr)
	if n <= 0 {
		return
	}
	s.ts.ws.nbIterationsLeft.Add(-n)
}

// acquireLocal implements the owner's local acquisition protocol: a
// tentative lock-free advance of begin, validated against end, with a
// locked rollback-and-reconcile slow path when it collides with a thief
// (spec.md §4.4, "Local work acquisition").
func (s *AdaptiveScheduler) acquireLocal(me *adaptiveChunk) (pstart, pend int64, ok bool) {
	incr := s.ts.ws.incr
	step := s.chunkSize() * incr

	newBegin := me.begin.Add(step)
	end := me.end.Load()
	if leEnd(newBegin, end, incr) {
		return newBegin - step, newBegin, true
	}

	// collided with a thief shrinking end, or simply hit the tail: undo
	// the tentative advance and negotiate whatever remains under lock.
	me.begin.Add(-step)

	me.lock.Lock()
	curBegin := me.begin.Load()
	curEnd := me.end.Load()
	size := numIterations(curBegin, curEnd, incr)
	if size < 0 {
		size = 0
	}
	if cs := s.chunkSize(); size > cs {
		size = cs
	}
	newBegin2 := curBegin + size*incr
	me.begin.Store(newBegin2)
	me.lock.Unlock()

	if size <= 0 {
		return 0, 0, false
	}
	return curBegin, newBegin2, true
}

// steal looks for a victim with spare work, selecting victims per
// spec.md §4.4's NUMA-aware or uniform-random protocol, and attempts a
// half-split theft from each candidate until one succeeds or candidates
// are exhausted.
func (s *AdaptiveScheduler) steal(me *adaptiveChunk) (pstart, pend int64, ok bool) {
	ws := s.ts.ws
	ts := s.ts
	n := ws.nthreads
	if n <= 1 {
		return 0, 0, false
	}

	try := func(victim int) (int64, int64, bool) {
		ws.stats.stealAttempts.Add(1)
		vc := &ws.chunks[victim]
		vb := vc.begin.Load()
		ve := vc.end.Load()
		if !ahead(ve, vb, ws.incr) {
			return 0, 0, false
		}
		return s.stealFrom(me, vc)
	}

	if ws.topology != nil && ts.numaID >= 0 {
		local := ws.topology.Members(ts.numaID)
		if ln := len(local); ln > 1 {
			// rotate the sweep's starting point by this worker's own
			// index within the node, so co-resident thieves fan out
			// across victims instead of converging on the same one.
			maxAttempts := 1 + ln/2
			for i, attempts := 1, 0; attempts < maxAttempts && i < ln; i++ {
				v := local[(ts.numaIndex+i)%ln]
				attempts++
				if pstart, pend, ok = try(v); ok {
					return pstart, pend, true
				}
			}
		}
		if ws.strictNUMA {
			return 0, 0, false
		}
	}

	attempts := 0
	for attempts < n {
		v := ts.rng.intn(n)
		if v == ts.teamID {
			continue
		}
		attempts++
		if pstart, pend, ok = try(v); ok {
			return pstart, pend, true
		}
	}
	return 0, 0, false
}

// stealFrom attempts to take half of victim's remaining range, keep the
// first min(size, chunkSize) iterations for the thief, and deposit any
// remainder into the thief's own deque (spec.md §4.4, "Steal half" /
// "Split stolen region").
func (s *AdaptiveScheduler) stealFrom(me, victim *adaptiveChunk) (pstart, pend int64, ok bool) {
	incr := s.ts.ws.incr

	victim.lock.Lock()
	vb := victim.begin.Load()
	ve := victim.end.Load()
	total := numIterations(vb, ve, incr)
	if total <= 0 {
		victim.lock.Unlock()
		return 0, 0, false
	}

	size := total / 2
	if size <= 0 {
		victim.lock.Unlock()
		return 0, 0, false
	}

	newVictimEnd := ve - size*incr
	victim.end.Store(newVictimEnd)

	// the owner may have popped concurrently and won the race; detect it
	// by begin having crossed our shrunk end, and revert if so.
	curBegin := victim.begin.Load()
	if ahead(curBegin, newVictimEnd, incr) {
		victim.end.Store(ve)
		victim.lock.Unlock()
		return 0, 0, false
	}
	victim.lock.Unlock()

	s.ts.ws.stats.steals.Add(1)
	s.ts.ws.stats.stolenCount.Add(size)

	take := size
	if cs := s.chunkSize(); take > cs {
		take = cs
	}

	stolenStart := newVictimEnd
	pstart = stolenStart
	pend = stolenStart + take*incr

	if take < size {
		me.lock.Lock()
		me.begin.Store(pend)
		me.end.Store(ve)
		me.lock.Unlock()
	}

	return pstart, pend, true
}
