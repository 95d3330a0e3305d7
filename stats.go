package workshare

import "sync/atomic"

// Stats accumulates counters describing how an adaptive WorkShare's
// iterations were actually distributed. It never influences scheduling
// decisions; spec.md's Non-goals rule out "fairness beyond what each
// policy implicitly provides", and these counters are purely observational,
// in the spirit of the Go runtime's own parfor stats (nsteal, nstealcnt,
// nprocyield, nosyield, nsleep).
type Stats struct {
	localAcquires atomic.Int64
	steals        atomic.Int64
	stolenCount   atomic.Int64
	stealAttempts atomic.Int64
}

// Snapshot is a point-in-time, copyable view of Stats.
type Snapshot struct {
	// LocalAcquires counts successful claims a worker took from its own deque.
	LocalAcquires int64
	// Steals counts successful half-split thefts from another worker's deque.
	Steals int64
	// StolenIterations counts the total number of iterations moved by Steals.
	StolenIterations int64
	// StealAttempts counts every victim probe, successful or not.
	StealAttempts int64
}

// Snapshot copies the current counter values.
func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		LocalAcquires:    s.localAcquires.Load(),
		Steals:           s.steals.Load(),
		StolenIterations: s.stolenCount.Load(),
		StealAttempts:    s.stealAttempts.Load(),
	}
}

// Stats returns a snapshot of ws's adaptive-scheduling counters. It
// returns a zero Snapshot for non-adaptive policies.
func (ws *WorkShare) Stats() Snapshot { return ws.stats.Snapshot() }
