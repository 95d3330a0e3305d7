package workshare

// ThreadState is one worker's private view onto a WorkShare: which team
// member it is, its own static-schedule trip counter, and (used only by
// the adaptive policy) a per-worker PRNG seed and NUMA placement.
//
// A ThreadState is not safe for concurrent use by more than one
// goroutine; exactly one must exist per worker per loop.
type ThreadState struct {
	teamID     int
	ws         *WorkShare
	staticTrip int
	rng        lcg
	numaID     int
	numaIndex  int
}

// NewThreadState attaches a worker's thread-local state to ws. teamID
// must be in [0, nthreads) as configured on ws; NewThreadState panics
// otherwise, since an out-of-range team id is a programming error by the
// team-formation collaborator, not something this package can recover
// from at this layer.
func (ws *WorkShare) NewThreadState(teamID int) *ThreadState {
	if teamID < 0 || teamID >= ws.nthreads {
		panic(`workshare: team id out of range`)
	}

	ts := &ThreadState{
		teamID:    teamID,
		ws:        ws,
		rng:       newLCG(uint32(teamID) + 1),
		numaID:    -1,
		numaIndex: -1,
	}
	if ws.topology != nil {
		ts.numaID = ws.topology.NodeOf(teamID)
		ts.numaIndex = ws.topology.IndexInNode(teamID)
	}
	return ts
}

// TeamID returns the zero-based team member index this ThreadState was
// created for.
func (ts *ThreadState) TeamID() int { return ts.teamID }

// Static returns a scheduler implementing the static policy for this
// worker. The caller is expected to use it only when the WorkShare was
// configured with PolicyStatic, but nothing here enforces that: all four
// scheduler types operate directly off the shared WorkShare fields they
// need, so mixing policies on one WorkShare is a caller bug, not
// something this package detects.
func (ts *ThreadState) Static() *StaticScheduler { return &StaticScheduler{ts: ts} }

// Dynamic returns a scheduler implementing the dynamic policy for this worker.
func (ts *ThreadState) Dynamic() *DynamicScheduler { return &DynamicScheduler{ts: ts} }

// Guided returns a scheduler implementing the guided policy for this worker.
func (ts *ThreadState) Guided() *GuidedScheduler { return &GuidedScheduler{ts: ts} }

// Adaptive returns a scheduler implementing the adaptive, work-stealing
// policy for this worker.
func (ts *ThreadState) Adaptive() *AdaptiveScheduler { return &AdaptiveScheduler{ts: ts} }
