package workshare

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Policy selects which of the four scheduling algorithms a WorkShare uses.
type Policy int

const (
	PolicyStatic Policy = iota
	PolicyDynamic
	PolicyGuided
	PolicyAdaptive
)

// String returns the policy's lowercase name, as used in log fields and
// the workshare-demo CLI's --policy flag.
func (p Policy) String() string {
	switch p {
	case PolicyStatic:
		return "static"
	case PolicyDynamic:
		return "dynamic"
	case PolicyGuided:
		return "guided"
	case PolicyAdaptive:
		return "adaptive"
	default:
		return "unknown"
	}
}

// Config models the inputs the loop-entry collaborator would normally
// supply when installing a WorkShare for a team (spec.md §3's Lifecycle
// and §6's "Inputs from the collaborator"). The zero value is not usable;
// Start/End/Incr/Policy/NThreads must always be set explicitly.
//
// WARNING: New will panic if Incr is zero, ChunkSize is negative, NThreads
// is not positive, or Start/End/Incr describe inverted bounds.
type Config struct {
	// Start is the loop's original lower bound (spec.md's start_t0).
	Start int64
	// End is the loop's upper bound, exclusive in the direction Incr moves.
	End int64
	// Incr is the signed step; it must be nonzero, and its sign fixes the
	// iteration direction.
	Incr int64
	// ChunkSize is a policy hint. For static, 0 means "one trip per
	// thread"; for dynamic/guided/adaptive it is the run length handed
	// out per claim (guided treats it as a floor, never shrinking claims
	// below it until the remainder itself is smaller).
	ChunkSize int64
	// Policy selects the scheduling algorithm.
	Policy Policy
	// NThreads is the team size.
	NThreads int

	// Topology enables NUMA-aware victim selection for PolicyAdaptive.
	// Ignored by the other policies. Nil disables NUMA-awareness.
	Topology *Topology
	// StrictNUMA, when Topology is set, forbids falling back to
	// cross-NUMA victim selection once same-node attempts are exhausted
	// (spec.md §6's "PWS strict" switch).
	StrictNUMA bool
	// DisableStealing elides the adaptive steal loop entirely, for
	// benchmarking (spec.md §4.4's explicitly-permitted escape hatch).
	// The correct default, and the zero value, is stealing enabled.
	DisableStealing bool

	// Logger, if non-nil, receives one debug-level structured log entry
	// when New is called, and one when an adaptive WorkShare is first
	// observed exhausted. Nil disables logging entirely; nothing on the
	// Next hot path is ever logged regardless.
	Logger *zerolog.Logger
}

// WorkShare is the shared descriptor for one parallel loop, installed
// once by the loop-entry collaborator and read (and, for dynamic/guided/
// adaptive, atomically mutated) by every worker in the team via its own
// ThreadState and scheduler.
type WorkShare struct {
	startT0            int64
	end                int64
	incr               int64
	chunkSize          int64
	numIterationsTotal int64
	mode               bool
	policy             Policy
	nthreads           int

	next atomic.Int64
	lock sync.Mutex // guards the *_next_locked fallback paths

	chunks           []adaptiveChunk
	nbIterationsLeft atomic.Int64
	topology         *Topology
	strictNUMA       bool
	disableStealing  bool

	stats      Stats
	logger     *zerolog.Logger
	loggedDone atomic.Bool
}

// adaptiveChunk is one worker's deque of remaining iterations, in the
// adaptive policy. begin/end are published by initAdaptive before New
// returns, so every chunk is visible to thieves from the start — a
// worker that hasn't called Next() yet still looks exactly as stealable
// as one that has, matching the Go runtime parfor's eager parforsetup
// rather than lazily materializing a chunk on its owner's first claim.
// The owner mutates begin freely; end is mutated only under lock,
// whether by the owner (depositing the remainder of a range it stole)
// or by a thief (stealing half).
type adaptiveChunk struct {
	begin atomic.Int64
	end   atomic.Int64
	lock  sync.Mutex
}

// New validates cfg and constructs a WorkShare, playing the role of the
// loop-entry collaborator described in spec.md §3's Lifecycle: create,
// populate, and publish, ready for every worker to attach a ThreadState
// and start calling its scheduler's Next method.
func New(cfg Config) *WorkShare {
	if cfg.Incr == 0 {
		panic(`workshare: incr must be nonzero`)
	}
	if cfg.ChunkSize < 0 {
		panic(`workshare: chunk size must not be negative`)
	}
	if cfg.NThreads <= 0 {
		panic(`workshare: nthreads must be positive`)
	}

	if boundsOverflow(cfg.Start, cfg.End, cfg.Incr) {
		panic(`workshare: start/end span overflows int64`)
	}
	n := numIterations(cfg.Start, cfg.End, cfg.Incr)
	if n < 0 {
		panic(`workshare: inverted bounds for incr's direction`)
	}

	ws := &WorkShare{
		startT0:            cfg.Start,
		end:                cfg.End,
		incr:               cfg.Incr,
		chunkSize:          cfg.ChunkSize,
		numIterationsTotal: n,
		policy:             cfg.Policy,
		nthreads:           cfg.NThreads,
		topology:           cfg.Topology,
		strictNUMA:         cfg.StrictNUMA,
		disableStealing:    cfg.DisableStealing,
		logger:             cfg.Logger,
	}
	ws.next.Store(cfg.Start)
	// Dynamic/guided treat a non-positive ChunkSize as 1 (see
	// DynamicScheduler.chunk), so mode must be computed against that
	// effective chunk size, not the raw zero value, or ChunkSize:0 would
	// always force the slower CAS path for no reason.
	effectiveChunk := cfg.ChunkSize
	if effectiveChunk <= 0 {
		effectiveChunk = 1
	}
	ws.mode = computeMode(effectiveChunk, cfg.Incr)

	if cfg.Policy == PolicyAdaptive {
		ws.initAdaptive(n)
	}

	if ws.logger != nil {
		ws.logger.Debug().
			Int("team_size", cfg.NThreads).
			Str("policy", cfg.Policy.String()).
			Int64("iterations", n).
			Int64("chunk_size", cfg.ChunkSize).
			Msg("workshare: loop scheduled")
	}

	return ws
}

// computeMode precomputes the dynamic fast path's overflow-safety flag:
// whether chunkSize*incr is guaranteed representable as a signed word
// (spec.md's `mode` field and §9's note that implementations may simply
// always take the CAS path if they cannot prove the precondition).
func computeMode(chunkSize, incr int64) bool {
	if chunkSize <= 0 {
		return false
	}
	abs := incr
	if abs < 0 {
		abs = -abs
	}
	return chunkSize <= math.MaxInt64/abs
}

// initAdaptive assigns each worker an equal initial share of the n
// iterations, the same even-split arithmetic the Go runtime's own
// parfor uses for its initial per-thread ranges.
func (ws *WorkShare) initAdaptive(n int64) {
	ws.chunks = make([]adaptiveChunk, ws.nthreads)
	ws.nbIterationsLeft.Store(n)

	nthreads := int64(ws.nthreads)
	for i := range ws.chunks {
		b := n * int64(i) / nthreads
		e := n * int64(i+1) / nthreads
		ws.chunks[i].begin.Store(fromIndex(ws.startT0, ws.incr, b))
		ws.chunks[i].end.Store(fromIndex(ws.startT0, ws.incr, e))
	}
}

func (ws *WorkShare) logExhaustionOnce() {
	if ws.logger == nil {
		return
	}
	if ws.loggedDone.CompareAndSwap(false, true) {
		snap := ws.stats.Snapshot()
		ws.logger.Debug().
			Int64("steals", snap.Steals).
			Int64("steal_attempts", snap.StealAttempts).
			Int64("local_acquires", snap.LocalAcquires).
			Msg("workshare: adaptive loop exhausted")
	}
}
