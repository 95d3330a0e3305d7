// Package workshare implements the scheduling layer of a shared-memory
// work-sharing runtime: given a team of N workers cooperatively executing
// a counted loop `for i := start; i != end; i += incr`, it partitions the
// iteration space and hands subranges to each worker on demand.
//
// Four policies are provided, each its own small concurrent algorithm:
//
//   - static: closed-form partitioning, no shared writes during iteration.
//   - dynamic: a single shared cursor advanced by atomic fetch-and-add or CAS.
//   - guided: the same shared cursor, claimed in exponentially shrinking runs.
//   - adaptive: a per-worker deque with random-victim work stealing,
//     optionally biased toward NUMA-local victims.
//
// A WorkShare is created once, via New, by whatever owns the team (thread
// creation, team formation, and the outlined loop body are all out of
// scope here — this package assumes a valid team and a WorkShare already
// installed). Each worker then attaches a *ThreadState and repeatedly
// calls the relevant scheduler's Next method until it reports no more
// work. Exhaustion is a normal return, never an error: this package has
// a closed failure domain, and the only preconditions it checks are at
// construction time (spec.md's own phrasing: "programming errors").
package workshare
