package workshare

import "testing"

// spec.md §8: "Guided: with next=0, end=1000, nthreads=4, chunk_size=1,
// successive claim sizes decay as 250, 188, ...".
func TestGuided_DecayingClaimSizes(t *testing.T) {
	ws := New(Config{Start: 0, End: 1000, Incr: 1, ChunkSize: 1, NThreads: 4, Policy: PolicyGuided})
	sched := ws.NewThreadState(0).Guided()

	wantSizes := []int64{250, 188}
	for i, want := range wantSizes {
		pstart, pend, ok := sched.Next()
		if !ok {
			t.Fatalf("claim %d: unexpectedly exhausted", i)
		}
		if got := pend - pstart; got != want {
			t.Errorf("claim %d: size = %d, want %d (range [%d,%d))", i, got, want, pstart, pend)
		}
	}
}

func TestGuided_NeverBelowFloor(t *testing.T) {
	ws := New(Config{Start: 0, End: 40, Incr: 1, ChunkSize: 5, NThreads: 4, Policy: PolicyGuided})
	sched := ws.NewThreadState(0).Guided()

	var sizes []int64
	for {
		pstart, pend, ok := sched.Next()
		if !ok {
			break
		}
		sizes = append(sizes, pend-pstart)
	}

	for i, sz := range sizes {
		last := i == len(sizes)-1
		if !last && sz < 5 {
			t.Errorf("claim %d size %d below floor 5", i, sz)
		}
	}
}

func TestGuided_CoversEveryIterationExactlyOnce(t *testing.T) {
	ws := New(Config{Start: 0, End: 97, Incr: 1, ChunkSize: 3, NThreads: 5, Policy: PolicyGuided})
	sched := ws.NewThreadState(0).Guided()

	var next int64
	for {
		pstart, pend, ok := sched.Next()
		if !ok {
			break
		}
		if pstart != next {
			t.Fatalf("gap or overlap: expected next claim to start at %d, got %d", next, pstart)
		}
		next = pend
	}
	if next != 97 {
		t.Errorf("coverage ended at %d, want 97", next)
	}
}

func TestGuided_FastAndLockedPathsAgree(t *testing.T) {
	wsFast := New(Config{Start: 0, End: 53, Incr: 1, ChunkSize: 2, NThreads: 3, Policy: PolicyGuided})
	wsLocked := New(Config{Start: 0, End: 53, Incr: 1, ChunkSize: 2, NThreads: 3, Policy: PolicyGuided})

	fast := wsFast.NewThreadState(0).Guided()
	locked := wsLocked.NewThreadState(0).Guided()

	for {
		ps1, pe1, ok1 := fast.Next()
		ps2, pe2, ok2 := locked.NextLocked()
		if ok1 != ok2 {
			t.Fatalf("fast/locked disagreed on exhaustion: %v vs %v", ok1, ok2)
		}
		if !ok1 {
			break
		}
		if ps1 != ps2 || pe1 != pe2 {
			t.Fatalf("fast=(%d,%d) locked=(%d,%d) diverged", ps1, pe1, ps2, pe2)
		}
	}
}
