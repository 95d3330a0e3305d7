package workshare_test

import (
	"fmt"
	"sort"
	"sync"

	"github.com/workshare/workshare"
)

// Example demonstrates partitioning a counted loop across four workers
// under the static policy, with one trip per thread and no shared
// writes once the WorkShare is published.
func Example() {
	ws := workshare.New(workshare.Config{
		Start: 0, End: 10, Incr: 1, NThreads: 4,
		Policy: workshare.PolicyStatic,
	})

	for tid := 0; tid < 4; tid++ {
		sched := ws.NewThreadState(tid).Static()
		pstart, pend, _ := sched.Next()
		fmt.Printf("thread %d: [%d,%d)\n", tid, pstart, pend)
	}

	// Output:
	// thread 0: [0,3)
	// thread 1: [3,6)
	// thread 2: [6,9)
	// thread 3: [9,10)
}

// Example_dynamic demonstrates a single worker draining a dynamically
// scheduled loop a chunk at a time.
func Example_dynamic() {
	ws := workshare.New(workshare.Config{
		Start: 0, End: 20, Incr: 1, ChunkSize: 7,
		NThreads: 1, Policy: workshare.PolicyDynamic,
	})
	sched := ws.NewThreadState(0).Dynamic()

	var ranges [][2]int64
	for {
		pstart, pend, ok := sched.Next()
		if !ok {
			break
		}
		ranges = append(ranges, [2]int64{pstart, pend})
	}

	for _, r := range ranges {
		fmt.Printf("[%d,%d)\n", r[0], r[1])
	}

	// Output:
	// [0,7)
	// [7,14)
	// [14,20)
}

// Example_adaptive demonstrates draining an adaptively scheduled loop
// across a team whose workers finish at different times, relying on
// work-stealing to finish the whole range between them. As with every
// other adaptive exerciser in this package, all four workers run
// concurrently: ws.nbIterationsLeft only reaches zero, and Next starts
// returning false, once every worker has actually run.
func Example_adaptive() {
	ws := workshare.New(workshare.Config{
		Start: 0, End: 40, Incr: 1, ChunkSize: 5,
		NThreads: 4, Policy: workshare.PolicyAdaptive,
	})

	var mu sync.Mutex
	var all []int64

	var wg sync.WaitGroup
	for tid := 0; tid < 4; tid++ {
		tid := tid
		wg.Add(1)
		go func() {
			defer wg.Done()
			sched := ws.NewThreadState(tid).Adaptive()
			var mine []int64
			for {
				pstart, pend, ok := sched.Next()
				if !ok {
					break
				}
				for i := pstart; i < pend; i++ {
					mine = append(mine, i)
				}
			}
			mu.Lock()
			all = append(all, mine...)
			mu.Unlock()
		}()
	}
	wg.Wait()

	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })
	fmt.Println(len(all), all[0], all[len(all)-1])

	// Output:
	// 40 0 39
}
