package barneshut

import (
	"fmt"
	"runtime"
	"sync"
)

// serialThreshold is the body count below which the parallel force phase
// isn't worth the goroutine overhead.
const serialThreshold = 64

// Report summarizes one completed step.
type Report struct {
	Dropped int // bodies outside the root bound this step
}

// Step advances every body by one time step: build a fresh tree over the
// current positions, aggregate it, then evaluate force and integrate each
// body. Force evaluation and integration run in parallel over disjoint
// chunks of the slice; the tree is read-only for that whole phase and the
// traversal only reads positions snapshotted at insertion, so workers never
// observe each other's writes. Step returns after all workers finish.
func Step(bodies []Body, bound Bound, cfg Config) (Report, error) {
	if err := cfg.Validate(); err != nil {
		return Report{}, fmt.Errorf("invalid config: %w", err)
	}
	for i := range bodies {
		if bodies[i].Mass <= 0 {
			return Report{}, fmt.Errorf("body %d: mass must be positive, got %v", i, bodies[i].Mass)
		}
	}

	tree := Build(bodies, bound, cfg)

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if len(bodies) < serialThreshold {
		workers = 1
	}

	if workers == 1 {
		advance(tree, bodies, &cfg)
		return Report{Dropped: tree.Dropped}, nil
	}

	chunk := (len(bodies) + workers - 1) / workers
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > len(bodies) {
			hi = len(bodies)
		}
		if lo >= hi {
			continue
		}
		wg.Add(1)
		go func(group []Body) {
			defer wg.Done()
			advance(tree, group, &cfg)
		}(bodies[lo:hi])
	}
	wg.Wait()

	return Report{Dropped: tree.Dropped}, nil
}

// advance runs the force+integrate phase for one chunk of bodies.
// subslices alias the caller's elements, so leaf identities still match.
func advance(tree *Tree, group []Body, cfg *Config) {
	for i := range group {
		b := &group[i]
		b.Integrate(tree.root.accel(b, cfg), cfg.DT)
	}
}
