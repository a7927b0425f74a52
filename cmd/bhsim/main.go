// bhsim runs a Barnes-Hut gravity simulation and records the results as
// sqlite rows, PNG frames and telemetry CSV.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	barneshut "github.com/milcsu09/Barnes-Hut"
	"github.com/milcsu09/Barnes-Hut/config"
	"github.com/milcsu09/Barnes-Hut/record"
	"github.com/milcsu09/Barnes-Hut/render"
	"github.com/milcsu09/Barnes-Hut/telemetry"
)

func main() {
	cfgPath := flag.String("config", "", "YAML config file (embedded defaults if empty)")
	numbodies := flag.Int("n", 0, "override number of bodies")
	steps := flag.Int("steps", 1000, "number of steps to simulate")
	stateFilename := flag.String("state", "", "simulation snapshot to resume from")
	stateSave := flag.Bool("save", false, "set to save the final simulation state")
	brute := flag.Bool("brute", false, "use O(n^2) direct summation instead of the tree")
	pngOut := flag.Bool("png", false, "render frames to PNG")
	sqliteFile := flag.String("sqlite", "", "record frames to this sqlite database")
	csvFile := flag.String("csv", "", "write telemetry rows to this CSV file")
	flag.Parse()

	cf, err := config.Load(*cfgPath)
	if err != nil {
		fatal(err)
	}
	if *numbodies > 0 {
		cf.Bodies.Count = *numbodies
	}
	cfg := cf.Solver.Config()
	bound := cf.World.Bound()

	rng := rand.New(rand.NewSource(cf.Bodies.Seed))
	bodies := makeBodies(cf.Bodies, bound, cfg, rng)

	// import a snapshot if available and continue from its step
	startStep := 0
	if *stateFilename != "" {
		snap, err := record.LoadSnapshot(*stateFilename)
		if err != nil {
			fatal(err)
		}
		bodies = snap.Bodies
		startStep = snap.Step + 1
	}
	endStep := startStep + *steps

	// setup frame output workers, one channel each
	var outs []chan *record.Frame
	wg := sync.WaitGroup{}

	var db *record.SQLite
	if *sqliteFile != "" {
		db, err = record.OpenSQLite(*sqliteFile)
		if err != nil {
			fatal(err)
		}
		ch := make(chan *record.Frame, 32)
		outs = append(outs, ch)
		wg.Add(1)
		go db.Consume(&wg, ch)
	}
	if *pngOut {
		if err := os.MkdirAll(cf.Output.Dir, 0755); err != nil {
			fatal(err)
		}
		opt := render.Options{
			Size:     800,
			Viewport: bound,
			Dir:      cf.Output.Dir,
			TailMass: cf.Bodies.ClusterMass,
			MassStep: cf.Bodies.ClusterMass / 7,
		}
		ch := make(chan *record.Frame, 32)
		outs = append(outs, ch)
		wg.Add(1)
		go render.Frames(opt, &wg, ch)
	}

	var tw *telemetry.Writer
	if *csvFile != "" {
		tw, err = telemetry.NewWriter(*csvFile)
		if err != nil {
			fatal(err)
		}
		defer tw.Close()
	}

	// print parameters
	fmt.Printf("tree: %t\nbodies: %d\ntheta: %g\nstep: %g\nsteps: %d\nworld: %g wide at (%g, %g)\n",
		!*brute,
		len(bodies),
		cfg.Theta,
		cfg.DT,
		endStep-startStep,
		bound.Width,
		bound.Center.X(),
		bound.Center.Y())

	start := time.Now()

	for step := startStep; step < endStep; step++ {
		stepStart := time.Now()

		var rep barneshut.Report
		if *brute {
			stepDirect(bodies, cfg)
		} else {
			rep, err = barneshut.Step(bodies, bound, cfg)
			if err != nil {
				fatal(err)
			}
		}
		elapsed := time.Since(stepStart)

		// enqueue a body copy for the output workers
		if len(outs) > 0 && step%cf.Output.Every == 0 {
			bcopy := make([]barneshut.Body, len(bodies))
			copy(bcopy, bodies)
			frame := &record.Frame{Step: step, Bodies: bcopy}
			for _, ch := range outs {
				ch <- frame
			}
		}

		if tw != nil {
			if err := tw.Write(telemetry.Collect(step, bodies, rep.Dropped, elapsed)); err != nil {
				fatal(err)
			}
		}

		// progress
		done := step - startStep + 1
		avgTimePerStep := time.Since(start).Milliseconds() / int64(done)
		estTimeLeft := time.Duration(avgTimePerStep*int64(endStep-step-1)) * time.Millisecond
		fmt.Printf("%.1f%%, %d dropped, %dms/step, %s remaining, %s elapsed                    \r",
			100*float64(done)/float64(endStep-startStep),
			rep.Dropped,
			avgTimePerStep,
			estTimeLeft.Truncate(time.Second),
			time.Since(start).Truncate(time.Second))
	}

	for _, ch := range outs {
		close(ch)
	}
	wg.Wait()

	if db != nil {
		if err := db.CreateIndices(); err != nil {
			fatal(err)
		}
		db.Close()
	}

	fmt.Printf("\nDone. Took %s\n", time.Since(start).Truncate(time.Second))

	// export final state of simulation
	if *stateSave {
		final := &record.Frame{Step: endStep - 1, Bodies: bodies}
		fname := fmt.Sprintf("%010d.snap", final.Step)
		if err := record.SaveSnapshot(fname, final); err != nil {
			fatal(err)
		}
		fmt.Printf("saved %s\n", fname)
	}
}

// stepDirect advances all bodies one step by exact pairwise summation,
// for small n and verification runs.
func stepDirect(bodies []barneshut.Body, cfg barneshut.Config) {
	accs := make([]mgl64.Vec2, len(bodies))
	for i := range bodies {
		accs[i] = barneshut.AccelDirect(bodies, i, cfg)
	}
	for i := range bodies {
		bodies[i].Integrate(accs[i], cfg.DT)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
