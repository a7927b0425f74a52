package barneshut

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestStepTwoBodies(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workers = 1
	bound := Bound{Center: mgl64.Vec2{5, 0}, Width: 40}
	bodies := []Body{
		{Mass: 1, Pos: mgl64.Vec2{0, 0}},
		{Mass: 1, Pos: mgl64.Vec2{10, 0}},
	}

	const d, s = 10.0, 15.0
	dist := math.Sqrt(d*d + s*s)
	acc := d / dist * cfg.G / (dist*dist + s*s)

	rep, err := Step(bodies, bound, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if rep.Dropped != 0 {
		t.Errorf("dropped = %d, want 0", rep.Dropped)
	}

	// velocity after one step is acceleration · dt, position follows the
	// updated velocity (semi-implicit Euler).
	wantVel := acc * cfg.DT
	if math.Abs(bodies[0].Vel[0]-wantVel) > 1e-15 {
		t.Errorf("vel.x = %v, want %v", bodies[0].Vel[0], wantVel)
	}
	if math.Abs(bodies[0].Pos[0]-wantVel*cfg.DT) > 1e-15 {
		t.Errorf("pos.x = %v, want %v", bodies[0].Pos[0], wantVel*cfg.DT)
	}
	if math.Abs(bodies[1].Vel[0]+wantVel) > 1e-15 {
		t.Errorf("vel.x on body 2 = %v, want %v", bodies[1].Vel[0], -wantVel)
	}
}

func TestStepParallelMatchesSerial(t *testing.T) {
	bound := Bound{Center: mgl64.Vec2{400, 400}, Width: 800}
	serial := randomBodies(200, bound, 11)
	parallel := make([]Body, len(serial))
	copy(parallel, serial)

	cfgSerial := DefaultConfig()
	cfgSerial.Workers = 1
	cfgParallel := DefaultConfig()
	cfgParallel.Workers = 8

	for step := 0; step < 5; step++ {
		if _, err := Step(serial, bound, cfgSerial); err != nil {
			t.Fatal(err)
		}
		if _, err := Step(parallel, bound, cfgParallel); err != nil {
			t.Fatal(err)
		}
	}

	// per-body traversal order is fixed, so chunking must not change a
	// single bit of the result.
	for i := range serial {
		if serial[i] != parallel[i] {
			t.Fatalf("body %d diverged: serial %+v, parallel %+v",
				i, serial[i], parallel[i])
		}
	}
}

func TestStepReportsDropped(t *testing.T) {
	cfg := DefaultConfig()
	bound := Bound{Center: mgl64.Vec2{0, 0}, Width: 10}
	bodies := []Body{
		{Mass: 1, Pos: mgl64.Vec2{0, 0}},
		{Mass: 1, Pos: mgl64.Vec2{100, 100}},
	}

	rep, err := Step(bodies, bound, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if rep.Dropped != 1 {
		t.Errorf("dropped = %d, want 1", rep.Dropped)
	}
}

func TestStepValidation(t *testing.T) {
	bound := Bound{Center: mgl64.Vec2{0, 0}, Width: 100}
	ok := []Body{{Mass: 1}}

	tests := []struct {
		name   string
		mutate func(*Config)
		bodies []Body
	}{
		{"negative theta", func(c *Config) { c.Theta = -1 }, ok},
		{"zero softening", func(c *Config) { c.Softening = 0 }, ok},
		{"negative time step", func(c *Config) { c.DT = -0.5 }, ok},
		{"zero max depth", func(c *Config) { c.MaxDepth = 0 }, ok},
		{"zero mass body", nil, []Body{{Mass: 0}}},
		{"negative mass body", nil, []Body{{Mass: -2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			if tt.mutate != nil {
				tt.mutate(&cfg)
			}
			bodies := make([]Body, len(tt.bodies))
			copy(bodies, tt.bodies)
			if _, err := Step(bodies, bound, cfg); err == nil {
				t.Error("expected an error")
			}
		})
	}

	// theta 0 is explicitly allowed
	cfg := DefaultConfig()
	cfg.Theta = 0
	bodies := []Body{{Mass: 1}}
	if _, err := Step(bodies, bound, cfg); err != nil {
		t.Errorf("theta 0 should be valid: %v", err)
	}
}

func TestStepEnergyBounded(t *testing.T) {
	// a softened cold collapse must not blow up in a few steps.
	bound := Bound{Center: mgl64.Vec2{400, 400}, Width: 800}
	bodies := randomBodies(128, bound, 3)
	cfg := DefaultConfig()

	for step := 0; step < 20; step++ {
		if _, err := Step(bodies, bound, cfg); err != nil {
			t.Fatal(err)
		}
	}
	for i := range bodies {
		for axis := 0; axis < 2; axis++ {
			if math.IsNaN(bodies[i].Pos[axis]) || math.IsNaN(bodies[i].Vel[axis]) {
				t.Fatalf("body %d became NaN: %+v", i, bodies[i])
			}
		}
	}
}
