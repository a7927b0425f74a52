package barneshut

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// walk visits every node, tracking depth.
func walk(n *node, depth int, visit func(n *node, depth int)) {
	visit(n, depth)
	for _, c := range n.children {
		walk(c, depth+1, visit)
	}
}

func randomBodies(n int, bound Bound, seed int64) []Body {
	rng := rand.New(rand.NewSource(seed))
	half := bound.Width / 2
	bodies := make([]Body, n)
	for i := range bodies {
		bodies[i] = Body{
			Mass: 1 + rng.Float64()*9,
			Pos: mgl64.Vec2{
				bound.Center[0] + (rng.Float64()*2-1)*half,
				bound.Center[1] + (rng.Float64()*2-1)*half,
			},
		}
	}
	return bodies
}

func TestQuadrantBound(t *testing.T) {
	parent := Bound{Center: mgl64.Vec2{0, 0}, Width: 100}

	tests := []struct {
		name string
		q    quadrant
		want mgl64.Vec2
	}{
		{"top left", quadTL, mgl64.Vec2{-25, -25}},
		{"top right", quadTR, mgl64.Vec2{25, -25}},
		{"bottom left", quadBL, mgl64.Vec2{-25, 25}},
		{"bottom right", quadBR, mgl64.Vec2{25, 25}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := quadrantBound(parent, tt.q)
			if got.Center != tt.want {
				t.Errorf("center = %v, want %v", got.Center, tt.want)
			}
			if got.Width != 50 {
				t.Errorf("width = %v, want 50", got.Width)
			}
		})
	}
}

func TestQuadBits(t *testing.T) {
	mid := mgl64.Vec2{0, 0}

	tests := []struct {
		name  string
		point mgl64.Vec2
		want  quadrant
	}{
		{"top left", mgl64.Vec2{-1, -1}, quadTL},
		{"top right", mgl64.Vec2{1, -1}, quadTR},
		{"bottom left", mgl64.Vec2{-1, 1}, quadBL},
		{"bottom right", mgl64.Vec2{1, 1}, quadBR},
		{"on midpoint goes high", mgl64.Vec2{0, 0}, quadBR},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := quadBits(mid, tt.point); got != tt.want {
				t.Errorf("quadBits(%v) = %v, want %v", tt.point, got, tt.want)
			}
		})
	}
}

func TestBuildMassConservation(t *testing.T) {
	bound := Bound{Center: mgl64.Vec2{400, 400}, Width: 800}
	bodies := randomBodies(500, bound, 1)

	sum := 0.0
	for i := range bodies {
		sum += bodies[i].Mass
	}

	tree := Build(bodies, bound, DefaultConfig())
	if tree.Dropped != 0 {
		t.Fatalf("dropped %d bodies inside the bound", tree.Dropped)
	}
	if diff := math.Abs(tree.TotalMass() - sum); diff > 1e-9*sum {
		t.Errorf("total mass = %v, want %v", tree.TotalMass(), sum)
	}
}

func TestBuildSingleBody(t *testing.T) {
	bound := Bound{Center: mgl64.Vec2{0, 0}, Width: 100}
	bodies := []Body{{Mass: 3.5, Pos: mgl64.Vec2{12, -7}}}

	tree := Build(bodies, bound, DefaultConfig())
	if tree.root.kind != external {
		t.Fatal("single body should leave the root a leaf")
	}
	if tree.root.totalMass != 3.5 {
		t.Errorf("total mass = %v, want 3.5", tree.root.totalMass)
	}
	if tree.root.centerOfMass != bodies[0].Pos {
		t.Errorf("center of mass = %v, want %v", tree.root.centerOfMass, bodies[0].Pos)
	}
}

func TestBuildLeafContainment(t *testing.T) {
	bound := Bound{Center: mgl64.Vec2{0, 0}, Width: 200}
	bodies := randomBodies(300, bound, 2)

	tree := Build(bodies, bound, DefaultConfig())
	stored := 0
	walk(tree.root, 0, func(n *node, depth int) {
		if n.kind == internal && len(n.points) != 0 {
			t.Errorf("internal node holds %d points", len(n.points))
		}
		for _, pt := range n.points {
			stored++
			if !n.bound.Contains(pt.pos) {
				t.Errorf("leaf at %v width %v holds point %v outside its bound",
					n.bound.Center, n.bound.Width, pt.pos)
			}
		}
	})
	if stored != len(bodies) {
		t.Errorf("stored %d points, want %d", stored, len(bodies))
	}
}

func TestBuildDropsOutsideBound(t *testing.T) {
	bound := Bound{Center: mgl64.Vec2{0, 0}, Width: 100}
	bodies := []Body{
		{Mass: 1, Pos: mgl64.Vec2{0, 0}},
		{Mass: 1, Pos: mgl64.Vec2{500, 0}},
		{Mass: 1, Pos: mgl64.Vec2{0, -500}},
	}

	tree := Build(bodies, bound, DefaultConfig())
	if tree.Dropped != 2 {
		t.Errorf("dropped = %d, want 2", tree.Dropped)
	}
	if tree.TotalMass() != 1 {
		t.Errorf("total mass = %v, want 1 (outsiders excluded)", tree.TotalMass())
	}
}

func TestBuildCoincidentPositionsTerminate(t *testing.T) {
	bound := Bound{Center: mgl64.Vec2{0, 0}, Width: 100}
	cfg := DefaultConfig()
	cfg.MaxDepth = 16

	bodies := make([]Body, 1000)
	for i := range bodies {
		bodies[i] = Body{Mass: 1, Pos: mgl64.Vec2{3, 3}}
	}

	tree := Build(bodies, bound, cfg)

	deepest := 0
	merged := 0
	walk(tree.root, 0, func(n *node, depth int) {
		if depth > deepest {
			deepest = depth
		}
		if len(n.points) > 1 {
			merged = len(n.points)
		}
	})
	if deepest > cfg.MaxDepth {
		t.Errorf("tree depth %d exceeds cap %d", deepest, cfg.MaxDepth)
	}
	if merged != len(bodies) {
		t.Errorf("merged leaf holds %d points, want %d", merged, len(bodies))
	}
	if math.Abs(tree.TotalMass()-1000) > 1e-9 {
		t.Errorf("total mass = %v, want 1000", tree.TotalMass())
	}
}

func TestFitBound(t *testing.T) {
	bodies := []Body{
		{Mass: 1, Pos: mgl64.Vec2{-10, 5}},
		{Mass: 1, Pos: mgl64.Vec2{30, -20}},
		{Mass: 1, Pos: mgl64.Vec2{0, 0}},
	}

	bound := FitBound(bodies)
	for i := range bodies {
		if !bound.Contains(bodies[i].Pos) {
			t.Errorf("fit bound does not contain body %d at %v", i, bodies[i].Pos)
		}
	}

	if got := FitBound(nil); got.Width <= 0 {
		t.Errorf("empty fit bound width = %v, want > 0", got.Width)
	}
}
