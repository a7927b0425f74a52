package barneshut

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

/*

spacial tree acceleration structure.
point quadtree over the 2D plane.

*/

type nodekind uint8

// node types
const (
	external nodekind = iota
	internal
)

type quadrant uint8

// child positions (quadrants)
// low bit is X axis, high bit is Y axis
// L (0) means < center, H (1) means >= center
const (
	quadTL quadrant = 0b00
	quadTR quadrant = 0b01
	quadBL quadrant = 0b10
	quadBR quadrant = 0b11
)

// Bound is an axis-aligned square region of space.
type Bound struct {
	Center mgl64.Vec2
	Width  float64
}

// Contains reports whether point lies within the bound (edges inclusive).
func (b Bound) Contains(point mgl64.Vec2) bool {
	half := b.Width * 0.5
	return b.Center[0]-half <= point[0] && point[0] <= b.Center[0]+half &&
		b.Center[1]-half <= point[1] && point[1] <= b.Center[1]+half
}

// generate the bound for a quadrant of the parent's bound.
// each quadrant center is ±1/4 of the parent's width from the parent's center.
func quadrantBound(parent Bound, q quadrant) Bound {
	tx := mgl64.Vec2{
		parent.Width * 0.25 * (float64((q&quadTR)*2) - 1.0),
		parent.Width * 0.25 * (float64(((q&quadBL)>>1)*2) - 1.0),
	}
	return Bound{Center: parent.Center.Add(tx), Width: parent.Width * 0.5}
}

// determines which quadrant (relative to midpoint) point belongs in.
// uses the float sign bit so a point exactly on the midpoint goes H.
func quadBits(midpoint, point mgl64.Vec2) quadrant {
	return quadrant((^math.Float64bits(point[0]-midpoint[0]) >> 63) |
		(^math.Float64bits(point[1]-midpoint[1])>>63)<<1)
}

// FitBound returns the smallest square, slightly padded, that contains
// every body position. Convenient for drivers that want a zero-drop bound
// instead of a fixed domain.
func FitBound(bodies []Body) Bound {
	if len(bodies) == 0 {
		return Bound{Width: 1}
	}
	min := bodies[0].Pos
	max := bodies[0].Pos
	for i := range bodies {
		p := bodies[i].Pos
		min[0] = math.Min(min[0], p[0])
		min[1] = math.Min(min[1], p[1])
		max[0] = math.Max(max[0], p[0])
		max[1] = math.Max(max[1], p[1])
	}
	w := math.Max(max[0]-min[0], max[1]-min[1])
	if w == 0 {
		w = 1
	}
	return Bound{
		Center: min.Add(max).Mul(0.5),
		Width:  w * 1.0001,
	}
}

// point is a body's position and mass captured by value at insertion time.
// the *Body is kept only as an identity for self-exclusion during force
// evaluation; traversal never reads live body state through it.
type point struct {
	pos  mgl64.Vec2
	mass float64
	body *Body
}

type node struct {
	kind         nodekind
	children     []*node
	points       []point // occupied leaf; len > 1 only at the depth cap
	totalMass    float64
	centerOfMass mgl64.Vec2
	bound        Bound
}

// create children nodes with appropriate bounds
func (n *node) split() {
	n.children = make([]*node, 4)
	for q := quadTL; q <= quadBR; q++ {
		n.children[q] = &node{bound: quadrantBound(n.bound, q)}
	}
}

// place a point in the subtree rooted at this node.
// returns false if the point doesn't belong in this node.
func (n *node) insert(pt point, depth, maxDepth int) bool {
	if !n.bound.Contains(pt.pos) {
		return false
	}

	switch n.kind {
	case external:
		// empty leaf: store directly
		if len(n.points) == 0 {
			n.points = append(n.points, pt)
			return true
		}

		// occupied leaf at the subdivision cap: merge instead of splitting,
		// which bounds recursion on coincident positions
		if depth >= maxDepth {
			n.points = append(n.points, pt)
			return true
		}

		// occupied leaf: subdivide, push the resident point into the
		// appropriate child, then treat the incoming point as for an
		// internal node
		n.split()
		prev := n.points[0]
		n.points = nil
		n.kind = internal
		n.children[quadBits(n.bound.Center, prev.pos)].insert(prev, depth+1, maxDepth)
		fallthrough

	case internal:
		return n.children[quadBits(n.bound.Center, pt.pos)].insert(pt, depth+1, maxDepth)
	}

	return true
}

// compute total mass and center of mass bottom-up, post-order.
// assumes fresh zero-valued fields: the tree is built and aggregated once,
// then discarded with the step.
func (n *node) aggregate() {
	if n.kind == external {
		for _, pt := range n.points {
			n.totalMass += pt.mass
			n.centerOfMass = n.centerOfMass.Add(pt.pos.Mul(pt.mass))
		}
	} else {
		for _, c := range n.children {
			c.aggregate()
			n.totalMass += c.totalMass
			n.centerOfMass = n.centerOfMass.Add(c.centerOfMass.Mul(c.totalMass))
		}
	}
	if n.totalMass > 0 {
		n.centerOfMass = n.centerOfMass.Mul(1 / n.totalMass)
	}
}

// Tree is a quadtree built over the body positions of a single step. It is
// read-only once built and is meant to be discarded before the next build.
type Tree struct {
	root *node

	// Dropped counts bodies whose position fell outside the root bound.
	// They contribute no mass this step; callers that care about mass
	// conservation should check it.
	Dropped int
}

// Build inserts every body into a fresh tree rooted at bound and runs the
// post-order mass aggregation pass.
func Build(bodies []Body, bound Bound, cfg Config) *Tree {
	t := &Tree{root: &node{bound: bound}}
	for i := range bodies {
		pt := point{pos: bodies[i].Pos, mass: bodies[i].Mass, body: &bodies[i]}
		if !t.root.insert(pt, 0, cfg.MaxDepth) {
			t.Dropped++
		}
	}
	t.root.aggregate()
	return t
}

// TotalMass is the aggregate mass of every body the tree accepted.
func (t *Tree) TotalMass() float64 {
	return t.root.totalMass
}
