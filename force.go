package barneshut

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Accel returns the gravitational acceleration on b due to the whole tree,
// by depth-first traversal with the distance-ratio admissibility test. The
// traversal is read-only: the same tree and body always produce the same
// result, in the same accumulation order.
//
// b is identified by pointer, so two distinct bodies at coincident
// positions still attract each other; only b's own entry is skipped.
func (t *Tree) Accel(b *Body, cfg Config) mgl64.Vec2 {
	return t.root.accel(b, &cfg)
}

func (n *node) accel(b *Body, cfg *Config) (acc mgl64.Vec2) {
	if n.totalMass == 0 {
		return // empty subtree
	}

	switch n.kind {
	case internal:
		dir := n.centerOfMass.Sub(b.Pos)
		dist := math.Sqrt(dir.Dot(dir) + cfg.Softening*cfg.Softening)
		if n.bound.Width/dist >= cfg.Theta {
			// too close to treat the node as one distant mass: recurse
			for _, c := range n.children {
				acc = acc.Add(c.accel(b, cfg))
			}
			return
		}
		return pointAccel(b.Pos, n.centerOfMass, n.totalMass, cfg)

	case external:
		// leaves are always admissible. merged leaves (depth cap) are
		// expanded per point so b never attracts itself.
		for _, pt := range n.points {
			if pt.body == b {
				continue
			}
			acc = acc.Add(pointAccel(b.Pos, pt.pos, pt.mass, cfg))
		}
	}

	return
}
