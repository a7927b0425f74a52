// Package barneshut approximates pairwise gravitational forces among point
// masses using a quadtree and the Barnes-Hut distance-ratio test.
// https://en.wikipedia.org/wiki/Barnes%E2%80%93Hut_simulation
package barneshut

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Body is a point mass. The caller owns the body slice; the solver mutates
// velocity and position in place and never creates or destroys bodies.
type Body struct {
	Mass     float64
	Pos, Vel mgl64.Vec2
}

// Integrate advances the body by one time step using semi-implicit Euler:
// acceleration into velocity first, then the updated velocity into position.
func (b *Body) Integrate(acc mgl64.Vec2, dt float64) {
	b.Vel = b.Vel.Add(acc.Mul(dt))
	b.Pos = b.Pos.Add(b.Vel.Mul(dt))
}

// pointAccel is the softened acceleration at pos due to mass m at com.
// softening enters twice, matching the tree traversal: once inside the
// separation distance and once more in the force denominator.
func pointAccel(pos, com mgl64.Vec2, m float64, cfg *Config) mgl64.Vec2 {
	dir := com.Sub(pos)
	soft2 := cfg.Softening * cfg.Softening
	dist := math.Sqrt(dir.Dot(dir) + soft2)
	// F = G*m*mb / (dist² + soft²), acc = dir/dist * F/mb
	return dir.Mul(cfg.G * m / ((dist*dist + soft2) * dist))
}

// AccelDirect is the O(n²) reference: the acceleration on bodies[i] by
// direct summation over every other body. Used for small n and for
// verifying the tree against exact results.
func AccelDirect(bodies []Body, i int, cfg Config) (acc mgl64.Vec2) {
	for j := range bodies {
		if j == i {
			continue
		}
		acc = acc.Add(pointAccel(bodies[i].Pos, bodies[j].Pos, bodies[j].Mass, &cfg))
	}
	return
}
