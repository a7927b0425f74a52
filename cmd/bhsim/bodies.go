package main

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	barneshut "github.com/milcsu09/Barnes-Hut"
	"github.com/milcsu09/Barnes-Hut/config"
)

/*

initial conditions

*/

// makeBodies builds the initial body set described by the config.
func makeBodies(bc config.BodiesConfig, bound barneshut.Bound, cfg barneshut.Config, rng *rand.Rand) []barneshut.Body {
	switch bc.Mode {
	case "clusters":
		return makeClusters(bc, bound, cfg, rng)
	default:
		return makeDisc(bc, bound, rng)
	}
}

// makeDisc spreads bodies uniformly over the domain square with unit
// tangential velocities around the center, so the cloud starts spinning.
func makeDisc(bc config.BodiesConfig, bound barneshut.Bound, rng *rand.Rand) []barneshut.Body {
	half := bound.Width / 2
	bodies := make([]barneshut.Body, bc.Count)
	for i := range bodies {
		pos := mgl64.Vec2{
			bound.Center.X() + (rng.Float64()*2-1)*half,
			bound.Center.Y() + (rng.Float64()*2-1)*half,
		}
		d := bound.Center.Sub(pos)
		angle := math.Atan2(d.Y(), d.X()) - math.Pi/2
		bodies[i] = barneshut.Body{
			Mass: bc.Mass,
			Pos:  pos,
			Vel:  mgl64.Vec2{math.Cos(angle), math.Sin(angle)}.Mul(bc.Spin),
		}
	}
	return bodies
}

// makeClusters places two heavy cores, each with a gaussian swarm of light
// bodies on roughly circular orbits around it. the clusters spin in
// opposite directions.
func makeClusters(bc config.BodiesConfig, bound barneshut.Bound, cfg barneshut.Config, rng *rand.Rand) []barneshut.Body {
	offset := bound.Width / 4
	cores := []barneshut.Body{
		{Mass: bc.ClusterMass, Pos: bound.Center.Add(mgl64.Vec2{-offset, 0})},
		{Mass: bc.ClusterMass, Pos: bound.Center.Add(mgl64.Vec2{offset, 0})},
	}

	bodies := make([]barneshut.Body, 0, bc.Count+len(cores))
	bodies = append(bodies, cores...)

	for i := 0; i < bc.Count; i++ {
		which := i % len(cores)
		core := cores[which]
		sign := 1.0
		if which == 1 {
			sign = -1
		}

		off := mgl64.Vec2{rng.NormFloat64(), rng.NormFloat64()}.Mul(bc.ClusterSpread)
		d := off.Len()
		if d == 0 {
			off = mgl64.Vec2{bc.ClusterSpread, 0}
			d = bc.ClusterSpread
		}

		// circular-orbit speed at this distance, perpendicular to the
		// core-body vector
		v := math.Sqrt(cfg.G * core.Mass / d)
		tangent := mgl64.Vec2{-off.Y(), off.X()}.Mul(sign / d)

		bodies = append(bodies, barneshut.Body{
			Mass: bc.Mass,
			Pos:  core.Pos.Add(off),
			Vel:  tangent.Mul(v),
		})
	}
	return bodies
}
