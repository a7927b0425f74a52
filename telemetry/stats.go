// Package telemetry computes and records per-step simulation statistics.
package telemetry

import (
	"time"

	"gonum.org/v1/gonum/stat"

	barneshut "github.com/milcsu09/Barnes-Hut"
)

// StepStats is one row of the telemetry time series.
type StepStats struct {
	Step        int     `csv:"step"`
	Bodies      int     `csv:"bodies"`
	Dropped     int     `csv:"dropped"`
	TotalMass   float64 `csv:"total_mass"`
	Kinetic     float64 `csv:"kinetic_energy"`
	MomentumX   float64 `csv:"momentum_x"`
	MomentumY   float64 `csv:"momentum_y"`
	CenterX     float64 `csv:"com_x"`
	CenterY     float64 `csv:"com_y"`
	SpeedMean   float64 `csv:"speed_mean"`
	SpeedStdDev float64 `csv:"speed_std"`
	StepMillis  float64 `csv:"step_ms"`
}

// Collect computes statistics over the current body state. dropped is the
// step's out-of-bound count, elapsed the wall time the step took.
func Collect(step int, bodies []barneshut.Body, dropped int, elapsed time.Duration) StepStats {
	s := StepStats{
		Step:       step,
		Bodies:     len(bodies),
		Dropped:    dropped,
		StepMillis: float64(elapsed.Microseconds()) / 1000,
	}
	if len(bodies) == 0 {
		return s
	}

	speeds := make([]float64, len(bodies))
	for i := range bodies {
		b := &bodies[i]
		v := b.Vel.Len()
		speeds[i] = v

		s.TotalMass += b.Mass
		s.Kinetic += 0.5 * b.Mass * v * v
		s.MomentumX += b.Mass * b.Vel.X()
		s.MomentumY += b.Mass * b.Vel.Y()
		s.CenterX += b.Mass * b.Pos.X()
		s.CenterY += b.Mass * b.Pos.Y()
	}
	s.CenterX /= s.TotalMass
	s.CenterY /= s.TotalMass

	s.SpeedMean = stat.Mean(speeds, nil)
	if len(speeds) > 1 {
		s.SpeedStdDev = stat.StdDev(speeds, nil)
	}
	return s
}
