package barneshut

import "fmt"

// Config carries the solver parameters. It is threaded explicitly through
// every call rather than living in package constants, so tests can vary
// individual values (theta 0 forces full descent to the leaves, turning the
// tree into an exact pairwise summation).
type Config struct {
	// Theta is the admissibility threshold. A subtree whose width/distance
	// ratio falls below it is treated as a single point mass.
	Theta float64

	// G is the gravitational constant.
	G float64

	// DT is the time step applied per call to Step.
	DT float64

	// Softening is added in quadrature to the separation distance so the
	// force stays bounded as two bodies approach each other.
	Softening float64

	// MaxDepth caps tree subdivision. A leaf at the cap stores additional
	// bodies as merged points instead of splitting, which bounds recursion
	// when positions coincide exactly.
	MaxDepth int

	// Workers is the number of goroutines used for force evaluation and
	// integration. Zero or negative means GOMAXPROCS.
	Workers int
}

// DefaultConfig mirrors the classic demo constants.
func DefaultConfig() Config {
	return Config{
		Theta:     0.5,
		G:         0.1,
		DT:        1,
		Softening: 15,
		MaxDepth:  48,
	}
}

// Validate reports invalid parameters as errors instead of letting them
// surface later as NaN propagation mid-step. Theta 0 is legal: it disables
// the ratio test entirely.
func (c Config) Validate() error {
	if c.Theta < 0 {
		return fmt.Errorf("theta must be >= 0, got %v", c.Theta)
	}
	if c.Softening <= 0 {
		return fmt.Errorf("softening must be > 0, got %v", c.Softening)
	}
	if c.DT <= 0 {
		return fmt.Errorf("time step must be > 0, got %v", c.DT)
	}
	if c.MaxDepth < 1 {
		return fmt.Errorf("max depth must be >= 1, got %d", c.MaxDepth)
	}
	return nil
}
