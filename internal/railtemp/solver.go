package railtemp

import (
	"math"

	"gonum.org/v1/gonum/diff/fd"
)

const (
	defaultTolerance     = 1e-3 // K
	defaultMaxIterations = 100

	// Physical bracket for rail temperatures, K. Anything outside is treated
	// as a solver escape, not a solution.
	bracketLow  = 173.15 // -100 °C
	bracketHigh = 1873.15
)

// SolverConfig bounds the nonlinear root-find of the balance equation.
type SolverConfig struct {
	Tolerance     float64 // convergence tolerance on the temperature, K
	MaxIterations int
}

func (c SolverConfig) withDefaults() SolverConfig {
	if c.Tolerance == 0 {
		c.Tolerance = defaultTolerance
	}
	if c.MaxIterations == 0 {
		c.MaxIterations = defaultMaxIterations
	}
	return c
}

func (c SolverConfig) Validate() error {
	if c.Tolerance < 0 {
		return ErrInvalidTolerance
	}
	if c.MaxIterations < 0 {
		return ErrInvalidMaxIterations
	}
	return nil
}

// solveRoot finds a zero of f near guess (K). Newton iteration with a
// finite-difference derivative; when Newton stalls or escapes the physical
// bracket, it falls back to bisection. Returns ErrNotConverged when neither
// method reaches the tolerance within the iteration budget.
func solveRoot(f func(float64) float64, guess float64, cfg SolverConfig) (float64, error) {
	cfg = cfg.withDefaults()

	x := guess
	for i := 0; i < cfg.MaxIterations; i++ {
		fx := f(x)
		d := fd.Derivative(f, x, &fd.Settings{Formula: fd.Central})
		if d == 0 || math.IsNaN(d) || math.IsInf(d, 0) {
			break
		}
		step := fx / d
		next := x - step
		if next < bracketLow || next > bracketHigh || math.IsNaN(next) {
			break
		}
		if math.Abs(next-x) < cfg.Tolerance {
			return next, nil
		}
		x = next
	}

	return bisect(f, cfg)
}

func bisect(f func(float64) float64, cfg SolverConfig) (float64, error) {
	lo, hi := bracketLow, bracketHigh
	flo, fhi := f(lo), f(hi)
	if math.IsNaN(flo) || math.IsNaN(fhi) || flo*fhi > 0 {
		return 0, ErrNotConverged
	}
	for i := 0; i < cfg.MaxIterations; i++ {
		mid := (lo + hi) / 2
		if hi-lo < cfg.Tolerance {
			return mid, nil
		}
		fmid := f(mid)
		if fmid == 0 {
			return mid, nil
		}
		if flo*fmid < 0 {
			hi = mid
		} else {
			lo, flo = mid, fmid
		}
	}
	return 0, ErrNotConverged
}
