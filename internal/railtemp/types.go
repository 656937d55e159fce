package railtemp

import (
	"fmt"
	"time"
)

// GeoLocation is the site of the rail track. Shared by value across a run.
type GeoLocation struct {
	Latitude  float64 // decimal degrees, north positive
	Longitude float64 // decimal degrees, east positive
	Elevation float64 // metres above sea level
}

func (l GeoLocation) Validate() error {
	if l.Latitude < -90 || l.Latitude > 90 {
		return ErrInvalidLatitude
	}
	if l.Longitude < -180 || l.Longitude > 180 {
		return ErrInvalidLongitude
	}
	if l.Elevation < 0 {
		return ErrInvalidElevation
	}
	return nil
}

// WeatherSample is a single time-stamped weather observation. Timestamps must
// carry the observation's time zone; the zero time is rejected.
type WeatherSample struct {
	Time            time.Time
	AirTemperature  float64 // °C
	WindSpeed       float64 // m/s
	SolarIrradiance float64 // W/m², global on horizontal
}

func (s WeatherSample) Validate() error {
	if s.Time.IsZero() {
		return ErrZeroTimestamp
	}
	if s.WindSpeed < 0 {
		return ErrNegativeWindSpeed
	}
	if s.SolarIrradiance < 0 {
		return ErrNegativeIrradiance
	}
	return nil
}

// ValidateSamples checks every sample and the strict time ordering of the series.
func ValidateSamples(samples []WeatherSample) error {
	if len(samples) == 0 {
		return ErrNoSamples
	}
	for i, s := range samples {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("sample %d (%s): %w", i, s.Time.Format(time.RFC3339), err)
		}
		if i > 0 && !samples[i-1].Time.Before(s.Time) {
			return fmt.Errorf("sample %d (%s): %w", i, s.Time.Format(time.RFC3339), ErrUnorderedSamples)
		}
	}
	return nil
}

// SolarPosition is the sun's angular position, computed fresh per timestamp.
type SolarPosition struct {
	Elevation float64 // degrees above the horizon, negative when the sun is down
	Azimuth   float64 // degrees clockwise from north
}

// Point3 is one vertex of the rail cross-section outline. X is lateral, Y runs
// along the track, Z is vertical; coordinates describe one metre of rail.
type Point3 struct {
	X float64
	Y float64
	Z float64
}

// HeatBalanceResult is the per-sample output: the resolved rail temperature
// plus the flux components for diagnostics.
type HeatBalanceResult struct {
	Time            time.Time
	RailTemperature float64 // °C
	SolarGain       float64 // W, absorbed solar power
	ConvectiveLoss  float64 // W, positive when the rail loses heat to the air
	RadiativeLoss   float64 // W, net long-wave emission
	SunArea         float64 // m², sun-exposed area used for the solar term
	Hconv           float64 // W/m²K, convection coefficient used
}

// SimulationRun pairs results 1:1 with the input samples. Errs is only
// populated under PolicyTolerant; Errs[i] == nil means sample i converged.
type SimulationRun struct {
	Results []HeatBalanceResult
	Errs    []error
}

// Failed returns the indices of samples that did not converge.
func (r SimulationRun) Failed() []int {
	var idx []int
	for i, err := range r.Errs {
		if err != nil {
			idx = append(idx, i)
		}
	}
	return idx
}

// SolveMode selects how the balance equation is resolved at each step.
type SolveMode int

const (
	ModeUnknown SolveMode = iota
	// ModeTransient carries the rail temperature between samples and steps the
	// thermal mass forward, the behavior of the published CNU model.
	ModeTransient
	// ModeSteadyState solves each sample independently at equilibrium.
	ModeSteadyState
)

func (m SolveMode) Valid() bool {
	return m == ModeTransient || m == ModeSteadyState
}

func (m SolveMode) String() string {
	switch m {
	case ModeTransient:
		return "transient"
	case ModeSteadyState:
		return "steady_state"
	default:
		return "unknown"
	}
}

func ParseSolveMode(s string) (SolveMode, error) {
	switch s {
	case "transient":
		return ModeTransient, nil
	case "steady_state":
		return ModeSteadyState, nil
	default:
		return ModeUnknown, fmt.Errorf("%w: %q", ErrInvalidSolveMode, s)
	}
}

// FailurePolicy decides what a run does when one sample fails to converge.
type FailurePolicy int

const (
	PolicyUnknown FailurePolicy = iota
	// PolicyStrict aborts the whole run on the first failed sample.
	PolicyStrict
	// PolicyTolerant records a per-sample error and keeps going.
	PolicyTolerant
)

func (p FailurePolicy) Valid() bool {
	return p == PolicyStrict || p == PolicyTolerant
}

func (p FailurePolicy) String() string {
	switch p {
	case PolicyStrict:
		return "strict"
	case PolicyTolerant:
		return "tolerant"
	default:
		return "unknown"
	}
}

func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch s {
	case "strict":
		return PolicyStrict, nil
	case "tolerant":
		return PolicyTolerant, nil
	default:
		return PolicyUnknown, fmt.Errorf("%w: %q", ErrInvalidPolicy, s)
	}
}
