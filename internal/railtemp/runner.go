package railtemp

import (
	"fmt"
	"sync"
)

// RunnerConfig configures a SimulationRunner.
type RunnerConfig struct {
	// Policy decides whether a non-converging sample aborts the run
	// (PolicyStrict, the default) or is recorded per-sample (PolicyTolerant).
	Policy FailurePolicy

	// Workers fans the per-sample solves out over a worker pool. Only honored
	// in steady-state mode, where samples are independent; transient runs are
	// inherently sequential.
	Workers int

	// InitialRailTemperature seeds a transient run, °C. When nil, the air
	// temperature of the first sample is used.
	InitialRailTemperature *float64
}

// SimulationRunner drives the heat-balance model across an ordered weather
// series. It retains no state between runs.
type SimulationRunner struct {
	model    *HeatBalanceModel
	location GeoLocation
	cfg      RunnerConfig
}

func NewSimulationRunner(model *HeatBalanceModel, location GeoLocation, cfg RunnerConfig) (*SimulationRunner, error) {
	if err := location.Validate(); err != nil {
		return nil, err
	}
	if cfg.Policy == PolicyUnknown {
		cfg.Policy = PolicyStrict
	}
	if !cfg.Policy.Valid() {
		return nil, ErrInvalidPolicy
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &SimulationRunner{model: model, location: location, cfg: cfg}, nil
}

// Run evaluates every sample in order and returns exactly one result per
// sample, positionally aligned with the input. Malformed input always aborts;
// the failure policy only governs solver non-convergence.
func (r *SimulationRunner) Run(samples []WeatherSample) (SimulationRun, error) {
	if err := ValidateSamples(samples); err != nil {
		return SimulationRun{}, err
	}
	if r.model.Mode() == ModeSteadyState {
		return r.runSteadyState(samples)
	}
	return r.runTransient(samples)
}

func (r *SimulationRunner) runTransient(samples []WeatherSample) (SimulationRun, error) {
	results := make([]HeatBalanceResult, len(samples))
	errs := make([]error, len(samples))

	prev := samples[0].AirTemperature
	if r.cfg.InitialRailTemperature != nil {
		prev = *r.cfg.InitialRailTemperature
	}

	// The first sample carries the initial condition; the solve starts at the
	// second sample, as in the reference model.
	results[0] = r.initialResult(samples[0], prev)

	for i := 1; i < len(samples); i++ {
		sun, err := SunPosition(r.location, samples[i].Time)
		if err == nil {
			dt := samples[i].Time.Sub(samples[i-1].Time)
			results[i], err = r.model.Step(prev, dt, samples[i], sun)
		}
		if err != nil {
			if r.cfg.Policy == PolicyStrict {
				return SimulationRun{}, fmt.Errorf("sample %d: %w", i, err)
			}
			// Carry the last converged temperature forward.
			errs[i] = fmt.Errorf("sample %d: %w", i, err)
			results[i] = HeatBalanceResult{Time: samples[i].Time, RailTemperature: prev}
			continue
		}
		prev = results[i].RailTemperature
	}

	if r.cfg.Policy == PolicyStrict {
		errs = nil
	}
	return SimulationRun{Results: results, Errs: errs}, nil
}

func (r *SimulationRunner) runSteadyState(samples []WeatherSample) (SimulationRun, error) {
	results := make([]HeatBalanceResult, len(samples))
	errs := make([]error, len(samples))

	evaluate := func(i int) {
		sun, err := SunPosition(r.location, samples[i].Time)
		if err == nil {
			results[i], err = r.model.Equilibrium(samples[i], sun)
		}
		if err != nil {
			errs[i] = fmt.Errorf("sample %d: %w", i, err)
			results[i] = HeatBalanceResult{Time: samples[i].Time}
		}
	}

	if r.cfg.Workers <= 1 || len(samples) == 1 {
		for i := range samples {
			evaluate(i)
		}
	} else {
		// Each worker writes only its own indices; results stay aligned with
		// the input order by construction.
		idx := make(chan int)
		var wg sync.WaitGroup
		for w := 0; w < r.cfg.Workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range idx {
					evaluate(i)
				}
			}()
		}
		for i := range samples {
			idx <- i
		}
		close(idx)
		wg.Wait()
	}

	if r.cfg.Policy == PolicyStrict {
		for i, err := range errs {
			if err != nil {
				return SimulationRun{}, fmt.Errorf("run aborted: %w", errs[i])
			}
		}
		errs = nil
	}
	return SimulationRun{Results: results, Errs: errs}, nil
}

// initialResult reports the seeded temperature with fluxes evaluated at it, so
// the first row still carries usable diagnostics.
func (r *SimulationRunner) initialResult(sample WeatherSample, railC float64) HeatBalanceResult {
	sun, err := SunPosition(r.location, sample.Time)
	if err != nil {
		return HeatBalanceResult{Time: sample.Time, RailTemperature: railC}
	}
	hconv := ConvectionCoefficient(sample.WindSpeed)
	res := r.model.result(CelsiusToKelvin(railC), sample, r.model.sunArea(sun), hconv)
	return res
}
