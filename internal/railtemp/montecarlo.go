package railtemp

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ParameterValue is a scalar parameter source: a fixed number or a draw from a
// distribution, for uncertainty campaigns.
type ParameterValue interface {
	Value() float64
}

// Constant is the fixed-value parameter.
type Constant float64

func (c Constant) Value() float64 { return float64(c) }

// Uniform draws uniformly from [low, high).
type Uniform struct {
	dist distuv.Uniform
}

func NewUniform(low, high float64, src rand.Source) (Uniform, error) {
	if low >= high {
		return Uniform{}, ErrInvalidBounds
	}
	return Uniform{dist: distuv.Uniform{Min: low, Max: high, Src: src}}, nil
}

func (u Uniform) Value() float64 { return u.dist.Rand() }

// ProfileTemplate is a SectionProfile whose scalar parameters are
// ParameterValues. Each Draw produces one concrete profile; drawn parameters
// stay constant for the duration of that run.
type ProfileTemplate struct {
	Name string

	TrackAzimuth      ParameterValue
	CrossArea         ParameterValue
	ConvectionArea    ParameterValue
	RadiationArea     ParameterValue
	AmbientEmissivity ParameterValue

	Density           ParameterValue
	SolarAbsorptivity ParameterValue
	Emissivity        ParameterValue

	SpecificHeat func(tempC float64) float64
	Coordinates  []Point3
}

// Draw materializes one profile from the template and validates it, so a
// distribution straying out of the physical domain surfaces immediately.
func (t ProfileTemplate) Draw() (SectionProfile, error) {
	sh := t.SpecificHeat
	if sh == nil {
		sh = SteelSpecificHeat
	}
	p := SectionProfile{
		Name:              t.Name,
		TrackAzimuth:      t.TrackAzimuth.Value(),
		CrossArea:         t.CrossArea.Value(),
		ConvectionArea:    t.ConvectionArea.Value(),
		RadiationArea:     t.RadiationArea.Value(),
		AmbientEmissivity: t.AmbientEmissivity.Value(),
		Coordinates:       t.Coordinates,
		Material: RailMaterial{
			Density:           t.Density.Value(),
			SolarAbsorptivity: t.SolarAbsorptivity.Value(),
			Emissivity:        t.Emissivity.Value(),
			SpecificHeat:      sh,
		},
	}
	if err := p.Validate(); err != nil {
		return SectionProfile{}, err
	}
	return p, nil
}

// Campaign runs the same weather series against profiles drawn repeatedly
// from a template, producing an ensemble of runs.
type Campaign struct {
	Template ProfileTemplate
	Location GeoLocation
	Model    ModelConfig
	Runner   RunnerConfig

	Runs    int
	Workers int // concurrent runs; each run works on its own drawn profile
}

// Run draws Runs profiles (sequentially, so draws are reproducible for a
// given template source) and executes the simulations, concurrently when
// Workers > 1.
func (c Campaign) Run(samples []WeatherSample) (CampaignResult, error) {
	if c.Runs <= 0 {
		return CampaignResult{}, ErrInvalidRunCount
	}
	if err := ValidateSamples(samples); err != nil {
		return CampaignResult{}, err
	}

	profiles := make([]SectionProfile, c.Runs)
	for i := range profiles {
		p, err := c.Template.Draw()
		if err != nil {
			return CampaignResult{}, fmt.Errorf("draw %d: %w", i, err)
		}
		profiles[i] = p
	}

	runs := make([]SimulationRun, c.Runs)
	errs := make([]error, c.Runs)

	execute := func(i int) {
		model, err := NewHeatBalanceModel(profiles[i], c.Model)
		if err != nil {
			errs[i] = err
			return
		}
		runner, err := NewSimulationRunner(model, c.Location, c.Runner)
		if err != nil {
			errs[i] = err
			return
		}
		runs[i], errs[i] = runner.Run(samples)
	}

	workers := c.Workers
	if workers < 1 {
		workers = 1
	}
	if workers == 1 {
		for i := 0; i < c.Runs; i++ {
			execute(i)
		}
	} else {
		idx := make(chan int)
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range idx {
					execute(i)
				}
			}()
		}
		for i := 0; i < c.Runs; i++ {
			idx <- i
		}
		close(idx)
		wg.Wait()
	}

	for i, err := range errs {
		if err != nil {
			return CampaignResult{}, fmt.Errorf("campaign run %d: %w", i, err)
		}
	}
	return CampaignResult{Runs: runs, Profiles: profiles}, nil
}

// CampaignResult is the ensemble of runs of one campaign, with the drawn
// profiles kept for traceability.
type CampaignResult struct {
	Runs     []SimulationRun
	Profiles []SectionProfile
}

// MeanSeries is the per-step ensemble mean of the rail temperature, °C.
func (r CampaignResult) MeanSeries() []float64 {
	if len(r.Runs) == 0 {
		return nil
	}
	steps := len(r.Runs[0].Results)
	mean := make([]float64, steps)
	buf := make([]float64, len(r.Runs))
	for s := 0; s < steps; s++ {
		for i, run := range r.Runs {
			buf[i] = run.Results[s].RailTemperature
		}
		mean[s] = stat.Mean(buf, nil)
	}
	return mean
}

// QuantileSeries is the per-step empirical quantile of the rail temperature.
func (r CampaignResult) QuantileSeries(q float64) []float64 {
	if len(r.Runs) == 0 {
		return nil
	}
	steps := len(r.Runs[0].Results)
	out := make([]float64, steps)
	buf := make([]float64, len(r.Runs))
	for s := 0; s < steps; s++ {
		for i, run := range r.Runs {
			buf[i] = run.Results[s].RailTemperature
		}
		sort.Float64s(buf)
		out[s] = stat.Quantile(q, stat.Empirical, buf, nil)
	}
	return out
}
