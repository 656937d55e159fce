// Package testutil provides fakes shared by controller tests.
package testutil

import (
	"time"

	"github.com/opentrack/railtemp/internal/railtemp"
)

// FakeSimulationService returns a canned run regardless of input. Tests can
// override Result or Err to steer controller behavior.
type FakeSimulationService struct {
	Result railtemp.SimulationRun
	Err    error

	// Calls records the sample slices passed to Run.
	Calls [][]railtemp.WeatherSample
}

func NewFakeSimulationService() *FakeSimulationService {
	t0 := time.Date(2023, 7, 14, 10, 0, 0, 0, time.UTC)
	results := make([]railtemp.HeatBalanceResult, 3)
	for i := range results {
		results[i] = railtemp.HeatBalanceResult{
			Time:            t0.Add(time.Duration(i) * time.Hour),
			RailTemperature: 30.0 + float64(i),
			SolarGain:       400,
			ConvectiveLoss:  150,
			RadiativeLoss:   50,
			SunArea:         0.05,
			Hconv:           9.6,
		}
	}
	return &FakeSimulationService{
		Result: railtemp.SimulationRun{
			Results: results,
			Errs:    make([]error, len(results)),
		},
	}
}

func (s *FakeSimulationService) Run(samples []railtemp.WeatherSample) (railtemp.SimulationRun, error) {
	s.Calls = append(s.Calls, samples)
	if s.Err != nil {
		return railtemp.SimulationRun{}, s.Err
	}
	return s.Result, nil
}
