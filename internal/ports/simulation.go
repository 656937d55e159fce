package ports

import "github.com/opentrack/railtemp/internal/railtemp"

// SimulationService is the port consumed by controllers and CLI glue: feed a
// weather series in, get an aligned temperature series back.
type SimulationService interface {
	Run(samples []railtemp.WeatherSample) (railtemp.SimulationRun, error)
}
