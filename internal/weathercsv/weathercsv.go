// Package weathercsv reads weather observation series from CSV and writes
// simulation results back out. This is boundary glue: the engine itself never
// touches files.
package weathercsv

import (
	"fmt"
	"io"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/opentrack/railtemp/internal/railtemp"
)

const timeLayout = "2006-01-02 15:04:05"

// csvTime parses the observation timestamp. The file carries local wall-clock
// time; the zone is applied by the loader.
type csvTime struct {
	time.Time
}

func (t *csvTime) UnmarshalCSV(s string) error {
	for _, layout := range []string{timeLayout, time.RFC3339} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

func (t csvTime) MarshalCSV() (string, error) {
	return t.Format(timeLayout), nil
}

type observationRow struct {
	Date           csvTime `csv:"Date"`
	SolarRadiation float64 `csv:"SR"`
	AirTemperature float64 `csv:"TA"`
	WindSpeed      float64 `csv:"Wv_avg"`
}

// Load reads a weather series. Timestamps in the file are wall-clock times of
// the given zone; they come out as zone-aware instants.
func Load(r io.Reader, loc *time.Location) ([]railtemp.WeatherSample, error) {
	if loc == nil {
		loc = time.UTC
	}

	var rows []observationRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("weather csv: %w", err)
	}

	samples := make([]railtemp.WeatherSample, len(rows))
	for i, row := range rows {
		ts := row.Date.Time
		samples[i] = railtemp.WeatherSample{
			Time: time.Date(ts.Year(), ts.Month(), ts.Day(),
				ts.Hour(), ts.Minute(), ts.Second(), 0, loc),
			AirTemperature:  row.AirTemperature,
			WindSpeed:       row.WindSpeed,
			SolarIrradiance: row.SolarRadiation,
		}
	}
	if err := railtemp.ValidateSamples(samples); err != nil {
		return nil, fmt.Errorf("weather csv: %w", err)
	}
	return samples, nil
}

// WriteSamples renders a weather series in the observation schema, the
// counterpart of Load. Timestamps are written as wall-clock time.
func WriteSamples(w io.Writer, samples []railtemp.WeatherSample) error {
	rows := make([]observationRow, len(samples))
	for i, s := range samples {
		rows[i] = observationRow{
			Date:           csvTime{s.Time},
			SolarRadiation: s.SolarIrradiance,
			AirTemperature: s.AirTemperature,
			WindSpeed:      s.WindSpeed,
		}
	}
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("weather csv: %w", err)
	}
	return nil
}

type resultRow struct {
	Date            csvTime `csv:"Date"`
	RailTemperature float64 `csv:"Tr_simu"`
	SolarGain       float64 `csv:"Solar_gain"`
	ConvectiveLoss  float64 `csv:"Convective_loss"`
	RadiativeLoss   float64 `csv:"Radiative_loss"`
	SunArea         float64 `csv:"As"`
	Hconv           float64 `csv:"Hconv"`
	Error           string  `csv:"Error"`
}

// WriteResults renders a run as CSV, one row per sample in input order. The
// Error column is empty for converged samples.
func WriteResults(w io.Writer, run railtemp.SimulationRun) error {
	rows := make([]resultRow, len(run.Results))
	for i, res := range run.Results {
		rows[i] = resultRow{
			Date:            csvTime{res.Time},
			RailTemperature: res.RailTemperature,
			SolarGain:       res.SolarGain,
			ConvectiveLoss:  res.ConvectiveLoss,
			RadiativeLoss:   res.RadiativeLoss,
			SunArea:         res.SunArea,
			Hconv:           res.Hconv,
		}
		if i < len(run.Errs) && run.Errs[i] != nil {
			rows[i].Error = run.Errs[i].Error()
		}
	}
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("results csv: %w", err)
	}
	return nil
}
