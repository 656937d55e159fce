// Generates a synthetic clear-sky weather CSV for exercising the simulator
// without a real observation export.
//
//	go run scripts/weather_csv.go -days 2 -step 10m -o weather.csv
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/opentrack/railtemp/internal/railtemp"
	"github.com/opentrack/railtemp/internal/weathercsv"
)

func main() {
	var (
		days     int
		step     time.Duration
		output   string
		baseTemp float64
		swing    float64
		peakSR   float64
		wind     float64
	)
	flag.IntVar(&days, "days", 1, "number of days to generate")
	flag.DurationVar(&step, "step", 10*time.Minute, "sampling interval")
	flag.StringVar(&output, "o", "weather.csv", "output file")
	flag.Float64Var(&baseTemp, "base-temp", 22, "daily mean air temperature, degrees C")
	flag.Float64Var(&swing, "swing", 8, "half amplitude of the daily temperature cycle, degrees C")
	flag.Float64Var(&peakSR, "peak-sr", 900, "peak solar irradiance, W/m2")
	flag.Float64Var(&wind, "wind", 1.5, "mean wind speed, m/s")
	flag.Parse()

	samples := generate(days, step, baseTemp, swing, peakSR, wind)

	f, err := os.Create(output)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer f.Close()

	if err := weathercsv.WriteSamples(f, samples); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("wrote %d samples to %s\n", len(samples), output)
}

func generate(days int, step time.Duration, baseTemp, swing, peakSR, wind float64) []railtemp.WeatherSample {
	start := time.Date(2023, 7, 14, 0, 0, 0, 0, time.UTC)
	n := int(time.Duration(days) * 24 * time.Hour / step)

	samples := make([]railtemp.WeatherSample, 0, n)
	for i := 0; i < n; i++ {
		ts := start.Add(time.Duration(i) * step)
		hour := float64(ts.Hour()) + float64(ts.Minute())/60

		// Air temperature peaks mid-afternoon.
		air := baseTemp + swing*math.Sin((hour-9)/24*2*math.Pi)

		// Half-sine irradiance between 06:00 and 20:00.
		var sr float64
		if hour > 6 && hour < 20 {
			sr = peakSR * math.Sin((hour-6)/14*math.Pi)
		}

		// Light breeze picking up during the day.
		wv := wind * (0.7 + 0.6*math.Max(0, math.Sin((hour-8)/24*2*math.Pi)))

		samples = append(samples, railtemp.WeatherSample{
			Time:            ts,
			AirTemperature:  air,
			WindSpeed:       wv,
			SolarIrradiance: sr,
		})
	}
	return samples
}
