package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/opentrack/railtemp/cmd/app"
	httpctrl "github.com/opentrack/railtemp/internal/controllers/http"
	mqttctrl "github.com/opentrack/railtemp/internal/controllers/mqtt"
	"github.com/opentrack/railtemp/internal/railtemp"
	"github.com/opentrack/railtemp/internal/weathercsv"
)

func main() {
	var (
		configPath  string
		weatherPath string
		outPath     string
		tzName      string
	)
	flag.StringVar(&configPath, "config", "config.yaml", "path to config file (.yaml/.yml/.json)")
	flag.StringVar(&weatherPath, "weather", "", "weather CSV to simulate; when empty, the HTTP server is started instead")
	flag.StringVar(&outPath, "out", "", "result CSV path (default stdout)")
	flag.StringVar(&tzName, "tz", "UTC", "IANA timezone of the weather CSV timestamps")
	flag.Parse()

	cfg, err := app.LoadConfig(configPath)
	if err != nil {
		log.Fatal(err)
	}

	runner, err := buildRunner(cfg)
	if err != nil {
		log.Fatal(err)
	}

	if weatherPath != "" {
		if err := runBatch(cfg, runner, weatherPath, outPath, tzName); err != nil {
			log.Fatal(err)
		}
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	srv := httpctrl.New(runner, cfg.Controllers.HTTP.Addr, cfg.DeviceID)
	log.Printf("railtemp listening on %s", cfg.Controllers.HTTP.Addr)
	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("server exited: %v", err)
	}
}

func buildRunner(cfg app.Config) (*railtemp.SimulationRunner, error) {
	profile, err := cfg.Profile()
	if err != nil {
		return nil, err
	}
	modelCfg, err := cfg.ModelConfig()
	if err != nil {
		return nil, err
	}
	model, err := railtemp.NewHeatBalanceModel(profile, modelCfg)
	if err != nil {
		return nil, err
	}
	runnerCfg, err := cfg.RunnerConfig()
	if err != nil {
		return nil, err
	}
	return railtemp.NewSimulationRunner(model, cfg.GeoLocation(), runnerCfg)
}

func runBatch(cfg app.Config, runner *railtemp.SimulationRunner, weatherPath, outPath, tzName string) error {
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return err
	}

	f, err := os.Open(weatherPath)
	if err != nil {
		return err
	}
	samples, err := weathercsv.Load(f, loc)
	f.Close()
	if err != nil {
		return err
	}
	log.Printf("loaded %d weather samples from %s", len(samples), weatherPath)

	start := time.Now()
	run, err := runner.Run(samples)
	if err != nil {
		return err
	}
	log.Printf("simulated %d samples in %s (%d failed)", len(run.Results), time.Since(start).Round(time.Millisecond), len(run.Failed()))

	out := os.Stdout
	if outPath != "" {
		out, err = os.Create(outPath)
		if err != nil {
			return err
		}
		defer out.Close()
	}
	if err := weathercsv.WriteResults(out, run); err != nil {
		return err
	}

	if cfg.Controllers.MQTT.Enabled {
		return publishResults(cfg, run)
	}
	return nil
}

func publishResults(cfg app.Config, run railtemp.SimulationRun) error {
	pub, err := mqttctrl.New(staticRun{run}, mqttctrl.Config{
		DeviceID:      cfg.DeviceID,
		BrokerURL:     cfg.Controllers.MQTT.BrokerURL,
		ClientID:      cfg.Controllers.MQTT.ClientID,
		BaseTopic:     cfg.Controllers.MQTT.BaseTopic,
		QoS:           cfg.Controllers.MQTT.QoS,
		RetainSummary: cfg.Controllers.MQTT.RetainSummary,
		Username:      cfg.Controllers.MQTT.Username,
		Password:      cfg.Controllers.MQTT.Password,
	})
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return pub.Run(ctx, nil)
}

// staticRun replays an already-computed run so the batch path can reuse the
// publisher without simulating twice.
type staticRun struct {
	run railtemp.SimulationRun
}

func (s staticRun) Run(_ []railtemp.WeatherSample) (railtemp.SimulationRun, error) {
	return s.run, nil
}
