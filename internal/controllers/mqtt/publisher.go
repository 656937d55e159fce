// Package mqttctrl publishes simulation results to an MQTT broker so
// downstream dashboards and alerting can consume predicted rail temperatures.
package mqttctrl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/opentrack/railtemp/internal/ports"
	"github.com/opentrack/railtemp/internal/railtemp"
)

type Config struct {
	// Identity
	DeviceID string

	// MQTT connection
	BrokerURL string
	ClientID  string

	// Topics
	BaseTopic string

	// Behavior
	QoS           byte
	RetainSummary bool

	Username string
	Password string
}

type Publisher struct {
	svc ports.SimulationService
	cfg Config

	client mqtt.Client
}

func New(svc ports.SimulationService, cfg Config) (*Publisher, error) {
	// ---- defaults ----

	if cfg.BrokerURL == "" {
		cfg.BrokerURL = "tcp://localhost:1883"
	}

	if cfg.DeviceID == "" {
		return nil, errors.New("mqtt: DeviceID is required")
	}
	if cfg.BaseTopic == "" {
		cfg.BaseTopic = "railtemp/" + cfg.DeviceID
	}
	if cfg.ClientID == "" {
		cfg.ClientID = "railtemp-" + cfg.DeviceID
	}
	if cfg.QoS > 1 {
		return nil, errors.New("mqtt: QoS must be 0 or 1")
	}
	return &Publisher{
		svc: svc,
		cfg: cfg,
	}, nil
}

// Run executes the simulation for the given weather series and streams the
// results to the broker: one message per sample under <base>/results, then a
// run summary under <base>/summary.
func (p *Publisher) Run(ctx context.Context, samples []railtemp.WeatherSample) error {
	opts := mqtt.NewClientOptions().
		AddBroker(p.cfg.BrokerURL).
		SetClientID(p.cfg.ClientID).
		SetConnectRetry(true).
		SetConnectRetryInterval(2 * time.Second)

	if p.cfg.Username != "" {
		opts.SetUsername(p.cfg.Username)
		opts.SetPassword(p.cfg.Password)
	}

	p.client = mqtt.NewClient(opts)
	tok := p.client.Connect()
	tok.Wait()
	if err := tok.Error(); err != nil {
		return fmt.Errorf("mqtt connect: %w", err)
	}
	defer p.client.Disconnect(250)

	run, err := p.svc.Run(samples)
	if err != nil {
		return err
	}
	return p.publishRun(ctx, run)
}

func (p *Publisher) publishRun(ctx context.Context, run railtemp.SimulationRun) error {
	for i, res := range run.Results {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		dto := resultDTO{
			Time:            res.Time.Format(time.RFC3339),
			RailTemperature: res.RailTemperature,
			SolarGain:       res.SolarGain,
			ConvectiveLoss:  res.ConvectiveLoss,
			RadiativeLoss:   res.RadiativeLoss,
			SunArea:         res.SunArea,
			Hconv:           res.Hconv,
		}
		if i < len(run.Errs) && run.Errs[i] != nil {
			dto.Error = run.Errs[i].Error()
		}
		b, _ := json.Marshal(dto)
		p.client.Publish(p.topic("results"), p.cfg.QoS, false, b)
	}

	b, _ := json.Marshal(p.summarize(run))
	tok := p.client.Publish(p.topic("summary"), p.cfg.QoS, p.cfg.RetainSummary, b)
	tok.Wait()
	return tok.Error()
}

func (p *Publisher) summarize(run railtemp.SimulationRun) summaryDTO {
	s := summaryDTO{
		DeviceID: p.cfg.DeviceID,
		Samples:  len(run.Results),
		Failed:   len(run.Failed()),
	}
	for i, res := range run.Results {
		if i == 0 || res.RailTemperature > s.MaxRailTemperature {
			s.MaxRailTemperature = res.RailTemperature
			s.MaxAt = res.Time.Format(time.RFC3339)
		}
	}
	return s
}

type resultDTO struct {
	Time            string  `json:"time"`
	RailTemperature float64 `json:"rail_temperature"`
	SolarGain       float64 `json:"solar_gain"`
	ConvectiveLoss  float64 `json:"convective_loss"`
	RadiativeLoss   float64 `json:"radiative_loss"`
	SunArea         float64 `json:"sun_area"`
	Hconv           float64 `json:"hconv"`
	Error           string  `json:"error,omitempty"`
}

type summaryDTO struct {
	DeviceID           string  `json:"device_id"`
	Samples            int     `json:"samples"`
	Failed             int     `json:"failed"`
	MaxRailTemperature float64 `json:"max_rail_temperature"`
	MaxAt              string  `json:"max_at"`
}

func (p *Publisher) topic(suffix string) string {
	return p.cfg.BaseTopic + "/" + suffix
}
