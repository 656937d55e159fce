// Package app holds the configuration surface shared by the entrypoints.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	env "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/opentrack/railtemp/internal/railtemp"
	"github.com/opentrack/railtemp/internal/sections"
)

const envPrefix = "RAILTEMP_"

type Config struct {
	DeviceID string `koanf:"device_id"`

	Location    LocationConfig   `koanf:"location"`
	Rail        RailConfig       `koanf:"rail"`
	Simulation  SimulationConfig `koanf:"simulation"`
	Controllers struct {
		HTTP HTTPConfig `koanf:"http"`
		MQTT MQTTConfig `koanf:"mqtt"`
	} `koanf:"controllers"`
}

type LocationConfig struct {
	Latitude  float64 `koanf:"latitude"`
	Longitude float64 `koanf:"longitude"`
	Elevation float64 `koanf:"elevation"`
}

type RailConfig struct {
	// Section names a profile from the built-in cross-section database,
	// e.g. "UIC54". Ignored when FixedSunArea is set.
	Section      string  `koanf:"section"`
	TrackAzimuth float64 `koanf:"track_azimuth"`

	CrossArea      float64 `koanf:"cross_area"`
	ConvectionArea float64 `koanf:"convection_area"`
	RadiationArea  float64 `koanf:"radiation_area"`

	// FixedSunArea bypasses the geometric projection when > 0, m².
	FixedSunArea float64 `koanf:"fixed_sun_area"`

	Density           float64 `koanf:"density"`
	Absorptivity      float64 `koanf:"absorptivity"`
	Emissivity        float64 `koanf:"emissivity"`
	AmbientEmissivity float64 `koanf:"ambient_emissivity"`
}

type SimulationConfig struct {
	Mode   string `koanf:"mode"`   // "transient" | "steady_state"
	Policy string `koanf:"policy"` // "strict" | "tolerant"

	Workers                int      `koanf:"workers"`
	InitialRailTemperature *float64 `koanf:"initial_rail_temperature"`

	Tolerance     float64 `koanf:"tolerance"`
	MaxIterations int     `koanf:"max_iterations"`
}

type HTTPConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

type MQTTConfig struct {
	Enabled       bool   `koanf:"enabled"`
	BrokerURL     string `koanf:"broker_url"`
	ClientID      string `koanf:"client_id"`
	BaseTopic     string `koanf:"base_topic"`
	QoS           byte   `koanf:"qos"`
	RetainSummary bool   `koanf:"retain_summary"`
	Username      string `koanf:"username"`
	Password      string `koanf:"password"`
}

func defaultConfig() Config {
	var cfg Config
	cfg.DeviceID = "default"

	steel := railtemp.Steel()
	cfg.Rail.Section = "UIC54"
	cfg.Rail.Density = steel.Density
	cfg.Rail.Absorptivity = steel.SolarAbsorptivity
	cfg.Rail.Emissivity = steel.Emissivity
	cfg.Rail.AmbientEmissivity = 1.0

	cfg.Simulation.Mode = railtemp.ModeTransient.String()
	cfg.Simulation.Policy = railtemp.PolicyStrict.String()
	cfg.Simulation.Workers = 1

	cfg.Controllers.HTTP.Addr = ":8080"
	return cfg
}

// LoadConfig layers defaults, an optional config file and RAILTEMP_ environment
// variables, in that order of precedence (later wins).
func LoadConfig(path string) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			parser, err := parserFor(path)
			if err != nil {
				return Config{}, err
			}
			if err := k.Load(file.Provider(path), parser); err != nil {
				return Config{}, fmt.Errorf("load config file: %w", err)
			}
		} else if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		// Config file missing -> defaults plus environment
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.TrimPrefix(key, envPrefix)
			return envKeyTransform(key), value
		},
	}), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported config extension %q", filepath.Ext(path))
	}
}

// envKeyTransform maps RAILTEMP_ environment variable names (prefix already
// stripped) onto config paths: LOCATION_LATITUDE -> location.latitude,
// CONTROLLERS_MQTT_BROKER_URL -> controllers.mqtt.broker_url. Keys that do
// not start with a known group pass through lowercased.
func envKeyTransform(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return ""
	}

	parts := strings.Split(key, "_")

	if parts[0] == "controllers" && len(parts) >= 3 {
		return "controllers." + parts[1] + "." + strings.Join(parts[2:], "_")
	}

	switch parts[0] {
	case "location", "rail", "simulation":
		if len(parts) >= 2 {
			return parts[0] + "." + strings.Join(parts[1:], "_")
		}
	}

	return key
}

// ---- conversions into engine types ----

func (c Config) GeoLocation() railtemp.GeoLocation {
	return railtemp.GeoLocation{
		Latitude:  c.Location.Latitude,
		Longitude: c.Location.Longitude,
		Elevation: c.Location.Elevation,
	}
}

func (c Config) Profile() (railtemp.SectionProfile, error) {
	mat := railtemp.Steel()
	mat.Density = c.Rail.Density
	mat.SolarAbsorptivity = c.Rail.Absorptivity
	mat.Emissivity = c.Rail.Emissivity

	p := railtemp.SectionProfile{
		Name:              c.Rail.Section,
		TrackAzimuth:      c.Rail.TrackAzimuth,
		CrossArea:         c.Rail.CrossArea,
		ConvectionArea:    c.Rail.ConvectionArea,
		RadiationArea:     c.Rail.RadiationArea,
		AmbientEmissivity: c.Rail.AmbientEmissivity,
		Material:          mat,
	}

	if c.Rail.FixedSunArea <= 0 {
		coords, err := sections.Load(c.Rail.Section)
		if err != nil {
			return railtemp.SectionProfile{}, err
		}
		p.Coordinates = coords
	}
	return p, nil
}

func (c Config) ModelConfig() (railtemp.ModelConfig, error) {
	mode, err := railtemp.ParseSolveMode(c.Simulation.Mode)
	if err != nil {
		return railtemp.ModelConfig{}, err
	}
	return railtemp.ModelConfig{
		Mode: mode,
		Solver: railtemp.SolverConfig{
			Tolerance:     c.Simulation.Tolerance,
			MaxIterations: c.Simulation.MaxIterations,
		},
		FixedSunArea: c.Rail.FixedSunArea,
	}, nil
}

func (c Config) RunnerConfig() (railtemp.RunnerConfig, error) {
	policy, err := railtemp.ParseFailurePolicy(c.Simulation.Policy)
	if err != nil {
		return railtemp.RunnerConfig{}, err
	}
	return railtemp.RunnerConfig{
		Policy:                 policy,
		Workers:                c.Simulation.Workers,
		InitialRailTemperature: c.Simulation.InitialRailTemperature,
	}, nil
}
