package railtemp

import (
	"fmt"
	"math"
	"time"
)

const (
	stefanBoltzmann = 5.670374419e-8 // W/m²K⁴
	kelvinOffset    = 273.15
)

// CelsiusToKelvin converts a temperature from the working unit to the absolute
// scale used for radiative computation.
func CelsiusToKelvin(c float64) float64 { return c + kelvinOffset }

// KelvinToCelsius converts back to the working unit.
func KelvinToCelsius(k float64) float64 { return k - kelvinOffset }

// ConvectionCoefficient is the forced-convection correlation of the CNU model,
// W/m²K. At zero wind it reduces to the still-air minimum of 5.6 W/m²K.
func ConvectionCoefficient(windSpeed float64) float64 {
	if windSpeed <= 5 {
		return 5.6 + 4*windSpeed
	}
	return 7.2 * math.Pow(windSpeed, 0.78)
}

// ModelConfig is the configuration surface of the heat-balance engine.
type ModelConfig struct {
	Mode   SolveMode
	Solver SolverConfig

	// FixedSunArea, when positive, replaces the profile-projection sun area
	// with a configured exposed area (scaled by solar elevation).
	FixedSunArea float64
}

// HeatBalanceModel resolves the instantaneous rail temperature from the
// energy balance: solar absorption − convective loss − net radiative exchange.
// Temperatures are converted to Kelvin for the radiative term and reported in
// °C at the boundary.
type HeatBalanceModel struct {
	profile SectionProfile
	cfg     ModelConfig
}

func NewHeatBalanceModel(profile SectionProfile, cfg ModelConfig) (*HeatBalanceModel, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	if !cfg.Mode.Valid() {
		if cfg.Mode == ModeUnknown {
			cfg.Mode = ModeTransient
		} else {
			return nil, ErrInvalidSolveMode
		}
	}
	if err := cfg.Solver.Validate(); err != nil {
		return nil, err
	}
	if cfg.FixedSunArea <= 0 && len(profile.Coordinates) < 3 {
		return nil, ErrMissingCoordinates
	}
	return &HeatBalanceModel{profile: profile, cfg: cfg}, nil
}

func (m *HeatBalanceModel) Mode() SolveMode { return m.cfg.Mode }

// sunArea returns the sun-exposed area for a solar position, m².
func (m *HeatBalanceModel) sunArea(sun SolarPosition) float64 {
	if m.cfg.FixedSunArea > 0 {
		return FixedSunArea(m.cfg.FixedSunArea, sun)
	}
	return SunExposedArea(m.profile.Coordinates, sun, m.profile.TrackAzimuth)
}

// solarGain is the absorbed solar power, W. Zero at night.
func (m *HeatBalanceModel) solarGain(sunArea, irradiance float64) float64 {
	return m.profile.Material.SolarAbsorptivity * sunArea * irradiance
}

// convectiveLoss is the convective exchange with the air, W. railK and airK
// in Kelvin; the differential is scale-invariant.
func (m *HeatBalanceModel) convectiveLoss(hconv, railK, airK float64) float64 {
	return hconv * m.profile.ConvectionArea * (railK - airK)
}

// radiativeLoss is the net long-wave exchange with the surroundings, W. The
// sky temperature is taken equal to the air temperature; the resultant
// emissivity combines the material and the surroundings.
func (m *HeatBalanceModel) radiativeLoss(railK, skyK float64) float64 {
	er := m.profile.Material.Emissivity * m.profile.AmbientEmissivity
	return er * stefanBoltzmann * m.profile.RadiationArea *
		(railK*railK*railK*railK - skyK*skyK*skyK*skyK)
}

// thermalMass is ρ·c(T)·V, J/K. The specific heat curve takes °C.
func (m *HeatBalanceModel) thermalMass(railK float64) float64 {
	c := m.profile.Material.SpecificHeat(KelvinToCelsius(railK))
	return m.profile.Material.Density * c * m.profile.Volume()
}

// result assembles the diagnostic fluxes at a resolved rail temperature.
func (m *HeatBalanceModel) result(railK float64, sample WeatherSample, sunArea, hconv float64) HeatBalanceResult {
	airK := CelsiusToKelvin(sample.AirTemperature)
	return HeatBalanceResult{
		Time:            sample.Time,
		RailTemperature: KelvinToCelsius(railK),
		SolarGain:       m.solarGain(sunArea, sample.SolarIrradiance),
		ConvectiveLoss:  m.convectiveLoss(hconv, railK, airK),
		RadiativeLoss:   m.radiativeLoss(railK, airK),
		SunArea:         sunArea,
		Hconv:           hconv,
	}
}

// Equilibrium solves the steady-state balance for one sample: the rail
// temperature at which solar gain, convective loss and radiative loss cancel.
func (m *HeatBalanceModel) Equilibrium(sample WeatherSample, sun SolarPosition) (HeatBalanceResult, error) {
	if err := sample.Validate(); err != nil {
		return HeatBalanceResult{}, err
	}

	airK := CelsiusToKelvin(sample.AirTemperature)
	hconv := ConvectionCoefficient(sample.WindSpeed)
	sunArea := m.sunArea(sun)
	gain := m.solarGain(sunArea, sample.SolarIrradiance)

	balance := func(railK float64) float64 {
		return gain - m.convectiveLoss(hconv, railK, airK) - m.radiativeLoss(railK, airK)
	}

	railK, err := solveRoot(balance, airK, m.cfg.Solver)
	if err != nil {
		return HeatBalanceResult{}, fmt.Errorf("equilibrium at %s: %w", sample.Time.Format(time.RFC3339), err)
	}
	return m.result(railK, sample, sunArea, hconv), nil
}

// Step advances the rail temperature over dt from prevRailC (°C), the
// transient form of the model: the net flux divided by the thermal mass,
// integrated implicitly and resolved by the nonlinear solver.
func (m *HeatBalanceModel) Step(prevRailC float64, dt time.Duration, sample WeatherSample, sun SolarPosition) (HeatBalanceResult, error) {
	if err := sample.Validate(); err != nil {
		return HeatBalanceResult{}, err
	}

	prevK := CelsiusToKelvin(prevRailC)
	airK := CelsiusToKelvin(sample.AirTemperature)
	hconv := ConvectionCoefficient(sample.WindSpeed)
	sunArea := m.sunArea(sun)
	gain := m.solarGain(sunArea, sample.SolarIrradiance)
	dtSec := dt.Seconds()

	residual := func(railK float64) float64 {
		net := gain - m.convectiveLoss(hconv, railK, airK) - m.radiativeLoss(railK, airK)
		return prevK + dtSec*net/m.thermalMass(railK) - railK
	}

	railK, err := solveRoot(residual, prevK, m.cfg.Solver)
	if err != nil {
		return HeatBalanceResult{}, fmt.Errorf("step at %s: %w", sample.Time.Format(time.RFC3339), err)
	}
	return m.result(railK, sample, sunArea, hconv), nil
}
