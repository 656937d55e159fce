package railtemp

// RailMaterial holds the thermal properties of the rail steel.
type RailMaterial struct {
	Density           float64                     // kg/m³
	SolarAbsorptivity float64                     // fraction of incident solar radiation absorbed, (0,1]
	Emissivity        float64                     // long-wave emissivity of the surface, (0,1]
	SpecificHeat      func(tempC float64) float64 // J/(kg·K) as a function of temperature in °C
}

// Steel returns the default rail steel: density 7850 kg/m³, absorptivity 0.8,
// emissivity 0.7, EN 1993-1-2 specific heat.
func Steel() RailMaterial {
	return RailMaterial{
		Density:           7850,
		SolarAbsorptivity: 0.8,
		Emissivity:        0.7,
		SpecificHeat:      SteelSpecificHeat,
	}
}

// SteelSpecificHeat is the carbon steel specific heat curve of EN 1993-1-2,
// J/(kg·K). The curve is defined for 20 °C and above; below that the 20 °C
// value is used.
func SteelSpecificHeat(tempC float64) float64 {
	t := tempC
	if t < 20 {
		t = 20
	}
	return 425 + 7.73e-1*t - 1.69e-3*t*t + 2.22e-6*t*t*t
}

func (m RailMaterial) Validate() error {
	if m.Density <= 0 {
		return ErrInvalidDensity
	}
	if m.SolarAbsorptivity <= 0 || m.SolarAbsorptivity > 1 {
		return ErrInvalidAbsorptivity
	}
	if m.Emissivity <= 0 || m.Emissivity > 1 {
		return ErrInvalidEmissivity
	}
	if m.SpecificHeat == nil {
		return ErrMissingSpecificHeat
	}
	return nil
}
