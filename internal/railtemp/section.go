package railtemp

// SectionProfile describes the rail cross-section: its orientation, the
// exchange areas of one metre of rail and the material it is made of.
// Immutable once constructed.
type SectionProfile struct {
	Name string

	// TrackAzimuth is the compass bearing of the track, 0–180 degrees. A rail
	// running north-south has azimuth 0, east-west has azimuth 90.
	TrackAzimuth float64

	CrossArea      float64 // m², cross-section area; also the volume of 1 m of rail
	ConvectionArea float64 // m², surface exchanging heat by convection per metre
	RadiationArea  float64 // m², surface exchanging heat by radiation per metre

	// AmbientEmissivity is the emissivity of the surroundings; the resultant
	// emissivity of the radiative exchange is Material.Emissivity times this.
	AmbientEmissivity float64

	// Coordinates outline one metre of rail, used to project the sun-exposed
	// area. May be empty when the model is configured with a fixed sun area.
	Coordinates []Point3

	Material RailMaterial
}

// Volume of the represented rail segment, m³.
func (p SectionProfile) Volume() float64 {
	return p.CrossArea
}

func (p SectionProfile) Validate() error {
	if p.TrackAzimuth < 0 || p.TrackAzimuth > 180 {
		return ErrInvalidAzimuth
	}
	if p.CrossArea <= 0 || p.ConvectionArea <= 0 || p.RadiationArea <= 0 {
		return ErrInvalidArea
	}
	if p.AmbientEmissivity <= 0 || p.AmbientEmissivity > 1 {
		return ErrInvalidEmissivity
	}
	return p.Material.Validate()
}
