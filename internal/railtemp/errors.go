package railtemp

import "errors"

var (
	ErrInvalidLatitude      = errors.New("latitude must be between -90 and 90 degrees")
	ErrInvalidLongitude     = errors.New("longitude must be between -180 and 180 degrees")
	ErrInvalidElevation     = errors.New("site elevation must be non-negative")
	ErrInvalidAzimuth       = errors.New("track azimuth must be between 0 and 180 degrees")
	ErrInvalidArea          = errors.New("exchange areas must be positive")
	ErrInvalidDensity       = errors.New("material density must be positive")
	ErrInvalidAbsorptivity  = errors.New("solar absorptivity must be in (0, 1]")
	ErrInvalidEmissivity    = errors.New("emissivity must be in (0, 1]")
	ErrMissingSpecificHeat  = errors.New("material specific heat function is required")
	ErrMissingCoordinates   = errors.New("section coordinates are required unless a fixed sun area is set")
	ErrZeroTimestamp        = errors.New("weather sample timestamp is not set")
	ErrNegativeWindSpeed    = errors.New("wind speed must be non-negative")
	ErrNegativeIrradiance   = errors.New("solar irradiance must be non-negative")
	ErrUnorderedSamples     = errors.New("weather samples must be strictly increasing in time")
	ErrNoSamples            = errors.New("at least one weather sample is required")
	ErrNotConverged         = errors.New("heat balance solver did not converge")
	ErrInvalidSolveMode     = errors.New("invalid solve mode")
	ErrInvalidPolicy        = errors.New("invalid failure policy")
	ErrInvalidTolerance     = errors.New("solver tolerance must be positive")
	ErrInvalidMaxIterations = errors.New("solver iteration budget must be positive")
	ErrInvalidRunCount      = errors.New("campaign run count must be positive")
	ErrInvalidBounds        = errors.New("uniform parameter bounds must satisfy low < high")
)
