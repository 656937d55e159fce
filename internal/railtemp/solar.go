package railtemp

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

func degToRad(deg float64) float64 { return deg * math.Pi / 180.0 }
func radToDeg(rad float64) float64 { return rad * 180.0 / math.Pi }
func fixAngle(a float64) float64   { return a - 360.0*math.Floor(a/360.0) }

// SunPosition computes the sun's elevation and azimuth for a location and
// instant using the NOAA low-accuracy solar ephemeris. Pure and deterministic.
// Elevation is negative when the sun is below the horizon; azimuth is measured
// clockwise from north and is defined for any elevation.
func SunPosition(loc GeoLocation, t time.Time) (SolarPosition, error) {
	if err := loc.Validate(); err != nil {
		return SolarPosition{}, err
	}
	if t.IsZero() {
		return SolarPosition{}, ErrZeroTimestamp
	}

	utc := t.UTC()
	jd := julian.TimeToJD(utc)
	T := (jd - 2451545.0) / 36525.0

	// Geometric mean longitude and anomaly of the sun, degrees.
	l0 := fixAngle(280.46646 + T*(36000.76983+T*0.0003032))
	m := fixAngle(357.52911 + T*(35999.05029-T*0.0001537))
	e := 0.016708634 - T*(0.000042037+T*0.0000001267)

	// Equation of center and apparent longitude.
	c := math.Sin(degToRad(m))*(1.914602-T*(0.004817+T*0.000014)) +
		math.Sin(degToRad(2*m))*(0.019993-T*0.000101) +
		math.Sin(degToRad(3*m))*0.000289
	sunLong := l0 + c
	omega := 125.04 - 1934.136*T
	lambda := sunLong - 0.00569 - 0.00478*math.Sin(degToRad(omega))

	// Obliquity and declination.
	eps0 := 23 + (26+(21.448-T*(46.815+T*(0.00059-T*0.001813)))/60)/60
	decl := math.Asin(math.Sin(degToRad(eps0)) * math.Sin(degToRad(lambda)))

	// Equation of time, minutes.
	y := math.Tan(degToRad(eps0) / 2)
	y *= y
	eqTimeMin := radToDeg(y*math.Sin(degToRad(2*l0))-
		2*e*math.Sin(degToRad(m))+
		4*e*y*math.Sin(degToRad(m))*math.Cos(degToRad(2*l0))-
		0.5*y*y*math.Sin(degToRad(4*l0))-
		1.25*e*e*math.Sin(degToRad(2*m))) * 4

	// True solar time and hour angle.
	utcMin := float64(utc.Hour()*60+utc.Minute()) + float64(utc.Second())/60.0
	tst := utcMin + 4*loc.Longitude + eqTimeMin
	ha := tst/4 - 180
	haRad := degToRad(ha)

	latRad := degToRad(loc.Latitude)
	cosZen := math.Sin(latRad)*math.Sin(decl) + math.Cos(latRad)*math.Cos(decl)*math.Cos(haRad)
	if cosZen > 1 {
		cosZen = 1
	} else if cosZen < -1 {
		cosZen = -1
	}
	zenRad := math.Acos(cosZen)
	elevation := 90 - radToDeg(zenRad)

	azimuth := 0.0
	if sinZen := math.Sin(zenRad); sinZen > 1e-9 {
		cosAz := (math.Sin(decl) - math.Sin(latRad)*cosZen) / (math.Cos(latRad) * sinZen)
		if cosAz > 1 {
			cosAz = 1
		} else if cosAz < -1 {
			cosAz = -1
		}
		azimuth = radToDeg(math.Acos(cosAz))
		if ha > 0 {
			azimuth = 360 - azimuth
		}
	}

	return SolarPosition{Elevation: elevation, Azimuth: azimuth}, nil
}
