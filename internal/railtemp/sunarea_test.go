package railtemp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// boxSection is one metre of a 0.1 m wide, 0.15 m tall box, a stand-in for a
// rail profile.
func boxSection() []Point3 {
	var pts []Point3
	for _, y := range []float64{0, 1} {
		for _, x := range []float64{-0.05, 0.05} {
			for _, z := range []float64{0, 0.15} {
				pts = append(pts, Point3{X: x, Y: y, Z: z})
			}
		}
	}
	return pts
}

func TestSunExposedArea_ZenithMatchesFootprint(t *testing.T) {
	sun := SolarPosition{Elevation: 90, Azimuth: 180}
	got := SunExposedArea(boxSection(), sun, 0)
	// Sun overhead: the shadow is the plan footprint, 0.1 m² per metre.
	assert.InDelta(t, 0.1, got, 1e-6)
}

func TestSunExposedArea_BelowHorizonIsZero(t *testing.T) {
	cases := []struct {
		name string
		sun  SolarPosition
	}{
		{"below horizon", SolarPosition{Elevation: -12, Azimuth: 310}},
		{"at horizon", SolarPosition{Elevation: 0, Azimuth: 90}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SunExposedArea(boxSection(), tc.sun, 0); got != 0 {
				t.Fatalf("SunExposedArea=%v want 0", got)
			}
		})
	}
}

func TestSunExposedArea_LowSunSeesTheSide(t *testing.T) {
	// Sun from the side (perpendicular to a north-south track) at 45°: the
	// shadow includes the side face, so the exposed area beats the footprint
	// scaled by sin(45°).
	sun := SolarPosition{Elevation: 45, Azimuth: 90}
	got := SunExposedArea(boxSection(), sun, 0)
	footprintOnly := 0.1 * math.Sin(degToRad(45))
	assert.Greater(t, got, footprintOnly)
}

func TestSunExposedArea_DegenerateProfile(t *testing.T) {
	sun := SolarPosition{Elevation: 45, Azimuth: 90}
	if got := SunExposedArea([]Point3{{X: 1}, {X: 2}}, sun, 0); got != 0 {
		t.Fatalf("degenerate profile: got %v want 0", got)
	}
}

func TestFixedSunArea(t *testing.T) {
	cases := []struct {
		name string
		area float64
		sun  SolarPosition
		want float64
	}{
		{"overhead", 1, SolarPosition{Elevation: 90}, 1},
		{"at 30 degrees", 2, SolarPosition{Elevation: 30}, 1},
		{"night", 1, SolarPosition{Elevation: -5}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FixedSunArea(tc.area, tc.sun)
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

func TestConvexHullArea_Square(t *testing.T) {
	pts := []point2{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0.5, 0.5}}
	assert.InDelta(t, 1.0, hullArea(pts), 1e-12, "interior points must not distort the hull")
}
