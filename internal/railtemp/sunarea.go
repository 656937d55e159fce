package railtemp

import (
	"math"
	"sort"
)

// point2 is a projected profile point on the ground plane.
type point2 struct {
	x, y float64
}

// projectPoint casts a profile point onto the ground plane along the sun
// vector. azimuth is relative to the track, elevation above the horizon, both
// in degrees.
func projectPoint(p Point3, azimuth, elevation float64) point2 {
	azi := degToRad(azimuth)
	elev := degToRad(elevation)
	return point2{
		x: p.X - math.Sin(azi)/math.Tan(elev)*p.Z,
		y: p.Y - math.Cos(azi)/math.Tan(elev)*p.Z,
	}
}

// SunExposedArea projects one metre of rail profile along the sun vector and
// returns the area that receives direct solar radiation: the shadow footprint
// (convex hull of the projected outline) scaled by the sine of the solar
// elevation. Zero when the sun is at or below the horizon.
func SunExposedArea(coords []Point3, sun SolarPosition, trackAzimuth float64) float64 {
	if sun.Elevation <= 0 || len(coords) < 3 {
		return 0
	}
	relAzimuth := sun.Azimuth - trackAzimuth

	projected := make([]point2, len(coords))
	for i, p := range coords {
		projected[i] = projectPoint(p, relAzimuth, sun.Elevation)
	}

	shadow := hullArea(projected)
	return shadow * math.Sin(degToRad(sun.Elevation))
}

// FixedSunArea is the fixed-area variant: a configured exposed area scaled by
// the sine of the solar elevation, zero at or below the horizon.
func FixedSunArea(area float64, sun SolarPosition) float64 {
	if sun.Elevation <= 0 {
		return 0
	}
	return area * math.Sin(degToRad(sun.Elevation))
}

// hullArea returns the area of the convex hull of a point set, via Andrew's
// monotone chain and the shoelace formula.
func hullArea(pts []point2) float64 {
	hull := convexHull(pts)
	if len(hull) < 3 {
		return 0
	}
	area := 0.0
	for i := range hull {
		j := (i + 1) % len(hull)
		area += hull[i].x*hull[j].y - hull[j].x*hull[i].y
	}
	return math.Abs(area) / 2
}

func convexHull(pts []point2) []point2 {
	if len(pts) < 3 {
		return pts
	}
	sorted := make([]point2, len(pts))
	copy(sorted, pts)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].x != sorted[j].x {
			return sorted[i].x < sorted[j].x
		}
		return sorted[i].y < sorted[j].y
	})

	cross := func(o, a, b point2) float64 {
		return (a.x-o.x)*(b.y-o.y) - (a.y-o.y)*(b.x-o.x)
	}

	var lower []point2
	for _, p := range sorted {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}

	var upper []point2
	for i := len(sorted) - 1; i >= 0; i-- {
		p := sorted[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}

	return append(lower[:len(lower)-1], upper[:len(upper)-1]...)
}
