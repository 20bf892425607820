package geo

import (
	"math"
	"math/rand/v2"
)

// metersPerDegree is the equirectangular approximation of one degree of
// latitude on the WGS84 sphere.
const metersPerDegree = 111320.0

// Point is a WGS84 coordinate pair.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether p is a valid WGS84 coordinate.
func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// Obfuscate returns a point drawn with uniform areal density from the disc
// of radiusMeters around center. The square root on the radial sample is
// what makes the density uniform in area; sampling the radius linearly
// would cluster points near the center. Longitude deltas are stretched by
// 1/cos(lat) to compensate for meridian convergence.
//
// A radius of zero returns the center unchanged. The caller is expected to
// discard the true point immediately after obfuscating; containment within
// radiusMeters of the returned point is the entire privacy contract.
func Obfuscate(center Point, radiusMeters float64) Point {
	if radiusMeters <= 0 {
		return center
	}
	rd := radiusMeters / metersPerDegree
	u, v := rand.Float64(), rand.Float64()
	w := rd * math.Sqrt(u)
	t := 2 * math.Pi * v
	return Point{
		Lat: center.Lat + w*math.Sin(t),
		Lng: center.Lng + w*math.Cos(t)/math.Cos(center.Lat*math.Pi/180),
	}
}

// Distance returns the great-circle distance between two points in meters
// (haversine formula).
func Distance(a, b Point) float64 {
	const earthRadius = 6371000.0
	dLat := (b.Lat - a.Lat) * (math.Pi / 180.0)
	dLng := (b.Lng - a.Lng) * (math.Pi / 180.0)
	aLatRad := a.Lat * (math.Pi / 180.0)
	bLatRad := b.Lat * (math.Pi / 180.0)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLng/2)*math.Sin(dLng/2)*math.Cos(aLatRad)*math.Cos(bLatRad)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadius * c
}
