// Package latlon implements spherical geodesy on latitude/longitude pairs.
//
// The Earth is modelled as a sphere of mean radius R. Distances are in
// kilometres and angles in degrees. Inputs are assumed to be in range: nothing
// here validates or rejects coordinates, out of range values simply propagate
// through the trigonometry.
package latlon

import "math"

const π = math.Pi

// R is the mean Earth radius in kilometres.
const R = 6371.0

type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Geodesy is implemented by each distance model.
type Geodesy interface {
	DistanceTo(from, to LatLon) float64
	BearingTo(from, to LatLon) float64
	DistanceAndBearingTo(from, to LatLon) (float64, float64)
	Destination(from LatLon, distance float64, bearing float64) LatLon
	Midpoint(from, to LatLon) LatLon
}

var models = map[string]Geodesy{
	"haversine": LatLonHaversine{},
	"cosines":   LatLonCosines{},
}

// Model returns the distance model registered under name.
func Model(name string) (Geodesy, bool) {
	g, ok := models[name]
	return g, ok
}

func ToRadians(a float64) float64 {
	return a * π / 180.0
}

func ToDegrees(a float64) float64 {
	return a * 180.0 / π
}

// wrap360 maps any bearing into [0, 360).
func wrap360(d float64) float64 {
	if 0.0 <= d && d < 360.0 {
		return d
	}
	return math.Mod(math.Mod(d, 360.0)+360.0, 360.0)
}
