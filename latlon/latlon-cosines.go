package latlon

import "math"

// LatLonCosines measures distances with the spherical law of cosines. It is
// less stable than haversine for very close points.
type LatLonCosines struct{}

func (LatLonCosines) DistanceTo(from, to LatLon) float64 {
	if from == to {
		return 0
	}

	φ1 := ToRadians(from.Lat)
	φ2 := ToRadians(to.Lat)
	Δλ := ToRadians(to.Lon - from.Lon)

	return cosinesAngle(φ1, φ2, Δλ) * R
}

func (LatLonCosines) BearingTo(from, to LatLon) float64 {
	return initialBearingTo(from, to)
}

func (c LatLonCosines) DistanceAndBearingTo(from, to LatLon) (float64, float64) {
	return c.DistanceTo(from, to), initialBearingTo(from, to)
}

func (LatLonCosines) Destination(from LatLon, distance float64, bearing float64) LatLon {
	return destination(from, distance, bearing)
}

func (LatLonCosines) Midpoint(from, to LatLon) LatLon {
	return midpoint(from, to)
}

func cosinesAngle(φ1, φ2, Δλ float64) float64 {
	c := math.Sin(φ1)*math.Sin(φ2) + math.Cos(φ1)*math.Cos(φ2)*math.Cos(Δλ)
	// rounding can push c slightly past 1 for identical points
	if c > 1 {
		c = 1
	} else if c < -1 {
		c = -1
	}
	return math.Acos(c)
}
