package latlon

import "math"

type LatLonHaversine struct{}

var haversine = LatLonHaversine{}

// Distance returns the great circle distance between a and b in kilometres.
func Distance(a, b LatLon) float64 {
	return haversine.DistanceTo(a, b)
}

// Bearing returns the initial bearing from a to b in [0, 360).
//
// The bearing of coincident or antipodal points is undefined; the result is
// then whatever atan2 yields, 0 for coincident points.
func Bearing(a, b LatLon) float64 {
	return haversine.BearingTo(a, b)
}

func DistanceAndBearing(a, b LatLon) (float64, float64) {
	return haversine.DistanceAndBearingTo(a, b)
}

// Destination returns the point reached after travelling distance kilometres
// from start along the great circle of initial bearing.
func Destination(start LatLon, distance float64, bearing float64) LatLon {
	return haversine.Destination(start, distance, bearing)
}

// Midpoint returns the point half way between a and b on the great circle.
func Midpoint(a, b LatLon) LatLon {
	return haversine.Midpoint(a, b)
}

func (LatLonHaversine) DistanceTo(from, to LatLon) float64 {
	φ1 := ToRadians(from.Lat)
	φ2 := ToRadians(to.Lat)
	Δφ := φ2 - φ1
	Δλ := ToRadians(to.Lon - from.Lon)

	return R * haversineAngle(φ1, φ2, Δφ, Δλ)
}

func (LatLonHaversine) BearingTo(from, to LatLon) float64 {
	return initialBearingTo(from, to)
}

func (LatLonHaversine) DistanceAndBearingTo(from, to LatLon) (float64, float64) {
	φ1 := ToRadians(from.Lat)
	φ2 := ToRadians(to.Lat)
	Δφ := φ2 - φ1
	Δλ := ToRadians(to.Lon - from.Lon)

	d := R * haversineAngle(φ1, φ2, Δφ, Δλ)

	x := math.Cos(φ1)*math.Sin(φ2) - math.Sin(φ1)*math.Cos(φ2)*math.Cos(Δλ)
	y := math.Sin(Δλ) * math.Cos(φ2)
	θ := math.Atan2(y, x)

	return d, wrap360(ToDegrees(θ))
}

func (LatLonHaversine) Destination(from LatLon, distance float64, bearing float64) LatLon {
	return destination(from, distance, bearing)
}

func (LatLonHaversine) Midpoint(from, to LatLon) LatLon {
	return midpoint(from, to)
}

// haversineAngle returns the central angle in radians.
func haversineAngle(φ1, φ2, Δφ, Δλ float64) float64 {
	sΔφ := math.Sin(Δφ / 2)
	sΔλ := math.Sin(Δλ / 2)
	a := sΔφ*sΔφ + math.Cos(φ1)*math.Cos(φ2)*sΔλ*sΔλ
	// rounding near antipodes can leave a just outside [0, 1]
	a = math.Max(0, math.Min(1, a))
	return 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func initialBearingTo(from, to LatLon) float64 {
	φ1 := ToRadians(from.Lat)
	φ2 := ToRadians(to.Lat)
	Δλ := ToRadians(to.Lon - from.Lon)

	x := math.Cos(φ1)*math.Sin(φ2) - math.Sin(φ1)*math.Cos(φ2)*math.Cos(Δλ)
	y := math.Sin(Δλ) * math.Cos(φ2)
	θ := math.Atan2(y, x)

	return wrap360(ToDegrees(θ))
}

func destination(from LatLon, distance float64, bearing float64) LatLon {
	if distance == 0 {
		return from
	}

	// sinφ2 = sinφ1⋅cosδ + cosφ1⋅sinδ⋅cosθ
	// tanΔλ = sinθ⋅sinδ⋅cosφ1 / cosδ−sinφ1⋅sinφ2
	φ1 := ToRadians(from.Lat)
	θ := ToRadians(bearing)

	δ := distance / R

	φ2 := math.Asin(math.Sin(φ1)*math.Cos(δ) + math.Cos(φ1)*math.Sin(δ)*math.Cos(θ))
	Δλ := math.Atan2(math.Sin(θ)*math.Sin(δ)*math.Cos(φ1), math.Cos(δ)-math.Sin(φ1)*math.Sin(φ2))

	// the longitude delta is added in degrees so that a zero delta keeps
	// from.Lon bit for bit
	return LatLon{Lat: ToDegrees(φ2), Lon: NormalizeLongitude(from.Lon + ToDegrees(Δλ))}
}

func midpoint(from, to LatLon) LatLon {
	φ1 := ToRadians(from.Lat)
	φ2 := ToRadians(to.Lat)
	Δλ := ToRadians(to.Lon - from.Lon)

	Bx := math.Cos(φ2) * math.Cos(Δλ)
	By := math.Cos(φ2) * math.Sin(Δλ)

	φ3 := math.Atan2(math.Sin(φ1)+math.Sin(φ2), math.Sqrt((math.Cos(φ1)+Bx)*(math.Cos(φ1)+Bx)+By*By))
	Δλ3 := math.Atan2(By, math.Cos(φ1)+Bx)

	return LatLon{Lat: ToDegrees(φ3), Lon: NormalizeLongitude(from.Lon + ToDegrees(Δλ3))}
}
