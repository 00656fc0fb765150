package latlon

// Waypoints samples n points evenly spaced by distance along the great circle
// from start to end. The first and last points are start and end themselves,
// never recomputed. When n < 2 the result is [start, end].
func Waypoints(start, end LatLon, n int) []LatLon {
	if n < 2 {
		return []LatLon{start, end}
	}

	total, bearing := haversine.DistanceAndBearingTo(start, end)

	points := make([]LatLon, n)
	points[0] = start
	for i := 1; i < n-1; i++ {
		d := total * float64(i) / float64(n-1)
		points[i] = destination(start, d, bearing)
	}
	points[n-1] = end

	return points
}
