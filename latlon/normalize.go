package latlon

import "math"

// NormalizeLongitude wraps lon into [-180, 180] by whole turns. Values
// already in range, both boundaries included, are returned unchanged.
func NormalizeLongitude(lon float64) float64 {
	if lon > 180 {
		return lon - 360*math.Ceil((lon-180)/360)
	}
	if lon < -180 {
		return lon + 360*math.Ceil((-180-lon)/360)
	}
	return lon
}

// NormalizeLatitude clamps lat into [-90, 90]. Latitudes past a pole are
// truncated, not reflected.
func NormalizeLatitude(lat float64) float64 {
	return math.Max(-90, math.Min(90, lat))
}

func Normalize(p LatLon) LatLon {
	return LatLon{Lat: NormalizeLatitude(p.Lat), Lon: NormalizeLongitude(p.Lon)}
}
