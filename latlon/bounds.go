package latlon

// Bounds is an axis aligned box in degrees. Boxes straddling the
// anti-meridian (West > East) are not supported by Contains.
type Bounds struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

// Contains reports whether p lies inside b, edges included.
func (b Bounds) Contains(p LatLon) bool {
	return b.South <= p.Lat && p.Lat <= b.North && b.West <= p.Lon && p.Lon <= b.East
}

// Crosses180 reports whether b looks like a box straddling the anti-meridian,
// which Contains will get wrong.
func (b Bounds) Crosses180() bool {
	return b.West > b.East
}

func IsWithinBounds(p LatLon, b Bounds) bool {
	return b.Contains(p)
}
