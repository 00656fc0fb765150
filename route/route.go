package route

import (
	"math"
	"time"

	"github.com/a-bouts/route-weather/latlon"
)

// Route is a journey sampled along the great circle between two points.
type Route struct {
	Source      latlon.LatLon   `json:"source"`
	Destination latlon.LatLon   `json:"destination"`
	Waypoints   []latlon.LatLon `json:"waypoints"`
	Segments    []Segment       `json:"segments"`
	Distance    float64         `json:"distance"`
	Duration    time.Duration   `json:"duration"`
}

// Segment joins two consecutive waypoints. Distance is in kilometres.
type Segment struct {
	From     latlon.LatLon `json:"from"`
	To       latlon.LatLon `json:"to"`
	Distance float64       `json:"distance"`
	Bearing  float64       `json:"bearing"`
	Duration time.Duration `json:"duration"`
}

// Build samples points waypoints between source and destination and times
// every segment at speed km/h. A speed <= 0 leaves durations at zero.
func Build(source, destination latlon.LatLon, points int, speed float64) Route {
	r := Route{
		Source:      source,
		Destination: destination,
		Waypoints:   latlon.Waypoints(source, destination, points),
	}

	r.Segments = make([]Segment, 0, len(r.Waypoints)-1)
	for i := 1; i < len(r.Waypoints); i++ {
		from, to := r.Waypoints[i-1], r.Waypoints[i]
		d, b := latlon.DistanceAndBearing(from, to)
		s := Segment{From: from, To: to, Distance: d, Bearing: b}
		if speed > 0 {
			s.Duration = travel(d, speed)
		}
		r.Distance += d
		r.Duration = add(r.Duration, s.Duration)
		r.Segments = append(r.Segments, s)
	}

	return r
}

const maxDuration = time.Duration(math.MaxInt64)

// travel returns the time to cover d km at speed km/h, saturated at
// maxDuration.
func travel(d, speed float64) time.Duration {
	h := d / speed * float64(time.Hour)
	if h >= float64(maxDuration) {
		return maxDuration
	}
	return time.Duration(h)
}

func add(a, b time.Duration) time.Duration {
	if a > maxDuration-b {
		return maxDuration
	}
	return a + b
}

// Times returns the time each waypoint is reached when leaving at departure.
func (r Route) Times(departure time.Time) []time.Time {
	times := make([]time.Time, len(r.Waypoints))
	t := departure
	times[0] = t
	for i, s := range r.Segments {
		t = t.Add(s.Duration)
		times[i+1] = t
	}
	return times
}

// Headings returns the bearing of travel at each waypoint. The destination
// keeps the bearing of the last segment.
func (r Route) Headings() []float64 {
	headings := make([]float64, len(r.Waypoints))
	for i, s := range r.Segments {
		headings[i] = s.Bearing
	}
	if n := len(r.Segments); n > 0 {
		headings[n] = r.Segments[n-1].Bearing
	}
	return headings
}
