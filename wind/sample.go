package wind

import (
	"time"

	"github.com/a-bouts/route-weather/latlon"
)

// msToKmh converts m/s to km/h.
const msToKmh = 3.6

// Sample is the forecast wind met at a waypoint.
type Sample struct {
	Latlon   latlon.LatLon `json:"latlon"`
	Time     time.Time     `json:"time"`
	Wind     float64       `json:"wind"`
	Speed    float64       `json:"speed"`
	Relative float64       `json:"relative"`
}

// SampleAlong interpolates the wind at each point at the matching time.
// headings may be nil, Relative is then left at zero. The result is nil when
// no forecast is loaded.
func (w *Winds) SampleAlong(points []latlon.LatLon, times []time.Time, headings []float64) []Sample {
	if w == nil || w.Len() == 0 {
		return nil
	}

	samples := make([]Sample, 0, len(points))
	for i, p := range points {
		s := Sample{Latlon: p, Time: times[i]}
		dir, speed, ok := w.At(p.Lat, p.Lon, times[i])
		if !ok {
			return nil
		}
		s.Wind = dir
		s.Speed = speed * msToKmh
		if headings != nil {
			s.Relative = RelativeAngle(headings[i], dir)
		}
		samples = append(samples, s)
	}
	return samples
}
