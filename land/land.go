package land

import (
	"fmt"
	"io/ioutil"
	"math"

	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/route-weather/latlon"
)

// resolution of the land mask files, in cells per 360°
const resolution = 43200.0

// Land contains one bit per cell, 0 if sea and 1 if land, row by row from
// the south pole.
type Land struct {
	lat0 float64
	latN float64
	lon0 float64
	lonN float64
	step float64
	data []byte
}

// InitLand loads a land mask file.
func InitLand(file string) (*Land, error) {
	b, err := ioutil.ReadFile(file)
	if err != nil {
		log.Errorf("Error reading file '%s'", file)
		return nil, err
	}
	return newLand(360.0/resolution, b)
}

func newLand(step float64, data []byte) (*Land, error) {
	l := &Land{
		lat0: -90.0,
		latN: 90.0,
		lon0: -180.0,
		lonN: 180.00 - step,
		step: step,
		data: data}

	rows := int(math.Round((l.latN-l.lat0)/step)) + 1
	cols := int(math.Round((l.lonN-l.lon0)/step)) + 1
	if need := (rows*cols + 7) / 8; len(data) < need {
		return nil, fmt.Errorf("land mask has %d bytes; want %d", len(data), need)
	}
	return l, nil
}

// IsLand check if location is land or sea
func (l *Land) IsLand(p latlon.LatLon) bool {
	p = latlon.Normalize(p)

	i := int(math.Round(p.Lat / l.step))
	j := int(math.Round(p.Lon / l.step))

	i0 := int(math.Round(l.lat0 / l.step))
	j0 := int(math.Round(l.lon0 / l.step))
	jN := int(math.Round(l.lonN / l.step))

	// 180° is the same column as -180°
	if j > jN {
		j = j0
	}

	di := i - i0
	dj := j - j0
	nj := jN - j0 + 1

	pos := di*nj + dj

	pB := pos / 8
	pb := uint(pos % 8)

	return ((l.data[pB] >> (7 - pb)) & 0x01) == 0x01
}
