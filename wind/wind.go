package wind

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/nilsmagnus/grib/griblib"
)

// Wind is one forecast grid of 10 m wind components, U eastward and V
// northward, in m/s.
type Wind struct {
	Date time.Time
	File string
	Lat0 float64
	Lon0 float64
	ΔLat float64
	ΔLon float64
	NLat uint32
	NLon uint32
	U    [][]float64
	V    [][]float64
}

func (w Wind) buildGrid(data []float64) [][]float64 {

	isContinuous := math.Floor(float64(w.NLon)*w.ΔLon) >= 360

	nLon := w.NLon
	if isContinuous {
		nLon++
	}

	grid := make([][]float64, w.NLat)

	p := 0
	for j := uint32(0); j < w.NLat; j++ {
		grid[j] = make([]float64, nLon)
		for i := uint32(0); i < w.NLon && p < len(data); i++ {
			grid[j][i] = data[p]
			p++
		}
		if isContinuous {
			grid[j][w.NLon] = grid[j][0]
		}
	}
	return grid
}

// Init decodes the 10 m U and V messages of a GRIB2 file.
func Init(dir string, date time.Time, file string) (*Wind, error) {
	w := &Wind{Date: date, File: file}

	gribfile, err := os.Open(filepath.Join(dir, file))
	if err != nil {
		return nil, err
	}
	defer gribfile.Close()

	messages, err := griblib.ReadMessages(gribfile)
	if err != nil {
		return nil, err
	}
	for _, message := range messages {
		if message.Section0.Discipline == uint8(0) && message.Section4.ProductDefinitionTemplate.ParameterCategory == uint8(2) && message.Section4.ProductDefinitionTemplate.FirstSurface.Type == 103 && message.Section4.ProductDefinitionTemplate.FirstSurface.Value == 10 {
			grid0, ok := message.Section3.Definition.(*griblib.Grid0)
			if !ok {
				continue
			}
			w.setGeometry(grid0)
			if message.Section4.ProductDefinitionTemplate.ParameterNumber == 2 {
				w.U = w.buildGrid(message.Section7.Data)
			} else if message.Section4.ProductDefinitionTemplate.ParameterNumber == 3 {
				w.V = w.buildGrid(message.Section7.Data)
			}
		}
	}

	if w.U == nil || w.V == nil || w.NLat < 2 || w.NLon < 2 {
		return nil, fmt.Errorf("no 10 m wind grid in '%s'", file)
	}
	return w, nil
}

// setGeometry reads the grid layout. i runs along parallels, j along
// meridians.
func (w *Wind) setGeometry(grid0 *griblib.Grid0) {
	w.Lat0 = float64(grid0.La1) / 1e6
	w.Lon0 = float64(grid0.Lo1) / 1e6
	w.ΔLat = float64(grid0.Dj) / 1e6
	w.ΔLon = float64(grid0.Di) / 1e6
	w.NLat = grid0.Nj
	w.NLon = grid0.Ni
}

func floorMod(a float64, n float64) float64 {
	return a - n*math.Floor(a/n)
}

// cell splits a fractional grid index into the lower node, kept so that
// node+1 is still inside a grid of n nodes, and the offset from it.
func cell(i float64, n int) (int, float64) {
	if math.IsNaN(i) || i <= 0 {
		return 0, 0
	}
	if i >= float64(n-1) {
		return n - 2, 1
	}
	f := int(i)
	return f, i - float64(f)
}

func bilinearInterpolate(x float64, y float64, g00 []float64, g10 []float64, g01 []float64, g11 []float64) (float64, float64) {

	rx := (1 - x)
	ry := (1 - y)

	a := rx * ry
	b := x * ry
	c := rx * y
	d := x * y

	u := g00[0]*a + g10[0]*b + g01[0]*c + g11[0]*d
	v := g00[1]*a + g10[1]*b + g01[1]*c + g11[1]*d

	return u, v
}

// vectorToDegrees returns the direction the wind blows from.
func vectorToDegrees(u float64, v float64, d float64) float64 {
	if d == 0 {
		return 0
	}
	velocityDir := math.Atan2(u/d, v/d)
	velocityDirToDegrees := velocityDir*180/math.Pi + 180
	return floorMod(velocityDirToDegrees, 360)
}

func (w *Wind) interpolate(lat float64, lon float64) (float64, float64) {

	i := math.Abs((lat - w.Lat0) / w.ΔLat)
	j := floorMod(lon-w.Lon0, 360.0) / w.ΔLon

	fi, y := cell(i, len(w.U))
	fj, x := cell(j, len(w.U[fi]))

	u00 := w.U[fi][fj]
	v00 := w.V[fi][fj]

	u01 := w.U[fi+1][fj]
	v01 := w.V[fi+1][fj]

	u10 := w.U[fi][fj+1]
	v10 := w.V[fi][fj+1]

	u11 := w.U[fi+1][fj+1]
	v11 := w.V[fi+1][fj+1]

	return bilinearInterpolate(x, y, []float64{u00, v00}, []float64{u10, v10}, []float64{u01, v01}, []float64{u11, v11})
}

func midInterpolate(ws ForecastWinds, lat float64, lon float64, h float64) (float64, float64) {

	if len(ws) == 1 {
		return ws[0].interpolate(lat, lon)
	}

	u1, v1 := ws[0].interpolate(lat, lon)
	u2, v2 := ws[1].interpolate(lat, lon)
	u := u2*h + u1*(1-h)
	v := v2*h + v1*(1-h)

	return u, v
}

// Interpolate returns the wind direction in degrees and its speed in m/s at
// (lat, lon), h of the way between the forecasts w1 and w2. w2 may be nil.
func Interpolate(w1 ForecastWinds, w2 ForecastWinds, lat float64, lon float64, h float64) (float64, float64) {

	u, v := midInterpolate(w1, lat, lon, h)

	if w2 != nil {
		u2, v2 := midInterpolate(w2, lat, lon, h)
		u = u2*h + u*(1-h)
		v = v2*h + v*(1-h)
	}
	d := math.Sqrt(u*u + v*v)

	return vectorToDegrees(u, v, d), d
}
