package wind

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jasonlvhit/gocron"
	log "github.com/sirupsen/logrus"
)

const stampLayout = "2006010215"

var now = time.Now

// Notifier receives an alert when forecasts cannot be refreshed.
type Notifier interface {
	Send(message string) error
}

// ForecastWinds holds the grids valid at the same time, at most one per run.
type ForecastWinds []*Wind

func (w ForecastWinds) String() string {
	if len(w) == 0 {
		return "()"
	}
	res := ""
	res += w[0].Date.Format(stampLayout) + "(" + w[0].File
	if len(w) > 1 {
		res += "," + w[1].File
	}
	res += ")"
	return res
}

// Winds indexes the GRIB files of a directory by forecast time.
type Winds struct {
	dir      string
	notifier Notifier
	winds    map[string]ForecastWinds
	broken   map[string]bool
	lock     sync.RWMutex
}

func NewWinds(dir string, notifier Notifier) *Winds {
	return &Winds{
		dir:      dir,
		notifier: notifier,
		winds:    make(map[string]ForecastWinds),
		broken:   make(map[string]bool),
	}
}

// InitWinds loads dir and merges it again every refresh seconds.
func InitWinds(dir string, refresh uint64, notifier Notifier) *Winds {
	w := NewWinds(dir, notifier)
	if err := w.Merge(); err != nil {
		log.WithError(err).Warnf("Initial load of '%s' incomplete", dir)
	}

	s := gocron.NewScheduler()
	jobxx := s.Every(refresh).Seconds()
	jobxx.Do(w.Merge)

	go s.Start()

	return w
}

// parseForecastFile reads the valid time of a file named after its run and
// forecast hour, like 2026101906.f003.
func parseForecastFile(name string) (time.Time, error) {
	parts := strings.Split(name, ".")
	if len(parts) != 2 || len(parts[1]) < 2 {
		return time.Time{}, fmt.Errorf("unexpected grib file name '%s'", name)
	}
	h, err := strconv.Atoi(parts[1][1:])
	if err != nil {
		return time.Time{}, fmt.Errorf("bad forecast hour in '%s': %w", name, err)
	}
	t, err := time.Parse(stampLayout, parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("bad run date in '%s': %w", name, err)
	}
	return t.Add(time.Hour * time.Duration(h)), nil
}

func (w *Winds) list() ([]string, error) {
	var files []string
	err := filepath.Walk(w.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.WithError(err).Errorf("Error walking file '%s'", path)
		} else if info.Mode().IsRegular() && !strings.HasSuffix(info.Name(), ".tmp") {
			files = append(files, info.Name())
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}

// Len returns the number of forecast times loaded.
func (w *Winds) Len() int {
	w.lock.RLock()
	defer w.lock.RUnlock()
	return len(w.winds)
}

// FindWinds returns the forecasts around m and how far m lies between them.
// The second forecast is nil when m is outside the loaded range.
func (w *Winds) FindWinds(m time.Time) (ForecastWinds, ForecastWinds, float64, bool) {
	w.lock.RLock()
	defer w.lock.RUnlock()

	if len(w.winds) == 0 {
		return nil, nil, 0, false
	}

	stamp := m.UTC().Format(stampLayout)

	keys := make([]string, 0, len(w.winds))
	for k := range w.winds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if keys[0] > stamp {
		return w.winds[keys[0]], nil, 0, true
	}
	for i := range keys {
		if keys[i] > stamp {
			h := m.Sub(w.winds[keys[i-1]][0].Date).Minutes()
			delta := w.winds[keys[i]][0].Date.Sub(w.winds[keys[i-1]][0].Date).Minutes()
			return w.winds[keys[i-1]], w.winds[keys[i]], h / delta, true
		}
	}
	return w.winds[keys[len(keys)-1]], nil, 0, true
}

// At returns the wind direction and speed in m/s at (lat, lon) and time m.
func (w *Winds) At(lat, lon float64, m time.Time) (float64, float64, bool) {
	w1, w2, h, ok := w.FindWinds(m)
	if !ok {
		return 0, 0, false
	}
	dir, speed := Interpolate(w1, w2, lat, lon, h)
	return dir, speed, true
}

// Merge drops the forecasts whose file is gone and loads the new ones.
func (w *Winds) Merge() error {
	w.lock.Lock()
	defer w.lock.Unlock()

	for k, ws := range w.winds {
		if _, err := os.Stat(filepath.Join(w.dir, ws[0].File)); os.IsNotExist(err) {
			log.Debugf("Remove from winds %s", k)
			delete(w.winds, k)
		}
	}

	files, err := w.list()
	if err != nil {
		return w.alert(fmt.Errorf("walking '%s': %w", w.dir, err))
	}

	forecasts := make(map[int][]string)
	dates := make(map[string]time.Time)
	present := make(map[string]bool)

	for cpt, f := range files {
		present[f] = true

		date, err := parseForecastFile(f)
		if err != nil {
			log.WithError(err).Debug("Skipping file")
			continue
		}
		dates[f] = date

		forecastHour := int(math.Round(date.Sub(now()).Hours()))

		// stale forecasts are dropped, but never the most recent file
		if forecastHour < -3 && cpt < len(files)-1 {
			continue
		}

		_, found := forecasts[forecastHour]

		// a past forecast keeps its first run even once a newer run arrived
		if !found || forecastHour >= 0 {
			forecasts[forecastHour] = append(forecasts[forecastHour], f)
		}
	}

	for f := range w.broken {
		if !present[f] {
			delete(w.broken, f)
		}
	}

	var keys []int
	for k := range forecasts {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	var failed []string
	for _, k := range keys {
		for _, file := range forecasts[k] {
			if w.broken[file] {
				continue
			}

			date := dates[file]
			sdate := date.Format(stampLayout)

			ws, found := w.winds[sdate]
			if found {
				if len(ws) == 2 || ws[0].File == file || (len(ws) > 1 && ws[1].File == file) {
					continue
				}
			}

			wind, err := Init(w.dir, date, file)
			if err != nil {
				log.WithError(err).Errorf("Error loading grib file '%s'", file)
				w.broken[file] = true
				failed = append(failed, file)
				continue
			}
			log.Debugf("Init %s %s", sdate, wind.File)
			w.winds[sdate] = append(w.winds[sdate], wind)
		}
	}

	if len(failed) > 0 {
		return w.alert(fmt.Errorf("cannot load grib files %s", strings.Join(failed, ", ")))
	}
	return nil
}

func (w *Winds) alert(err error) error {
	log.WithError(err).Error("Error merging winds")
	if w.notifier != nil {
		if nerr := w.notifier.Send("route-weather: " + err.Error()); nerr != nil {
			log.WithError(nerr).Warn("Error sending alert")
		}
	}
	return err
}
