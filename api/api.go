package api

import (
	"encoding/json"
	"fmt"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/profile"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/route-weather/api/model"
	"github.com/a-bouts/route-weather/latlon"
	"github.com/a-bouts/route-weather/route"
	"github.com/a-bouts/route-weather/wind"
)

// maxPoints bounds the waypoints a single request may ask for.
const maxPoints = 10000

// Mask tells land from sea.
type Mask interface {
	IsLand(p latlon.LatLon) bool
}

// Forecasts samples wind forecasts.
type Forecasts interface {
	At(lat, lon float64, m time.Time) (float64, float64, bool)
	SampleAlong(points []latlon.LatLon, times []time.Time, headings []float64) []wind.Sample
}

type server struct {
	cpuprofile bool
	profiling  sync.Mutex
	speed      float64
	l          Mask
	f          Forecasts
}

// InitServer builds the router. l and f may be nil when no land mask or no
// forecast is available; speed is the default travel speed in km/h.
func InitServer(cpuprofile bool, speed float64, l Mask, f Forecasts) *mux.Router {

	router := mux.NewRouter().StrictSlash(true)

	s := &server{
		cpuprofile: cpuprofile,
		speed:      speed,
		l:          l,
		f:          f,
	}

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/geo").Subrouter()
	api.HandleFunc("/-/healthz", s.healthz).Methods(http.MethodGet)

	apiV1 := api.PathPrefix("/api/v1").Subrouter()
	apiV1.HandleFunc("/distance", s.distance).Methods(http.MethodPost)
	apiV1.HandleFunc("/destination", s.destination).Methods(http.MethodPost)
	apiV1.HandleFunc("/midpoint", s.midpoint).Methods(http.MethodPost)
	apiV1.HandleFunc("/waypoints", s.waypoints).Methods(http.MethodPost)
	apiV1.HandleFunc("/bounds", s.bounds).Methods(http.MethodPost)
	apiV1.HandleFunc("/route", s.route).Methods(http.MethodPost)
	apiV1.HandleFunc("/wind/{lat}/{lon}", s.wind).Methods(http.MethodGet)

	return router
}

func reply(w http.ResponseWriter, action string, code int, v interface{}) {
	requestsTotal.WithLabelValues(action, strconv.Itoa(code)).Inc()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			log.WithError(err).WithField("action", action).Warn("Error encoding response")
		}
	}
}

func fail(w http.ResponseWriter, action string, code int, err error) {
	type failure struct {
		Error string `json:"error"`
	}
	log.WithError(err).WithField("action", action).Debug("Rejected request")
	reply(w, action, code, failure{Error: err.Error()})
}

func decode(req *http.Request, v interface{}) error {
	if err := json.NewDecoder(req.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid body: %w", err)
	}
	return nil
}

func checkPoints(points int) error {
	if points > maxPoints {
		return fmt.Errorf("at most %d points", maxPoints)
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (s *server) healthz(w http.ResponseWriter, r *http.Request) {
	type health struct {
		Status string `json:"status"`
	}

	reply(w, "healthz", http.StatusOK, health{Status: "Ok"})
}

func (s *server) distance(w http.ResponseWriter, req *http.Request) {
	var p model.Pair
	if err := decode(req, &p); err != nil {
		fail(w, "distance", http.StatusBadRequest, err)
		return
	}

	method := p.Method
	if method == "" {
		method = "haversine"
	}
	g, ok := latlon.Model(method)
	if !ok {
		fail(w, "distance", http.StatusBadRequest, fmt.Errorf("unknown method '%s'", p.Method))
		return
	}

	var res model.Distance
	res.Distance, res.Bearing = g.DistanceAndBearingTo(latlon.Normalize(p.From), latlon.Normalize(p.To))

	reply(w, "distance", http.StatusOK, res)
}

func (s *server) destination(w http.ResponseWriter, req *http.Request) {
	var d model.Destination
	if err := decode(req, &d); err != nil {
		fail(w, "destination", http.StatusBadRequest, err)
		return
	}

	reply(w, "destination", http.StatusOK, latlon.Destination(latlon.Normalize(d.Start), d.Distance, d.Bearing))
}

func (s *server) midpoint(w http.ResponseWriter, req *http.Request) {
	var p model.Pair
	if err := decode(req, &p); err != nil {
		fail(w, "midpoint", http.StatusBadRequest, err)
		return
	}

	reply(w, "midpoint", http.StatusOK, latlon.Midpoint(latlon.Normalize(p.From), latlon.Normalize(p.To)))
}

func (s *server) waypoints(w http.ResponseWriter, req *http.Request) {
	var p model.Waypoints
	if err := decode(req, &p); err != nil {
		fail(w, "waypoints", http.StatusBadRequest, err)
		return
	}
	if err := checkPoints(p.Points); err != nil {
		fail(w, "waypoints", http.StatusBadRequest, err)
		return
	}

	reply(w, "waypoints", http.StatusOK, latlon.Waypoints(latlon.Normalize(p.From), latlon.Normalize(p.To), p.Points))
}

func (s *server) bounds(w http.ResponseWriter, req *http.Request) {
	var b model.Bounds
	if err := decode(req, &b); err != nil {
		fail(w, "bounds", http.StatusBadRequest, err)
		return
	}

	p := latlon.Normalize(b.Latlon)
	reply(w, "bounds", http.StatusOK, model.Within{
		Within:     latlon.IsWithinBounds(p, b.Bounds),
		Crosses180: b.Bounds.Crosses180(),
	})
}

func (s *server) route(w http.ResponseWriter, req *http.Request) {
	if s.cpuprofile && s.profiling.TryLock() {
		defer s.profiling.Unlock()
		defer profile.Start(profile.Quiet).Stop()
	}

	fields := log.Fields{
		"action": "route",
	}
	if ip, err := getIp(req); err == nil {
		fields["IP"] = ip
	}
	requestLogger := log.WithFields(fields)

	var r model.Route
	if err := decode(req, &r); err != nil {
		fail(w, "route", http.StatusBadRequest, err)
		return
	}
	if err := checkPoints(r.Points); err != nil {
		fail(w, "route", http.StatusBadRequest, err)
		return
	}
	if r.Speed <= 0 {
		r.Speed = s.speed
	}
	if r.Departure.IsZero() {
		r.Departure = time.Now()
	}

	from, to := latlon.Normalize(r.From), latlon.Normalize(r.To)
	requestLogger.Debugf("Route from %v to %v with %d points at %.1f km/h", from, to, r.Points, r.Speed)

	start := time.Now()

	j := model.Journey{Route: route.Build(from, to, r.Points, r.Speed)}
	j.Times = j.Route.Times(r.Departure)
	if s.f != nil {
		j.Wind = s.f.SampleAlong(j.Waypoints, j.Times, j.Route.Headings())
	}
	if s.l != nil {
		j.Land = make([]bool, len(j.Waypoints))
		for i, p := range j.Waypoints {
			j.Land[i] = s.l.IsLand(p)
		}
	}

	delta := time.Since(start)
	routeDuration.Observe(delta.Seconds())
	routeDistance.Observe(j.Distance)
	requestLogger.Infof("Route of %.1f km took %s", j.Distance, delta.String())

	reply(w, "route", http.StatusOK, j)
}

func (s *server) wind(w http.ResponseWriter, r *http.Request) {
	lat, err := strconv.ParseFloat(mux.Vars(r)["lat"], 64)
	if err != nil {
		fail(w, "wind", http.StatusBadRequest, err)
		return
	}
	lon, err := strconv.ParseFloat(mux.Vars(r)["lon"], 64)
	if err != nil {
		fail(w, "wind", http.StatusBadRequest, err)
		return
	}
	if !finite(lat) || !finite(lon) {
		fail(w, "wind", http.StatusBadRequest, fmt.Errorf("invalid position (%f,%f)", lat, lon))
		return
	}

	at := time.Now()
	if v := r.URL.Query().Get("at"); v != "" {
		if at, err = time.Parse(time.RFC3339, v); err != nil {
			fail(w, "wind", http.StatusBadRequest, err)
			return
		}
	}

	if s.f == nil {
		fail(w, "wind", http.StatusNotFound, fmt.Errorf("no forecast loaded"))
		return
	}

	p := latlon.Normalize(latlon.LatLon{Lat: lat, Lon: lon})
	var res model.Wind
	var ok bool
	res.Wind, res.Speed, ok = s.f.At(p.Lat, p.Lon, at)
	if !ok {
		fail(w, "wind", http.StatusNotFound, fmt.Errorf("no forecast loaded"))
		return
	}

	log.Debugf("Wind (%f,%f) : %.1f° %.1f m/s", p.Lat, p.Lon, res.Wind, res.Speed)

	reply(w, "wind", http.StatusOK, res)
}

func getIp(r *http.Request) (string, error) {
	//Get IP from the X-REAL-IP header
	ip := r.Header.Get("X-REAL-IP")
	netIP := net.ParseIP(ip)
	if netIP != nil {
		return ip, nil
	}

	//Get IP from X-FORWARDED-FOR header
	ips := r.Header.Get("X-FORWARDED-FOR")
	splitIps := strings.Split(ips, ",")
	for _, ip := range splitIps {
		ip = strings.TrimSpace(ip)
		netIP := net.ParseIP(ip)
		if netIP != nil {
			return ip, nil
		}
	}

	//Get IP from RemoteAddr
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "", err
	}
	netIP = net.ParseIP(ip)
	if netIP != nil {
		return ip, nil
	}
	return "", fmt.Errorf("No valid ip found")
}
