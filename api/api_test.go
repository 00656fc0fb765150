package api

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/a-bouts/route-weather/api/model"
	"github.com/a-bouts/route-weather/latlon"
	"github.com/a-bouts/route-weather/wind"
)

type seaOnly struct{}

func (seaOnly) IsLand(p latlon.LatLon) bool {
	return p.Lat > 0
}

type westerly struct{}

func (westerly) At(lat, lon float64, m time.Time) (float64, float64, bool) {
	return 270, 10, true
}

func (westerly) SampleAlong(points []latlon.LatLon, times []time.Time, headings []float64) []wind.Sample {
	samples := make([]wind.Sample, len(points))
	for i, p := range points {
		samples[i] = wind.Sample{Latlon: p, Time: times[i], Wind: 270, Speed: 36, Relative: wind.RelativeAngle(headings[i], 270)}
	}
	return samples
}

func do(t *testing.T, s http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(v); err != nil {
		t.Fatalf("decoding %q: %v", rec.Body.String(), err)
	}
}

func TestHealthz(t *testing.T) {
	rec := do(t, InitServer(false, 80, nil, nil), http.MethodGet, "/geo/-/healthz", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Ok") {
		t.Errorf("healthz = %d %s", rec.Code, rec.Body.String())
	}
}

func TestDistance(t *testing.T) {
	s := InitServer(false, 80, nil, nil)

	rec := do(t, s, http.MethodPost, "/geo/api/v1/distance", `{"from":{"lat":40.7128,"lon":-74.0060},"to":{"lat":34.0522,"lon":-118.2437}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("distance = %d %s", rec.Code, rec.Body.String())
	}
	var d model.Distance
	decodeBody(t, rec, &d)
	if math.Abs(d.Distance-3936) > 1 {
		t.Errorf("distance = %f; want 3936", d.Distance)
	}
	if math.Round(d.Bearing) != 274 {
		t.Errorf("bearing = %f; want 274", d.Bearing)
	}

	rec = do(t, s, http.MethodPost, "/geo/api/v1/distance", `{"from":{"lat":0,"lon":0},"to":{"lat":0,"lon":1},"method":"cosines"}`)
	decodeBody(t, rec, &d)
	if math.Abs(d.Distance-111.19) > 0.01 {
		t.Errorf("cosines distance = %f; want 111.19", d.Distance)
	}

	rec = do(t, s, http.MethodPost, "/geo/api/v1/distance", `{"method":"vincenty"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown method = %d; want 400", rec.Code)
	}

	rec = do(t, s, http.MethodPost, "/geo/api/v1/distance", `{"from":`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("truncated body = %d; want 400", rec.Code)
	}
}

func TestDistanceNormalizesInput(t *testing.T) {
	s := InitServer(false, 80, nil, nil)

	rec := do(t, s, http.MethodPost, "/geo/api/v1/distance", `{"from":{"lat":100,"lon":370},"to":{"lat":90,"lon":10}}`)
	var d model.Distance
	decodeBody(t, rec, &d)
	if d.Distance != 0 {
		t.Errorf("distance from clamped pole = %f; want 0", d.Distance)
	}
}

func TestDestinationAndMidpoint(t *testing.T) {
	s := InitServer(false, 80, nil, nil)

	rec := do(t, s, http.MethodPost, "/geo/api/v1/destination", `{"start":{"lat":12.5,"lon":-40},"distance":0,"bearing":123}`)
	var p latlon.LatLon
	decodeBody(t, rec, &p)
	if p.Lat != 12.5 || p.Lon != -40 {
		t.Errorf("destination at 0 km = %v; want {12.5,-40}", p)
	}

	rec = do(t, s, http.MethodPost, "/geo/api/v1/midpoint", `{"from":{"lat":0,"lon":0},"to":{"lat":0,"lon":10}}`)
	decodeBody(t, rec, &p)
	if math.Abs(p.Lat) > 1e-9 || math.Abs(p.Lon-5) > 1e-9 {
		t.Errorf("midpoint = %v; want {0,5}", p)
	}
}

func TestWaypoints(t *testing.T) {
	s := InitServer(false, 80, nil, nil)

	rec := do(t, s, http.MethodPost, "/geo/api/v1/waypoints", `{"from":{"lat":48.8566,"lon":2.3522},"to":{"lat":45.764,"lon":4.8357},"points":6}`)
	var points []latlon.LatLon
	decodeBody(t, rec, &points)
	if len(points) != 6 {
		t.Fatalf("len(waypoints) = %d; want 6", len(points))
	}
	if points[0] != (latlon.LatLon{Lat: 48.8566, Lon: 2.3522}) || points[5] != (latlon.LatLon{Lat: 45.764, Lon: 4.8357}) {
		t.Errorf("endpoints = %v, %v", points[0], points[5])
	}

	rec = do(t, s, http.MethodPost, "/geo/api/v1/waypoints", `{"from":{"lat":1,"lon":2},"to":{"lat":3,"lon":4},"points":1}`)
	decodeBody(t, rec, &points)
	if len(points) != 2 {
		t.Errorf("len(waypoints) for 1 point = %d; want 2", len(points))
	}

	rec = do(t, s, http.MethodPost, "/geo/api/v1/waypoints", `{"points":1000000}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("too many points = %d; want 400", rec.Code)
	}
}

func TestBounds(t *testing.T) {
	s := InitServer(false, 80, nil, nil)

	rec := do(t, s, http.MethodPost, "/geo/api/v1/bounds", `{"latlon":{"lat":50,"lon":10},"bounds":{"north":50,"south":40,"east":10,"west":-5}}`)
	var res model.Within
	decodeBody(t, rec, &res)
	if !res.Within || res.Crosses180 {
		t.Errorf("bounds = %+v; want within, not crossing", res)
	}

	rec = do(t, s, http.MethodPost, "/geo/api/v1/bounds", `{"latlon":{"lat":0,"lon":175},"bounds":{"north":10,"south":-10,"east":-170,"west":170}}`)
	decodeBody(t, rec, &res)
	if res.Within || !res.Crosses180 {
		t.Errorf("bounds across 180 = %+v; want not within, crossing", res)
	}
}

func TestRoute(t *testing.T) {
	s := InitServer(false, 100, seaOnly{}, westerly{})

	departure := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	body := `{"from":{"lat":-10,"lon":0},"to":{"lat":10,"lon":0},"points":4,"departure":"` + departure.Format(time.RFC3339) + `"}`
	rec := do(t, s, http.MethodPost, "/geo/api/v1/route", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("route = %d %s", rec.Code, rec.Body.String())
	}

	var j model.Journey
	decodeBody(t, rec, &j)
	if len(j.Waypoints) != 4 || len(j.Segments) != 3 || len(j.Times) != 4 {
		t.Fatalf("route has %d waypoints, %d segments, %d times", len(j.Waypoints), len(j.Segments), len(j.Times))
	}
	if !j.Times[0].Equal(departure) {
		t.Errorf("times[0] = %s; want %s", j.Times[0], departure)
	}
	want := time.Duration(j.Distance / 100 * float64(time.Hour))
	if d := j.Duration - want; d < -time.Millisecond || d > time.Millisecond {
		t.Errorf("duration = %s; want %s at the default speed", j.Duration, want)
	}

	if len(j.Wind) != 4 {
		t.Fatalf("len(wind) = %d; want 4", len(j.Wind))
	}
	// heading north with a westerly wind coming from the left
	if math.Round(j.Wind[0].Relative) != -90 {
		t.Errorf("relative wind = %f; want -90", j.Wind[0].Relative)
	}

	if len(j.Land) != 4 || j.Land[0] || j.Land[1] || !j.Land[2] || !j.Land[3] {
		t.Errorf("land = %v; want [false false true true]", j.Land)
	}
}

func TestRouteWithoutForecasts(t *testing.T) {
	s := InitServer(false, 0, nil, nil)

	rec := do(t, s, http.MethodPost, "/geo/api/v1/route", `{"from":{"lat":0,"lon":0},"to":{"lat":0,"lon":3},"points":3,"speed":50}`)
	var j model.Journey
	decodeBody(t, rec, &j)
	if j.Wind != nil || j.Land != nil {
		t.Errorf("route without forecasts has wind %v land %v", j.Wind, j.Land)
	}
	if j.Duration <= 0 {
		t.Errorf("duration = %s; want > 0 at 50 km/h", j.Duration)
	}
}

func TestWind(t *testing.T) {
	rec := do(t, InitServer(false, 80, nil, nil), http.MethodGet, "/geo/api/v1/wind/45.5/-3.2", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("wind without forecast = %d; want 404", rec.Code)
	}

	s := InitServer(false, 80, nil, westerly{})
	rec = do(t, s, http.MethodGet, "/geo/api/v1/wind/45.5/-3.2?at=2026-10-19T08:00:00Z", "")
	var res model.Wind
	decodeBody(t, rec, &res)
	if res.Wind != 270 || res.Speed != 10 {
		t.Errorf("wind = %+v; want {270 10}", res)
	}

	rec = do(t, s, http.MethodGet, "/geo/api/v1/wind/north/-3.2", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("wind with bad latitude = %d; want 400", rec.Code)
	}

	for _, path := range []string{"/geo/api/v1/wind/NaN/1", "/geo/api/v1/wind/1/Inf", "/geo/api/v1/wind/-Inf/1", "/geo/api/v1/wind/1/nan"} {
		rec = do(t, s, http.MethodGet, path, "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("GET %s = %d; want 400", path, rec.Code)
		}
	}

	rec = do(t, s, http.MethodGet, "/geo/api/v1/wind/45/-3?at=tomorrow", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("wind with bad time = %d; want 400", rec.Code)
	}
}

func TestMetrics(t *testing.T) {
	s := InitServer(false, 80, nil, nil)
	do(t, s, http.MethodGet, "/geo/-/healthz", "")

	rec := do(t, s, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "route_weather_requests_total") {
		t.Errorf("metrics = %d, missing request counter", rec.Code)
	}
}

func TestGetIp(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-FORWARDED-FOR", "not-an-ip, 10.0.0.7")
	if ip, err := getIp(req); err != nil || ip != "10.0.0.7" {
		t.Errorf("getIp = %q, %v; want 10.0.0.7", ip, err)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-REAL-IP", "192.168.1.2")
	if ip, _ := getIp(req); ip != "192.168.1.2" {
		t.Errorf("getIp = %q; want 192.168.1.2", ip)
	}
}
