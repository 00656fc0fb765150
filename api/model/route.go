package model

import (
	"time"

	"github.com/a-bouts/route-weather/latlon"
	"github.com/a-bouts/route-weather/route"
	"github.com/a-bouts/route-weather/wind"
)

type Pair struct {
	From   latlon.LatLon `json:"from"`
	To     latlon.LatLon `json:"to"`
	Method string        `json:"method"`
}

type Distance struct {
	Distance float64 `json:"distance"`
	Bearing  float64 `json:"bearing"`
}

type Destination struct {
	Start    latlon.LatLon `json:"start"`
	Distance float64       `json:"distance"`
	Bearing  float64       `json:"bearing"`
}

type Waypoints struct {
	From   latlon.LatLon `json:"from"`
	To     latlon.LatLon `json:"to"`
	Points int           `json:"points"`
}

type Bounds struct {
	Latlon latlon.LatLon `json:"latlon"`
	Bounds latlon.Bounds `json:"bounds"`
}

type Within struct {
	Within     bool `json:"within"`
	Crosses180 bool `json:"crosses180"`
}

// Route asks for a journey; speed is in km/h, zero for the server default.
type Route struct {
	From      latlon.LatLon `json:"from"`
	To        latlon.LatLon `json:"to"`
	Points    int           `json:"points"`
	Speed     float64       `json:"speed"`
	Departure time.Time     `json:"departure"`
}

type Journey struct {
	route.Route
	Times []time.Time   `json:"times"`
	Wind  []wind.Sample `json:"wind,omitempty"`
	Land  []bool        `json:"land,omitempty"`
}

type Wind struct {
	Wind  float64 `json:"wind"`
	Speed float64 `json:"speed"`
}
