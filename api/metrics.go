package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "route_weather_requests_total",
			Help: "Requests served, by action and status code",
		},
		[]string{"action", "code"},
	)

	routeDistance = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "route_weather_route_distance_km",
			Help:    "Great circle length of the routes built",
			Buckets: prometheus.ExponentialBuckets(1, 4, 9),
		},
	)

	routeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "route_weather_route_seconds",
			Help:    "Time spent building a route and sampling its weather",
			Buckets: prometheus.DefBuckets,
		},
	)
)
