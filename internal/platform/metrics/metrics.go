// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package metrics collects and exposes Prometheus metrics for the API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Authentication rejection reasons.
const (
	ReasonMissingToken = "missing_token"
	ReasonInvalidToken = "invalid_token"
	ReasonUnknownUser  = "unknown_user"
	ReasonNotAdmin     = "not_admin"
	ReasonForbidden    = "forbidden"
)

// Recorder is what middleware and handlers need from a collector.
type Recorder interface {
	ObserveRequest(method, route string, status int, duration time.Duration)
	RecordAuthRejection(reason string)
	RecordImageStored(backend string)
}

// Collector is the Prometheus-backed [Recorder].
type Collector struct {
	requests       *prometheus.CounterVec
	latency        *prometheus.HistogramVec
	authRejections *prometheus.CounterVec
	imagesStored   *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "recipebox_http_requests_total",
			Help: "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "recipebox_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		authRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "recipebox_auth_rejections_total",
			Help: "Requests rejected by the authentication gate or authorization policy.",
		}, []string{"reason"}),
		imagesStored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "recipebox_images_stored_total",
			Help: "Recipe images persisted by storage backend.",
		}, []string{"backend"}),
	}

	reg.MustRegister(
		c.requests,
		c.latency,
		c.authRejections,
		c.imagesStored,
	)

	return c
}

// ObserveRequest records one finished HTTP request.
func (c *Collector) ObserveRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.latency.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordAuthRejection counts a rejected request.
func (c *Collector) RecordAuthRejection(reason string) {
	c.authRejections.WithLabelValues(reason).Inc()
}

// RecordImageStored counts a persisted upload.
func (c *Collector) RecordImageStored(backend string) {
	c.imagesStored.WithLabelValues(backend).Inc()
}

// Nop discards everything. Used when no collector is wired, mostly in tests.
type Nop struct{}

func (Nop) ObserveRequest(string, string, int, time.Duration) {}
func (Nop) RecordAuthRejection(string)                       {}
func (Nop) RecordImageStored(string)                         {}

// Handler returns the HTTP handler for Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
