// Package metrics defines the Prometheus collectors of the allocator.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values.
const (
	Fulfilled   = "fulfilled"
	Unfulfilled = "unfulfilled"
)

// Collectors for allocations and the HTTP API.
var (
	AllocationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "allocator_allocations_total",
		Help: "Cumulative number of allocations, by outcome.",
	}, []string{"outcome"})
	UnitsRequestedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "allocator_units_requested_total",
		Help: "Cumulative number of units ordered.",
	})
	UnitsShippedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "allocator_units_shipped_total",
		Help: "Cumulative number of units assigned to shipments.",
	})
	ShipmentsPerAllocation = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "allocator_shipments_per_allocation",
		Help:    "Number of shipments in fulfilled allocations.",
		Buckets: []float64{1, 2, 3, 5, 8, 13, 21},
	})
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "allocator_http_requests_total",
		Help: "Cumulative number of HTTP requests, by route and status.",
	}, []string{"method", "route", "status"})
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "allocator_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// AllocatorCollectors returns the collectors of allocation outcomes.
func AllocatorCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		AllocationsTotal,
		UnitsRequestedTotal,
		UnitsShippedTotal,
		ShipmentsPerAllocation,
	}
}

// HTTPCollectors returns the collectors of the HTTP API.
func HTTPCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		HTTPRequestsTotal,
		HTTPRequestDuration,
	}
}

// ObserveAllocation records the outcome of one allocation. Negative unit
// counts are ignored since counters only go up.
func ObserveAllocation(fulfilled bool, unitsRequested, unitsShipped, shipments int) {
	if unitsRequested > 0 {
		UnitsRequestedTotal.Add(float64(unitsRequested))
	}
	if unitsShipped > 0 {
		UnitsShippedTotal.Add(float64(unitsShipped))
	}
	if !fulfilled {
		AllocationsTotal.WithLabelValues(Unfulfilled).Inc()
		return
	}
	AllocationsTotal.WithLabelValues(Fulfilled).Inc()
	ShipmentsPerAllocation.Observe(float64(shipments))
}

// ObserveRequest records one served HTTP request.
func ObserveRequest(method, route string, status int, elapsed time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

var (
	registry     = prometheus.NewRegistry()
	registerOnce sync.Once
)

// Handler serves all collectors in the Prometheus text format.
func Handler() http.Handler {
	registerOnce.Do(func() {
		registry.MustRegister(AllocatorCollectors()...)
		registry.MustRegister(HTTPCollectors()...)
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	})
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
