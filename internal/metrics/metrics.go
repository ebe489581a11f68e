// Package metrics exposes Prometheus counters for the workspace engine and
// its HTTP surface. Every method is safe to call on a nil *Collector, which
// lets tests and the CLI run the engine without a registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds all Prometheus metrics for the application
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	// Engine metrics
	edgesAdded   prometheus.Counter
	mutations    *prometheus.CounterVec
	historyMoves *prometheus.CounterVec
	nodes        prometheus.Gauge

	// Search metrics
	searches       *prometheus.CounterVec
	searchDuration prometheus.Histogram
	breakerState   prometheus.Gauge

	// Persistence and import metrics
	treeOps *prometheus.CounterVec
	imports *prometheus.CounterVec
}

// NewCollector creates a collector with its own registry under namespace
func NewCollector(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		edgesAdded: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "edges_added_total",
				Help:      "Total number of edges authored",
			},
		),
		mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "mutations_total",
				Help:      "Committed workspace mutations by kind",
			},
			[]string{"kind"},
		),
		historyMoves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "history_moves_total",
				Help:      "Undo and redo operations that moved the cursor",
			},
			[]string{"direction"},
		),
		nodes: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "graph_nodes",
				Help:      "Number of nodes in the live graph",
			},
		),
		searches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "searches_total",
				Help:      "Search requests by outcome",
			},
			[]string{"outcome"},
		),
		searchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "search_duration_seconds",
				Help:      "Round trip time of search service calls",
				Buckets:   prometheus.DefBuckets,
			},
		),
		breakerState: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "search_breaker_state",
				Help:      "Search circuit breaker state (0 closed, 1 half-open, 2 open)",
			},
		),
		treeOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tree_operations_total",
				Help:      "Saved tree operations by kind and status",
			},
			[]string{"operation", "status"},
		),
		imports: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "imports_total",
				Help:      "Record imports by format and status",
			},
			[]string{"format", "status"},
		),
	}

	c.registry.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.edgesAdded,
		c.mutations,
		c.historyMoves,
		c.nodes,
		c.searches,
		c.searchDuration,
		c.breakerState,
		c.treeOps,
		c.imports,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

// Registry returns the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one HTTP request
func (c *Collector) ObserveRequest(method, route string, status int, d time.Duration) {
	if c == nil {
		return
	}
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// EdgeAdded records an authored edge
func (c *Collector) EdgeAdded() {
	if c == nil {
		return
	}
	c.edgesAdded.Inc()
}

// Mutation records a committed mutation of the given kind and the graph size after it
func (c *Collector) Mutation(kind string, nodes int) {
	if c == nil {
		return
	}
	c.mutations.WithLabelValues(kind).Inc()
	c.nodes.Set(float64(nodes))
}

// HistoryMoved records an undo or redo
func (c *Collector) HistoryMoved(direction string) {
	if c == nil {
		return
	}
	c.historyMoves.WithLabelValues(direction).Inc()
}

// SearchObserved records a search call with outcome found, empty or failed
func (c *Collector) SearchObserved(outcome string, d time.Duration) {
	if c == nil {
		return
	}
	c.searches.WithLabelValues(outcome).Inc()
	c.searchDuration.Observe(d.Seconds())
}

// BreakerState records the circuit breaker state
func (c *Collector) BreakerState(state int) {
	if c == nil {
		return
	}
	c.breakerState.Set(float64(state))
}

// TreeOperation records a saved tree operation
func (c *Collector) TreeOperation(op string, err error) {
	if c == nil {
		return
	}
	c.treeOps.WithLabelValues(op, status(err)).Inc()
}

// Import records a record import
func (c *Collector) Import(format string, err error) {
	if c == nil {
		return
	}
	c.imports.WithLabelValues(format, status(err)).Inc()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
