// Package metrics provides the Prometheus registry for the planner.
package metrics

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	PlansTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "corpus_planner",
		Name:      "plans_total",
		Help:      "Total number of plans computed by market and status",
	}, []string{"market", "status"})
	SimulationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "corpus_planner",
		Name:      "simulations_total",
		Help:      "Total number of historical simulations by split and outcome",
	}, []string{"split", "outcome"})
	CacheLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "corpus_planner",
		Name:      "cache_lookups_total",
		Help:      "Plan cache lookups by result",
	}, []string{"result"})
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "corpus_planner",
		Name:      "http_requests_total",
		Help:      "HTTP requests by path and status code",
	}, []string{"path", "code"})
)

// Histogram metrics
var (
	PlanDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "corpus_planner",
		Name:      "plan_duration_seconds",
		Help:      "Time spent computing a plan",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
	}, []string{"market"})
	SearchIterations = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "corpus_planner",
		Name:      "search_iterations",
		Help:      "Bisection iterations used per search",
		Buckets:   []float64{5, 10, 15, 20, 25, 30, 40, 50, 75, 100},
	}, []string{"search"})
)

// Gauge metrics
var (
	SurvivalRate = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "corpus_planner",
		Name:      "last_survival_rate_percent",
		Help:      "Survival rate of the most recent plan by market and split",
	}, []string{"market", "split"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(PlansTotal)
		registry.MustRegister(SimulationsTotal)
		registry.MustRegister(CacheLookupsTotal)
		registry.MustRegister(HTTPRequestsTotal)

		registry.MustRegister(PlanDuration)
		registry.MustRegister(SearchIterations)

		registry.MustRegister(SurvivalRate)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordPlan records a plan computation.
// status should be one of: "success", "failure", "cancelled"
func RecordPlan(market, status string, durationSeconds float64) {
	PlansTotal.WithLabelValues(market, status).Inc()
	PlanDuration.WithLabelValues(market).Observe(durationSeconds)
}

// RecordSimulation records the outcome of one historical run.
func RecordSimulation(split string, survived bool) {
	outcome := "failed"
	if survived {
		outcome = "survived"
	}
	SimulationsTotal.WithLabelValues(split, outcome).Inc()
}

// RecordSearch records how many bisection steps a search took.
// search should be one of: "corpus", "contribution"
func RecordSearch(search string, iterations int) {
	SearchIterations.WithLabelValues(search).Observe(float64(iterations))
}

// UpdateSurvivalRate sets the latest survival rate for a split.
func UpdateSurvivalRate(market, split string, rate float64) {
	SurvivalRate.WithLabelValues(market, split).Set(rate)
}

// RecordCacheLookup records a plan cache hit or miss.
func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookupsTotal.WithLabelValues(result).Inc()
}

// RecordHTTPRequest records a served request.
func RecordHTTPRequest(path string, code int) {
	HTTPRequestsTotal.WithLabelValues(path, strconv.Itoa(code)).Inc()
}
