// Package metrics exposes Prometheus instrumentation for simulations.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricPrefix = "credit_"

	// ResultSuccess labels a simulation that produced a converged schedule.
	ResultSuccess = "success"
	// ResultNonConverged labels a simulation whose level payment search did not amortize the loan.
	ResultNonConverged = "non_converged"
	// ResultInvalid labels a request rejected before simulating.
	ResultInvalid = "invalid"
)

var (
	registerOnce sync.Once

	simulationsTotal    *prometheus.CounterVec
	solverNonConverged  prometheus.Counter
	simulationLatency   *prometheus.HistogramVec
	scheduleInstallment prometheus.Histogram
)

// Init registers simulation metrics with the default registry. Calling it
// more than once is a no-op.
func Init() {
	registerOnce.Do(func() {
		simulationsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "simulations_total",
				Help: "Total simulation requests by result",
			},
			[]string{"result"},
		)
		solverNonConverged = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "solver_nonconverged_total",
				Help: "Total level payment searches that did not amortize the loan",
			},
		)
		simulationLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "simulation_latency_seconds",
				Help:    "Simulation latency in seconds",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"result"},
		)
		scheduleInstallment = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "schedule_installments",
				Help:    "Number of installments per simulated schedule",
				Buckets: []float64{1, 6, 12, 24, 36, 60, 120, 240, 360, 1200},
			},
		)

		prometheus.MustRegister(
			simulationsTotal,
			solverNonConverged,
			simulationLatency,
			scheduleInstallment,
		)
	})
}

// ObserveSimulation records one finished simulation.
func ObserveSimulation(result string, installments int, duration time.Duration) {
	if result == "" {
		result = ResultSuccess
	}
	if simulationsTotal != nil {
		simulationsTotal.WithLabelValues(result).Inc()
	}
	if simulationLatency != nil {
		simulationLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
	if result == ResultNonConverged && solverNonConverged != nil {
		solverNonConverged.Inc()
	}
	if installments > 0 && scheduleInstallment != nil {
		scheduleInstallment.Observe(float64(installments))
	}
}

// IncInvalid counts a request rejected before simulating.
func IncInvalid() {
	if simulationsTotal != nil {
		simulationsTotal.WithLabelValues(ResultInvalid).Inc()
	}
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
