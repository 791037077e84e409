package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/DrSkyle/stowage/pkg/engine"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "stowage_"

	resultSuccess = "success"
	resultStale   = "stale"
	resultError   = "error"
)

// Metrics bundles the server's Prometheus collectors.
type Metrics struct {
	Requests     *prometheus.CounterVec
	Latency      *prometheus.HistogramVec
	Shortfall    *prometheus.GaugeVec
	ApplyTotal   *prometheus.CounterVec
	ModulesAdded prometheus.Counter
	WSClients    prometheus.Gauge
}

// NewMetrics constructs the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "http_requests_total",
				Help: "Total API requests by route and status code",
			},
			[]string{"route", "code"},
		),
		Latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "http_request_duration_seconds",
				Help:    "API request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		Shortfall: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: metricPrefix + "storage_shortfall_volume",
				Help: "Missing storage volume of the last computed plan by cargo type",
			},
			[]string{"cargo"},
		),
		ApplyTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "apply_total",
				Help: "Total apply requests by result",
			},
			[]string{"result"},
		),
		ModulesAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "modules_added_total",
			Help: "Total storage modules added by apply",
		}),
		WSClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "ws_clients",
			Help: "Connected plan feed clients",
		}),
	}
	reg.MustRegister(
		m.Requests,
		m.Latency,
		m.Shortfall,
		m.ApplyTotal,
		m.ModulesAdded,
		m.WSClients,
	)
	return m
}

// ObservePlan records the shortfall of every cargo group.
func (m *Metrics) ObservePlan(p *engine.Plan) {
	if m == nil || p == nil {
		return
	}
	m.Shortfall.Reset()
	for _, g := range p.Groups {
		m.Shortfall.WithLabelValues(string(g.CargoType)).Set(g.Shortfall)
	}
}

// ObserveApply records an apply result.
func (m *Metrics) ObserveApply(result string, modules int) {
	if m == nil {
		return
	}
	if result == "" {
		result = resultSuccess
	}
	m.ApplyTotal.WithLabelValues(result).Inc()
	if modules > 0 {
		m.ModulesAdded.Add(float64(modules))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// instrument counts and times requests to route.
func (m *Metrics) instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		if m == nil {
			return
		}
		m.Requests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		m.Latency.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}
