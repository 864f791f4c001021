package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/oficina-api/internal/domain/extraction"
)

const namespace = "oficina"

// Metrics agrupa os coletores da API num registry próprio.
// Implementa a interface Metrics do pipeline de extração.
type Metrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	visionAttempts *prometheus.CounterVec
	visionDuration *prometheus.HistogramVec
	stageFailures  *prometheus.CounterVec
	outcomes       *prometheus.CounterVec
}

func New(service string) *Metrics {
	registry := prometheus.NewRegistry()
	constLabels := prometheus.Labels{"service": service}

	m := &Metrics{
		registry: registry,
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "http",
			Name:        "requests_total",
			Help:        "Total HTTP requests processed.",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   "http",
			Name:        "request_duration_seconds",
			Help:        "HTTP request duration in seconds.",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		}, []string{"method", "path"}),
		visionAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "vision",
			Name:        "attempts_total",
			Help:        "Vision model calls by provider, variant and status.",
			ConstLabels: constLabels,
		}, []string{"provider", "variant", "status"}),
		visionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   "vision",
			Name:        "attempt_duration_seconds",
			Help:        "Vision model call duration in seconds.",
			Buckets:     []float64{0.5, 1, 2, 4, 8, 15, 30, 45, 60},
			ConstLabels: constLabels,
		}, []string{"provider", "variant"}),
		stageFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "extraction",
			Name:        "stage_failures_total",
			Help:        "Extraction pipeline failures by stage.",
			ConstLabels: constLabels,
		}, []string{"variant", "stage"}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "extraction",
			Name:        "outcomes_total",
			Help:        "Analysis outcomes by kind.",
			ConstLabels: constLabels,
		}, []string{"kind", "fallback"}),
	}

	registry.MustRegister(
		m.requestTotal,
		m.requestDuration,
		m.visionAttempts,
		m.visionDuration,
		m.stageFailures,
		m.outcomes,
		collectors.NewGoCollector(),
	)
	return m
}

// Handler expõe o registry no formato de exposição do Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry é usado nos testes para ler os coletores.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Middleware conta requisições por rota registrada (não pela URL crua).
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		path := c.Route().Path
		m.requestTotal.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(c.Method(), path).Observe(time.Since(start).Seconds())
		return err
	}
}

// ── extraction.Metrics ───────────────────────────────────────────────────────

func (m *Metrics) ObserveAttempt(provider string, variant extraction.Variant, status string, d time.Duration) {
	m.visionAttempts.WithLabelValues(provider, string(variant), status).Inc()
	m.visionDuration.WithLabelValues(provider, string(variant)).Observe(d.Seconds())
}

func (m *Metrics) IncStageFailure(variant extraction.Variant, stage string) {
	m.stageFailures.WithLabelValues(string(variant), stage).Inc()
}

func (m *Metrics) IncOutcome(kind extraction.Kind, fromFallback bool) {
	m.outcomes.WithLabelValues(string(kind), strconv.FormatBool(fromFallback)).Inc()
}
