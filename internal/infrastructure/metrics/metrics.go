// Package metrics expone las métricas Prometheus de la consola: llamadas al
// backend, recorridos paginados, circuit breaker, recargas del tablero y
// eventos push.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sony/gobreaker"
)

// DefaultNamespace prefijo de todas las métricas.
const DefaultNamespace = "inventario_consola"

// Metrics registro propio (no el global) con todos los colectores.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	backendRequests *prometheus.CounterVec
	backendDuration *prometheus.HistogramVec

	pageFetches   *prometheus.CounterVec
	pageDuration  *prometheus.HistogramVec
	walks         *prometheus.CounterVec
	walkItems     *prometheus.GaugeVec
	breakerState  *prometheus.GaugeVec
	reloads       *prometheus.CounterVec
	reloadResults *prometheus.CounterVec
	reloadSeconds prometheus.Histogram
	pushEvents    *prometheus.CounterVec
}

// New registra los colectores bajo namespace ("" usa DefaultNamespace).
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	durations := []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

	m := &Metrics{registry: registry}

	m.httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "http_requests_total",
		Help: "Peticiones HTTP atendidas por la consola",
	}, []string{"method", "path", "status"})
	m.httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Name: "http_request_duration_seconds",
		Help: "Duración de las peticiones HTTP", Buckets: durations,
	}, []string{"method", "path"})

	m.backendRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "backend_requests_total",
		Help: "Llamadas al backend de inventario por operación y código",
	}, []string{"op", "status"})
	m.backendDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Name: "backend_request_duration_seconds",
		Help: "Duración de las llamadas al backend", Buckets: durations,
	}, []string{"op"})

	m.pageFetches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "pagination_pages_total",
		Help: "Páginas pedidas durante los recorridos",
	}, []string{"resource", "result"})
	m.pageDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Name: "pagination_page_duration_seconds",
		Help: "Duración de cada página", Buckets: durations,
	}, []string{"resource"})
	m.walks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "pagination_walks_total",
		Help: "Recorridos completos o parciales",
	}, []string{"resource", "complete"})
	m.walkItems = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace, Name: "pagination_walk_items",
		Help: "Elementos reunidos en el último recorrido",
	}, []string{"resource"})

	m.breakerState = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace, Name: "circuit_breaker_state",
		Help: "Estado del circuit breaker (0=cerrado, 1=half-open, 2=abierto)",
	}, []string{"name"})

	m.reloads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "dashboard_reloads_triggered_total",
		Help: "Recargas del tablero disparadas por eventos",
	}, []string{"reason"})
	m.reloadResults = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "dashboard_reloads_finished_total",
		Help: "Recargas del tablero por resultado",
	}, []string{"outcome"})
	m.reloadSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace, Name: "dashboard_reload_duration_seconds",
		Help: "Duración de las recargas", Buckets: durations,
	})

	m.pushEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "push_events_total",
		Help: "Eventos recibidos por el canal push",
	}, []string{"kind"})

	registry.MustRegister(
		m.httpRequests, m.httpDuration,
		m.backendRequests, m.backendDuration,
		m.pageFetches, m.pageDuration, m.walks, m.walkItems,
		m.breakerState,
		m.reloads, m.reloadResults, m.reloadSeconds,
		m.pushEvents,
	)
	return m
}

// Handler endpoint /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// Registry registro subyacente.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Middleware cuenta y mide las peticiones HTTP por ruta registrada.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		path := c.Route().Path
		m.httpRequests.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(c.Method(), path).Observe(time.Since(start).Seconds())
		return err
	}
}

// ObserveRequest implementa backend.RequestObserver. status 0 = error de red.
func (m *Metrics) ObserveRequest(op string, status int, elapsed time.Duration) {
	m.backendRequests.WithLabelValues(op, strconv.Itoa(status)).Inc()
	m.backendDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// PageFetched implementa pagination.Recorder.
func (m *Metrics) PageFetched(resource string, ok bool, elapsed time.Duration) {
	result := "ok"
	if !ok {
		result = "error"
	}
	m.pageFetches.WithLabelValues(resource, result).Inc()
	m.pageDuration.WithLabelValues(resource).Observe(elapsed.Seconds())
}

// WalkFinished implementa pagination.Recorder.
func (m *Metrics) WalkFinished(resource string, items int, complete bool) {
	m.walks.WithLabelValues(resource, strconv.FormatBool(complete)).Inc()
	m.walkItems.WithLabelValues(resource).Set(float64(items))
}

// BreakerStateChanged se pasa como backend.StateObserver.
func (m *Metrics) BreakerStateChanged(name string, state gobreaker.State) {
	var v float64
	switch state {
	case gobreaker.StateHalfOpen:
		v = 1
	case gobreaker.StateOpen:
		v = 2
	}
	m.breakerState.WithLabelValues(name).Set(v)
}

// ReloadTriggered implementa dashboard.ReloadObserver.
func (m *Metrics) ReloadTriggered(reason string) {
	m.reloads.WithLabelValues(reason).Inc()
}

// ReloadFinished implementa dashboard.ReloadObserver.
func (m *Metrics) ReloadFinished(outcome string, elapsed time.Duration) {
	m.reloadResults.WithLabelValues(outcome).Inc()
	m.reloadSeconds.Observe(elapsed.Seconds())
}

// PushReceived cuenta un evento push.
func (m *Metrics) PushReceived(kind string) {
	m.pushEvents.WithLabelValues(kind).Inc()
}
