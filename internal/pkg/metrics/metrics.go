package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "platescan"

// Исходы распознавания
const (
	OutcomePlates   = "plates"    // Найден хотя бы один номер
	OutcomeNoPlates = "no_plates" // OCR отработал, номеров нет
	OutcomeFailed   = "ocr_failed"
	OutcomeCached   = "cached"
)

// Metrics содержит Prometheus метрики сервиса.
// Регистрируются в собственном реестре, поэтому несколько экземпляров не конфликтуют.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	scansTotal     *prometheus.CounterVec
	platesTotal    *prometheus.CounterVec
	ocrDuration    *prometheus.HistogramVec
	ocrErrorsTotal *prometheus.CounterVec
}

// New создает и регистрирует все метрики
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		scansTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "scans_total",
				Help:      "Total number of processed images by engine and outcome",
			},
			[]string{"engine", "outcome"},
		),
		platesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "plates_detected_total",
				Help:      "Total number of valid plates detected by plate type",
			},
			[]string{"type"},
		),
		ocrDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "ocr_duration_seconds",
				Help:      "OCR engine latency in seconds",
				Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"engine"},
		),
		ocrErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ocr_errors_total",
				Help:      "Total number of OCR engine failures",
			},
			[]string{"engine"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.scansTotal,
		m.platesTotal,
		m.ocrDuration,
		m.ocrErrorsTotal,
	)

	return m
}

// Handler возвращает HTTP обработчик для /metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry возвращает реестр метрик
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordScan учитывает обработанное изображение
func (m *Metrics) RecordScan(engine, outcome string) {
	if m == nil {
		return
	}
	m.scansTotal.WithLabelValues(engine, outcome).Inc()
}

// RecordPlate учитывает найденный номер
func (m *Metrics) RecordPlate(plateType string) {
	if m == nil {
		return
	}
	m.platesTotal.WithLabelValues(plateType).Inc()
}

// ObserveOCR учитывает длительность вызова OCR и ошибку, если она была
func (m *Metrics) ObserveOCR(engine string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.ocrDuration.WithLabelValues(engine).Observe(duration.Seconds())
	if err != nil {
		m.ocrErrorsTotal.WithLabelValues(engine).Inc()
	}
}

// Middleware собирает HTTP метрики. Путь берется из шаблона маршрута chi,
// чтобы идентификаторы не раздували кардинальность.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		path := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(status)).Inc()
		m.httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}
