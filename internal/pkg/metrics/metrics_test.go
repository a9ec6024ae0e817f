package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordScan(t *testing.T) {
	m := New()

	m.RecordScan("http", OutcomePlates)
	m.RecordScan("http", OutcomePlates)
	m.RecordScan("tesseract", OutcomeFailed)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.scansTotal.WithLabelValues("http", OutcomePlates)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.scansTotal.WithLabelValues("tesseract", OutcomeFailed)))
}

func TestMetrics_ObserveOCR(t *testing.T) {
	m := New()

	m.ObserveOCR("http", 100*time.Millisecond, nil)
	m.ObserveOCR("http", 200*time.Millisecond, errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ocrErrorsTotal.WithLabelValues("http")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.ocrDuration))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordScan("http", OutcomePlates)
		m.RecordPlate("MERCOSUL")
		m.ObserveOCR("http", time.Second, nil)
	})
}

func TestMetrics_Middleware(t *testing.T) {
	m := New()

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/scans/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b", "c"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/scans/"+id, nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/scans/{id}", "404")))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.RecordPlate("OLD")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `platescan_plates_detected_total{type="OLD"} 1`)
}
