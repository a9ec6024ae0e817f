package http

import (
	"context"
	"net/http"
	"time"
)

// HealthChecker - зависимость, состояние которой попадает в /health
type HealthChecker interface {
	Health(ctx context.Context) error
}

// HealthCheckFunc адаптирует функцию к HealthChecker
type HealthCheckFunc func(ctx context.Context) error

// Health реализует HealthChecker
func (f HealthCheckFunc) Health(ctx context.Context) error {
	return f(ctx)
}

// HealthHandler опрашивает зависимости сервиса
type HealthHandler struct {
	checks  map[string]HealthChecker
	timeout time.Duration
}

// NewHealthHandler создает новый handler
func NewHealthHandler(checks map[string]HealthChecker) *HealthHandler {
	return &HealthHandler{
		checks:  checks,
		timeout: 3 * time.Second,
	}
}

// Health возвращает 200, если все зависимости доступны, иначе 503
// GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	status := "healthy"
	code := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check.Health(ctx); err != nil {
			results[name] = err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	respondJSON(w, code, map[string]interface{}{
		"status": status,
		"checks": results,
	})
}
