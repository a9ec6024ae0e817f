package http

import (
	"net/http"

	"github.com/frontandrew/platescan/internal/delivery/http/middleware"
	"github.com/frontandrew/platescan/internal/domain"
	"github.com/frontandrew/platescan/internal/pkg/config"
	"github.com/frontandrew/platescan/internal/pkg/logger"
	"github.com/frontandrew/platescan/internal/pkg/metrics"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Handlers - набор обработчиков для роутера
type Handlers struct {
	Auth    *AuthHandler
	Vehicle *VehicleHandler
	Plate   *PlateHandler
	Scan    *ScanHandler
	Health  *HealthHandler
}

// Router содержит все зависимости для HTTP роутера
type Router struct {
	handlers Handlers
	tokens   middleware.TokenValidator
	metrics  *metrics.Metrics // nil, если метрики отключены
	config   *config.Config
	logger   logger.Logger
}

// NewRouter создает новый HTTP router
func NewRouter(
	handlers Handlers,
	tokens middleware.TokenValidator,
	m *metrics.Metrics,
	config *config.Config,
	logger logger.Logger,
) *Router {
	return &Router{
		handlers: handlers,
		tokens:   tokens,
		metrics:  m,
		config:   config,
		logger:   logger,
	}
}

// Setup настраивает все маршруты
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Глобальные middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.RecoveryMiddleware(rt.logger))
	r.Use(middleware.LoggingMiddleware(rt.logger))
	r.Use(middleware.CORSMiddleware(middleware.CORSConfig{
		AllowedOrigins: rt.config.CORS.AllowedOrigins,
		AllowedMethods: rt.config.CORS.AllowedMethods,
		AllowedHeaders: rt.config.CORS.AllowedHeaders,
	}))
	if rt.metrics != nil {
		r.Use(rt.metrics.Middleware)
		r.Method(http.MethodGet, rt.config.Metrics.Path, rt.metrics.Handler())
	}

	r.Get("/health", rt.handlers.Health.Health)

	r.Route("/api/v1", func(r chi.Router) {
		// Публичные маршруты
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", rt.handlers.Auth.Register)
			r.Post("/login", rt.handlers.Auth.Login)
			r.Post("/refresh", rt.handlers.Auth.Refresh)
		})

		r.Route("/plates", func(r chi.Router) {
			r.Post("/validate", rt.handlers.Plate.Validate)
			r.Post("/extract", rt.handlers.Plate.Extract)
			r.Post("/correct", rt.handlers.Plate.Correct)
		})

		// Защищенные маршруты
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(rt.tokens))

			r.Get("/auth/me", rt.handlers.Auth.GetMe)

			r.With(middleware.RequireCapability(domain.CapabilityManageAll)).
				Post("/users", rt.handlers.Auth.CreateUser)

			r.Route("/scans", func(r chi.Router) {
				r.With(middleware.RequireCapability(domain.CapabilityScanPlates)).
					Post("/", rt.handlers.Scan.ScanImage)
				r.With(middleware.RequireCapability(domain.CapabilityViewOwnScans)).
					Get("/me", rt.handlers.Scan.GetMyScans)
				r.With(middleware.RequireCapability(domain.CapabilityViewAllScans)).
					Get("/", rt.handlers.Scan.GetScans)
				r.With(middleware.RequireCapability(domain.CapabilityExportScans)).
					Get("/export", rt.handlers.Scan.ExportScans)
				r.Get("/{id}", rt.handlers.Scan.GetScan)
			})

			r.Route("/vehicles", func(r chi.Router) {
				r.With(middleware.RequireCapability(domain.CapabilityManageVehicles)).
					Post("/", rt.handlers.Vehicle.CreateVehicle)
				r.Get("/me", rt.handlers.Vehicle.GetMyVehicles)
				r.With(middleware.RequireCapability(domain.CapabilityViewVehicles)).
					Get("/plate/{plate}", rt.handlers.Vehicle.GetVehicleByPlate)
				r.Get("/{id}", rt.handlers.Vehicle.GetVehicle)
			})
		})
	})

	return r
}
