package http

import (
	"context"
	"net/http"

	"github.com/frontandrew/platescan/internal/delivery/http/middleware"
	"github.com/frontandrew/platescan/internal/domain"
	"github.com/frontandrew/platescan/internal/pkg/logger"
	"github.com/frontandrew/platescan/internal/usecase/vehicle"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// VehicleService определяет интерфейс для сервиса автомобилей
type VehicleService interface {
	CreateVehicle(ctx context.Context, req *vehicle.CreateVehicleRequest) (*domain.Vehicle, error)
	GetVehiclesByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Vehicle, error)
	GetVehicleByID(ctx context.Context, vehicleID uuid.UUID) (*domain.Vehicle, error)
	GetVehicleByLicensePlate(ctx context.Context, licensePlate string) (*domain.Vehicle, error)
}

// VehicleHandler обрабатывает запросы связанные с автомобилями
type VehicleHandler struct {
	vehicleService VehicleService
	logger         logger.Logger
}

// NewVehicleHandler создает новый handler
func NewVehicleHandler(vehicleService VehicleService, logger logger.Logger) *VehicleHandler {
	return &VehicleHandler{
		vehicleService: vehicleService,
		logger:         logger,
	}
}

// CreateVehicle регистрирует автомобиль
// POST /api/v1/vehicles
func (h *VehicleHandler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req vehicle.CreateVehicleRequest
	if !decodeJSON(w, r, maxJSONBody, &req) {
		return
	}

	// Без owner_id автомобиль регистрируется на себя
	if req.OwnerID == uuid.Nil {
		req.OwnerID = claims.UserID
	}
	if req.OwnerID != claims.UserID && !claims.Can(domain.CapabilityManageAll) {
		respondError(w, http.StatusForbidden, "Cannot create vehicle for another user")
		return
	}

	v, err := h.vehicleService.CreateVehicle(r.Context(), &req)
	if err != nil {
		respondDomainError(w, h.logger, err, "create vehicle")
		return
	}

	respondData(w, http.StatusCreated, v)
}

// GetMyVehicles возвращает все автомобили текущего пользователя
// GET /api/v1/vehicles/me
func (h *VehicleHandler) GetMyVehicles(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	vehicles, err := h.vehicleService.GetVehiclesByOwner(r.Context(), claims.UserID)
	if err != nil {
		respondDomainError(w, h.logger, err, "get vehicles")
		return
	}

	respondData(w, http.StatusOK, vehicles)
}

// GetVehicle возвращает автомобиль по ID
// GET /api/v1/vehicles/{id}
func (h *VehicleHandler) GetVehicle(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	vehicleID, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid vehicle ID")
		return
	}

	v, err := h.vehicleService.GetVehicleByID(r.Context(), vehicleID)
	if err != nil {
		respondDomainError(w, h.logger, err, "get vehicle")
		return
	}

	if v.OwnerID != claims.UserID && !claims.Can(domain.CapabilityViewVehicles) {
		respondError(w, http.StatusForbidden, "Access denied")
		return
	}

	respondData(w, http.StatusOK, v)
}

// GetVehicleByPlate ищет автомобиль по номеру
// GET /api/v1/vehicles/plate/{plate}
func (h *VehicleHandler) GetVehicleByPlate(w http.ResponseWriter, r *http.Request) {
	v, err := h.vehicleService.GetVehicleByLicensePlate(r.Context(), chi.URLParam(r, "plate"))
	if err != nil {
		respondDomainError(w, h.logger, err, "get vehicle")
		return
	}

	respondData(w, http.StatusOK, v)
}
