package vehicle

import (
	"context"
	"errors"
	"fmt"

	"github.com/frontandrew/platescan/internal/domain"
	"github.com/frontandrew/platescan/internal/pkg/logger"
	"github.com/frontandrew/platescan/internal/repository"
	"github.com/google/uuid"
)

// CreateVehicleRequest - запрос на регистрацию автомобиля
type CreateVehicleRequest struct {
	OwnerID      uuid.UUID          `json:"owner_id"`
	LicensePlate string             `json:"license_plate"`
	VehicleType  domain.VehicleType `json:"vehicle_type"`
	Model        string             `json:"model,omitempty"`
	Color        string             `json:"color,omitempty"`
}

// Service содержит бизнес-логику работы с автомобилями
type Service struct {
	vehicleRepo repository.VehicleRepository
	userRepo    repository.UserRepository
	logger      logger.Logger
}

// NewService создает новый экземпляр VehicleService
func NewService(
	vehicleRepo repository.VehicleRepository,
	userRepo repository.UserRepository,
	logger logger.Logger,
) *Service {
	return &Service{
		vehicleRepo: vehicleRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// CreateVehicle регистрирует автомобиль. Номер должен быть в одном из двух допустимых форматов.
func (s *Service) CreateVehicle(ctx context.Context, req *CreateVehicleRequest) (*domain.Vehicle, error) {
	s.logger.Info("Creating new vehicle", map[string]interface{}{
		"owner_id":      req.OwnerID,
		"license_plate": req.LicensePlate,
	})

	vehicle := &domain.Vehicle{
		OwnerID:      req.OwnerID,
		LicensePlate: req.LicensePlate,
		VehicleType:  req.VehicleType,
		Model:        req.Model,
		Color:        req.Color,
		IsActive:     true,
	}

	// Validate нормализует номер и определяет его формат
	if err := vehicle.Validate(); err != nil {
		s.logger.Warn("Vehicle rejected", map[string]interface{}{
			"license_plate": req.LicensePlate,
			"error":         err,
		})
		return nil, err
	}

	owner, err := s.userRepo.GetByID(ctx, req.OwnerID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get owner: %w", err)
	}

	if !owner.IsActive {
		return nil, domain.ErrUserInactive
	}

	existing, err := s.vehicleRepo.GetByLicensePlate(ctx, vehicle.LicensePlate)
	if err != nil && !errors.Is(err, domain.ErrVehicleNotFound) {
		return nil, fmt.Errorf("failed to check existing vehicle: %w", err)
	}
	if existing != nil {
		s.logger.Warn("Vehicle already exists", map[string]interface{}{
			"license_plate": vehicle.LicensePlate,
		})
		return nil, domain.ErrVehicleAlreadyExists
	}

	if err := s.vehicleRepo.Create(ctx, vehicle); err != nil {
		if errors.Is(err, domain.ErrVehicleAlreadyExists) {
			return nil, err
		}
		s.logger.Error("Failed to create vehicle", map[string]interface{}{
			"error": err,
		})
		return nil, fmt.Errorf("failed to create vehicle: %w", err)
	}

	s.logger.Info("Vehicle created successfully", map[string]interface{}{
		"vehicle_id": vehicle.ID,
		"plate_type": vehicle.PlateType,
	})

	return vehicle, nil
}

// GetVehicleByID возвращает автомобиль по ID
func (s *Service) GetVehicleByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error) {
	return s.vehicleRepo.GetByID(ctx, id)
}

// GetVehiclesByOwner возвращает все автомобили пользователя
func (s *Service) GetVehiclesByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Vehicle, error) {
	return s.vehicleRepo.GetByOwnerID(ctx, ownerID)
}

// GetVehicleByLicensePlate возвращает автомобиль по номеру
func (s *Service) GetVehicleByLicensePlate(ctx context.Context, licensePlate string) (*domain.Vehicle, error) {
	plate := domain.ValidatePlate(licensePlate)
	if !plate.IsValid {
		return nil, domain.ErrInvalidLicensePlate
	}
	return s.vehicleRepo.GetByLicensePlate(ctx, plate.Text)
}
