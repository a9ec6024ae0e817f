package cached

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/frontandrew/platescan/internal/domain"
	"github.com/frontandrew/platescan/internal/repository"
)

const (
	vehiclePlatePrefix = "vehicle:plate:"
	vehicleCacheTTL    = 5 * time.Minute

	// notFoundMarker кэширует отсутствие автомобиля, чтобы нераспознанные номера не ходили в БД каждый раз
	notFoundMarker = "-"
)

// VehicleRepository добавляет кэширование поиска по номеру к vehicle repository
type VehicleRepository struct {
	repository.VehicleRepository
	cache KV
	ttl   time.Duration
}

var _ repository.VehicleRepository = (*VehicleRepository)(nil)

// NewVehicleRepository создает кэшируемый vehicle repository
func NewVehicleRepository(repo repository.VehicleRepository, cache KV) *VehicleRepository {
	return &VehicleRepository{VehicleRepository: repo, cache: cache, ttl: vehicleCacheTTL}
}

// GetByLicensePlate ищет автомобиль сначала в кэше, затем в БД
func (r *VehicleRepository) GetByLicensePlate(ctx context.Context, licensePlate string) (*domain.Vehicle, error) {
	cacheKey := vehiclePlatePrefix + domain.NormalizeLicensePlate(licensePlate)

	cached, err := r.cache.Get(ctx, cacheKey)
	if err == nil {
		if string(cached) == notFoundMarker {
			return nil, domain.ErrVehicleNotFound
		}
		var vehicle domain.Vehicle
		if json.Unmarshal(cached, &vehicle) == nil {
			return &vehicle, nil
		}
	}
	// Ошибка Redis не критична, идем в БД

	vehicle, err := r.VehicleRepository.GetByLicensePlate(ctx, licensePlate)
	if err != nil {
		if errors.Is(err, domain.ErrVehicleNotFound) {
			_ = r.cache.Set(ctx, cacheKey, []byte(notFoundMarker), r.ttl)
		}
		return nil, err
	}

	if data, err := json.Marshal(vehicle); err == nil {
		_ = r.cache.Set(ctx, cacheKey, data, r.ttl)
	}

	return vehicle, nil
}

// Create добавляет автомобиль и инвалидирует кэш для номера
func (r *VehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	if err := r.VehicleRepository.Create(ctx, vehicle); err != nil {
		return err
	}

	_ = r.cache.Del(ctx, vehiclePlatePrefix+vehicle.LicensePlate)
	return nil
}
