package repository

import (
	"context"
	"time"

	"github.com/frontandrew/platescan/internal/domain"
	"github.com/google/uuid"
)

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	// Create создает нового пользователя
	Create(ctx context.Context, user *domain.User) error

	// GetByID возвращает пользователя по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail возвращает пользователя по email
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// UpdateLastLogin обновляет время последнего входа
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
}

// VehicleRepository определяет методы для работы с автомобилями
type VehicleRepository interface {
	// Create создает новый автомобиль
	Create(ctx context.Context, vehicle *domain.Vehicle) error

	// GetByID возвращает автомобиль по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error)

	// GetByLicensePlate возвращает автомобиль по нормализованному номеру
	GetByLicensePlate(ctx context.Context, licensePlate string) (*domain.Vehicle, error)

	// GetByOwnerID возвращает все автомобили пользователя
	GetByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*domain.Vehicle, error)
}

// ScanRepository определяет методы для работы с историей распознаваний
type ScanRepository interface {
	// Create сохраняет запись распознавания
	Create(ctx context.Context, scan *domain.Scan) error

	// GetByID возвращает запись по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Scan, error)

	// GetByUserID возвращает записи пользователя, новые первыми
	GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Scan, error)

	// List возвращает все записи, новые первыми
	List(ctx context.Context, limit, offset int) ([]*domain.Scan, error)
}

// CachedRecognition - результат распознавания изображения, сохраненный в кэше
type CachedRecognition struct {
	Engine  string                `json:"engine"`
	RawText string                `json:"raw_text"`
	Plates  []domain.LicensePlate `json:"plates"`
}

// ScanCache кэширует результат распознавания по хешу изображения
type ScanCache interface {
	// Get возвращает результат и признак попадания в кэш
	Get(ctx context.Context, key string) (*CachedRecognition, bool, error)

	// Set сохраняет результат на ttl
	Set(ctx context.Context, key string, entry *CachedRecognition, ttl time.Duration) error
}
