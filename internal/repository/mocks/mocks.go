// Package mocks содержит testify моки репозиториев для тестов сервисов
package mocks

import (
	"context"
	"time"

	"github.com/frontandrew/platescan/internal/domain"
	"github.com/frontandrew/platescan/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// UserRepository - мок repository.UserRepository
type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *UserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// VehicleRepository - мок repository.VehicleRepository
type VehicleRepository struct {
	mock.Mock
}

func (m *VehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	args := m.Called(ctx, vehicle)
	return args.Error(0)
}

func (m *VehicleRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

func (m *VehicleRepository) GetByLicensePlate(ctx context.Context, licensePlate string) (*domain.Vehicle, error) {
	args := m.Called(ctx, licensePlate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

func (m *VehicleRepository) GetByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*domain.Vehicle, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Vehicle), args.Error(1)
}

// ScanRepository - мок repository.ScanRepository
type ScanRepository struct {
	mock.Mock
}

func (m *ScanRepository) Create(ctx context.Context, scan *domain.Scan) error {
	args := m.Called(ctx, scan)
	return args.Error(0)
}

func (m *ScanRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Scan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Scan), args.Error(1)
}

func (m *ScanRepository) GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Scan, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Scan), args.Error(1)
}

func (m *ScanRepository) List(ctx context.Context, limit, offset int) ([]*domain.Scan, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Scan), args.Error(1)
}

// ScanCache - мок repository.ScanCache
type ScanCache struct {
	mock.Mock
}

func (m *ScanCache) Get(ctx context.Context, key string) (*repository.CachedRecognition, bool, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*repository.CachedRecognition), args.Bool(1), args.Error(2)
}

func (m *ScanCache) Set(ctx context.Context, key string, entry *repository.CachedRecognition, ttl time.Duration) error {
	args := m.Called(ctx, key, entry, ttl)
	return args.Error(0)
}
