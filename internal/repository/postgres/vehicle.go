package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/frontandrew/platescan/internal/domain"
	"github.com/frontandrew/platescan/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const vehicleColumns = `id, owner_id, license_plate, plate_type, vehicle_type, COALESCE(model, ''), COALESCE(color, ''), is_active, created_at, updated_at`

type vehicleRepository struct {
	db DBTX
}

func NewVehicleRepository(db DBTX) repository.VehicleRepository {
	return &vehicleRepository{db: db}
}

func (r *vehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	query := `
		INSERT INTO vehicles (id, owner_id, license_plate, plate_type, vehicle_type, model, color, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8, $9, $10)
	`

	// Номер нормализуется и получает формат в Validate
	if err := vehicle.Validate(); err != nil {
		return err
	}

	now := time.Now()
	vehicle.ID = uuid.New()
	vehicle.CreatedAt = now
	vehicle.UpdatedAt = now

	_, err := r.db.Exec(ctx, query,
		vehicle.ID,
		vehicle.OwnerID,
		vehicle.LicensePlate,
		vehicle.PlateType,
		vehicle.VehicleType,
		vehicle.Model,
		vehicle.Color,
		vehicle.IsActive,
		vehicle.CreatedAt,
		vehicle.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrVehicleAlreadyExists
		}
		return fmt.Errorf("insert vehicle: %w", err)
	}

	return nil
}

func (r *vehicleRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *vehicleRepository) GetByLicensePlate(ctx context.Context, licensePlate string) (*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE license_plate = $1 AND is_active`
	return r.getOne(ctx, query, domain.NormalizeLicensePlate(licensePlate))
}

func (r *vehicleRepository) GetByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE owner_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("select vehicles: %w", err)
	}
	defer rows.Close()

	vehicles := make([]*domain.Vehicle, 0)
	for rows.Next() {
		vehicle, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, vehicle)
	}

	return vehicles, rows.Err()
}

func (r *vehicleRepository) getOne(ctx context.Context, query string, arg any) (*domain.Vehicle, error) {
	vehicle, err := scanVehicle(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVehicleNotFound
		}
		return nil, err
	}
	return vehicle, nil
}

func scanVehicle(row pgx.Row) (*domain.Vehicle, error) {
	vehicle := &domain.Vehicle{}
	err := row.Scan(
		&vehicle.ID,
		&vehicle.OwnerID,
		&vehicle.LicensePlate,
		&vehicle.PlateType,
		&vehicle.VehicleType,
		&vehicle.Model,
		&vehicle.Color,
		&vehicle.IsActive,
		&vehicle.CreatedAt,
		&vehicle.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return vehicle, nil
}
