package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Beginner открывает транзакцию (реализуется *pgxpool.Pool)
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,

	`CREATE TABLE IF NOT EXISTS users (
		id             UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		email          TEXT NOT NULL,
		password_hash  TEXT NOT NULL,
		full_name      TEXT NOT NULL,
		phone          TEXT,
		role           TEXT NOT NULL DEFAULT 'user',
		is_active      BOOLEAN NOT NULL DEFAULT TRUE,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
		last_login_at  TIMESTAMPTZ
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_users_email ON users(lower(email));`,

	// Номер хранится нормализованным (7 символов без дефиса)
	`CREATE TABLE IF NOT EXISTS vehicles (
		id             UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		owner_id       UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		license_plate  VARCHAR(7) NOT NULL,
		plate_type     TEXT NOT NULL,
		vehicle_type   TEXT NOT NULL DEFAULT 'car',
		model          TEXT,
		color          TEXT,
		is_active      BOOLEAN NOT NULL DEFAULT TRUE,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_vehicles_license_plate ON vehicles(license_plate);`,
	`CREATE INDEX IF NOT EXISTS idx_vehicles_owner_id ON vehicles(owner_id);`,

	`CREATE TABLE IF NOT EXISTS plate_scans (
		id                  UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id             UUID REFERENCES users(id) ON DELETE SET NULL,
		source              TEXT NOT NULL,
		engine              TEXT NOT NULL,
		raw_text            TEXT NOT NULL DEFAULT '',
		plates              JSONB NOT NULL DEFAULT '[]'::jsonb,
		image_url           TEXT,
		ocr_failed          BOOLEAN NOT NULL DEFAULT FALSE,
		correction_applied  BOOLEAN NOT NULL DEFAULT FALSE,
		created_at          TIMESTAMPTZ NOT NULL DEFAULT now()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_plate_scans_user_id ON plate_scans(user_id);`,
	`CREATE INDEX IF NOT EXISTS idx_plate_scans_created_at ON plate_scans(created_at DESC);`,
	`CREATE INDEX IF NOT EXISTS idx_plate_scans_plates ON plate_scans USING GIN (plates);`,
}

// Migrate применяет схему по порядку в одной транзакции
func Migrate(ctx context.Context, db Beginner) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for i, stmt := range migrationStatements {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration statement %d failed: %w", i, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}
	return nil
}
