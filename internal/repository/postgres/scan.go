package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/frontandrew/platescan/internal/domain"
	"github.com/frontandrew/platescan/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const scanColumns = `id, user_id, source, engine, raw_text, plates, COALESCE(image_url, ''), ocr_failed, correction_applied, created_at`

// scanRepository хранит историю распознаваний; номера лежат в JSONB колонке
type scanRepository struct {
	db DBTX
}

func NewScanRepository(db DBTX) repository.ScanRepository {
	return &scanRepository{db: db}
}

func (r *scanRepository) Create(ctx context.Context, scan *domain.Scan) error {
	if err := scan.Validate(); err != nil {
		return err
	}

	plates, err := json.Marshal(scan.Plates)
	if err != nil {
		return fmt.Errorf("marshal plates: %w", err)
	}

	query := `
		INSERT INTO plate_scans (id, user_id, source, engine, raw_text, plates, image_url, ocr_failed, correction_applied, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9, $10)
	`

	scan.ID = uuid.New()
	scan.CreatedAt = time.Now()

	_, err = r.db.Exec(ctx, query,
		scan.ID,
		scan.UserID,
		scan.Source,
		scan.Engine,
		scan.RawText,
		plates,
		scan.ImageURL,
		scan.OCRFailed,
		scan.CorrectionApplied,
		scan.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert scan: %w", err)
	}

	return nil
}

func (r *scanRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Scan, error) {
	query := `SELECT ` + scanColumns + ` FROM plate_scans WHERE id = $1`

	scan, err := scanScan(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrScanNotFound
		}
		return nil, err
	}
	return scan, nil
}

func (r *scanRepository) GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Scan, error) {
	query := `SELECT ` + scanColumns + ` FROM plate_scans WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.list(ctx, query, userID, limit, offset)
}

func (r *scanRepository) List(ctx context.Context, limit, offset int) ([]*domain.Scan, error) {
	query := `SELECT ` + scanColumns + ` FROM plate_scans ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	return r.list(ctx, query, limit, offset)
}

func (r *scanRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Scan, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select scans: %w", err)
	}
	defer rows.Close()

	scans := make([]*domain.Scan, 0)
	for rows.Next() {
		scan, err := scanScan(rows)
		if err != nil {
			return nil, err
		}
		scans = append(scans, scan)
	}

	return scans, rows.Err()
}

func scanScan(row pgx.Row) (*domain.Scan, error) {
	scan := &domain.Scan{}
	var plates []byte
	err := row.Scan(
		&scan.ID,
		&scan.UserID,
		&scan.Source,
		&scan.Engine,
		&scan.RawText,
		&plates,
		&scan.ImageURL,
		&scan.OCRFailed,
		&scan.CorrectionApplied,
		&scan.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	scan.Plates = []domain.LicensePlate{}
	if len(plates) > 0 {
		if err := json.Unmarshal(plates, &scan.Plates); err != nil {
			return nil, fmt.Errorf("unmarshal plates: %w", err)
		}
	}
	return scan, nil
}
