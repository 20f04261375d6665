package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/kioskcare/helpdesk/internal/domain"
)

// KioskRepository handles kiosk data access
type KioskRepository struct {
	db *DB
}

// NewKioskRepository creates a new kiosk repository
func NewKioskRepository(db *DB) *KioskRepository {
	return &KioskRepository{db: db}
}

const kioskColumns = `id, workspace_id, name, address, description, status, created_at, updated_at`

func scanKiosk(row pgx.Row) (*domain.Kiosk, error) {
	var k domain.Kiosk
	err := row.Scan(
		&k.ID,
		&k.WorkspaceID,
		&k.Name,
		&k.Address,
		&k.Description,
		&k.Status,
		&k.CreatedAt,
		&k.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &k, nil
}

// Create creates a new kiosk
func (r *KioskRepository) Create(ctx context.Context, kiosk *domain.Kiosk) error {
	query := `
		INSERT INTO kiosks (id, workspace_id, name, address, description, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		kiosk.ID,
		kiosk.WorkspaceID,
		kiosk.Name,
		kiosk.Address,
		kiosk.Description,
		kiosk.Status,
		kiosk.CreatedAt,
		kiosk.UpdatedAt,
	)
	if err != nil {
		return &domain.StorageError{Op: "create kiosk", Err: err}
	}

	return nil
}

// GetByID retrieves a kiosk by ID, returning nil when not found
func (r *KioskRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Kiosk, error) {
	query := `SELECT ` + kioskColumns + ` FROM kiosks WHERE id = $1`

	kiosk, err := scanKiosk(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, &domain.StorageError{Op: "get kiosk", Err: err}
	}

	return kiosk, nil
}

// ListByWorkspace retrieves all kiosks of a workspace
func (r *KioskRepository) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]domain.Kiosk, error) {
	query := `SELECT ` + kioskColumns + ` FROM kiosks WHERE workspace_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Pool.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, &domain.StorageError{Op: "list kiosks", Err: err}
	}
	defer rows.Close()

	var kiosks []domain.Kiosk
	for rows.Next() {
		kiosk, err := scanKiosk(rows)
		if err != nil {
			return nil, &domain.StorageError{Op: "scan kiosk", Err: err}
		}
		kiosks = append(kiosks, *kiosk)
	}

	return kiosks, rows.Err()
}

// Update updates a kiosk
func (r *KioskRepository) Update(ctx context.Context, id uuid.UUID, update *domain.KioskUpdate) error {
	query := `
		UPDATE kiosks
		SET name = COALESCE($2, name),
		    address = COALESCE($3, address),
		    description = COALESCE($4, description),
		    status = COALESCE($5, status),
		    updated_at = NOW()
		WHERE id = $1
	`

	_, err := r.db.Pool.Exec(ctx, query, id, update.Name, update.Address, update.Description, update.Status)
	if err != nil {
		return &domain.StorageError{Op: "update kiosk", Err: err}
	}

	return nil
}

// Delete deletes a kiosk
func (r *KioskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM kiosks WHERE id = $1`

	if _, err := r.db.Pool.Exec(ctx, query, id); err != nil {
		return &domain.StorageError{Op: "delete kiosk", Err: err}
	}

	return nil
}
