package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/kioskcare/helpdesk/internal/domain"
)

// AttachmentRepository handles attachment metadata access
type AttachmentRepository struct {
	db *DB
}

// NewAttachmentRepository creates a new attachment repository
func NewAttachmentRepository(db *DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

const attachmentColumns = `id, ticket_id, workspace_id, file_name, content_type, size, storage_key, uploaded_by, created_at`

func scanAttachment(row pgx.Row) (*domain.Attachment, error) {
	var a domain.Attachment
	err := row.Scan(
		&a.ID,
		&a.TicketID,
		&a.WorkspaceID,
		&a.FileName,
		&a.ContentType,
		&a.Size,
		&a.StorageKey,
		&a.UploadedBy,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create persists attachment metadata
func (r *AttachmentRepository) Create(ctx context.Context, attachment *domain.Attachment) error {
	query := `
		INSERT INTO ticket_attachments (id, ticket_id, workspace_id, file_name, content_type, size, storage_key, uploaded_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		attachment.ID,
		attachment.TicketID,
		attachment.WorkspaceID,
		attachment.FileName,
		attachment.ContentType,
		attachment.Size,
		attachment.StorageKey,
		attachment.UploadedBy,
		attachment.CreatedAt,
	)
	if err != nil {
		return &domain.StorageError{Op: "create attachment", Err: err}
	}

	return nil
}

// GetByID retrieves attachment metadata, returning nil when not found
func (r *AttachmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Attachment, error) {
	query := `SELECT ` + attachmentColumns + ` FROM ticket_attachments WHERE id = $1`

	attachment, err := scanAttachment(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, &domain.StorageError{Op: "get attachment", Err: err}
	}

	return attachment, nil
}

// ListByTicket retrieves a ticket's attachments in upload order
func (r *AttachmentRepository) ListByTicket(ctx context.Context, ticketID uuid.UUID) ([]domain.Attachment, error) {
	query := `SELECT ` + attachmentColumns + ` FROM ticket_attachments WHERE ticket_id = $1 ORDER BY created_at`

	rows, err := r.db.Pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, &domain.StorageError{Op: "list attachments", Err: err}
	}
	defer rows.Close()

	var attachments []domain.Attachment
	for rows.Next() {
		attachment, err := scanAttachment(rows)
		if err != nil {
			return nil, &domain.StorageError{Op: "scan attachment", Err: err}
		}
		attachments = append(attachments, *attachment)
	}

	return attachments, rows.Err()
}
