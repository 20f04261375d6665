package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/kioskcare/helpdesk/internal/domain"
)

// TicketRepository handles ticket data access
type TicketRepository struct {
	db *DB
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(db *DB) *TicketRepository {
	return &TicketRepository{db: db}
}

const ticketColumns = `id, workspace_id, kiosk_id, title, description, status, reporter_id,
	assignee_id, reported_date, maintenance_time, created_at, updated_at`

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var t domain.Ticket
	err := row.Scan(
		&t.ID,
		&t.WorkspaceID,
		&t.KioskID,
		&t.Title,
		&t.Description,
		&t.Status,
		&t.ReporterID,
		&t.AssigneeID,
		&t.ReportedDate,
		&t.MaintenanceTime,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create creates a new ticket
func (r *TicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	query := `
		INSERT INTO tickets (id, workspace_id, kiosk_id, title, description, status, reporter_id,
			assignee_id, reported_date, maintenance_time, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		ticket.ID,
		ticket.WorkspaceID,
		ticket.KioskID,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.ReporterID,
		ticket.AssigneeID,
		ticket.ReportedDate,
		ticket.MaintenanceTime,
		ticket.CreatedAt,
		ticket.UpdatedAt,
	)
	if err != nil {
		return &domain.StorageError{Op: "create ticket", Err: err}
	}

	return nil
}

// GetByID retrieves a ticket by ID, returning nil when not found
func (r *TicketRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1`

	ticket, err := scanTicket(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, &domain.StorageError{Op: "get ticket", Err: err}
	}

	return ticket, nil
}

// ListByWorkspace retrieves tickets of a workspace. Status, assignee, and
// kiosk filters are pushed into SQL; date-range and text filters are applied
// by the caller because the effective-date precedence cannot be expressed as
// a column predicate.
func (r *TicketRepository) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID, filter domain.TicketFilter) ([]domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE workspace_id = $1`
	args := []any{workspaceID}

	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.AssigneeID != nil {
		args = append(args, *filter.AssigneeID)
		query += fmt.Sprintf(" AND assignee_id = $%d", len(args))
	}
	if filter.KioskID != nil {
		args = append(args, *filter.KioskID)
		query += fmt.Sprintf(" AND kiosk_id = $%d", len(args))
	}

	query += " ORDER BY created_at DESC"

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, &domain.StorageError{Op: "list tickets", Err: err}
	}
	defer rows.Close()

	var tickets []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, &domain.StorageError{Op: "scan ticket", Err: err}
		}
		tickets = append(tickets, *ticket)
	}

	return tickets, rows.Err()
}

// Update updates a ticket
func (r *TicketRepository) Update(ctx context.Context, id uuid.UUID, update *domain.TicketUpdate) error {
	query := `
		UPDATE tickets
		SET title = COALESCE($2, title),
		    description = COALESCE($3, description),
		    status = COALESCE($4, status),
		    assignee_id = COALESCE($5, assignee_id),
		    maintenance_time = COALESCE($6, maintenance_time),
		    updated_at = NOW()
		WHERE id = $1
	`

	_, err := r.db.Pool.Exec(ctx, query, id,
		update.Title,
		update.Description,
		update.Status,
		update.AssigneeID,
		update.MaintenanceTime,
	)
	if err != nil {
		return &domain.StorageError{Op: "update ticket", Err: err}
	}

	return nil
}

// Delete deletes a ticket
func (r *TicketRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM tickets WHERE id = $1`

	if _, err := r.db.Pool.Exec(ctx, query, id); err != nil {
		return &domain.StorageError{Op: "delete ticket", Err: err}
	}

	return nil
}

// CountByStatus counts a workspace's tickets grouped by status
func (r *TicketRepository) CountByStatus(ctx context.Context, workspaceID uuid.UUID) (map[string]int, error) {
	query := `SELECT status, COUNT(*) FROM tickets WHERE workspace_id = $1 GROUP BY status`

	rows, err := r.db.Pool.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, &domain.StorageError{Op: "count tickets", Err: err}
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, &domain.StorageError{Op: "scan ticket count", Err: err}
		}
		counts[status] = count
	}

	return counts, rows.Err()
}
