package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/kioskcare/helpdesk/internal/domain"
)

// CommentRepository handles ticket comment data access
type CommentRepository struct {
	db *DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create creates a new comment
func (r *CommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	query := `
		INSERT INTO ticket_comments (id, ticket_id, author_id, body, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		comment.ID,
		comment.TicketID,
		comment.AuthorID,
		comment.Body,
		comment.CreatedAt,
	)
	if err != nil {
		return &domain.StorageError{Op: "create comment", Err: err}
	}

	return nil
}

// ListByTicket retrieves a ticket's comments in creation order with author
// display names joined in
func (r *CommentRepository) ListByTicket(ctx context.Context, ticketID uuid.UUID) ([]domain.Comment, error) {
	query := `
		SELECT c.id, c.ticket_id, c.author_id, c.body, c.created_at, u.username
		FROM ticket_comments c
		LEFT JOIN users u ON u.id = c.author_id
		WHERE c.ticket_id = $1
		ORDER BY c.created_at
	`

	rows, err := r.db.Pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, &domain.StorageError{Op: "list comments", Err: err}
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.TicketID, &c.AuthorID, &c.Body, &c.CreatedAt, &c.AuthorName); err != nil {
			return nil, &domain.StorageError{Op: "scan comment", Err: err}
		}
		comments = append(comments, c)
	}

	return comments, rows.Err()
}
