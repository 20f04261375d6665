package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/kioskcare/helpdesk/internal/domain"
)

// WorkspaceRepository handles workspace and membership data access
type WorkspaceRepository struct {
	db *DB
}

// NewWorkspaceRepository creates a new workspace repository
func NewWorkspaceRepository(db *DB) *WorkspaceRepository {
	return &WorkspaceRepository{db: db}
}

// Create creates a new workspace
func (r *WorkspaceRepository) Create(ctx context.Context, workspace *domain.Workspace) error {
	query := `
		INSERT INTO workspaces (id, external_id, name, description, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		workspace.ID,
		workspace.ExternalID,
		workspace.Name,
		workspace.Description,
		workspace.CreatedBy,
		workspace.CreatedAt,
		workspace.UpdatedAt,
	)
	if err != nil {
		return &domain.StorageError{Op: "create workspace", Err: err}
	}

	return nil
}

const workspaceColumns = `id, external_id, name, description, created_by, created_at, updated_at`

func scanWorkspace(row pgx.Row) (*domain.Workspace, error) {
	var ws domain.Workspace
	err := row.Scan(
		&ws.ID,
		&ws.ExternalID,
		&ws.Name,
		&ws.Description,
		&ws.CreatedBy,
		&ws.CreatedAt,
		&ws.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ws, nil
}

// GetByID retrieves a workspace by primary key, returning nil when not found
func (r *WorkspaceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Workspace, error) {
	query := `SELECT ` + workspaceColumns + ` FROM workspaces WHERE id = $1`

	ws, err := scanWorkspace(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, &domain.StorageError{Op: "get workspace", Err: err}
	}

	return ws, nil
}

// GetByExternalID retrieves a workspace by its tenant-facing identifier,
// returning nil when not found
func (r *WorkspaceRepository) GetByExternalID(ctx context.Context, externalID string) (*domain.Workspace, error) {
	query := `SELECT ` + workspaceColumns + ` FROM workspaces WHERE external_id = $1`

	ws, err := scanWorkspace(r.db.Pool.QueryRow(ctx, query, externalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, &domain.StorageError{Op: "get workspace by external id", Err: err}
	}

	return ws, nil
}

// ListByUserID retrieves all workspaces a user belongs to
func (r *WorkspaceRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Workspace, error) {
	query := `
		SELECT w.id, w.external_id, w.name, w.description, w.created_by, w.created_at, w.updated_at
		FROM workspaces w
		INNER JOIN workspace_members wm ON w.id = wm.workspace_id
		WHERE wm.user_id = $1
		ORDER BY w.created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, &domain.StorageError{Op: "list workspaces", Err: err}
	}
	defer rows.Close()

	var workspaces []domain.Workspace
	for rows.Next() {
		ws, err := scanWorkspace(rows)
		if err != nil {
			return nil, &domain.StorageError{Op: "scan workspace", Err: err}
		}
		workspaces = append(workspaces, *ws)
	}

	return workspaces, rows.Err()
}

// Update updates a workspace
func (r *WorkspaceRepository) Update(ctx context.Context, id uuid.UUID, update *domain.WorkspaceUpdate) error {
	query := `
		UPDATE workspaces
		SET name = COALESCE($2, name),
		    description = COALESCE($3, description),
		    updated_at = NOW()
		WHERE id = $1
	`

	_, err := r.db.Pool.Exec(ctx, query, id, update.Name, update.Description)
	if err != nil {
		return &domain.StorageError{Op: "update workspace", Err: err}
	}

	return nil
}

// Delete deletes a workspace
func (r *WorkspaceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM workspaces WHERE id = $1`

	if _, err := r.db.Pool.Exec(ctx, query, id); err != nil {
		return &domain.StorageError{Op: "delete workspace", Err: err}
	}

	return nil
}

// AddMember adds or updates a workspace membership
func (r *WorkspaceRepository) AddMember(ctx context.Context, member *domain.WorkspaceMember) error {
	query := `
		INSERT INTO workspace_members (workspace_id, user_id, role, joined_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (workspace_id, user_id) DO UPDATE SET role = $3
	`

	_, err := r.db.Pool.Exec(ctx, query,
		member.WorkspaceID,
		member.UserID,
		member.Role,
		member.JoinedAt,
	)
	if err != nil {
		return &domain.StorageError{Op: "add member", Err: err}
	}

	return nil
}

// GetMember retrieves a workspace membership, returning nil when not found.
// The role column is nullable; a null role surfaces as an empty string so
// the access resolver can treat it as a data-integrity failure.
func (r *WorkspaceRepository) GetMember(ctx context.Context, workspaceID, userID uuid.UUID) (*domain.WorkspaceMember, error) {
	query := `
		SELECT workspace_id, user_id, COALESCE(role, ''), joined_at
		FROM workspace_members
		WHERE workspace_id = $1 AND user_id = $2
	`

	var member domain.WorkspaceMember
	err := r.db.Pool.QueryRow(ctx, query, workspaceID, userID).Scan(
		&member.WorkspaceID,
		&member.UserID,
		&member.Role,
		&member.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, &domain.StorageError{Op: "get member", Err: err}
	}

	return &member, nil
}

// ListMembers retrieves all memberships of a workspace with user details
func (r *WorkspaceRepository) ListMembers(ctx context.Context, workspaceID uuid.UUID) ([]domain.WorkspaceMember, error) {
	query := `
		SELECT wm.workspace_id, wm.user_id, COALESCE(wm.role, ''), wm.joined_at, u.username, u.email
		FROM workspace_members wm
		INNER JOIN users u ON u.id = wm.user_id
		WHERE wm.workspace_id = $1
		ORDER BY wm.joined_at
	`

	rows, err := r.db.Pool.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, &domain.StorageError{Op: "list members", Err: err}
	}
	defer rows.Close()

	var members []domain.WorkspaceMember
	for rows.Next() {
		var m domain.WorkspaceMember
		if err := rows.Scan(
			&m.WorkspaceID,
			&m.UserID,
			&m.Role,
			&m.JoinedAt,
			&m.Username,
			&m.Email,
		); err != nil {
			return nil, &domain.StorageError{Op: "scan member", Err: err}
		}
		members = append(members, m)
	}

	return members, rows.Err()
}

// RemoveMember removes a member from a workspace
func (r *WorkspaceRepository) RemoveMember(ctx context.Context, workspaceID, userID uuid.UUID) error {
	query := `DELETE FROM workspace_members WHERE workspace_id = $1 AND user_id = $2`

	if _, err := r.db.Pool.Exec(ctx, query, workspaceID, userID); err != nil {
		return &domain.StorageError{Op: "remove member", Err: err}
	}

	return nil
}

// CountAdmins counts ADMIN memberships of a workspace
func (r *WorkspaceRepository) CountAdmins(ctx context.Context, workspaceID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM workspace_members WHERE workspace_id = $1 AND role = $2`

	var count int
	if err := r.db.Pool.QueryRow(ctx, query, workspaceID, domain.RoleAdmin).Scan(&count); err != nil {
		return 0, &domain.StorageError{Op: "count admins", Err: err}
	}

	return count, nil
}
