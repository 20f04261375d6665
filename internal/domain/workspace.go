package domain

import (
	"time"

	"github.com/google/uuid"
)

// Workspace represents a tenant workspace. ID is the primary key;
// ExternalID is the tenant-facing identifier carried in URLs and stored
// references. For workspaces created by this service the two match, but
// historical data may carry a different external id, so lookups try the
// primary key first and fall back to the external id.
type Workspace struct {
	ID          uuid.UUID `json:"id"`
	ExternalID  string    `json:"workspace_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedBy   uuid.UUID `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// WorkspaceCreate represents workspace creation data
type WorkspaceCreate struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"max=2000"`
}

// WorkspaceUpdate represents workspace update data
type WorkspaceUpdate struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

// WorkspaceMember represents workspace membership
type WorkspaceMember struct {
	WorkspaceID uuid.UUID `json:"workspace_id"`
	UserID      uuid.UUID `json:"user_id"`
	Role        string    `json:"role"`
	JoinedAt    time.Time `json:"joined_at"`

	// Populated when listing members, joined from the users table.
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}

// Role constants, ordered by rank: ADMIN > MEMBER > VIEWER.
const (
	RoleAdmin  = "ADMIN"
	RoleMember = "MEMBER"
	RoleViewer = "VIEWER"
)

// MemberAdd represents a request to add a member to a workspace
type MemberAdd struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
	Role   string    `json:"role" validate:"required,oneof=ADMIN MEMBER VIEWER"`
}

// MemberRoleUpdate represents a role change for an existing member
type MemberRoleUpdate struct {
	Role string `json:"role" validate:"required,oneof=ADMIN MEMBER VIEWER"`
}

// WorkspaceAccess is the result of resolving a caller's access to a
// workspace: the workspace itself, the caller's role, and the membership row.
type WorkspaceAccess struct {
	Workspace *Workspace       `json:"workspace"`
	Role      string           `json:"role"`
	Member    *WorkspaceMember `json:"member,omitempty"`
}
