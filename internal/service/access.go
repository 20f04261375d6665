package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/kioskcare/helpdesk/internal/domain"
)

// roleRanks orders roles for permission checks. Unknown roles rank zero and
// never satisfy any requirement.
var roleRanks = map[string]int{
	domain.RoleAdmin:  3,
	domain.RoleMember: 2,
	domain.RoleViewer: 1,
}

// HasPermission reports whether the current role satisfies the required one.
func HasPermission(currentRole, requiredRole string) bool {
	return roleRanks[currentRole] >= roleRanks[requiredRole]
}

// AccessService resolves a caller's membership in a workspace and enforces
// minimum-role requirements. It is the single enforcement point every
// kiosk/ticket operation routes through.
type AccessService struct {
	workspaceRepo WorkspaceStore
}

// NewAccessService creates a new access service
func NewAccessService(workspaceRepo WorkspaceStore) *AccessService {
	return &AccessService{workspaceRepo: workspaceRepo}
}

// Resolve looks up the workspace referenced by ref and the caller's
// membership in it. The reference may be the primary key or the
// tenant-facing external id: the primary key is tried first and the
// external id lookup is a compatibility fallback for stored references
// that predate identifier unification.
func (s *AccessService) Resolve(ctx context.Context, ref string, userID uuid.UUID) (*domain.WorkspaceAccess, error) {
	var workspace *domain.Workspace

	if id, err := uuid.Parse(ref); err == nil {
		ws, err := s.workspaceRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		workspace = ws
	}

	if workspace == nil {
		ws, err := s.workspaceRepo.GetByExternalID(ctx, ref)
		if err != nil {
			return nil, err
		}
		workspace = ws
	}

	if workspace == nil {
		return nil, domain.ErrWorkspaceNotFound
	}

	member, err := s.workspaceRepo.GetMember(ctx, workspace.ID, userID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, domain.ErrAccessDenied
	}

	// A membership row without a recognized role is a data-integrity
	// failure, never a default.
	if _, ok := roleRanks[member.Role]; !ok {
		return nil, domain.ErrInvalidRole
	}

	return &domain.WorkspaceAccess{
		Workspace: workspace,
		Role:      member.Role,
		Member:    member,
	}, nil
}

// Require resolves access and asserts the caller holds at least the required
// role. Resolver errors propagate unchanged; a role below the requirement
// fails with a PermissionError carrying both roles.
func (s *AccessService) Require(ctx context.Context, ref string, userID uuid.UUID, requiredRole string) (*domain.WorkspaceAccess, error) {
	access, err := s.Resolve(ctx, ref, userID)
	if err != nil {
		return nil, err
	}

	if !HasPermission(access.Role, requiredRole) {
		return nil, &domain.PermissionError{Required: requiredRole, Actual: access.Role}
	}

	return access, nil
}
