package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kioskcare/helpdesk/internal/domain"
)

// WorkspaceService handles workspace and membership operations
type WorkspaceService struct {
	workspaceRepo WorkspaceStore
	userRepo      UserStore
	access        *AccessService
}

// NewWorkspaceService creates a new workspace service
func NewWorkspaceService(workspaceRepo WorkspaceStore, userRepo UserStore, access *AccessService) *WorkspaceService {
	return &WorkspaceService{
		workspaceRepo: workspaceRepo,
		userRepo:      userRepo,
		access:        access,
	}
}

// Create creates a new workspace and adds the creator as admin. The
// external id is set to the primary key's string form so new workspaces
// never need the fallback lookup.
func (s *WorkspaceService) Create(ctx context.Context, userID uuid.UUID, input domain.WorkspaceCreate) (*domain.Workspace, error) {
	now := time.Now()
	id := uuid.New()
	workspace := &domain.Workspace{
		ID:          id,
		ExternalID:  id.String(),
		Name:        input.Name,
		Description: input.Description,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.workspaceRepo.Create(ctx, workspace); err != nil {
		return nil, err
	}

	member := &domain.WorkspaceMember{
		WorkspaceID: workspace.ID,
		UserID:      userID,
		Role:        domain.RoleAdmin,
		JoinedAt:    now,
	}

	if err := s.workspaceRepo.AddMember(ctx, member); err != nil {
		return nil, err
	}

	return workspace, nil
}

// Get retrieves a workspace with its caller's role
func (s *WorkspaceService) Get(ctx context.Context, ref string, userID uuid.UUID) (*domain.WorkspaceAccess, error) {
	return s.access.Require(ctx, ref, userID, domain.RoleViewer)
}

// ListByUser retrieves all workspaces for a user
func (s *WorkspaceService) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Workspace, error) {
	return s.workspaceRepo.ListByUserID(ctx, userID)
}

// Update updates a workspace (admin only)
func (s *WorkspaceService) Update(ctx context.Context, ref string, userID uuid.UUID, input domain.WorkspaceUpdate) (*domain.Workspace, error) {
	access, err := s.access.Require(ctx, ref, userID, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}

	if err := s.workspaceRepo.Update(ctx, access.Workspace.ID, &input); err != nil {
		return nil, err
	}

	return s.workspaceRepo.GetByID(ctx, access.Workspace.ID)
}

// Delete deletes a workspace (admin only)
func (s *WorkspaceService) Delete(ctx context.Context, ref string, userID uuid.UUID) error {
	access, err := s.access.Require(ctx, ref, userID, domain.RoleAdmin)
	if err != nil {
		return err
	}

	return s.workspaceRepo.Delete(ctx, access.Workspace.ID)
}

// ListMembers retrieves a workspace's memberships
func (s *WorkspaceService) ListMembers(ctx context.Context, ref string, userID uuid.UUID) ([]domain.WorkspaceMember, error) {
	access, err := s.access.Require(ctx, ref, userID, domain.RoleViewer)
	if err != nil {
		return nil, err
	}

	return s.workspaceRepo.ListMembers(ctx, access.Workspace.ID)
}

// AddMember adds a member to a workspace (admin only)
func (s *WorkspaceService) AddMember(ctx context.Context, ref string, requesterID uuid.UUID, input domain.MemberAdd) (*domain.WorkspaceMember, error) {
	access, err := s.access.Require(ctx, ref, requesterID, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	member := &domain.WorkspaceMember{
		WorkspaceID: access.Workspace.ID,
		UserID:      input.UserID,
		Role:        input.Role,
		JoinedAt:    time.Now(),
	}

	if err := s.workspaceRepo.AddMember(ctx, member); err != nil {
		return nil, err
	}

	return member, nil
}

// UpdateMemberRole changes an existing member's role (admin only). Demoting
// the last admin is refused.
func (s *WorkspaceService) UpdateMemberRole(ctx context.Context, ref string, requesterID, targetID uuid.UUID, input domain.MemberRoleUpdate) (*domain.WorkspaceMember, error) {
	access, err := s.access.Require(ctx, ref, requesterID, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}

	target, err := s.workspaceRepo.GetMember(ctx, access.Workspace.ID, targetID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, domain.ErrUserNotFound
	}

	if target.Role == domain.RoleAdmin && input.Role != domain.RoleAdmin {
		if err := s.ensureNotLastAdmin(ctx, access.Workspace.ID); err != nil {
			return nil, err
		}
	}

	target.Role = input.Role
	if err := s.workspaceRepo.AddMember(ctx, target); err != nil {
		return nil, err
	}

	return target, nil
}

// RemoveMember removes a member from a workspace (admin only). Removing the
// last admin is refused.
func (s *WorkspaceService) RemoveMember(ctx context.Context, ref string, requesterID, targetID uuid.UUID) error {
	access, err := s.access.Require(ctx, ref, requesterID, domain.RoleAdmin)
	if err != nil {
		return err
	}

	target, err := s.workspaceRepo.GetMember(ctx, access.Workspace.ID, targetID)
	if err != nil {
		return err
	}
	if target == nil {
		return domain.ErrUserNotFound
	}

	if target.Role == domain.RoleAdmin {
		if err := s.ensureNotLastAdmin(ctx, access.Workspace.ID); err != nil {
			return err
		}
	}

	return s.workspaceRepo.RemoveMember(ctx, access.Workspace.ID, targetID)
}

func (s *WorkspaceService) ensureNotLastAdmin(ctx context.Context, workspaceID uuid.UUID) error {
	admins, err := s.workspaceRepo.CountAdmins(ctx, workspaceID)
	if err != nil {
		return err
	}
	if admins <= 1 {
		return domain.ErrLastAdmin
	}
	return nil
}
