package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kioskcare/helpdesk/internal/domain"
)

// KioskService handles kiosk operations. Every operation passes the access
// guard before touching the store; a kiosk fetched under the wrong
// workspace is treated as not found.
type KioskService struct {
	kioskRepo KioskStore
	access    *AccessService
}

// NewKioskService creates a new kiosk service
func NewKioskService(kioskRepo KioskStore, access *AccessService) *KioskService {
	return &KioskService{kioskRepo: kioskRepo, access: access}
}

// Create creates a kiosk (member or higher)
func (s *KioskService) Create(ctx context.Context, ref string, userID uuid.UUID, input domain.KioskCreate) (*domain.Kiosk, error) {
	access, err := s.access.Require(ctx, ref, userID, domain.RoleMember)
	if err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = domain.KioskActive
	}

	now := time.Now()
	kiosk := &domain.Kiosk{
		ID:          uuid.New(),
		WorkspaceID: access.Workspace.ID,
		Name:        input.Name,
		Address:     input.Address,
		Description: input.Description,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.kioskRepo.Create(ctx, kiosk); err != nil {
		return nil, err
	}

	return kiosk, nil
}

// Get retrieves a kiosk within a workspace
func (s *KioskService) Get(ctx context.Context, ref string, userID, kioskID uuid.UUID) (*domain.Kiosk, error) {
	access, err := s.access.Require(ctx, ref, userID, domain.RoleViewer)
	if err != nil {
		return nil, err
	}

	return s.getInWorkspace(ctx, access.Workspace.ID, kioskID)
}

// List retrieves all kiosks of a workspace
func (s *KioskService) List(ctx context.Context, ref string, userID uuid.UUID) ([]domain.Kiosk, error) {
	access, err := s.access.Require(ctx, ref, userID, domain.RoleViewer)
	if err != nil {
		return nil, err
	}

	return s.kioskRepo.ListByWorkspace(ctx, access.Workspace.ID)
}

// Update updates a kiosk (member or higher)
func (s *KioskService) Update(ctx context.Context, ref string, userID, kioskID uuid.UUID, input domain.KioskUpdate) (*domain.Kiosk, error) {
	access, err := s.access.Require(ctx, ref, userID, domain.RoleMember)
	if err != nil {
		return nil, err
	}

	if _, err := s.getInWorkspace(ctx, access.Workspace.ID, kioskID); err != nil {
		return nil, err
	}

	if err := s.kioskRepo.Update(ctx, kioskID, &input); err != nil {
		return nil, err
	}

	return s.kioskRepo.GetByID(ctx, kioskID)
}

// Delete deletes a kiosk (admin only)
func (s *KioskService) Delete(ctx context.Context, ref string, userID, kioskID uuid.UUID) error {
	access, err := s.access.Require(ctx, ref, userID, domain.RoleAdmin)
	if err != nil {
		return err
	}

	if _, err := s.getInWorkspace(ctx, access.Workspace.ID, kioskID); err != nil {
		return err
	}

	return s.kioskRepo.Delete(ctx, kioskID)
}

// getInWorkspace fetches a kiosk and hides records belonging to another
// workspace behind not-found.
func (s *KioskService) getInWorkspace(ctx context.Context, workspaceID, kioskID uuid.UUID) (*domain.Kiosk, error) {
	kiosk, err := s.kioskRepo.GetByID(ctx, kioskID)
	if err != nil {
		return nil, err
	}
	if kiosk == nil || kiosk.WorkspaceID != workspaceID {
		return nil, domain.ErrKioskNotFound
	}
	return kiosk, nil
}
