package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/kioskcare/helpdesk/internal/domain"
)

// Store interfaces consumed by the services. The postgres, redis, and mongo
// repositories satisfy them; tests substitute mocks.

type UserStore interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error)
}

type WorkspaceStore interface {
	Create(ctx context.Context, workspace *domain.Workspace) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Workspace, error)
	GetByExternalID(ctx context.Context, externalID string) (*domain.Workspace, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Workspace, error)
	Update(ctx context.Context, id uuid.UUID, update *domain.WorkspaceUpdate) error
	Delete(ctx context.Context, id uuid.UUID) error
	AddMember(ctx context.Context, member *domain.WorkspaceMember) error
	GetMember(ctx context.Context, workspaceID, userID uuid.UUID) (*domain.WorkspaceMember, error)
	ListMembers(ctx context.Context, workspaceID uuid.UUID) ([]domain.WorkspaceMember, error)
	RemoveMember(ctx context.Context, workspaceID, userID uuid.UUID) error
	CountAdmins(ctx context.Context, workspaceID uuid.UUID) (int, error)
}

type KioskStore interface {
	Create(ctx context.Context, kiosk *domain.Kiosk) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Kiosk, error)
	ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]domain.Kiosk, error)
	Update(ctx context.Context, id uuid.UUID, update *domain.KioskUpdate) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type TicketStore interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Ticket, error)
	ListByWorkspace(ctx context.Context, workspaceID uuid.UUID, filter domain.TicketFilter) ([]domain.Ticket, error)
	Update(ctx context.Context, id uuid.UUID, update *domain.TicketUpdate) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByStatus(ctx context.Context, workspaceID uuid.UUID) (map[string]int, error)
}

type CommentStore interface {
	Create(ctx context.Context, comment *domain.Comment) error
	ListByTicket(ctx context.Context, ticketID uuid.UUID) ([]domain.Comment, error)
}

type AttachmentStore interface {
	Create(ctx context.Context, attachment *domain.Attachment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Attachment, error)
	ListByTicket(ctx context.Context, ticketID uuid.UUID) ([]domain.Attachment, error)
}

type ActivityStore interface {
	Record(ctx context.Context, entry *domain.ActivityEntry) error
	ListByTicket(ctx context.Context, ticketID uuid.UUID, limit int64) ([]domain.ActivityEntry, error)
}

type StatsCache interface {
	Get(ctx context.Context, workspaceID uuid.UUID) (*domain.TicketStats, error)
	Set(ctx context.Context, workspaceID uuid.UUID, stats *domain.TicketStats) error
	Invalidate(ctx context.Context, workspaceID uuid.UUID) error
}
