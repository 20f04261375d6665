package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/kioskcare/helpdesk/internal/domain"
	"github.com/kioskcare/helpdesk/internal/security"
)

// AttachmentService stores attachment blobs on disk and their metadata in
// the database, and issues time-limited sealed download tokens in place of
// signed URLs.
type AttachmentService struct {
	attachmentRepo AttachmentStore
	ticketRepo     TicketStore
	access         *AccessService
	activity       ActivityStore // optional
	sealer         *security.TokenSealer

	uploadDir   string
	baseURL     string
	downloadTTL time.Duration
}

// NewAttachmentService creates a new attachment service. activity may be nil.
func NewAttachmentService(
	attachmentRepo AttachmentStore,
	ticketRepo TicketStore,
	access *AccessService,
	activity ActivityStore,
	sealer *security.TokenSealer,
	uploadDir, baseURL string,
	downloadTTL time.Duration,
) *AttachmentService {
	os.MkdirAll(uploadDir, 0o755)
	return &AttachmentService{
		attachmentRepo: attachmentRepo,
		ticketRepo:     ticketRepo,
		access:         access,
		activity:       activity,
		sealer:         sealer,
		uploadDir:      uploadDir,
		baseURL:        baseURL,
		downloadTTL:    downloadTTL,
	}
}

// Upload stores a blob and its metadata for a ticket (member or higher)
func (s *AttachmentService) Upload(ctx context.Context, ref string, userID, ticketID uuid.UUID, fileName, contentType string, body io.Reader) (*domain.Attachment, error) {
	access, err := s.access.Require(ctx, ref, userID, domain.RoleMember)
	if err != nil {
		return nil, err
	}

	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket == nil || ticket.WorkspaceID != access.Workspace.ID {
		return nil, domain.ErrTicketNotFound
	}

	id := uuid.New()
	key := filepath.Join(access.Workspace.ID.String(), ticketID.String(), id.String()+filepath.Ext(fileName))

	path := filepath.Join(s.uploadDir, key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, &domain.StorageError{Op: "create attachment dir", Err: err}
	}

	dst, err := os.Create(path)
	if err != nil {
		return nil, &domain.StorageError{Op: "create attachment file", Err: err}
	}
	defer dst.Close()

	size, err := io.Copy(dst, body)
	if err != nil {
		os.Remove(path)
		return nil, &domain.StorageError{Op: "write attachment", Err: err}
	}

	attachment := &domain.Attachment{
		ID:          id,
		TicketID:    ticketID,
		WorkspaceID: access.Workspace.ID,
		FileName:    fileName,
		ContentType: contentType,
		Size:        size,
		StorageKey:  key,
		UploadedBy:  userID,
		CreatedAt:   time.Now(),
	}

	if err := s.attachmentRepo.Create(ctx, attachment); err != nil {
		os.Remove(path)
		return nil, err
	}

	if s.activity != nil {
		s.activity.Record(ctx, &domain.ActivityEntry{
			WorkspaceID: access.Workspace.ID,
			TicketID:    ticketID,
			ActorID:     userID,
			Action:      domain.ActivityFileAttached,
			Detail:      fileName,
			CreatedAt:   time.Now(),
		})
	}

	return attachment, nil
}

// List retrieves a ticket's attachment metadata
func (s *AttachmentService) List(ctx context.Context, ref string, userID, ticketID uuid.UUID) ([]domain.Attachment, error) {
	access, err := s.access.Require(ctx, ref, userID, domain.RoleViewer)
	if err != nil {
		return nil, err
	}

	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket == nil || ticket.WorkspaceID != access.Workspace.ID {
		return nil, domain.ErrTicketNotFound
	}

	return s.attachmentRepo.ListByTicket(ctx, ticketID)
}

type downloadClaim struct {
	AttachmentID uuid.UUID `json:"aid"`
	StorageKey   string    `json:"key"`
}

// DownloadURL issues a time-limited link for an attachment
func (s *AttachmentService) DownloadURL(ctx context.Context, ref string, userID, attachmentID uuid.UUID) (*domain.AttachmentURL, error) {
	access, err := s.access.Require(ctx, ref, userID, domain.RoleViewer)
	if err != nil {
		return nil, err
	}

	attachment, err := s.attachmentRepo.GetByID(ctx, attachmentID)
	if err != nil {
		return nil, err
	}
	if attachment == nil || attachment.WorkspaceID != access.Workspace.ID {
		return nil, domain.ErrAttachmentNotFound
	}

	token, expiresAt, err := s.sealer.Seal(downloadClaim{AttachmentID: attachment.ID, StorageKey: attachment.StorageKey}, s.downloadTTL)
	if err != nil {
		return nil, err
	}

	return &domain.AttachmentURL{
		URL:       fmt.Sprintf("%s/api/v1/files?token=%s", s.baseURL, token),
		ExpiresAt: expiresAt,
	}, nil
}

// Resolve opens a download token and returns the attachment metadata and
// the blob path for serving
func (s *AttachmentService) Resolve(ctx context.Context, token string) (*domain.Attachment, string, error) {
	var claim downloadClaim
	if err := s.sealer.Open(token, &claim); err != nil {
		return nil, "", err
	}

	attachment, err := s.attachmentRepo.GetByID(ctx, claim.AttachmentID)
	if err != nil {
		return nil, "", err
	}
	if attachment == nil || attachment.StorageKey != claim.StorageKey {
		return nil, "", domain.ErrAttachmentNotFound
	}

	return attachment, filepath.Join(s.uploadDir, attachment.StorageKey), nil
}
