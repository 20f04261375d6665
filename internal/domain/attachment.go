package domain

import (
	"time"

	"github.com/google/uuid"
)

// Attachment is the stored metadata for an uploaded blob. The bytes live in
// the blob store under StorageKey; only the key and metadata are persisted.
type Attachment struct {
	ID          uuid.UUID `json:"id"`
	TicketID    uuid.UUID `json:"ticket_id"`
	WorkspaceID uuid.UUID `json:"workspace_id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	StorageKey  string    `json:"-"`
	UploadedBy  uuid.UUID `json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// AttachmentURL is a time-limited download link for an attachment.
type AttachmentURL struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
