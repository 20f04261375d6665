package domain

import (
	"time"

	"github.com/google/uuid"
)

// Ticket statuses
const (
	TicketOpen       = "OPEN"
	TicketInProgress = "IN_PROGRESS"
	TicketResolved   = "RESOLVED"
	TicketClosed     = "CLOSED"
)

// Ticket represents a maintenance record scoped to a workspace and kiosk.
// ReportedDate is set at creation; MaintenanceTime is the optional scheduled
// date and takes precedence over ReportedDate in date-filtered views.
type Ticket struct {
	ID              uuid.UUID  `json:"id"`
	WorkspaceID     uuid.UUID  `json:"workspace_id"`
	KioskID         uuid.UUID  `json:"kiosk_id"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	Status          string     `json:"status"`
	ReporterID      uuid.UUID  `json:"reporter_id"`
	AssigneeID      *uuid.UUID `json:"assignee_id,omitempty"`
	ReportedDate    time.Time  `json:"reported_date"`
	MaintenanceTime *time.Time `json:"maintenance_time,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	// Display fields joined from the users table; nil when the lookup
	// could not resolve the user.
	ReporterName *string `json:"reporter_name,omitempty"`
	AssigneeName *string `json:"assignee_name,omitempty"`

	Comments    []Comment    `json:"comments,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// EffectiveDate returns the date a ticket is filed under in date-filtered
// views: the scheduled maintenance time when set, otherwise the reported date.
func (t *Ticket) EffectiveDate() time.Time {
	if t.MaintenanceTime != nil {
		return *t.MaintenanceTime
	}
	return t.ReportedDate
}

// TicketCreate represents ticket creation data
type TicketCreate struct {
	KioskID         uuid.UUID  `json:"kiosk_id" validate:"required"`
	Title           string     `json:"title" validate:"required,max=255"`
	Description     string     `json:"description" validate:"max=5000"`
	Status          string     `json:"status" validate:"omitempty,oneof=OPEN IN_PROGRESS RESOLVED CLOSED"`
	AssigneeID      *uuid.UUID `json:"assignee_id,omitempty"`
	MaintenanceTime *time.Time `json:"maintenance_time,omitempty"`
}

// TicketUpdate represents ticket update data
type TicketUpdate struct {
	Title           *string    `json:"title,omitempty" validate:"omitempty,max=255"`
	Description     *string    `json:"description,omitempty" validate:"omitempty,max=5000"`
	Status          *string    `json:"status,omitempty" validate:"omitempty,oneof=OPEN IN_PROGRESS RESOLVED CLOSED"`
	AssigneeID      *uuid.UUID `json:"assignee_id,omitempty"`
	MaintenanceTime *time.Time `json:"maintenance_time,omitempty"`
}

// TicketFilter holds optional listing filters. DateFrom/DateTo are
// YYYY-MM-DD strings; CurrentMonth requests a default range covering the
// current calendar month when no explicit dates are given.
type TicketFilter struct {
	Search       string
	Status       string
	AssigneeID   *uuid.UUID
	KioskID      *uuid.UUID
	DateFrom     string
	DateTo       string
	CurrentMonth bool
}

// TicketList is the result of a filtered ticket listing.
type TicketList struct {
	Tickets   []Ticket   `json:"tickets"`
	Workspace *Workspace `json:"workspace"`
	Role      string     `json:"role"`
}

// TicketStats holds per-workspace ticket counts by status.
type TicketStats struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"by_status"`
}

// Comment is an ordered, structured record owned by a ticket.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	TicketID  uuid.UUID `json:"ticket_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`

	AuthorName *string `json:"author_name,omitempty"`
}

// CommentCreate represents comment creation data
type CommentCreate struct {
	Body string `json:"body" validate:"required,max=5000"`
}
