package domain

import (
	"time"

	"github.com/google/uuid"
)

// Activity actions recorded against tickets.
const (
	ActivityTicketCreated = "ticket.created"
	ActivityTicketUpdated = "ticket.updated"
	ActivityTicketDeleted = "ticket.deleted"
	ActivityCommentAdded  = "comment.added"
	ActivityFileAttached  = "file.attached"
)

// ActivityEntry is an append-only audit record for a ticket mutation.
type ActivityEntry struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty"`
	WorkspaceID uuid.UUID `json:"workspace_id" bson:"workspace_id"`
	TicketID    uuid.UUID `json:"ticket_id" bson:"ticket_id"`
	ActorID     uuid.UUID `json:"actor_id" bson:"actor_id"`
	Action      string    `json:"action" bson:"action"`
	Detail      string    `json:"detail,omitempty" bson:"detail,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}
