package domain

import (
	"time"

	"github.com/google/uuid"
)

// Kiosk statuses
const (
	KioskActive      = "ACTIVE"
	KioskInactive    = "INACTIVE"
	KioskMaintenance = "MAINTENANCE"
	KioskRetired     = "RETIRED"
)

// Kiosk represents a physical device record scoped to a workspace
type Kiosk struct {
	ID          uuid.UUID `json:"id"`
	WorkspaceID uuid.UUID `json:"workspace_id"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// KioskCreate represents kiosk creation data
type KioskCreate struct {
	Name        string `json:"name" validate:"required,max=255"`
	Address     string `json:"address" validate:"required,max=500"`
	Description string `json:"description" validate:"max=2000"`
	Status      string `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE MAINTENANCE RETIRED"`
}

// KioskUpdate represents kiosk update data
type KioskUpdate struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=255"`
	Address     *string `json:"address,omitempty" validate:"omitempty,max=500"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=ACTIVE INACTIVE MAINTENANCE RETIRED"`
}
