package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for access and lookup failures. Handlers map these to
// HTTP statuses; services propagate them unchanged.
var (
	ErrAccessDenied       = errors.New("access denied")
	ErrInvalidRole        = errors.New("membership role is missing or unknown")
	ErrWorkspaceNotFound  = errors.New("workspace not found")
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrKioskNotFound      = errors.New("kiosk not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrAttachmentNotFound = errors.New("attachment not found")
	ErrLastAdmin          = errors.New("workspace must retain at least one admin")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// PermissionError is returned when a membership exists but its role is below
// the level an operation requires. It carries both roles for diagnostics.
type PermissionError struct {
	Required string
	Actual   string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("insufficient permissions: required %s, have %s", e.Required, e.Actual)
}

// ValidationError reports malformed caller input, e.g. a bad date filter.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// StorageError wraps a failure from the backing store, keeping the provider
// message attached.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
