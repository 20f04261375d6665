package handler

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/kioskcare/helpdesk/internal/api/response"
	"github.com/kioskcare/helpdesk/internal/domain"
	"github.com/rs/zerolog/log"
)

var validate = validator.New()

// writeError maps domain errors to HTTP responses. Storage failures are
// logged with the provider message and surfaced as internal errors.
func writeError(w http.ResponseWriter, err error) {
	var permErr *domain.PermissionError
	var valErr *domain.ValidationError
	var storageErr *domain.StorageError

	switch {
	case errors.Is(err, domain.ErrAccessDenied):
		response.Forbidden(w, err.Error())
	case errors.As(err, &permErr):
		response.Forbidden(w, map[string]string{
			"message":  "insufficient permissions",
			"required": permErr.Required,
			"actual":   permErr.Actual,
		})
	case errors.Is(err, domain.ErrWorkspaceNotFound),
		errors.Is(err, domain.ErrTicketNotFound),
		errors.Is(err, domain.ErrKioskNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrAttachmentNotFound):
		response.NotFound(w, err.Error())
	case errors.As(err, &valErr):
		response.BadRequest(w, valErr.Error())
	case errors.Is(err, domain.ErrLastAdmin), errors.Is(err, domain.ErrEmailTaken):
		response.Conflict(w, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		response.Unauthorized(w, err.Error())
	case errors.Is(err, domain.ErrInvalidRole):
		log.Error().Err(err).Msg("Membership row with invalid role")
		response.InternalError(w, err.Error())
	case errors.As(err, &storageErr):
		log.Error().Err(storageErr.Err).Str("op", storageErr.Op).Msg("Storage failure")
		response.InternalError(w, "storage failure")
	default:
		response.InternalError(w, err.Error())
	}
}
