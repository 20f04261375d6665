package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kioskcare/helpdesk/internal/api/response"
	"github.com/kioskcare/helpdesk/internal/security"
	"github.com/kioskcare/helpdesk/internal/service"
)

// AttachmentHandler handles ticket attachment endpoints
type AttachmentHandler struct {
	attachmentService *service.AttachmentService
	maxUploadSize     int64
}

// NewAttachmentHandler creates a new attachment handler
func NewAttachmentHandler(attachmentService *service.AttachmentService, maxUploadSize int64) *AttachmentHandler {
	return &AttachmentHandler{
		attachmentService: attachmentService,
		maxUploadSize:     maxUploadSize,
	}
}

// Upload handles multipart file uploads onto a ticket
func (h *AttachmentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ref, ok := requestContext(w, r)
	if !ok {
		return
	}

	ticketID, err := uuid.Parse(chi.URLParam(r, "ticketID"))
	if err != nil {
		response.BadRequest(w, "invalid ticket ID")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		response.BadRequest(w, "file too large or invalid multipart body")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "missing file field")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	attachment, err := h.attachmentService.Upload(r.Context(), ref, userID, ticketID, header.Filename, contentType, file)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, attachment)
}

// List handles listing a ticket's attachments
func (h *AttachmentHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ref, ok := requestContext(w, r)
	if !ok {
		return
	}

	ticketID, err := uuid.Parse(chi.URLParam(r, "ticketID"))
	if err != nil {
		response.BadRequest(w, "invalid ticket ID")
		return
	}

	attachments, err := h.attachmentService.List(r.Context(), ref, userID, ticketID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, attachments)
}

// DownloadURL handles minting a time-limited download link
func (h *AttachmentHandler) DownloadURL(w http.ResponseWriter, r *http.Request) {
	userID, ref, ok := requestContext(w, r)
	if !ok {
		return
	}

	attachmentID, err := uuid.Parse(chi.URLParam(r, "attachmentID"))
	if err != nil {
		response.BadRequest(w, "invalid attachment ID")
		return
	}

	url, err := h.attachmentService.DownloadURL(r.Context(), ref, userID, attachmentID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, url)
}

// Download serves the blob behind a sealed download token. This endpoint is
// unauthenticated; the token itself carries the grant.
func (h *AttachmentHandler) Download(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		response.BadRequest(w, "missing token")
		return
	}

	attachment, path, err := h.attachmentService.Resolve(r.Context(), token)
	if err != nil {
		if errors.Is(err, security.ErrTokenExpired) {
			response.Error(w, http.StatusGone, "download link expired")
			return
		}
		response.Error(w, http.StatusForbidden, "invalid download token")
		return
	}

	w.Header().Set("Content-Type", attachment.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+attachment.FileName+`"`)
	http.ServeFile(w, r, path)
}
