package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kioskcare/helpdesk/internal/api/response"
	"github.com/kioskcare/helpdesk/internal/domain"
	"github.com/kioskcare/helpdesk/internal/service"
)

// KioskHandler handles kiosk endpoints
type KioskHandler struct {
	kioskService *service.KioskService
}

// NewKioskHandler creates a new kiosk handler
func NewKioskHandler(kioskService *service.KioskService) *KioskHandler {
	return &KioskHandler{kioskService: kioskService}
}

// Create handles kiosk creation
func (h *KioskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ref, ok := requestContext(w, r)
	if !ok {
		return
	}

	var input domain.KioskCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	kiosk, err := h.kioskService.Create(r.Context(), ref, userID, input)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, kiosk)
}

// List handles listing a workspace's kiosks
func (h *KioskHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ref, ok := requestContext(w, r)
	if !ok {
		return
	}

	kiosks, err := h.kioskService.List(r.Context(), ref, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, kiosks)
}

// Get handles getting a kiosk
func (h *KioskHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ref, ok := requestContext(w, r)
	if !ok {
		return
	}

	kioskID, err := uuid.Parse(chi.URLParam(r, "kioskID"))
	if err != nil {
		response.BadRequest(w, "invalid kiosk ID")
		return
	}

	kiosk, err := h.kioskService.Get(r.Context(), ref, userID, kioskID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, kiosk)
}

// Update handles updating a kiosk
func (h *KioskHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ref, ok := requestContext(w, r)
	if !ok {
		return
	}

	kioskID, err := uuid.Parse(chi.URLParam(r, "kioskID"))
	if err != nil {
		response.BadRequest(w, "invalid kiosk ID")
		return
	}

	var input domain.KioskUpdate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	kiosk, err := h.kioskService.Update(r.Context(), ref, userID, kioskID, input)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, kiosk)
}

// Delete handles deleting a kiosk
func (h *KioskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ref, ok := requestContext(w, r)
	if !ok {
		return
	}

	kioskID, err := uuid.Parse(chi.URLParam(r, "kioskID"))
	if err != nil {
		response.BadRequest(w, "invalid kiosk ID")
		return
	}

	if err := h.kioskService.Delete(r.Context(), ref, userID, kioskID); err != nil {
		writeError(w, err)
		return
	}

	response.NoContent(w)
}
