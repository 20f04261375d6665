package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kioskcare/helpdesk/internal/api/response"
	"github.com/kioskcare/helpdesk/internal/domain"
	"github.com/kioskcare/helpdesk/internal/service"
)

// TicketHandler handles ticket endpoints
type TicketHandler struct {
	ticketService *service.TicketService
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(ticketService *service.TicketService) *TicketHandler {
	return &TicketHandler{ticketService: ticketService}
}

// parseTicketFilter builds a TicketFilter from query parameters
func parseTicketFilter(r *http.Request) (domain.TicketFilter, error) {
	q := r.URL.Query()

	filter := domain.TicketFilter{
		Search:   q.Get("search"),
		Status:   q.Get("status"),
		DateFrom: q.Get("date_from"),
		DateTo:   q.Get("date_to"),
	}

	if v := q.Get("assignee_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return filter, &domain.ValidationError{Field: "assignee_id", Message: "must be a UUID"}
		}
		filter.AssigneeID = &id
	}
	if v := q.Get("kiosk_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return filter, &domain.ValidationError{Field: "kiosk_id", Message: "must be a UUID"}
		}
		filter.KioskID = &id
	}
	if v := q.Get("current_month"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return filter, &domain.ValidationError{Field: "current_month", Message: "must be a boolean"}
		}
		filter.CurrentMonth = b
	}

	return filter, nil
}

// List handles filtered ticket listing
func (h *TicketHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ref, ok := requestContext(w, r)
	if !ok {
		return
	}

	filter, err := parseTicketFilter(r)
	if err != nil {
		writeError(w, err)
		return
	}

	list, err := h.ticketService.List(r.Context(), ref, userID, filter)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, list)
}

// Get handles getting a ticket with comments and attachments
func (h *TicketHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ref, ok := requestContext(w, r)
	if !ok {
		return
	}

	ticketID, err := uuid.Parse(chi.URLParam(r, "ticketID"))
	if err != nil {
		response.BadRequest(w, "invalid ticket ID")
		return
	}

	ticket, err := h.ticketService.Get(r.Context(), ref, userID, ticketID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, ticket)
}

// Create handles ticket creation
func (h *TicketHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ref, ok := requestContext(w, r)
	if !ok {
		return
	}

	var input domain.TicketCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	ticket, err := h.ticketService.Create(r.Context(), ref, userID, input)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, ticket)
}

// Update handles ticket updates
func (h *TicketHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ref, ok := requestContext(w, r)
	if !ok {
		return
	}

	ticketID, err := uuid.Parse(chi.URLParam(r, "ticketID"))
	if err != nil {
		response.BadRequest(w, "invalid ticket ID")
		return
	}

	var input domain.TicketUpdate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	ticket, err := h.ticketService.Update(r.Context(), ref, userID, ticketID, input)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, ticket)
}

// Delete handles ticket deletion
func (h *TicketHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ref, ok := requestContext(w, r)
	if !ok {
		return
	}

	ticketID, err := uuid.Parse(chi.URLParam(r, "ticketID"))
	if err != nil {
		response.BadRequest(w, "invalid ticket ID")
		return
	}

	if err := h.ticketService.Delete(r.Context(), ref, userID, ticketID); err != nil {
		writeError(w, err)
		return
	}

	response.NoContent(w)
}

// ListComments handles listing a ticket's comments
func (h *TicketHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	userID, ref, ok := requestContext(w, r)
	if !ok {
		return
	}

	ticketID, err := uuid.Parse(chi.URLParam(r, "ticketID"))
	if err != nil {
		response.BadRequest(w, "invalid ticket ID")
		return
	}

	comments, err := h.ticketService.ListComments(r.Context(), ref, userID, ticketID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, comments)
}

// AddComment handles appending a comment to a ticket
func (h *TicketHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	userID, ref, ok := requestContext(w, r)
	if !ok {
		return
	}

	ticketID, err := uuid.Parse(chi.URLParam(r, "ticketID"))
	if err != nil {
		response.BadRequest(w, "invalid ticket ID")
		return
	}

	var input domain.CommentCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	comment, err := h.ticketService.AddComment(r.Context(), ref, userID, ticketID, input)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, comment)
}

// Stats handles per-status ticket counts
func (h *TicketHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ref, ok := requestContext(w, r)
	if !ok {
		return
	}

	stats, err := h.ticketService.Stats(r.Context(), ref, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, stats)
}

// Activity handles listing a ticket's audit trail
func (h *TicketHandler) Activity(w http.ResponseWriter, r *http.Request) {
	userID, ref, ok := requestContext(w, r)
	if !ok {
		return
	}

	ticketID, err := uuid.Parse(chi.URLParam(r, "ticketID"))
	if err != nil {
		response.BadRequest(w, "invalid ticket ID")
		return
	}

	limit := int64(50)
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 1 {
			response.BadRequest(w, "invalid limit")
			return
		}
		limit = n
	}

	entries, err := h.ticketService.Activity(r.Context(), ref, userID, ticketID, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, entries)
}
