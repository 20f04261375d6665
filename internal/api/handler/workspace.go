package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kioskcare/helpdesk/internal/api/middleware"
	"github.com/kioskcare/helpdesk/internal/api/response"
	"github.com/kioskcare/helpdesk/internal/domain"
	"github.com/kioskcare/helpdesk/internal/service"
)

// WorkspaceHandler handles workspace and membership endpoints
type WorkspaceHandler struct {
	workspaceService *service.WorkspaceService
}

// NewWorkspaceHandler creates a new workspace handler
func NewWorkspaceHandler(workspaceService *service.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{workspaceService: workspaceService}
}

// requestContext pulls the authenticated user and workspace reference out of
// the request, writing the error response when either is missing.
func requestContext(w http.ResponseWriter, r *http.Request) (uuid.UUID, string, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return uuid.Nil, "", false
	}

	ref, ok := middleware.GetWorkspaceRef(r.Context())
	if !ok {
		response.BadRequest(w, "missing workspace ID")
		return uuid.Nil, "", false
	}

	return userID, ref, true
}

// Create handles workspace creation
func (h *WorkspaceHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var input domain.WorkspaceCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	workspace, err := h.workspaceService.Create(r.Context(), userID, input)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, workspace)
}

// List handles listing the caller's workspaces
func (h *WorkspaceHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	workspaces, err := h.workspaceService.ListByUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, workspaces)
}

// Get handles getting a workspace with the caller's role
func (h *WorkspaceHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ref, ok := requestContext(w, r)
	if !ok {
		return
	}

	access, err := h.workspaceService.Get(r.Context(), ref, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, access)
}

// Update handles updating a workspace
func (h *WorkspaceHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ref, ok := requestContext(w, r)
	if !ok {
		return
	}

	var input domain.WorkspaceUpdate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	workspace, err := h.workspaceService.Update(r.Context(), ref, userID, input)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, workspace)
}

// Delete handles deleting a workspace
func (h *WorkspaceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ref, ok := requestContext(w, r)
	if !ok {
		return
	}

	if err := h.workspaceService.Delete(r.Context(), ref, userID); err != nil {
		writeError(w, err)
		return
	}

	response.NoContent(w)
}

// ListMembers handles listing workspace members
func (h *WorkspaceHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	userID, ref, ok := requestContext(w, r)
	if !ok {
		return
	}

	members, err := h.workspaceService.ListMembers(r.Context(), ref, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, members)
}

// AddMember handles adding a workspace member
func (h *WorkspaceHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	userID, ref, ok := requestContext(w, r)
	if !ok {
		return
	}

	var input domain.MemberAdd
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	member, err := h.workspaceService.AddMember(r.Context(), ref, userID, input)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, member)
}

// UpdateMemberRole handles changing a member's role
func (h *WorkspaceHandler) UpdateMemberRole(w http.ResponseWriter, r *http.Request) {
	userID, ref, ok := requestContext(w, r)
	if !ok {
		return
	}

	targetID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		response.BadRequest(w, "invalid user ID")
		return
	}

	var input domain.MemberRoleUpdate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	member, err := h.workspaceService.UpdateMemberRole(r.Context(), ref, userID, targetID, input)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, member)
}

// RemoveMember handles removing a workspace member
func (h *WorkspaceHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	userID, ref, ok := requestContext(w, r)
	if !ok {
		return
	}

	targetID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		response.BadRequest(w, "invalid user ID")
		return
	}

	if err := h.workspaceService.RemoveMember(r.Context(), ref, userID, targetID); err != nil {
		writeError(w, err)
		return
	}

	response.NoContent(w)
}
