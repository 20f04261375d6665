package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/kioskcare/helpdesk/internal/domain"
)

func TestHealthCheck(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()

	HealthCheck(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var response map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response["success"] != true {
		t.Error("expected success to be true")
	}
}

func TestWriteError_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"access denied", domain.ErrAccessDenied, http.StatusForbidden},
		{"permission error", &domain.PermissionError{Required: domain.RoleAdmin, Actual: domain.RoleViewer}, http.StatusForbidden},
		{"workspace not found", domain.ErrWorkspaceNotFound, http.StatusNotFound},
		{"ticket not found", domain.ErrTicketNotFound, http.StatusNotFound},
		{"kiosk not found", domain.ErrKioskNotFound, http.StatusNotFound},
		{"validation error", &domain.ValidationError{Field: "date_from", Message: "must be a YYYY-MM-DD date"}, http.StatusBadRequest},
		{"last admin", domain.ErrLastAdmin, http.StatusConflict},
		{"email taken", domain.ErrEmailTaken, http.StatusConflict},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"invalid role", domain.ErrInvalidRole, http.StatusInternalServerError},
		{"storage error", &domain.StorageError{Op: "get ticket", Err: domain.ErrTicketNotFound}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tt.err)
			if rec.Code != tt.want {
				t.Errorf("expected status %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestWriteError_PermissionErrorCarriesRoles(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, &domain.PermissionError{Required: domain.RoleMember, Actual: domain.RoleViewer})

	var response struct {
		Error map[string]string `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response.Error["required"] != domain.RoleMember {
		t.Errorf("expected required %q, got %q", domain.RoleMember, response.Error["required"])
	}
	if response.Error["actual"] != domain.RoleViewer {
		t.Errorf("expected actual %q, got %q", domain.RoleViewer, response.Error["actual"])
	}
}

func TestParseTicketFilter(t *testing.T) {
	assigneeID := uuid.New()

	req := httptest.NewRequest(http.MethodGet,
		"/tickets?search=reader&status=OPEN&assignee_id="+assigneeID.String()+
			"&date_from=2024-03-01&date_to=2024-03-31&current_month=true", nil)

	filter, err := parseTicketFilter(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if filter.Search != "reader" {
		t.Errorf("expected search %q, got %q", "reader", filter.Search)
	}
	if filter.Status != domain.TicketOpen {
		t.Errorf("expected status %q, got %q", domain.TicketOpen, filter.Status)
	}
	if filter.AssigneeID == nil || *filter.AssigneeID != assigneeID {
		t.Error("assignee_id not parsed")
	}
	if filter.DateFrom != "2024-03-01" || filter.DateTo != "2024-03-31" {
		t.Error("date range not parsed")
	}
	if !filter.CurrentMonth {
		t.Error("current_month not parsed")
	}
}

func TestParseTicketFilter_BadUUID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/tickets?assignee_id=not-a-uuid", nil)

	if _, err := parseTicketFilter(req); err == nil {
		t.Error("expected error for malformed assignee_id")
	}
}
