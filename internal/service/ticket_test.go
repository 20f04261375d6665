package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kioskcare/helpdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type ticketFixture struct {
	workspaceRepo *MockWorkspaceStore
	ticketRepo    *MockTicketStore
	kioskRepo     *MockKioskStore
	commentRepo   *MockCommentStore
	userRepo      *MockUserStore
	activity      *MockActivityStore
	statsCache    *MockStatsCache
	svc           *TicketService

	workspaceID uuid.UUID
	userID      uuid.UUID
	workspace   *domain.Workspace
}

func newTicketFixture(role string) *ticketFixture {
	f := &ticketFixture{
		workspaceRepo: new(MockWorkspaceStore),
		ticketRepo:    new(MockTicketStore),
		kioskRepo:     new(MockKioskStore),
		commentRepo:   new(MockCommentStore),
		userRepo:      new(MockUserStore),
		activity:      new(MockActivityStore),
		statsCache:    new(MockStatsCache),
		workspaceID:   uuid.New(),
		userID:        uuid.New(),
	}
	f.workspace = &domain.Workspace{ID: f.workspaceID, ExternalID: f.workspaceID.String(), Name: "Ops"}

	access := NewAccessService(f.workspaceRepo)
	f.svc = NewTicketService(f.ticketRepo, f.kioskRepo, f.commentRepo, f.userRepo, access, f.activity, f.statsCache)

	f.workspaceRepo.On("GetByID", mock.Anything, f.workspaceID).Return(f.workspace, nil)
	if role != "" {
		member := &domain.WorkspaceMember{WorkspaceID: f.workspaceID, UserID: f.userID, Role: role}
		f.workspaceRepo.On("GetMember", mock.Anything, f.workspaceID, f.userID).Return(member, nil)
	} else {
		f.workspaceRepo.On("GetMember", mock.Anything, f.workspaceID, f.userID).Return(nil, nil)
	}

	return f
}

func (f *ticketFixture) list(filter domain.TicketFilter) (*domain.TicketList, error) {
	return f.svc.List(context.Background(), f.workspaceID.String(), f.userID, filter)
}

func TestTicketList_MaintenanceTimeWinsOverReportedDate(t *testing.T) {
	f := newTicketFixture(domain.RoleViewer)

	reporterID := uuid.New()
	marchMaintenance := time.Date(2024, time.March, 20, 14, 0, 0, 0, time.Local)

	tickets := []domain.Ticket{
		{
			// Reported in January but scheduled for March
			ID:              uuid.New(),
			WorkspaceID:     f.workspaceID,
			Title:           "Replace card reader",
			ReporterID:      reporterID,
			ReportedDate:    time.Date(2024, time.January, 5, 9, 0, 0, 0, time.Local),
			MaintenanceTime: &marchMaintenance,
		},
		{
			// Reported in March, no schedule
			ID:           uuid.New(),
			WorkspaceID:  f.workspaceID,
			Title:        "Screen flickering",
			ReporterID:   reporterID,
			ReportedDate: time.Date(2024, time.March, 10, 9, 0, 0, 0, time.Local),
		},
		{
			// Reported in March but rescheduled to May: excluded
			ID:              uuid.New(),
			WorkspaceID:     f.workspaceID,
			Title:           "Printer jam",
			ReporterID:      reporterID,
			ReportedDate:    time.Date(2024, time.March, 12, 9, 0, 0, 0, time.Local),
			MaintenanceTime: timePtr(time.Date(2024, time.May, 2, 10, 0, 0, 0, time.Local)),
		},
	}

	f.ticketRepo.On("ListByWorkspace", mock.Anything, f.workspaceID, mock.Anything).Return(tickets, nil)
	f.userRepo.On("ListByIDs", mock.Anything, mock.Anything).Return([]domain.User{}, nil)

	list, err := f.list(domain.TicketFilter{DateFrom: "2024-03-01", DateTo: "2024-03-31"})
	require.NoError(t, err)
	require.Len(t, list.Tickets, 2)
	assert.Equal(t, "Replace card reader", list.Tickets[0].Title)
	assert.Equal(t, "Screen flickering", list.Tickets[1].Title)
}

func TestTicketList_SearchIsCaseInsensitive(t *testing.T) {
	f := newTicketFixture(domain.RoleViewer)

	reporterID := uuid.New()
	now := time.Now()
	tickets := []domain.Ticket{
		{ID: uuid.New(), WorkspaceID: f.workspaceID, Title: "Card READER stuck", ReporterID: reporterID, ReportedDate: now},
		{ID: uuid.New(), WorkspaceID: f.workspaceID, Title: "Screen dead", Description: "reader cable loose", ReporterID: reporterID, ReportedDate: now},
		{ID: uuid.New(), WorkspaceID: f.workspaceID, Title: "Receipt paper out", ReporterID: reporterID, ReportedDate: now},
	}

	f.ticketRepo.On("ListByWorkspace", mock.Anything, f.workspaceID, mock.Anything).Return(tickets, nil)
	f.userRepo.On("ListByIDs", mock.Anything, mock.Anything).Return([]domain.User{}, nil)

	list, err := f.list(domain.TicketFilter{Search: "  Reader "})
	require.NoError(t, err)
	require.Len(t, list.Tickets, 2)
}

func TestTicketList_StatusAndSearchScenario(t *testing.T) {
	f := newTicketFixture(domain.RoleViewer)

	reporterID := uuid.New()
	now := time.Now()

	// The status filter is pushed to the store; the store returns only OPEN
	// tickets and the text search narrows them here.
	open := []domain.Ticket{
		{ID: uuid.New(), WorkspaceID: f.workspaceID, Title: "Screen not responding",
			Status: domain.TicketOpen, ReporterID: reporterID, ReportedDate: now},
		{ID: uuid.New(), WorkspaceID: f.workspaceID, Title: "Coin slot jammed",
			Status: domain.TicketOpen, ReporterID: reporterID, ReportedDate: now},
	}

	f.ticketRepo.On("ListByWorkspace", mock.Anything, f.workspaceID, mock.MatchedBy(func(filter domain.TicketFilter) bool {
		return filter.Status == domain.TicketOpen
	})).Return(open, nil)
	f.userRepo.On("ListByIDs", mock.Anything, mock.Anything).Return([]domain.User{}, nil)

	list, err := f.list(domain.TicketFilter{Status: domain.TicketOpen, Search: "screen"})
	require.NoError(t, err)
	require.Len(t, list.Tickets, 1)
	assert.Equal(t, "Screen not responding", list.Tickets[0].Title)
	assert.Equal(t, domain.RoleViewer, list.Role)
	assert.Equal(t, f.workspace, list.Workspace)
}

func TestTicketList_Idempotent(t *testing.T) {
	f := newTicketFixture(domain.RoleViewer)

	reporterID := uuid.New()
	tickets := []domain.Ticket{
		{ID: uuid.New(), WorkspaceID: f.workspaceID, Title: "Fix", ReporterID: reporterID, ReportedDate: time.Now()},
	}
	f.ticketRepo.On("ListByWorkspace", mock.Anything, f.workspaceID, mock.Anything).Return(tickets, nil)
	f.userRepo.On("ListByIDs", mock.Anything, mock.Anything).Return([]domain.User{}, nil)

	first, err := f.list(domain.TicketFilter{})
	require.NoError(t, err)
	second, err := f.list(domain.TicketFilter{})
	require.NoError(t, err)
	assert.Equal(t, first.Tickets, second.Tickets)
}

func TestTicketList_CurrentMonthDefault(t *testing.T) {
	f := newTicketFixture(domain.RoleViewer)
	f.svc.now = func() time.Time {
		return time.Date(2024, time.March, 15, 12, 0, 0, 0, time.Local)
	}

	reporterID := uuid.New()
	tickets := []domain.Ticket{
		{ID: uuid.New(), WorkspaceID: f.workspaceID, Title: "In month", ReporterID: reporterID,
			ReportedDate: time.Date(2024, time.March, 3, 8, 0, 0, 0, time.Local)},
		{ID: uuid.New(), WorkspaceID: f.workspaceID, Title: "Last month", ReporterID: reporterID,
			ReportedDate: time.Date(2024, time.February, 27, 8, 0, 0, 0, time.Local)},
	}

	f.ticketRepo.On("ListByWorkspace", mock.Anything, f.workspaceID, mock.Anything).Return(tickets, nil)
	f.userRepo.On("ListByIDs", mock.Anything, mock.Anything).Return([]domain.User{}, nil)

	list, err := f.list(domain.TicketFilter{CurrentMonth: true})
	require.NoError(t, err)
	require.Len(t, list.Tickets, 1)
	assert.Equal(t, "In month", list.Tickets[0].Title)
}

func TestTicketList_ExplicitDatesOverrideCurrentMonth(t *testing.T) {
	f := newTicketFixture(domain.RoleViewer)
	f.svc.now = func() time.Time {
		return time.Date(2024, time.March, 15, 12, 0, 0, 0, time.Local)
	}

	reporterID := uuid.New()
	tickets := []domain.Ticket{
		{ID: uuid.New(), WorkspaceID: f.workspaceID, Title: "February fix", ReporterID: reporterID,
			ReportedDate: time.Date(2024, time.February, 10, 8, 0, 0, 0, time.Local)},
	}

	f.ticketRepo.On("ListByWorkspace", mock.Anything, f.workspaceID, mock.Anything).Return(tickets, nil)
	f.userRepo.On("ListByIDs", mock.Anything, mock.Anything).Return([]domain.User{}, nil)

	list, err := f.list(domain.TicketFilter{DateFrom: "2024-02-01", DateTo: "2024-02-29", CurrentMonth: true})
	require.NoError(t, err)
	require.Len(t, list.Tickets, 1)
}

func TestTicketList_EnrichesDisplayNames(t *testing.T) {
	f := newTicketFixture(domain.RoleViewer)

	reporterID := uuid.New()
	assigneeID := uuid.New()
	tickets := []domain.Ticket{
		{ID: uuid.New(), WorkspaceID: f.workspaceID, Title: "Fix", ReporterID: reporterID,
			AssigneeID: &assigneeID, ReportedDate: time.Now()},
	}
	users := []domain.User{
		{ID: reporterID, Username: "reporter1", Name: "Dana Reporter"},
		{ID: assigneeID, Username: "tech7"},
	}

	f.ticketRepo.On("ListByWorkspace", mock.Anything, f.workspaceID, mock.Anything).Return(tickets, nil)
	f.userRepo.On("ListByIDs", mock.Anything, mock.MatchedBy(func(ids []uuid.UUID) bool {
		return len(ids) == 2
	})).Return(users, nil)

	list, err := f.list(domain.TicketFilter{})
	require.NoError(t, err)
	require.Len(t, list.Tickets, 1)
	require.NotNil(t, list.Tickets[0].ReporterName)
	require.NotNil(t, list.Tickets[0].AssigneeName)
	assert.Equal(t, "Dana Reporter", *list.Tickets[0].ReporterName)
	assert.Equal(t, "tech7", *list.Tickets[0].AssigneeName)
}

func TestTicketList_EnrichmentFailureDegrades(t *testing.T) {
	f := newTicketFixture(domain.RoleViewer)

	tickets := []domain.Ticket{
		{ID: uuid.New(), WorkspaceID: f.workspaceID, Title: "Fix", ReporterID: uuid.New(), ReportedDate: time.Now()},
	}

	f.ticketRepo.On("ListByWorkspace", mock.Anything, f.workspaceID, mock.Anything).Return(tickets, nil)
	f.userRepo.On("ListByIDs", mock.Anything, mock.Anything).
		Return(nil, &domain.StorageError{Op: "list users", Err: assert.AnError})

	list, err := f.list(domain.TicketFilter{})
	require.NoError(t, err)
	require.Len(t, list.Tickets, 1)
	assert.Nil(t, list.Tickets[0].ReporterName)
}

func TestTicketList_NonMemberDenied(t *testing.T) {
	f := newTicketFixture("")

	_, err := f.list(domain.TicketFilter{})
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
	f.ticketRepo.AssertNotCalled(t, "ListByWorkspace", mock.Anything, mock.Anything, mock.Anything)
}

func TestTicketList_MalformedDateRejected(t *testing.T) {
	f := newTicketFixture(domain.RoleViewer)

	_, err := f.list(domain.TicketFilter{DateFrom: "2024-13-99"})
	var valErr *domain.ValidationError
	assert.ErrorAs(t, err, &valErr)
}

func TestTicketGet_CrossTenantIsNotFound(t *testing.T) {
	f := newTicketFixture(domain.RoleViewer)

	ticketID := uuid.New()
	foreign := &domain.Ticket{ID: ticketID, WorkspaceID: uuid.New(), Title: "Other tenant"}
	f.ticketRepo.On("GetByID", mock.Anything, ticketID).Return(foreign, nil)

	_, err := f.svc.Get(context.Background(), f.workspaceID.String(), f.userID, ticketID)
	assert.ErrorIs(t, err, domain.ErrTicketNotFound)
}

func TestTicketCreate_RequiresMember(t *testing.T) {
	f := newTicketFixture(domain.RoleViewer)

	_, err := f.svc.Create(context.Background(), f.workspaceID.String(), f.userID, domain.TicketCreate{
		KioskID: uuid.New(),
		Title:   "Broken screen",
	})

	var permErr *domain.PermissionError
	require.ErrorAs(t, err, &permErr)
	assert.Equal(t, domain.RoleMember, permErr.Required)
}

func TestTicketCreate_KioskMustBeInWorkspace(t *testing.T) {
	f := newTicketFixture(domain.RoleMember)

	kioskID := uuid.New()
	foreignKiosk := &domain.Kiosk{ID: kioskID, WorkspaceID: uuid.New()}
	f.kioskRepo.On("GetByID", mock.Anything, kioskID).Return(foreignKiosk, nil)

	_, err := f.svc.Create(context.Background(), f.workspaceID.String(), f.userID, domain.TicketCreate{
		KioskID: kioskID,
		Title:   "Broken screen",
	})
	assert.ErrorIs(t, err, domain.ErrKioskNotFound)
	f.ticketRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTicketCreate_DefaultsAndSideEffects(t *testing.T) {
	f := newTicketFixture(domain.RoleMember)

	kioskID := uuid.New()
	kiosk := &domain.Kiosk{ID: kioskID, WorkspaceID: f.workspaceID}
	f.kioskRepo.On("GetByID", mock.Anything, kioskID).Return(kiosk, nil)
	f.ticketRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.statsCache.On("Invalidate", mock.Anything, f.workspaceID).Return(nil)
	f.activity.On("Record", mock.Anything, mock.Anything).Return(nil)

	ticket, err := f.svc.Create(context.Background(), f.workspaceID.String(), f.userID, domain.TicketCreate{
		KioskID: kioskID,
		Title:   "Broken screen",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketOpen, ticket.Status)
	assert.Equal(t, f.userID, ticket.ReporterID)
	assert.Equal(t, f.workspaceID, ticket.WorkspaceID)
	assert.False(t, ticket.ReportedDate.IsZero())

	f.statsCache.AssertCalled(t, "Invalidate", mock.Anything, f.workspaceID)
	f.activity.AssertCalled(t, "Record", mock.Anything, mock.MatchedBy(func(e *domain.ActivityEntry) bool {
		return e.Action == domain.ActivityTicketCreated && e.TicketID == ticket.ID
	}))
}

func TestTicketCreate_ActivityFailureIsBestEffort(t *testing.T) {
	f := newTicketFixture(domain.RoleMember)

	kioskID := uuid.New()
	kiosk := &domain.Kiosk{ID: kioskID, WorkspaceID: f.workspaceID}
	f.kioskRepo.On("GetByID", mock.Anything, kioskID).Return(kiosk, nil)
	f.ticketRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.statsCache.On("Invalidate", mock.Anything, f.workspaceID).Return(nil)
	f.activity.On("Record", mock.Anything, mock.Anything).
		Return(&domain.StorageError{Op: "record activity", Err: assert.AnError})

	_, err := f.svc.Create(context.Background(), f.workspaceID.String(), f.userID, domain.TicketCreate{
		KioskID: kioskID,
		Title:   "Broken screen",
	})
	require.NoError(t, err)
}

func TestTicketDelete_RequiresAdmin(t *testing.T) {
	f := newTicketFixture(domain.RoleMember)

	err := f.svc.Delete(context.Background(), f.workspaceID.String(), f.userID, uuid.New())

	var permErr *domain.PermissionError
	require.ErrorAs(t, err, &permErr)
	assert.Equal(t, domain.RoleAdmin, permErr.Required)
	f.ticketRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestTicketStats_CacheHitSkipsStore(t *testing.T) {
	f := newTicketFixture(domain.RoleViewer)

	cached := &domain.TicketStats{Total: 7, ByStatus: map[string]int{domain.TicketOpen: 7}}
	f.statsCache.On("Get", mock.Anything, f.workspaceID).Return(cached, nil)

	stats, err := f.svc.Stats(context.Background(), f.workspaceID.String(), f.userID)
	require.NoError(t, err)
	assert.Equal(t, cached, stats)
	f.ticketRepo.AssertNotCalled(t, "CountByStatus", mock.Anything, mock.Anything)
}

func TestTicketStats_MissComputesAndCaches(t *testing.T) {
	f := newTicketFixture(domain.RoleViewer)

	f.statsCache.On("Get", mock.Anything, f.workspaceID).Return(nil, nil)
	counts := map[string]int{domain.TicketOpen: 3, domain.TicketResolved: 2}
	f.ticketRepo.On("CountByStatus", mock.Anything, f.workspaceID).Return(counts, nil)
	f.statsCache.On("Set", mock.Anything, f.workspaceID, mock.Anything).Return(nil)

	stats, err := f.svc.Stats(context.Background(), f.workspaceID.String(), f.userID)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.Total)
	f.statsCache.AssertCalled(t, "Set", mock.Anything, f.workspaceID, mock.Anything)
}

func TestTicketActivity_NilStoreReturnsEmpty(t *testing.T) {
	f := newTicketFixture(domain.RoleViewer)
	f.svc.activity = nil

	ticketID := uuid.New()
	ticket := &domain.Ticket{ID: ticketID, WorkspaceID: f.workspaceID}
	f.ticketRepo.On("GetByID", mock.Anything, ticketID).Return(ticket, nil)

	entries, err := f.svc.Activity(context.Background(), f.workspaceID.String(), f.userID, ticketID, 50)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func timePtr(t time.Time) *time.Time {
	return &t
}
