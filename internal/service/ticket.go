package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kioskcare/helpdesk/internal/domain"
	"github.com/rs/zerolog/log"
)

// TicketService composes the access guard, date filtering, and text search
// into filtered, access-checked ticket views, plus ticket CRUD and comments.
type TicketService struct {
	ticketRepo  TicketStore
	kioskRepo   KioskStore
	commentRepo CommentStore
	userRepo    UserStore
	access      *AccessService
	activity    ActivityStore // optional, nil disables activity recording
	statsCache  StatsCache    // optional, nil disables stats caching

	now func() time.Time
}

// NewTicketService creates a new ticket service. activity and statsCache
// may be nil.
func NewTicketService(
	ticketRepo TicketStore,
	kioskRepo KioskStore,
	commentRepo CommentStore,
	userRepo UserStore,
	access *AccessService,
	activity ActivityStore,
	statsCache StatsCache,
) *TicketService {
	return &TicketService{
		ticketRepo:  ticketRepo,
		kioskRepo:   kioskRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
		access:      access,
		activity:    activity,
		statsCache:  statsCache,
		now:         time.Now,
	}
}

// List returns the workspace's tickets matching the filter, enriched with
// reporter/assignee display names, along with the workspace and the
// caller's role. Status/assignee/kiosk filters are pushed to the store;
// the date range and text search are applied here because the
// maintenance-over-reported date precedence is not a column predicate.
func (s *TicketService) List(ctx context.Context, ref string, userID uuid.UUID, filter domain.TicketFilter) (*domain.TicketList, error) {
	access, err := s.access.Require(ctx, ref, userID, domain.RoleViewer)
	if err != nil {
		return nil, err
	}

	dateRange, err := NormalizeDateRange(filter.DateFrom, filter.DateTo)
	if err != nil {
		return nil, err
	}
	if dateRange.IsZero() && filter.CurrentMonth {
		dateRange = CurrentMonthRange(s.now())
	}

	tickets, err := s.ticketRepo.ListByWorkspace(ctx, access.Workspace.ID, filter)
	if err != nil {
		return nil, err
	}

	term := strings.ToLower(strings.TrimSpace(filter.Search))
	filtered := make([]domain.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if !TicketInRange(&t, dateRange) {
			continue
		}
		if term != "" && !matchesSearch(&t, term) {
			continue
		}
		filtered = append(filtered, t)
	}

	s.enrichNames(ctx, filtered)

	return &domain.TicketList{
		Tickets:   filtered,
		Workspace: access.Workspace,
		Role:      access.Role,
	}, nil
}

// matchesSearch reports whether the term occurs in the ticket title or
// description, case-insensitively.
func matchesSearch(t *domain.Ticket, lowerTerm string) bool {
	return strings.Contains(strings.ToLower(t.Title), lowerTerm) ||
		strings.Contains(strings.ToLower(t.Description), lowerTerm)
}

// enrichNames joins reporter/assignee display names from a single bulk user
// fetch. Lookup failures degrade to nil names rather than failing the
// request.
func (s *TicketService) enrichNames(ctx context.Context, tickets []domain.Ticket) {
	if len(tickets) == 0 {
		return
	}

	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	add := func(id uuid.UUID) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	for i := range tickets {
		add(tickets[i].ReporterID)
		if tickets[i].AssigneeID != nil {
			add(*tickets[i].AssigneeID)
		}
	}

	users, err := s.userRepo.ListByIDs(ctx, ids)
	if err != nil {
		log.Warn().Err(err).Msg("Ticket name enrichment failed, returning nil display names")
		return
	}

	names := make(map[uuid.UUID]string, len(users))
	for _, u := range users {
		names[u.ID] = u.DisplayName()
	}

	for i := range tickets {
		if name, ok := names[tickets[i].ReporterID]; ok {
			n := name
			tickets[i].ReporterName = &n
		}
		if tickets[i].AssigneeID != nil {
			if name, ok := names[*tickets[i].AssigneeID]; ok {
				n := name
				tickets[i].AssigneeName = &n
			}
		}
	}
}

// Get retrieves a ticket with its comments and attachments
func (s *TicketService) Get(ctx context.Context, ref string, userID, ticketID uuid.UUID) (*domain.Ticket, error) {
	access, err := s.access.Require(ctx, ref, userID, domain.RoleViewer)
	if err != nil {
		return nil, err
	}

	ticket, err := s.getInWorkspace(ctx, access.Workspace.ID, ticketID)
	if err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	ticket.Comments = comments

	single := []domain.Ticket{*ticket}
	s.enrichNames(ctx, single)

	return &single[0], nil
}

// Create files a new ticket (member or higher). The reported date is set at
// creation time and the caller becomes the reporter.
func (s *TicketService) Create(ctx context.Context, ref string, userID uuid.UUID, input domain.TicketCreate) (*domain.Ticket, error) {
	access, err := s.access.Require(ctx, ref, userID, domain.RoleMember)
	if err != nil {
		return nil, err
	}

	kiosk, err := s.kioskRepo.GetByID(ctx, input.KioskID)
	if err != nil {
		return nil, err
	}
	if kiosk == nil || kiosk.WorkspaceID != access.Workspace.ID {
		return nil, domain.ErrKioskNotFound
	}

	status := input.Status
	if status == "" {
		status = domain.TicketOpen
	}

	now := s.now()
	ticket := &domain.Ticket{
		ID:              uuid.New(),
		WorkspaceID:     access.Workspace.ID,
		KioskID:         input.KioskID,
		Title:           input.Title,
		Description:     input.Description,
		Status:          status,
		ReporterID:      userID,
		AssigneeID:      input.AssigneeID,
		ReportedDate:    now,
		MaintenanceTime: input.MaintenanceTime,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.ticketRepo.Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.invalidateStats(ctx, access.Workspace.ID)
	s.record(ctx, access.Workspace.ID, ticket.ID, userID, domain.ActivityTicketCreated, ticket.Title)

	return ticket, nil
}

// Update updates a ticket (member or higher)
func (s *TicketService) Update(ctx context.Context, ref string, userID, ticketID uuid.UUID, input domain.TicketUpdate) (*domain.Ticket, error) {
	access, err := s.access.Require(ctx, ref, userID, domain.RoleMember)
	if err != nil {
		return nil, err
	}

	if _, err := s.getInWorkspace(ctx, access.Workspace.ID, ticketID); err != nil {
		return nil, err
	}

	if err := s.ticketRepo.Update(ctx, ticketID, &input); err != nil {
		return nil, err
	}

	s.invalidateStats(ctx, access.Workspace.ID)
	s.record(ctx, access.Workspace.ID, ticketID, userID, domain.ActivityTicketUpdated, "")

	return s.ticketRepo.GetByID(ctx, ticketID)
}

// Delete deletes a ticket (admin only)
func (s *TicketService) Delete(ctx context.Context, ref string, userID, ticketID uuid.UUID) error {
	access, err := s.access.Require(ctx, ref, userID, domain.RoleAdmin)
	if err != nil {
		return err
	}

	ticket, err := s.getInWorkspace(ctx, access.Workspace.ID, ticketID)
	if err != nil {
		return err
	}

	if err := s.ticketRepo.Delete(ctx, ticketID); err != nil {
		return err
	}

	s.invalidateStats(ctx, access.Workspace.ID)
	s.record(ctx, access.Workspace.ID, ticketID, userID, domain.ActivityTicketDeleted, ticket.Title)

	return nil
}

// AddComment appends a comment to a ticket (member or higher)
func (s *TicketService) AddComment(ctx context.Context, ref string, userID, ticketID uuid.UUID, input domain.CommentCreate) (*domain.Comment, error) {
	access, err := s.access.Require(ctx, ref, userID, domain.RoleMember)
	if err != nil {
		return nil, err
	}

	if _, err := s.getInWorkspace(ctx, access.Workspace.ID, ticketID); err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		ID:        uuid.New(),
		TicketID:  ticketID,
		AuthorID:  userID,
		Body:      input.Body,
		CreatedAt: s.now(),
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.record(ctx, access.Workspace.ID, ticketID, userID, domain.ActivityCommentAdded, "")

	return comment, nil
}

// ListComments retrieves a ticket's comments in creation order
func (s *TicketService) ListComments(ctx context.Context, ref string, userID, ticketID uuid.UUID) ([]domain.Comment, error) {
	access, err := s.access.Require(ctx, ref, userID, domain.RoleViewer)
	if err != nil {
		return nil, err
	}

	if _, err := s.getInWorkspace(ctx, access.Workspace.ID, ticketID); err != nil {
		return nil, err
	}

	return s.commentRepo.ListByTicket(ctx, ticketID)
}

// Stats returns per-status ticket counts for a workspace, cached briefly
func (s *TicketService) Stats(ctx context.Context, ref string, userID uuid.UUID) (*domain.TicketStats, error) {
	access, err := s.access.Require(ctx, ref, userID, domain.RoleViewer)
	if err != nil {
		return nil, err
	}

	if s.statsCache != nil {
		if cached, err := s.statsCache.Get(ctx, access.Workspace.ID); err == nil && cached != nil {
			return cached, nil
		}
	}

	counts, err := s.ticketRepo.CountByStatus(ctx, access.Workspace.ID)
	if err != nil {
		return nil, err
	}

	stats := &domain.TicketStats{ByStatus: counts}
	for _, n := range counts {
		stats.Total += n
	}

	if s.statsCache != nil {
		if err := s.statsCache.Set(ctx, access.Workspace.ID, stats); err != nil {
			log.Warn().Err(err).Msg("Failed to cache ticket stats")
		}
	}

	return stats, nil
}

// Activity retrieves a ticket's audit trail, newest first
func (s *TicketService) Activity(ctx context.Context, ref string, userID, ticketID uuid.UUID, limit int64) ([]domain.ActivityEntry, error) {
	access, err := s.access.Require(ctx, ref, userID, domain.RoleViewer)
	if err != nil {
		return nil, err
	}

	if _, err := s.getInWorkspace(ctx, access.Workspace.ID, ticketID); err != nil {
		return nil, err
	}

	if s.activity == nil {
		return nil, nil
	}

	return s.activity.ListByTicket(ctx, ticketID, limit)
}

// getInWorkspace fetches a ticket and hides records belonging to another
// workspace behind not-found, so object references cannot cross tenant
// boundaries.
func (s *TicketService) getInWorkspace(ctx context.Context, workspaceID, ticketID uuid.UUID) (*domain.Ticket, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket == nil || ticket.WorkspaceID != workspaceID {
		return nil, domain.ErrTicketNotFound
	}
	return ticket, nil
}

// record writes an activity entry best-effort; failures are logged, never
// surfaced.
func (s *TicketService) record(ctx context.Context, workspaceID, ticketID, actorID uuid.UUID, action, detail string) {
	if s.activity == nil {
		return
	}

	entry := &domain.ActivityEntry{
		WorkspaceID: workspaceID,
		TicketID:    ticketID,
		ActorID:     actorID,
		Action:      action,
		Detail:      detail,
		CreatedAt:   s.now(),
	}
	if err := s.activity.Record(ctx, entry); err != nil {
		log.Warn().Err(err).Str("action", action).Msg("Failed to record ticket activity")
	}
}

func (s *TicketService) invalidateStats(ctx context.Context, workspaceID uuid.UUID) {
	if s.statsCache == nil {
		return
	}
	if err := s.statsCache.Invalidate(ctx, workspaceID); err != nil {
		log.Warn().Err(err).Msg("Failed to invalidate ticket stats cache")
	}
}
