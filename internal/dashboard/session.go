// Package dashboard keeps one live dashboard per authenticated viewer: its ticket snapshot,
// the periodic refresh, the UI state record and the actions relayed to the helpdesk API.
package dashboard

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/helpdesk-dashboard/internal/domain"
	"github.com/spec-kit/helpdesk-dashboard/internal/events"
	"github.com/spec-kit/helpdesk-dashboard/internal/metrics"
	"github.com/spec-kit/helpdesk-dashboard/internal/workflow"
	apperrors "github.com/spec-kit/helpdesk-dashboard/pkg/util"
)

// API is the part of the helpdesk API a session consumes.
type API interface {
	Me(ctx context.Context, token string) (domain.Viewer, error)
	ListTickets(ctx context.Context, token string) ([]domain.Ticket, error)
	ListMyTickets(ctx context.Context, token string) ([]domain.Ticket, error)
	ListAssignedTickets(ctx context.Context, token string) ([]domain.Ticket, error)
	GetTicket(ctx context.Context, token, id string) (domain.Ticket, error)
	TicketHistory(ctx context.Context, token, id string) ([]domain.TicketHistory, error)
	CreateTicket(ctx context.Context, token string, in workflow.CreateTicketInput) (domain.Ticket, error)
	AssignTicket(ctx context.Context, token, id string, in workflow.AssignInput) (domain.Ticket, error)
	ReassignTicket(ctx context.Context, token, id string, in workflow.ReassignInput) (domain.Ticket, error)
	EscalateTicket(ctx context.Context, token, id string) (domain.Ticket, error)
	UpdateStatus(ctx context.Context, token, id string, status domain.TicketStatus) (domain.Ticket, error)
	ResolveTicket(ctx context.Context, token, id string, in workflow.ResolveInput) (domain.Ticket, error)
	ListComments(ctx context.Context, token, id string) ([]domain.Comment, error)
	AddComment(ctx context.Context, token, id string, in workflow.CommentInput) (domain.Comment, error)
	ReopenTicket(ctx context.Context, token, id string, in workflow.ReopenInput) (domain.Ticket, error)
	ValidateTicket(ctx context.Context, token, id string, in workflow.ValidateInput) (domain.Ticket, error)
	SubmitFeedback(ctx context.Context, token, id string, in workflow.FeedbackInput) (domain.Ticket, error)
	ListTechnicians(ctx context.Context, token string) ([]domain.Technician, error)
	ListNotifications(ctx context.Context, token string) ([]domain.Notification, error)
	UnreadCount(ctx context.Context, token string) (int, error)
	MarkNotificationRead(ctx context.Context, token, id string) error
}

// Row is one line of the ticket list with the actions it offers.
type Row struct {
	Ticket  domain.Ticket      `json:"ticket"`
	Actions workflow.ActionSet `json:"actions"`
}

// Detail is the ticket detail view.
type Detail struct {
	Ticket          domain.Ticket          `json:"ticket"`
	History         []domain.TicketHistory `json:"history"`
	RejectionReason string                 `json:"rejection_reason,omitempty"`
	Actions         workflow.ActionSet     `json:"actions"`
}

// Session is the live dashboard of one viewer.
type Session struct {
	key        string
	token      string
	viewer     domain.Viewer
	api        API
	store      *Store
	policy     workflow.Policy
	checker    *workflow.Checker
	engine     *metrics.Engine
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
	poller     *Poller

	uiMu sync.Mutex
	ui   domain.UIState

	lastSeen atomic.Int64
}

// SessionConfig bundles the collaborators of a session.
type SessionConfig struct {
	Key          string
	Token        string
	Viewer       domain.Viewer
	API          API
	Engine       *metrics.Engine
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
	PollInterval time.Duration
	Now          func() time.Time
}

// NewSession builds a session; the poller is not started.
func NewSession(cfg SessionConfig) *Session {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	engine := cfg.Engine
	if engine == nil {
		engine = metrics.NewEngine()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	policy := workflow.NewPolicy()
	s := &Session{
		key:        cfg.Key,
		token:      strings.Clone(cfg.Token),
		viewer:     cfg.Viewer,
		api:        cfg.API,
		store:      NewStore(),
		policy:     policy,
		checker:    workflow.NewChecker(policy),
		engine:     engine,
		dispatcher: cfg.Dispatcher,
		logger:     logger.With(zap.String("viewer_id", cfg.Viewer.ID), zap.String("role", string(cfg.Viewer.RoleName()))),
		now:        now,
		ui:         domain.DefaultUIState(),
	}
	s.poller = NewPoller(interval, s.Refresh, s.logger)
	s.Touch()
	return s
}

// Key identifies the session without exposing the token.
func (s *Session) Key() string { return s.key }

// Viewer returns the authenticated user.
func (s *Session) Viewer() domain.Viewer { return s.viewer }

// Touch records activity.
func (s *Session) Touch() { s.lastSeen.Store(s.now().UnixNano()) }

// LastSeen returns the time of the last activity.
func (s *Session) LastSeen() time.Time { return time.Unix(0, s.lastSeen.Load()) }

// Snapshot returns a copy of the current data.
func (s *Session) Snapshot() domain.Snapshot { return s.store.Snapshot() }

// Restore installs a cached snapshot before the first refresh.
func (s *Session) Restore(snap domain.Snapshot) { s.store.Replace(snap) }

// Start begins periodic refreshes.
func (s *Session) Start(ctx context.Context) { s.poller.Start(ctx) }

// Stop halts periodic refreshes.
func (s *Session) Stop() { s.poller.Stop() }

func (s *Session) isStaff() bool {
	return s.viewer.RoleName().IsStaff()
}

func (s *Session) actor() events.Actor {
	return events.Actor{SessionKey: s.key, UserID: s.viewer.ID, Role: s.viewer.RoleName()}
}

func (s *Session) publish(ctx context.Context, eventType events.EventType, ticketID string, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.New(eventType, s.actor(), ticketID, payload))
}

// Refresh reloads tickets, technicians (staff only) and notifications concurrently. Parts that
// succeed are stored even when another part fails; the first failure is returned.
func (s *Session) Refresh(ctx context.Context) error {
	var (
		g        errgroup.Group
		failedMu sync.Mutex
		failed   []string
	)
	fail := func(part string, err error) error {
		failedMu.Lock()
		failed = append(failed, part)
		failedMu.Unlock()
		return fmt.Errorf("refresh %s: %w", part, err)
	}

	g.Go(func() error {
		list, err := s.fetchTickets(ctx)
		if err != nil {
			return fail("tickets", err)
		}
		s.store.SetTickets(list, s.now())
		return nil
	})
	if s.isStaff() {
		g.Go(func() error {
			list, err := s.api.ListTechnicians(ctx, s.token)
			if err != nil {
				return fail("technicians", err)
			}
			s.store.SetTechnicians(list, s.now())
			return nil
		})
	}
	g.Go(func() error {
		list, err := s.api.ListNotifications(ctx, s.token)
		if err != nil {
			return fail("notifications", err)
		}
		s.store.SetNotifications(list, s.now())
		return nil
	})
	g.Go(func() error {
		n, err := s.api.UnreadCount(ctx, s.token)
		if err != nil {
			return fail("unread_count", err)
		}
		s.store.SetUnreadCount(n, s.now())
		return nil
	})

	err := g.Wait()
	s.publish(ctx, events.EventSnapshotRefreshed, "", events.SnapshotRefreshedPayload{
		Snapshot: s.store.Snapshot(),
		Failed:   failed,
	})
	return err
}

func (s *Session) fetchTickets(ctx context.Context) ([]domain.Ticket, error) {
	switch {
	case s.isStaff():
		return s.api.ListTickets(ctx, s.token)
	case s.viewer.RoleName() == domain.RoleTechnician:
		return s.api.ListAssignedTickets(ctx, s.token)
	}
	return s.api.ListMyTickets(ctx, s.token)
}

// Rows lists snapshot tickets with their actions. An empty status keeps every status.
func (s *Session) Rows(status domain.TicketStatus, delegation workflow.DelegationFilter) []Row {
	tickets := workflow.FilterDelegation(s.store.Snapshot().Tickets, delegation, s.viewer)
	rows := make([]Row, 0, len(tickets))
	for _, t := range tickets {
		if status != "" && t.Status != status {
			continue
		}
		rows = append(rows, Row{Ticket: t, Actions: s.policy.Actions(t, s.viewer)})
	}
	return rows
}

// Detail fetches the current ticket and its history.
func (s *Session) Detail(ctx context.Context, id string) (Detail, error) {
	var (
		ticket  domain.Ticket
		history []domain.TicketHistory
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ticket, err = s.api.GetTicket(gctx, s.token, id)
		return err
	})
	g.Go(func() error {
		var err error
		history, err = s.api.TicketHistory(gctx, s.token, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return Detail{}, err
	}

	d := Detail{Ticket: ticket, History: history, Actions: s.policy.Actions(ticket, s.viewer)}
	if ticket.Status == domain.TicketStatusRejected {
		d.RejectionReason = workflow.RejectionReason(history)
	}
	return d, nil
}

// Candidates lists technicians matching the ticket type with their workload.
func (s *Session) Candidates(id string) ([]workflow.TechnicianOption, error) {
	if !s.isStaff() {
		return nil, apperrors.NewForbidden(workflow.MessageActionNotAvailable)
	}
	ticket, ok := s.store.Ticket(id)
	if !ok {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
	}
	snap := s.store.Snapshot()
	return workflow.TechnicianOptions(ticket, snap.Technicians, snap.Tickets), nil
}

// Summary counts the requester dashboard tiles.
func (s *Session) Summary() metrics.RequesterSummary {
	return metrics.Summarize(s.store.Snapshot().Tickets)
}

// Report computes the reporting figures; reports are a staff feature.
func (s *Session) Report() (metrics.Report, error) {
	return s.ReportBetween(nil, nil)
}

// ReportBetween computes the reporting figures over tickets created within [from, to]. Nil
// bounds are open; tickets without a creation date only count in unbounded reports.
func (s *Session) ReportBetween(from, to *time.Time) (metrics.Report, error) {
	if !s.isStaff() {
		return metrics.Report{}, apperrors.NewForbidden("Rapports réservés à la DSI")
	}
	snap := s.store.Snapshot()
	tickets := snap.Tickets
	if from != nil || to != nil {
		tickets = make([]domain.Ticket, 0, len(snap.Tickets))
		for _, t := range snap.Tickets {
			if !t.CreatedAt.Valid() {
				continue
			}
			if from != nil && t.CreatedAt.Before(*from) {
				continue
			}
			if to != nil && t.CreatedAt.After(*to) {
				continue
			}
			tickets = append(tickets, t)
		}
	}
	return s.engine.Build(tickets, snap.Technicians), nil
}

// UIState returns the presentation state.
func (s *Session) UIState() domain.UIState {
	s.uiMu.Lock()
	defer s.uiMu.Unlock()
	return s.ui
}

// RestoreUIState installs a persisted state.
func (s *Session) RestoreUIState(state domain.UIState) {
	s.uiMu.Lock()
	defer s.uiMu.Unlock()
	s.ui = state
}

// ApplyUI runs a UI transition and announces the new state.
func (s *Session) ApplyUI(ctx context.Context, t domain.Transition) (domain.UIState, error) {
	if t.Event == domain.TransitionSetFilters {
		if _, err := workflow.ParseDelegationFilter(t.Filters.Delegation); err != nil {
			return s.UIState(), apperrors.NewValidationError("Filtre de délégation inconnu", map[string]any{"delegation": t.Filters.Delegation})
		}
	}

	s.uiMu.Lock()
	next, err := s.ui.Apply(t)
	if err == nil {
		s.ui = next
	}
	s.uiMu.Unlock()
	if err != nil {
		return next, err
	}

	s.publish(ctx, events.EventUIStateChanged, next.TicketID, events.UIStateChangedPayload{State: next})
	return next, nil
}
