package dashboard

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-dashboard/internal/domain"
	"github.com/spec-kit/helpdesk-dashboard/internal/events"
	"github.com/spec-kit/helpdesk-dashboard/internal/workflow"
	apperrors "github.com/spec-kit/helpdesk-dashboard/pkg/util"
)

const actionCreate workflow.Action = "create"

// Every mutating action validates locally, calls the API, announces the change and reloads the
// whole snapshot. Nothing reaches the network when local validation fails.

func (s *Session) allowed(action workflow.Action, id string) (domain.Ticket, error) {
	ticket, ok := s.store.Ticket(id)
	if !ok {
		return domain.Ticket{}, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
	}
	if err := s.checker.Allowed(action, ticket, s.viewer); err != nil {
		return domain.Ticket{}, err
	}
	return ticket, nil
}

func (s *Session) complete(ctx context.Context, action workflow.Action, before, after domain.Ticket) {
	s.logger.Info("ticket action completed",
		zap.String("action", string(action)),
		zap.String("ticket_id", after.ID),
		zap.String("old_status", string(before.Status)),
		zap.String("new_status", string(after.Status)),
	)
	s.publish(ctx, events.EventActionCompleted, after.ID, events.ActionCompletedPayload{
		Action:    string(action),
		OldStatus: before.Status,
		NewStatus: after.Status,
	})
	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn("reload after action failed", zap.String("action", string(action)), zap.Error(err))
	}
}

// Create submits a new ticket.
func (s *Session) Create(ctx context.Context, in workflow.CreateTicketInput) (domain.Ticket, error) {
	if err := s.checker.CheckCreate(&in); err != nil {
		return domain.Ticket{}, err
	}
	created, err := s.api.CreateTicket(ctx, s.token, in)
	if err != nil {
		return domain.Ticket{}, err
	}
	s.complete(ctx, actionCreate, domain.Ticket{}, created)
	return created, nil
}

// Assign hands a pending ticket to a technician. The returned ticket is merged into the
// snapshot before the reload.
func (s *Session) Assign(ctx context.Context, id string, in workflow.AssignInput) (domain.Ticket, error) {
	if err := s.checker.CheckAssign(&in); err != nil {
		return domain.Ticket{}, err
	}
	before, err := s.allowed(workflow.ActionAssign, id)
	if err != nil {
		return domain.Ticket{}, err
	}
	updated, err := s.api.AssignTicket(ctx, s.token, id, in)
	if err != nil {
		return domain.Ticket{}, err
	}
	s.store.UpsertTicket(updated)
	s.complete(ctx, workflow.ActionAssign, before, updated)
	return updated, nil
}

// Reassign moves an active ticket to another technician.
func (s *Session) Reassign(ctx context.Context, id string, in workflow.ReassignInput) (domain.Ticket, error) {
	before, err := s.allowed(workflow.ActionReassign, id)
	if err != nil {
		return domain.Ticket{}, err
	}
	if err := s.checker.CheckReassign(&in, before); err != nil {
		return domain.Ticket{}, err
	}
	updated, err := s.api.ReassignTicket(ctx, s.token, id, in)
	if err != nil {
		return domain.Ticket{}, err
	}
	s.complete(ctx, workflow.ActionReassign, before, updated)
	return updated, nil
}

// Escalate raises the priority by one level.
func (s *Session) Escalate(ctx context.Context, id string) (domain.Ticket, error) {
	before, err := s.allowed(workflow.ActionEscalate, id)
	if err != nil {
		return domain.Ticket{}, err
	}
	updated, err := s.api.EscalateTicket(ctx, s.token, id)
	if err != nil {
		return domain.Ticket{}, err
	}
	s.complete(ctx, workflow.ActionEscalate, before, updated)
	return updated, nil
}

// Close closes a resolved ticket.
func (s *Session) Close(ctx context.Context, id string) (domain.Ticket, error) {
	before, err := s.allowed(workflow.ActionClose, id)
	if err != nil {
		return domain.Ticket{}, err
	}
	updated, err := s.api.UpdateStatus(ctx, s.token, id, domain.TicketStatusClosed)
	if err != nil {
		return domain.Ticket{}, err
	}
	s.complete(ctx, workflow.ActionClose, before, updated)
	return updated, nil
}

// Reopen reopens a rejected ticket onto a technician.
func (s *Session) Reopen(ctx context.Context, id string, in workflow.ReopenInput) (domain.Ticket, error) {
	if err := s.checker.CheckReopen(&in); err != nil {
		return domain.Ticket{}, err
	}
	before, err := s.allowed(workflow.ActionReopen, id)
	if err != nil {
		return domain.Ticket{}, err
	}
	updated, err := s.api.ReopenTicket(ctx, s.token, id, in)
	if err != nil {
		return domain.Ticket{}, err
	}
	s.complete(ctx, workflow.ActionReopen, before, updated)
	return updated, nil
}

// Validate records the requester decision on a resolved ticket.
func (s *Session) Validate(ctx context.Context, id string, in workflow.ValidateInput) (domain.Ticket, error) {
	if err := s.checker.CheckValidate(&in); err != nil {
		return domain.Ticket{}, err
	}
	before, err := s.allowed(workflow.ActionValidate, id)
	if err != nil {
		return domain.Ticket{}, err
	}
	updated, err := s.api.ValidateTicket(ctx, s.token, id, in)
	if err != nil {
		return domain.Ticket{}, err
	}
	s.complete(ctx, workflow.ActionValidate, before, updated)
	return updated, nil
}

// Feedback rates a closed ticket.
func (s *Session) Feedback(ctx context.Context, id string, in workflow.FeedbackInput) (domain.Ticket, error) {
	if err := s.checker.CheckFeedback(&in); err != nil {
		return domain.Ticket{}, err
	}
	before, err := s.allowed(workflow.ActionFeedback, id)
	if err != nil {
		return domain.Ticket{}, err
	}
	updated, err := s.api.SubmitFeedback(ctx, s.token, id, in)
	if err != nil {
		return domain.Ticket{}, err
	}
	s.complete(ctx, workflow.ActionFeedback, before, updated)
	return updated, nil
}

// TakeCharge moves a ticket assigned to the viewer into progress.
func (s *Session) TakeCharge(ctx context.Context, id string) (domain.Ticket, error) {
	before, err := s.allowed(workflow.ActionTakeCharge, id)
	if err != nil {
		return domain.Ticket{}, err
	}
	updated, err := s.api.UpdateStatus(ctx, s.token, id, domain.TicketStatusInProgress)
	if err != nil {
		return domain.Ticket{}, err
	}
	s.complete(ctx, workflow.ActionTakeCharge, before, updated)
	return updated, nil
}

// Resolve marks an in-progress ticket resolved; the requester is then asked to validate it.
func (s *Session) Resolve(ctx context.Context, id string, in workflow.ResolveInput) (domain.Ticket, error) {
	if err := s.checker.CheckResolve(&in); err != nil {
		return domain.Ticket{}, err
	}
	before, err := s.allowed(workflow.ActionResolve, id)
	if err != nil {
		return domain.Ticket{}, err
	}
	updated, err := s.api.ResolveTicket(ctx, s.token, id, in)
	if err != nil {
		return domain.Ticket{}, err
	}
	s.complete(ctx, workflow.ActionResolve, before, updated)
	return updated, nil
}

// Comments lists the comments of a ticket.
func (s *Session) Comments(ctx context.Context, id string) ([]domain.Comment, error) {
	return s.api.ListComments(ctx, s.token, id)
}

// AddComment posts a comment on an active ticket assigned to the viewer. The ticket status does
// not change, so the snapshot is not reloaded.
func (s *Session) AddComment(ctx context.Context, id string, in workflow.CommentInput) (domain.Comment, error) {
	if err := s.checker.CheckComment(&in); err != nil {
		return domain.Comment{}, err
	}
	if _, err := s.allowed(workflow.ActionComment, id); err != nil {
		return domain.Comment{}, err
	}
	created, err := s.api.AddComment(ctx, s.token, id, in)
	if err != nil {
		return domain.Comment{}, err
	}
	s.logger.Info("ticket comment added", zap.String("ticket_id", id), zap.String("type", string(in.Type)))
	return created, nil
}
