package workflow

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/spec-kit/helpdesk-dashboard/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-dashboard/pkg/util"
)

// Operator-facing validation messages.
const (
	MessageTechnicianRequired      = "Veuillez sélectionner un technicien"
	MessageSameTechnician          = "Le ticket est déjà assigné à ce technicien"
	MessageScoreOutOfRange         = "Veuillez sélectionner un score entre 1 et 5"
	MessageRejectionReasonRequired = "Un motif de rejet est requis"
	MessageTicketFieldsRequired    = "Le titre, la description, le type et la priorité sont requis"
	MessageActionNotAvailable      = "Action non disponible pour ce ticket"
	MessageResolutionRequired      = "Veuillez entrer un résumé de la résolution"
	MessageCommentRequired         = "Veuillez entrer un commentaire"
)

// AssignInput is the body of PUT /tickets/{id}/assign.
type AssignInput struct {
	TechnicianID string `json:"technician_id" validate:"required"`
	Reason       string `json:"reason,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// ReassignInput is the body of PUT /tickets/{id}/reassign.
type ReassignInput struct {
	TechnicianID string `json:"technician_id" validate:"required"`
	Reason       string `json:"reason,omitempty"`
}

// ReopenInput is the body of PUT /tickets/{id}/reopen.
type ReopenInput struct {
	TechnicianID string `json:"technician_id" validate:"required"`
	Reason       string `json:"reason,omitempty"`
}

// ValidateInput is the body of PUT /tickets/{id}/validate.
type ValidateInput struct {
	Validated       bool   `json:"validated"`
	RejectionReason string `json:"rejection_reason,omitempty"`
}

// FeedbackInput is the body of PUT /tickets/{id}/feedback.
type FeedbackInput struct {
	Score   int    `json:"score" validate:"min=1,max=5"`
	Comment string `json:"comment"`
}

// ResolveInput carries the summary sent with PUT /tickets/{id}/status when a technician
// resolves a ticket.
type ResolveInput struct {
	ResolutionSummary string `json:"resolution_summary" validate:"required"`
}

// StatusInput is the body of PUT /tickets/{id}/status.
type StatusInput struct {
	Status            domain.TicketStatus `json:"status"`
	ResolutionSummary string              `json:"resolution_summary,omitempty"`
}

// CommentInput is the body of POST /tickets/{id}/comments.
type CommentInput struct {
	TicketID string             `json:"ticket_id"`
	Content  string             `json:"content" validate:"required"`
	Type     domain.CommentType `json:"type" validate:"omitempty,oneof=technique utilisateur"`
}

// CreateTicketInput is the body of POST /tickets/.
type CreateTicketInput struct {
	Title       string                `json:"title" validate:"required"`
	Description string                `json:"description" validate:"required"`
	Type        domain.TicketType     `json:"type" validate:"required,oneof=materiel applicatif"`
	Priority    domain.TicketPriority `json:"priority" validate:"required,oneof=critique haute moyenne faible"`
	Category    string                `json:"category,omitempty"`
}

// Checker validates action inputs against the policy before any request is issued.
type Checker struct {
	policy   Policy
	validate *validator.Validate
}

// NewChecker builds a checker around policy.
func NewChecker(policy Policy) *Checker {
	return &Checker{policy: policy, validate: validator.New()}
}

// Allowed fails when action is not offered, or disabled, for ticket.
func (c *Checker) Allowed(action Action, ticket domain.Ticket, viewer domain.Viewer) error {
	p, ok := c.policy.Actions(ticket, viewer).Get(action)
	if !ok {
		return apperrors.NewForbidden(MessageActionNotAvailable)
	}
	if !p.Enabled {
		return apperrors.NewConflict(p.Reason, map[string]any{"action": action})
	}
	return nil
}

// CheckAssign validates an assignment.
func (c *Checker) CheckAssign(in *AssignInput) error {
	in.TechnicianID = strings.TrimSpace(in.TechnicianID)
	if err := c.validate.Struct(in); err != nil {
		return technicianError(err)
	}
	return nil
}

// CheckReassign validates a reassignment; the new technician must differ from the current one.
func (c *Checker) CheckReassign(in *ReassignInput, ticket domain.Ticket) error {
	in.TechnicianID = strings.TrimSpace(in.TechnicianID)
	if err := c.validate.Struct(in); err != nil {
		return technicianError(err)
	}
	if in.TechnicianID == ticket.TechnicianIDValue() {
		return apperrors.NewValidationError(MessageSameTechnician, map[string]any{"technician_id": in.TechnicianID})
	}
	return nil
}

// CheckReopen validates a reopening; a technician must be selected again.
func (c *Checker) CheckReopen(in *ReopenInput) error {
	in.TechnicianID = strings.TrimSpace(in.TechnicianID)
	if err := c.validate.Struct(in); err != nil {
		return technicianError(err)
	}
	return nil
}

// CheckValidate requires a motive when the requester rejects the resolution.
func (c *Checker) CheckValidate(in *ValidateInput) error {
	in.RejectionReason = strings.TrimSpace(in.RejectionReason)
	if !in.Validated && in.RejectionReason == "" {
		return apperrors.NewValidationError(MessageRejectionReasonRequired, nil)
	}
	return nil
}

// CheckFeedback enforces the 1 to 5 rating scale.
func (c *Checker) CheckFeedback(in *FeedbackInput) error {
	if err := c.validate.Struct(in); err != nil {
		return apperrors.NewValidationError(MessageScoreOutOfRange, map[string]any{"score": in.Score})
	}
	return nil
}

// CheckResolve requires a resolution summary.
func (c *Checker) CheckResolve(in *ResolveInput) error {
	in.ResolutionSummary = strings.TrimSpace(in.ResolutionSummary)
	if err := c.validate.Struct(in); err != nil {
		return apperrors.NewValidationError(MessageResolutionRequired, fieldDetails(err))
	}
	return nil
}

// CheckComment requires content and defaults the type to a technical comment.
func (c *Checker) CheckComment(in *CommentInput) error {
	in.Content = strings.TrimSpace(in.Content)
	if in.Type == "" {
		in.Type = domain.CommentTypeTechnical
	}
	if err := c.validate.Struct(in); err != nil {
		return apperrors.NewValidationError(MessageCommentRequired, fieldDetails(err))
	}
	return nil
}

// CheckCreate validates a new ticket.
func (c *Checker) CheckCreate(in *CreateTicketInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if err := c.validate.Struct(in); err != nil {
		return apperrors.NewValidationError(MessageTicketFieldsRequired, fieldDetails(err))
	}
	return nil
}

func technicianError(err error) error {
	return apperrors.NewValidationError(MessageTechnicianRequired, fieldDetails(err))
}

func fieldDetails(err error) map[string]any {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	details := make(map[string]any, len(verrs))
	for _, fe := range verrs {
		details[fe.Field()] = fe.Tag()
	}
	return details
}
