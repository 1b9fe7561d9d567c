// Package workflow decides which actions a dashboard offers for a ticket and checks the
// operator input of those actions before anything is sent to the helpdesk API.
package workflow

import "github.com/spec-kit/helpdesk-dashboard/internal/domain"

// Action identifies an operation a dashboard row can expose.
type Action string

const (
	ActionViewDetails Action = "view_details"
	ActionAssign      Action = "assign"
	ActionReassign    Action = "reassign"
	ActionEscalate    Action = "escalate"
	ActionClose       Action = "close"
	ActionReopen      Action = "reopen"
	ActionValidate    Action = "validate"
	ActionFeedback    Action = "feedback"
	ActionTakeCharge  Action = "take_charge"
	ActionResolve     Action = "resolve"
	ActionComment     Action = "comment"
)

// Requirement names an input the operator has to provide before the action can be sent.
type Requirement string

const (
	RequireTechnician      Requirement = "technician"
	RequireRejectionReason Requirement = "rejection_reason"
	RequireScore           Requirement = "score"
	RequireResolution      Requirement = "resolution_summary"
	RequireContent         Requirement = "content"
)

// Disable reasons shown next to an action that is listed but cannot be triggered.
const (
	ReasonPriorityAtMaximum = "Priorité déjà au maximum (Critique)"
)

// Permission describes one action available on a ticket.
type Permission struct {
	Action   Action              `json:"action"`
	Enabled  bool                `json:"enabled"`
	Reason   string              `json:"reason,omitempty"`
	Requires []Requirement       `json:"requires,omitempty"`
	Target   domain.TicketStatus `json:"target,omitempty"`
}

// ActionSet is the ordered list of actions a ticket row exposes.
type ActionSet []Permission

// Get returns the permission for a, if listed.
func (s ActionSet) Get(a Action) (Permission, bool) {
	for _, p := range s {
		if p.Action == a {
			return p, true
		}
	}
	return Permission{}, false
}

// Allows reports whether a is listed and enabled.
func (s ActionSet) Allows(a Action) bool {
	p, ok := s.Get(a)
	return ok && p.Enabled
}

// Actions lists the action names, for logging and tests.
func (s ActionSet) Actions() []Action {
	out := make([]Action, 0, len(s))
	for _, p := range s {
		out = append(out, p.Action)
	}
	return out
}

// Policy evaluates the client-side ticket workflow. It holds no state.
type Policy struct{}

// NewPolicy returns the workflow policy.
func NewPolicy() Policy {
	return Policy{}
}

// Actions returns the actions viewer may trigger on ticket.
func (Policy) Actions(ticket domain.Ticket, viewer domain.Viewer) ActionSet {
	set := ActionSet{{Action: ActionViewDetails, Enabled: true}}

	if viewer.RoleName().IsStaff() {
		set = append(set, staffActions(ticket, viewer.RoleName())...)
	}
	if viewer.RoleName() == domain.RoleTechnician && viewer.ID != "" && ticket.TechnicianIDValue() == viewer.ID {
		set = append(set, technicianActions(ticket)...)
	}
	if viewer.ID != "" && ticket.CreatorID == viewer.ID {
		set = append(set, requesterActions(ticket)...)
	}
	return set
}

// technicianActions covers tickets assigned to the viewer.
func technicianActions(ticket domain.Ticket) []Permission {
	var out []Permission
	switch ticket.Status {
	case domain.TicketStatusAssignedTechnician:
		out = append(out, Permission{
			Action:  ActionTakeCharge,
			Enabled: true,
			Target:  domain.TicketStatusInProgress,
		})
	case domain.TicketStatusInProgress:
		out = append(out, Permission{
			Action:   ActionResolve,
			Enabled:  true,
			Requires: []Requirement{RequireResolution},
			Target:   domain.TicketStatusResolved,
		})
	}
	if ticket.Status.IsActive() {
		out = append(out, Permission{
			Action:   ActionComment,
			Enabled:  true,
			Requires: []Requirement{RequireContent},
		})
	}
	return out
}

func staffActions(ticket domain.Ticket, role domain.Role) []Permission {
	var out []Permission
	switch ticket.Status {
	case domain.TicketStatusPendingAnalysis:
		if !ticket.HasTechnician() {
			out = append(out, Permission{
				Action:   ActionAssign,
				Enabled:  true,
				Requires: []Requirement{RequireTechnician},
				Target:   domain.TicketStatusAssignedTechnician,
			})
		}
		if canEscalate(role) {
			out = append(out, escalatePermission(ticket))
		}
	case domain.TicketStatusAssignedTechnician, domain.TicketStatusInProgress:
		out = append(out, Permission{
			Action:   ActionReassign,
			Enabled:  true,
			Requires: []Requirement{RequireTechnician},
			Target:   ticket.Status,
		})
		if canEscalate(role) {
			out = append(out, escalatePermission(ticket))
		}
	case domain.TicketStatusResolved:
		out = append(out, Permission{
			Action:  ActionClose,
			Enabled: true,
			Target:  domain.TicketStatusClosed,
		})
	case domain.TicketStatusRejected:
		out = append(out, Permission{
			Action:   ActionReopen,
			Enabled:  true,
			Requires: []Requirement{RequireTechnician},
			Target:   domain.TicketStatusAssignedTechnician,
		})
	}
	return out
}

func requesterActions(ticket domain.Ticket) []Permission {
	switch ticket.Status {
	case domain.TicketStatusResolved:
		return []Permission{{
			Action:   ActionValidate,
			Enabled:  true,
			Requires: []Requirement{RequireRejectionReason},
		}}
	case domain.TicketStatusClosed:
		if _, given := ticket.Feedback(); !given {
			return []Permission{{
				Action:   ActionFeedback,
				Enabled:  true,
				Requires: []Requirement{RequireScore},
			}}
		}
	}
	return nil
}

// canEscalate hides escalation from secretaries entirely.
func canEscalate(role domain.Role) bool {
	return role != domain.RoleSecretary
}

func escalatePermission(ticket domain.Ticket) Permission {
	p := Permission{Action: ActionEscalate, Enabled: true, Target: ticket.Status}
	if ticket.Priority == domain.TicketPriorityCritical {
		p.Enabled = false
		p.Reason = ReasonPriorityAtMaximum
	}
	return p
}
