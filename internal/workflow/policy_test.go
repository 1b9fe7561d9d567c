package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-dashboard/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-dashboard/pkg/util"
)

func ptr(s string) *string { return &s }

func viewer(id string, role domain.Role) domain.Viewer {
	return domain.Viewer{ID: id, FullName: "Test " + string(role), Role: domain.RoleRef{Name: role}}
}

func TestActionsForStaff(t *testing.T) {
	policy := NewPolicy()
	deputy := viewer("dep-1", domain.RoleDeputy)
	secretary := viewer("sec-1", domain.RoleSecretary)

	t.Run("should offer assign and escalate on an unassigned pending ticket", func(t *testing.T) {
		ticket := domain.Ticket{ID: "t1", Status: domain.TicketStatusPendingAnalysis, Priority: domain.TicketPriorityMedium}
		set := policy.Actions(ticket, deputy)
		assert.Equal(t, []Action{ActionViewDetails, ActionAssign, ActionEscalate}, set.Actions())

		assign, ok := set.Get(ActionAssign)
		require.True(t, ok)
		assert.Equal(t, []Requirement{RequireTechnician}, assign.Requires)
		assert.Equal(t, domain.TicketStatusAssignedTechnician, assign.Target)
	})

	t.Run("should hide assign once a technician is set", func(t *testing.T) {
		ticket := domain.Ticket{ID: "t1", Status: domain.TicketStatusPendingAnalysis, TechnicianID: ptr("tech-1")}
		set := policy.Actions(ticket, deputy)
		assert.False(t, set.Allows(ActionAssign))
		assert.True(t, set.Allows(ActionEscalate))
	})

	t.Run("should never show escalate to a secretary", func(t *testing.T) {
		for _, status := range []domain.TicketStatus{
			domain.TicketStatusPendingAnalysis,
			domain.TicketStatusAssignedTechnician,
			domain.TicketStatusInProgress,
		} {
			set := policy.Actions(domain.Ticket{ID: "t1", Status: status}, secretary)
			_, listed := set.Get(ActionEscalate)
			assert.False(t, listed, status)
		}
	})

	t.Run("should offer reassign on assigned and in progress tickets", func(t *testing.T) {
		for _, status := range []domain.TicketStatus{domain.TicketStatusAssignedTechnician, domain.TicketStatusInProgress} {
			set := policy.Actions(domain.Ticket{ID: "t1", Status: status, TechnicianID: ptr("tech-1")}, deputy)
			assert.Equal(t, []Action{ActionViewDetails, ActionReassign, ActionEscalate}, set.Actions())
			reassign, _ := set.Get(ActionReassign)
			assert.Equal(t, status, reassign.Target)
		}
	})

	t.Run("should disable escalate at critical priority", func(t *testing.T) {
		ticket := domain.Ticket{ID: "t1", Status: domain.TicketStatusInProgress, Priority: domain.TicketPriorityCritical}
		set := policy.Actions(ticket, deputy)
		escalate, ok := set.Get(ActionEscalate)
		require.True(t, ok)
		assert.False(t, escalate.Enabled)
		assert.Equal(t, ReasonPriorityAtMaximum, escalate.Reason)
	})

	t.Run("should offer close on resolved tickets", func(t *testing.T) {
		set := policy.Actions(domain.Ticket{ID: "t1", Status: domain.TicketStatusResolved}, secretary)
		assert.Equal(t, []Action{ActionViewDetails, ActionClose}, set.Actions())
	})

	t.Run("should offer reopen with a technician on rejected tickets", func(t *testing.T) {
		set := policy.Actions(domain.Ticket{ID: "t1", Status: domain.TicketStatusRejected}, secretary)
		reopen, ok := set.Get(ActionReopen)
		require.True(t, ok)
		assert.Equal(t, []Requirement{RequireTechnician}, reopen.Requires)
		assert.Equal(t, domain.TicketStatusAssignedTechnician, reopen.Target)
	})

	t.Run("should treat closed as terminal", func(t *testing.T) {
		for _, role := range []domain.Role{domain.RoleSecretary, domain.RoleDeputy, domain.RoleDSI, domain.RoleAdmin} {
			set := policy.Actions(domain.Ticket{ID: "t1", Status: domain.TicketStatusClosed}, viewer("x", role))
			assert.Equal(t, []Action{ActionViewDetails}, set.Actions(), role)
		}
	})

	t.Run("should only allow details on unknown statuses", func(t *testing.T) {
		set := policy.Actions(domain.Ticket{ID: "t1", Status: "archive"}, deputy)
		assert.Equal(t, []Action{ActionViewDetails}, set.Actions())
	})
}

func TestActionsForTechnician(t *testing.T) {
	policy := NewPolicy()
	tech := viewer("tech-1", domain.RoleTechnician)

	t.Run("should offer take charge on an assigned ticket", func(t *testing.T) {
		ticket := domain.Ticket{ID: "t1", Status: domain.TicketStatusAssignedTechnician, TechnicianID: ptr("tech-1")}
		set := policy.Actions(ticket, tech)
		assert.Equal(t, []Action{ActionViewDetails, ActionTakeCharge, ActionComment}, set.Actions())
		take, _ := set.Get(ActionTakeCharge)
		assert.Equal(t, domain.TicketStatusInProgress, take.Target)
	})

	t.Run("should offer resolve with a summary on an in progress ticket", func(t *testing.T) {
		ticket := domain.Ticket{ID: "t1", Status: domain.TicketStatusInProgress, TechnicianID: ptr("tech-1")}
		set := policy.Actions(ticket, tech)
		assert.Equal(t, []Action{ActionViewDetails, ActionResolve, ActionComment}, set.Actions())
		resolve, _ := set.Get(ActionResolve)
		assert.Equal(t, []Requirement{RequireResolution}, resolve.Requires)
		assert.Equal(t, domain.TicketStatusResolved, resolve.Target)
	})

	t.Run("should not act on tickets of another technician or finished tickets", func(t *testing.T) {
		other := domain.Ticket{ID: "t1", Status: domain.TicketStatusInProgress, TechnicianID: ptr("tech-2")}
		assert.Equal(t, []Action{ActionViewDetails}, policy.Actions(other, tech).Actions())

		resolved := domain.Ticket{ID: "t2", Status: domain.TicketStatusResolved, TechnicianID: ptr("tech-1")}
		assert.Equal(t, []Action{ActionViewDetails}, policy.Actions(resolved, tech).Actions())
	})

	t.Run("should keep technician actions away from staff", func(t *testing.T) {
		ticket := domain.Ticket{ID: "t1", Status: domain.TicketStatusAssignedTechnician, TechnicianID: ptr("dep-1")}
		set := policy.Actions(ticket, viewer("dep-1", domain.RoleDeputy))
		_, listed := set.Get(ActionTakeCharge)
		assert.False(t, listed)
	})
}

func TestActionsForRequester(t *testing.T) {
	policy := NewPolicy()
	requester := viewer("user-1", domain.RoleUser)
	score := 4

	resolved := domain.Ticket{ID: "t1", CreatorID: "user-1", Status: domain.TicketStatusResolved}
	assert.True(t, policy.Actions(resolved, requester).Allows(ActionValidate))
	assert.False(t, policy.Actions(resolved, requester).Allows(ActionClose))

	closed := domain.Ticket{ID: "t2", CreatorID: "user-1", Status: domain.TicketStatusClosed}
	assert.True(t, policy.Actions(closed, requester).Allows(ActionFeedback))

	closed.FeedbackScore = &score
	assert.False(t, policy.Actions(closed, requester).Allows(ActionFeedback))

	other := domain.Ticket{ID: "t3", CreatorID: "user-2", Status: domain.TicketStatusResolved}
	assert.Equal(t, []Action{ActionViewDetails}, policy.Actions(other, requester).Actions())
}

func TestCandidateTechnicians(t *testing.T) {
	roster := []domain.Technician{
		{ID: "a", FullName: "Awa", Specialization: domain.TicketTypeHardware},
		{ID: "b", FullName: "Bakary", Specialization: domain.TicketTypeApplication},
		{ID: "c", FullName: "Coumba"},
	}

	hw := CandidateTechnicians(roster, domain.TicketTypeHardware)
	require.Len(t, hw, 1)
	assert.Equal(t, "a", hw[0].ID)

	assert.Len(t, CandidateTechnicians(roster, ""), 3)
}

func TestWorkload(t *testing.T) {
	tickets := []domain.Ticket{
		{ID: "1", TechnicianID: ptr("a"), Status: domain.TicketStatusAssignedTechnician},
		{ID: "2", TechnicianID: ptr("a"), Status: domain.TicketStatusInProgress},
		{ID: "3", TechnicianID: ptr("a"), Status: domain.TicketStatusResolved},
		{ID: "4", TechnicianID: ptr("b"), Status: domain.TicketStatusInProgress},
		{ID: "5", Status: domain.TicketStatusInProgress},
	}
	assert.Equal(t, 2, Workload(tickets, "a"))
	assert.Equal(t, 1, Workload(tickets, "b"))
	assert.Equal(t, 0, Workload(tickets, ""))

	options := TechnicianOptions(
		domain.Ticket{Type: domain.TicketTypeHardware},
		[]domain.Technician{{ID: "a", Specialization: domain.TicketTypeHardware}, {ID: "b", Specialization: domain.TicketTypeApplication}},
		tickets,
	)
	require.Len(t, options, 1)
	assert.Equal(t, 2, options[0].Workload)
}

func TestRejectionReason(t *testing.T) {
	at := func(day int) domain.Timestamp {
		return domain.NewTimestamp(time.Date(2024, 3, day, 10, 0, 0, 0, time.UTC))
	}

	t.Run("should return the latest rejection motive", func(t *testing.T) {
		history := []domain.TicketHistory{
			{NewStatus: domain.TicketStatusRejected, Reason: "Validation utilisateur: Rejeté. Motif: écran noir", ChangedAt: at(1)},
			{NewStatus: domain.TicketStatusAssignedTechnician, Reason: "Réouverture", ChangedAt: at(2)},
			{NewStatus: domain.TicketStatusRejected, Reason: "Validation utilisateur: Rejeté. Motif:   toujours en panne", ChangedAt: at(3)},
		}
		assert.Equal(t, "toujours en panne", RejectionReason(history))
	})

	t.Run("should fall back when the entry has no motive", func(t *testing.T) {
		history := []domain.TicketHistory{
			{NewStatus: domain.TicketStatusRejected, Reason: "Validation utilisateur: Rejeté", ChangedAt: at(1)},
		}
		assert.Equal(t, DefaultRejectionReason, RejectionReason(history))
	})

	t.Run("should ignore rejections not coming from the requester", func(t *testing.T) {
		history := []domain.TicketHistory{
			{NewStatus: domain.TicketStatusRejected, Reason: "Motif: hors périmètre", ChangedAt: at(1)},
		}
		assert.Equal(t, DefaultRejectionReason, RejectionReason(history))
	})

	t.Run("should fall back on empty history", func(t *testing.T) {
		assert.Equal(t, DefaultRejectionReason, RejectionReason(nil))
	})
}

func TestFilterDelegation(t *testing.T) {
	tickets := []domain.Ticket{
		{ID: "1", SecretaryID: ptr("dep-1")},
		{ID: "2", SecretaryID: ptr("dep-2")},
		{ID: "3"},
	}
	deputy := viewer("dep-1", domain.RoleDeputy)

	delegated := FilterDelegation(tickets, DelegationDelegated, deputy)
	require.Len(t, delegated, 1)
	assert.Equal(t, "1", delegated[0].ID)

	notDelegated := FilterDelegation(tickets, DelegationNotDelegated, deputy)
	assert.Len(t, notDelegated, 2)

	assert.Len(t, FilterDelegation(tickets, DelegationDelegated, viewer("sec-1", domain.RoleSecretary)), 3)
	assert.Len(t, FilterDelegation(tickets, DelegationAll, deputy), 3)

	_, err := ParseDelegationFilter("mine")
	assert.Error(t, err)
}

func TestChecker(t *testing.T) {
	checker := NewChecker(NewPolicy())

	t.Run("should reject an assignment without technician", func(t *testing.T) {
		err := checker.CheckAssign(&AssignInput{TechnicianID: "  "})
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))
		assert.Contains(t, err.Error(), MessageTechnicianRequired)
	})

	t.Run("should reject a reassignment to the current technician", func(t *testing.T) {
		ticket := domain.Ticket{TechnicianID: ptr("tech-1")}
		err := checker.CheckReassign(&ReassignInput{TechnicianID: "tech-1"}, ticket)
		require.Error(t, err)
		assert.Contains(t, err.Error(), MessageSameTechnician)
		assert.NoError(t, checker.CheckReassign(&ReassignInput{TechnicianID: "tech-2"}, ticket))
	})

	t.Run("should require a technician to reopen", func(t *testing.T) {
		assert.Error(t, checker.CheckReopen(&ReopenInput{}))
		assert.NoError(t, checker.CheckReopen(&ReopenInput{TechnicianID: "tech-1"}))
	})

	t.Run("should enforce the feedback score range", func(t *testing.T) {
		assert.Error(t, checker.CheckFeedback(&FeedbackInput{Score: 0}))
		assert.Error(t, checker.CheckFeedback(&FeedbackInput{Score: 6}))
		assert.NoError(t, checker.CheckFeedback(&FeedbackInput{Score: 5}))
	})

	t.Run("should require a motive to reject", func(t *testing.T) {
		assert.Error(t, checker.CheckValidate(&ValidateInput{Validated: false, RejectionReason: " "}))
		assert.NoError(t, checker.CheckValidate(&ValidateInput{Validated: false, RejectionReason: "pas réglé"}))
		assert.NoError(t, checker.CheckValidate(&ValidateInput{Validated: true}))
	})

	t.Run("should require a known type and priority on create", func(t *testing.T) {
		err := checker.CheckCreate(&CreateTicketInput{Title: "Imprimante", Description: "bloquée", Type: "reseau", Priority: domain.TicketPriorityHigh})
		assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))
		assert.NoError(t, checker.CheckCreate(&CreateTicketInput{Title: "Imprimante", Description: "bloquée", Type: domain.TicketTypeHardware, Priority: domain.TicketPriorityHigh}))
	})

	t.Run("should require a resolution summary", func(t *testing.T) {
		err := checker.CheckResolve(&ResolveInput{ResolutionSummary: "   "})
		assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))
		assert.Contains(t, err.Error(), MessageResolutionRequired)
		assert.NoError(t, checker.CheckResolve(&ResolveInput{ResolutionSummary: "Pilote réinstallé"}))
	})

	t.Run("should require comment content and default its type", func(t *testing.T) {
		assert.Error(t, checker.CheckComment(&CommentInput{Content: " "}))
		assert.Error(t, checker.CheckComment(&CommentInput{Content: "ok", Type: domain.CommentTypeSystem}))
		in := CommentInput{Content: "Diagnostic en cours"}
		require.NoError(t, checker.CheckComment(&in))
		assert.Equal(t, domain.CommentTypeTechnical, in.Type)
	})

	t.Run("should follow the policy when checking actions", func(t *testing.T) {
		deputy := viewer("dep-1", domain.RoleDeputy)
		closed := domain.Ticket{Status: domain.TicketStatusClosed}
		assert.True(t, apperrors.IsCode(checker.Allowed(ActionAssign, closed, deputy), apperrors.CodeForbidden))

		critical := domain.Ticket{Status: domain.TicketStatusInProgress, Priority: domain.TicketPriorityCritical}
		assert.True(t, apperrors.IsCode(checker.Allowed(ActionEscalate, critical, deputy), apperrors.CodeConflict))

		pending := domain.Ticket{Status: domain.TicketStatusPendingAnalysis}
		assert.NoError(t, checker.Allowed(ActionAssign, pending, deputy))
	})
}
