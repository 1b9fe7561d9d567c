package domain

import (
	apperrors "github.com/spec-kit/helpdesk-dashboard/pkg/util"
)

// View is a top-level dashboard section.
type View string

const (
	ViewDashboard     View = "dashboard"
	ViewTickets       View = "tickets"
	ViewTechnicians   View = "technicians"
	ViewReports       View = "reports"
	ViewNotifications View = "notifications"
)

var knownViews = map[View]bool{
	ViewDashboard: true, ViewTickets: true, ViewTechnicians: true, ViewReports: true, ViewNotifications: true,
}

// Modal is the dialog currently open on top of a view. ModalNone means no dialog.
type Modal string

const (
	ModalNone          Modal = ""
	ModalDetails       Modal = "details"
	ModalAssign        Modal = "assign"
	ModalReassign      Modal = "reassign"
	ModalReopen        Modal = "reopen"
	ModalValidate      Modal = "validate"
	ModalFeedback      Modal = "feedback"
	ModalCreate        Modal = "create"
	ModalNotifications Modal = "notifications"
)

// ticket-scoped modals need a selected ticket; the bool tells whether a technician can be picked.
var ticketModals = map[Modal]bool{
	ModalDetails:  false,
	ModalAssign:   true,
	ModalReassign: true,
	ModalReopen:   true,
	ModalValidate: false,
	ModalFeedback: false,
}

// Filters narrows the ticket list.
type Filters struct {
	Status     TicketStatus `json:"status,omitempty"`
	Delegation string       `json:"delegation,omitempty"`
}

// UIState is the whole presentation state of one dashboard: one view, at most one modal and
// the selection that modal works on. Values only change through the transition methods.
type UIState struct {
	View         View    `json:"view"`
	Modal        Modal   `json:"modal"`
	TicketID     string  `json:"ticket_id,omitempty"`
	TechnicianID string  `json:"technician_id,omitempty"`
	Filters      Filters `json:"filters"`
}

// DefaultUIState opens on the dashboard view.
func DefaultUIState() UIState {
	return UIState{View: ViewDashboard}
}

// Navigate switches view and closes any modal.
func (s UIState) Navigate(v View) (UIState, error) {
	if !knownViews[v] {
		return s, apperrors.NewValidationError("Vue inconnue", map[string]any{"view": v})
	}
	return UIState{View: v, Filters: s.Filters}, nil
}

// OpenModal opens m, replacing any open modal and dropping its selection.
func (s UIState) OpenModal(m Modal, ticketID string) (UIState, error) {
	switch m {
	case ModalCreate, ModalNotifications:
		return UIState{View: s.View, Modal: m, Filters: s.Filters}, nil
	}
	if _, ok := ticketModals[m]; !ok {
		return s, apperrors.NewValidationError("Fenêtre inconnue", map[string]any{"modal": m})
	}
	if ticketID == "" {
		return s, apperrors.NewValidationError("Aucun ticket sélectionné", map[string]any{"modal": m})
	}
	return UIState{View: s.View, Modal: m, TicketID: ticketID, Filters: s.Filters}, nil
}

// SelectTechnician records the technician picked in an assignment dialog.
func (s UIState) SelectTechnician(id string) (UIState, error) {
	if !ticketModals[s.Modal] {
		return s, apperrors.NewConflict("Aucune assignation en cours", map[string]any{"modal": s.Modal})
	}
	if id == "" {
		return s, apperrors.NewValidationError("Veuillez sélectionner un technicien", nil)
	}
	s.TechnicianID = id
	return s, nil
}

// CloseModal closes the open modal and clears its selection.
func (s UIState) CloseModal() UIState {
	return UIState{View: s.View, Filters: s.Filters}
}

// SetFilters replaces the list filters; unknown statuses are rejected.
func (s UIState) SetFilters(f Filters) (UIState, error) {
	if f.Status != "" && !f.Status.Known() {
		return s, apperrors.NewValidationError("Statut inconnu", map[string]any{"status": f.Status})
	}
	s.Filters = f
	return s, nil
}

// Transition is a serialized UI event.
type Transition struct {
	Event        string  `json:"event"`
	View         View    `json:"view,omitempty"`
	Modal        Modal   `json:"modal,omitempty"`
	TicketID     string  `json:"ticket_id,omitempty"`
	TechnicianID string  `json:"technician_id,omitempty"`
	Filters      Filters `json:"filters"`
}

// Transition events.
const (
	TransitionNavigate         = "navigate"
	TransitionOpenModal        = "open_modal"
	TransitionSelectTechnician = "select_technician"
	TransitionCloseModal       = "close_modal"
	TransitionSetFilters       = "set_filters"
)

// Apply runs the transition named by t.Event.
func (s UIState) Apply(t Transition) (UIState, error) {
	switch t.Event {
	case TransitionNavigate:
		return s.Navigate(t.View)
	case TransitionOpenModal:
		return s.OpenModal(t.Modal, t.TicketID)
	case TransitionSelectTechnician:
		return s.SelectTechnician(t.TechnicianID)
	case TransitionCloseModal:
		return s.CloseModal(), nil
	case TransitionSetFilters:
		return s.SetFilters(t.Filters)
	}
	return s, apperrors.NewValidationError("Événement inconnu", map[string]any{"event": t.Event})
}
