package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/helpdesk-dashboard/pkg/util"
)

func TestTimestamp(t *testing.T) {
	t.Run("should read naive API datetimes as UTC", func(t *testing.T) {
		var ts Timestamp
		require.NoError(t, json.Unmarshal([]byte(`"2024-01-04T09:30:00.5"`), &ts))
		assert.True(t, ts.Valid())
		assert.Equal(t, time.Date(2024, 1, 4, 9, 30, 0, 500000000, time.UTC), ts.Time)
	})

	t.Run("should treat garbage and null as absent", func(t *testing.T) {
		var payload struct {
			A Timestamp `json:"a"`
			B Timestamp `json:"b"`
			C Timestamp `json:"c"`
		}
		require.NoError(t, json.Unmarshal([]byte(`{"a":"hier","b":null,"c":42}`), &payload))
		assert.False(t, payload.A.Valid())
		assert.False(t, payload.B.Valid())
		assert.False(t, payload.C.Valid())
		assert.Nil(t, payload.A.Ptr())
	})

	t.Run("should marshal zero as null", func(t *testing.T) {
		out, err := json.Marshal(Timestamp{})
		require.NoError(t, err)
		assert.Equal(t, "null", string(out))
	})
}

func TestTicketAccessors(t *testing.T) {
	zero := 0
	tk := Ticket{UserAgency: "Thiès", FeedbackScore: &zero}
	assert.Equal(t, "Thiès", tk.Agency())
	_, rated := tk.Feedback()
	assert.False(t, rated)
	assert.False(t, tk.HasTechnician())

	tk.Creator = &PersonRef{Agency: "Dakar"}
	assert.Equal(t, "Dakar", tk.Agency())
	assert.Equal(t, "En cours", TicketStatusInProgress.Label())
	assert.Equal(t, "inconnu", TicketStatus("inconnu").Label())
	assert.False(t, TicketStatus("inconnu").Known())
}

func TestUIState(t *testing.T) {
	t.Run("should open a modal and drop the previous selection", func(t *testing.T) {
		s, err := DefaultUIState().OpenModal(ModalAssign, "t1")
		require.NoError(t, err)
		s, err = s.SelectTechnician("tech-1")
		require.NoError(t, err)
		assert.Equal(t, "tech-1", s.TechnicianID)

		s, err = s.OpenModal(ModalDetails, "t2")
		require.NoError(t, err)
		assert.Equal(t, UIState{View: ViewDashboard, Modal: ModalDetails, TicketID: "t2"}, s)
	})

	t.Run("should refuse a technician outside assignment dialogs", func(t *testing.T) {
		s, err := DefaultUIState().OpenModal(ModalFeedback, "t1")
		require.NoError(t, err)
		_, err = s.SelectTechnician("tech-1")
		assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))
	})

	t.Run("should require a ticket for ticket dialogs", func(t *testing.T) {
		_, err := DefaultUIState().OpenModal(ModalReopen, "")
		assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))

		s, err := DefaultUIState().OpenModal(ModalCreate, "ignored")
		require.NoError(t, err)
		assert.Empty(t, s.TicketID)
	})

	t.Run("should keep filters across navigation and close the modal", func(t *testing.T) {
		s, err := DefaultUIState().Apply(Transition{Event: TransitionSetFilters, Filters: Filters{Status: TicketStatusRejected}})
		require.NoError(t, err)
		s, err = s.Apply(Transition{Event: TransitionOpenModal, Modal: ModalReopen, TicketID: "t9"})
		require.NoError(t, err)
		s, err = s.Apply(Transition{Event: TransitionNavigate, View: ViewReports})
		require.NoError(t, err)
		assert.Equal(t, UIState{View: ViewReports, Filters: Filters{Status: TicketStatusRejected}}, s)
	})

	t.Run("should reject unknown events, views and statuses", func(t *testing.T) {
		_, err := DefaultUIState().Apply(Transition{Event: "teleport"})
		assert.Error(t, err)
		_, err = DefaultUIState().Navigate("cuisine")
		assert.Error(t, err)
		_, err = DefaultUIState().SetFilters(Filters{Status: "archive"})
		assert.Error(t, err)
	})
}
