package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-dashboard/internal/domain"
)

func TestInMemoryDispatcher(t *testing.T) {
	t.Run("should deliver events to every subscriber of the type", func(t *testing.T) {
		d := NewInMemoryDispatcher(zap.NewNop())
		var got []string
		d.Subscribe(EventActionCompleted, func(_ context.Context, e Event) error {
			got = append(got, "first:"+e.TicketID)
			return errors.New("boom")
		})
		d.Subscribe(EventActionCompleted, func(_ context.Context, e Event) error {
			got = append(got, "second:"+e.TicketID)
			return nil
		})
		d.Subscribe(EventUIStateChanged, func(context.Context, Event) error {
			got = append(got, "ui")
			return nil
		})

		err := d.Publish(context.Background(), New(EventActionCompleted, Actor{UserID: "7"}, "t1", ActionCompletedPayload{Action: "assign"}))
		assert.NoError(t, err)
		assert.Equal(t, []string{"first:t1", "second:t1"}, got)
	})

	t.Run("should stamp events", func(t *testing.T) {
		e := New(EventReportArchived, Actor{Role: domain.RoleDSI}, "", nil)
		assert.NotEmpty(t, e.ID)
		assert.False(t, e.Timestamp.IsZero())
		assert.NotEqual(t, e.ID, New(EventReportArchived, Actor{}, "", nil).ID)
	})
}
