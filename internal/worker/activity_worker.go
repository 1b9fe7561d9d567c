package worker

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-dashboard/internal/dashboard"
	"github.com/spec-kit/helpdesk-dashboard/internal/events"
)

// ActivityWorker persists session state and records the activity of dashboard sessions.
type ActivityWorker struct {
	dispatcher events.Dispatcher
	snapshots  dashboard.SnapshotCache
	uiStates   dashboard.UIStateStore
	logger     *zap.Logger
}

// NewActivityWorker creates the worker. Nil caches are skipped.
func NewActivityWorker(dispatcher events.Dispatcher, snapshots dashboard.SnapshotCache, uiStates dashboard.UIStateStore, logger *zap.Logger) *ActivityWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityWorker{
		dispatcher: dispatcher,
		snapshots:  snapshots,
		uiStates:   uiStates,
		logger:     logger.Named("activity"),
	}
}

// StartActivityWorker registers the worker handlers.
func StartActivityWorker(w *ActivityWorker) {
	if w == nil || w.dispatcher == nil {
		return
	}
	w.dispatcher.Subscribe(events.EventSnapshotRefreshed, w.handleSnapshotRefreshed)
	w.dispatcher.Subscribe(events.EventUIStateChanged, w.handleUIStateChanged)
	w.dispatcher.Subscribe(events.EventActionCompleted, w.handleActionCompleted)
	w.dispatcher.Subscribe(events.EventReportArchived, w.handleReportArchived)
}

func (w *ActivityWorker) handleSnapshotRefreshed(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.SnapshotRefreshedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	if len(payload.Failed) > 0 {
		w.logger.Warn("SnapshotRefreshed", zap.String("viewer_id", event.Actor.UserID), zap.Strings("failed", payload.Failed))
	}
	if w.snapshots == nil || payload.Snapshot.FetchedAt.IsZero() {
		return nil
	}
	return w.snapshots.Save(ctx, event.Actor.SessionKey, payload.Snapshot)
}

func (w *ActivityWorker) handleUIStateChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.UIStateChangedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	if w.uiStates == nil {
		return nil
	}
	return w.uiStates.Save(ctx, event.Actor.SessionKey, payload.State)
}

func (w *ActivityWorker) handleActionCompleted(_ context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.ActionCompletedPayload)
	w.logger.Info("ActionCompleted",
		zap.String("ticket_id", event.TicketID),
		zap.String("viewer_id", event.Actor.UserID),
		zap.String("role", string(event.Actor.Role)),
		zap.String("action", payload.Action),
		zap.String("old_status", string(payload.OldStatus)),
		zap.String("new_status", string(payload.NewStatus)),
	)
	return nil
}

func (w *ActivityWorker) handleReportArchived(_ context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.ReportArchivedPayload)
	w.logger.Info("ReportArchived",
		zap.String("report_id", payload.ReportID),
		zap.String("report_type", string(payload.ReportType)),
		zap.String("title", payload.Title),
		zap.String("viewer_id", event.Actor.UserID),
	)
	return nil
}
