package dashboard

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-dashboard/internal/domain"
)

// Notifications returns the cached notifications and unread counter.
func (s *Session) Notifications() ([]domain.Notification, int) {
	snap := s.store.Snapshot()
	return snap.Notifications, snap.UnreadCount
}

// MarkRead flags one notification and reloads the notification part of the snapshot.
func (s *Session) MarkRead(ctx context.Context, id string) error {
	if err := s.api.MarkNotificationRead(ctx, s.token, id); err != nil {
		return err
	}
	s.reloadNotifications(ctx)
	return nil
}

// MarkAllRead flags every unread notification. Individual failures are logged and skipped; the
// number of notifications actually marked is returned.
func (s *Session) MarkAllRead(ctx context.Context) int {
	notifications, _ := s.Notifications()
	marked := 0
	for _, n := range notifications {
		if n.Read {
			continue
		}
		if err := s.api.MarkNotificationRead(ctx, s.token, n.ID); err != nil {
			s.logger.Warn("mark notification read failed", zap.String("notification_id", n.ID), zap.Error(err))
			continue
		}
		marked++
	}
	s.reloadNotifications(ctx)
	return marked
}

func (s *Session) reloadNotifications(ctx context.Context) {
	if list, err := s.api.ListNotifications(ctx, s.token); err == nil {
		s.store.SetNotifications(list, s.now())
	} else {
		s.logger.Warn("reload notifications failed", zap.Error(err))
	}
	if n, err := s.api.UnreadCount(ctx, s.token); err == nil {
		s.store.SetUnreadCount(n, s.now())
	} else {
		s.logger.Warn("reload unread count failed", zap.Error(err))
	}
}
