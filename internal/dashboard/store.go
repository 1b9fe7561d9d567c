package dashboard

import (
	"sync"
	"time"

	"github.com/spec-kit/helpdesk-dashboard/internal/domain"
)

// Store holds the snapshot of one viewer. Writers never merge: the last completed fetch of
// each part wins, so overlapping refresh cycles are harmless.
type Store struct {
	mu   sync.RWMutex
	snap domain.Snapshot
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Clone()
}

// Replace installs a whole snapshot, e.g. one restored from cache.
func (s *Store) Replace(snap domain.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap.Clone()
}

// SetTickets replaces the ticket list.
func (s *Store) SetTickets(tickets []domain.Ticket, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Tickets = append([]domain.Ticket(nil), tickets...)
	s.touch(at)
}

// SetTechnicians replaces the technician roster.
func (s *Store) SetTechnicians(technicians []domain.Technician, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Technicians = append([]domain.Technician(nil), technicians...)
	s.touch(at)
}

// SetNotifications replaces the notification list.
func (s *Store) SetNotifications(notifications []domain.Notification, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Notifications = append([]domain.Notification(nil), notifications...)
	s.touch(at)
}

// SetUnreadCount replaces the unread counter.
func (s *Store) SetUnreadCount(n int, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.UnreadCount = n
	s.touch(at)
}

// UpsertTicket replaces the ticket with the same id, or appends it.
func (s *Store) UpsertTicket(t domain.Ticket) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.snap.Tickets {
		if s.snap.Tickets[i].ID == t.ID {
			s.snap.Tickets[i] = t
			return
		}
	}
	s.snap.Tickets = append(s.snap.Tickets, t)
}

// Ticket looks a ticket up by id.
func (s *Store) Ticket(id string) (domain.Ticket, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.FindTicket(id)
}

func (s *Store) touch(at time.Time) {
	if at.After(s.snap.FetchedAt) {
		s.snap.FetchedAt = at
	}
}
