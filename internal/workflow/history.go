package workflow

import (
	"regexp"
	"sort"
	"strings"

	"github.com/spec-kit/helpdesk-dashboard/internal/domain"
)

// DefaultRejectionReason is shown when no rejection entry carries a motive.
const DefaultRejectionReason = "Motif non disponible"

var motifPattern = regexp.MustCompile(`Motif:\s*(.+)`)

// RejectionReason extracts the motive of the latest requester rejection from a ticket history.
func RejectionReason(history []domain.TicketHistory) string {
	entries := append([]domain.TicketHistory(nil), history...)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].ChangedAt.After(entries[j].ChangedAt.Time)
	})
	for _, entry := range entries {
		if entry.NewStatus != domain.TicketStatusRejected || !strings.Contains(entry.Reason, "Rejeté") {
			continue
		}
		if m := motifPattern.FindStringSubmatch(entry.Reason); m != nil {
			if motive := strings.TrimSpace(m[1]); motive != "" {
				return motive
			}
		}
		return DefaultRejectionReason
	}
	return DefaultRejectionReason
}
