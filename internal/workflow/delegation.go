package workflow

import (
	"fmt"

	"github.com/spec-kit/helpdesk-dashboard/internal/domain"
)

// DelegationFilter narrows the list of a deputy by triage delegation.
type DelegationFilter string

const (
	DelegationAll          DelegationFilter = "all"
	DelegationDelegated    DelegationFilter = "delegated"
	DelegationNotDelegated DelegationFilter = "not_delegated"
)

// ParseDelegationFilter accepts the query values of the ticket list.
func ParseDelegationFilter(s string) (DelegationFilter, error) {
	switch DelegationFilter(s) {
	case "", DelegationAll:
		return DelegationAll, nil
	case DelegationDelegated, DelegationNotDelegated:
		return DelegationFilter(s), nil
	}
	return "", fmt.Errorf("unknown delegation filter %q", s)
}

// FilterDelegation applies filter for deputies only; every other role gets tickets unchanged.
// It only filters the list and never gates actions.
func FilterDelegation(tickets []domain.Ticket, filter DelegationFilter, viewer domain.Viewer) []domain.Ticket {
	if viewer.RoleName() != domain.RoleDeputy || filter == DelegationAll || filter == "" {
		return tickets
	}
	out := make([]domain.Ticket, 0, len(tickets))
	for _, t := range tickets {
		delegated := t.SecretaryID != nil && *t.SecretaryID == viewer.ID
		if (filter == DelegationDelegated) == delegated {
			out = append(out, t)
		}
	}
	return out
}
