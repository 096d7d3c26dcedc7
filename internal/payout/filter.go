package payout

import (
	"strings"
	"time"
)

// Filter narrows payout queries. A nil or zero field contributes no
// condition; set fields conjoin. Date bounds are inclusive on both ends.
type Filter struct {
	Statuses    []string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	PaidFrom    *time.Time
	PaidTo      *time.Time
	UserType    string
}

// ParseStatuses splits a comma-separated status string into a list, trimming
// surrounding whitespace per segment. Order and duplicates are preserved, and
// empty segments are kept ("a,,b" yields three elements).
func ParseStatuses(statuses string) []string {
	parts := strings.Split(statuses, ",")
	out := make([]string, len(parts))
	for i, part := range parts {
		out[i] = strings.TrimSpace(part)
	}
	return out
}

// Matches reports whether a payout satisfies every set condition.
func (f Filter) Matches(p Payout) bool {
	if len(f.Statuses) > 0 {
		found := false
		for _, status := range f.Statuses {
			if p.Status == status {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.CreatedFrom != nil && p.Created.Before(*f.CreatedFrom) {
		return false
	}
	if f.CreatedTo != nil && p.Created.After(*f.CreatedTo) {
		return false
	}
	if f.PaidFrom != nil && p.PaymentDate.Before(*f.PaidFrom) {
		return false
	}
	if f.PaidTo != nil && p.PaymentDate.After(*f.PaidTo) {
		return false
	}
	if f.UserType != "" && p.UserType != f.UserType {
		return false
	}
	return true
}
