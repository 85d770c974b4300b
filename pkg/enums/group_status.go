package enums

import "fmt"

// GroupStatus maps to the group_status enum in Postgres.
type GroupStatus string

const (
	GroupStatusActive      GroupStatus = "ACTIVE"
	GroupStatusLocked      GroupStatus = "LOCKED"
	GroupStatusOrderPlaced GroupStatus = "ORDER_PLACED"
	GroupStatusCompleted   GroupStatus = "COMPLETED"
	GroupStatusCancelled   GroupStatus = "CANCELLED"
)

var validGroupStatuses = []GroupStatus{
	GroupStatusActive,
	GroupStatusLocked,
	GroupStatusOrderPlaced,
	GroupStatusCompleted,
	GroupStatusCancelled,
}

// Lifecycle edges. ORDER_PLACED is only ever set by order consolidation;
// there is no path back to ACTIVE from it.
var groupStatusTransitions = map[GroupStatus][]GroupStatus{
	GroupStatusActive:      {GroupStatusLocked, GroupStatusOrderPlaced, GroupStatusCancelled},
	GroupStatusLocked:      {GroupStatusActive, GroupStatusOrderPlaced, GroupStatusCancelled},
	GroupStatusOrderPlaced: {GroupStatusCompleted, GroupStatusCancelled},
	GroupStatusCompleted:   {},
	GroupStatusCancelled:   {},
}

// String implements fmt.Stringer.
func (g GroupStatus) String() string {
	return string(g)
}

// IsValid reports whether the value is a known GroupStatus.
func (g GroupStatus) IsValid() bool {
	for _, candidate := range validGroupStatuses {
		if candidate == g {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether the lifecycle graph permits moving from g
// to the target status.
func (g GroupStatus) CanTransitionTo(target GroupStatus) bool {
	for _, candidate := range groupStatusTransitions[g] {
		if candidate == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions exist from g.
func (g GroupStatus) IsTerminal() bool {
	return len(groupStatusTransitions[g]) == 0
}

// ParseGroupStatus converts raw input into a GroupStatus.
func ParseGroupStatus(value string) (GroupStatus, error) {
	for _, candidate := range validGroupStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid group status %q", value)
}
