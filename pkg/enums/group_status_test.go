package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGroupStatusTransitions(t *testing.T) {
	assert.True(t, GroupStatusActive.CanTransitionTo(GroupStatusLocked))
	assert.True(t, GroupStatusActive.CanTransitionTo(GroupStatusOrderPlaced))
	assert.True(t, GroupStatusLocked.CanTransitionTo(GroupStatusActive))
	assert.True(t, GroupStatusOrderPlaced.CanTransitionTo(GroupStatusCompleted))
	assert.True(t, GroupStatusOrderPlaced.CanTransitionTo(GroupStatusCancelled))

	// Ordering is one way: once the consolidated order exists the group can
	// never reopen.
	assert.False(t, GroupStatusOrderPlaced.CanTransitionTo(GroupStatusActive))
	assert.False(t, GroupStatusOrderPlaced.CanTransitionTo(GroupStatusLocked))
	assert.False(t, GroupStatusCompleted.CanTransitionTo(GroupStatusActive))
	assert.False(t, GroupStatusCancelled.CanTransitionTo(GroupStatusActive))

	assert.True(t, GroupStatusCompleted.IsTerminal())
	assert.True(t, GroupStatusCancelled.IsTerminal())
	assert.False(t, GroupStatusActive.IsTerminal())
}

func TestParseGroupStatus(t *testing.T) {
	status, err := ParseGroupStatus("ACTIVE")
	assert.NoError(t, err)
	assert.Equal(t, GroupStatusActive, status)

	_, err = ParseGroupStatus("active")
	assert.Error(t, err)
}
