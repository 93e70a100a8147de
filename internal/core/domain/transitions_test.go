package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionStatus(t *testing.T) {
	assert.True(t, CanTransitionStatus(PostStatusPending, PostStatusApproved))
	assert.True(t, CanTransitionStatus(PostStatusApproved, PostStatusCompleted))
	assert.True(t, CanTransitionStatus(PostStatusRejected, PostStatusPending))
	assert.True(t, CanTransitionStatus(PostStatusCompleted, PostStatusCompleted))

	assert.False(t, CanTransitionStatus(PostStatusPending, PostStatusCompleted))
	assert.False(t, CanTransitionStatus(PostStatusCompleted, PostStatusPending))
}

func TestCanTransitionState(t *testing.T) {
	assert.True(t, CanTransitionState(PostStatePending, PostStateSellerSent))
	assert.True(t, CanTransitionState(PostStateSellerSent, PostStateBuyerReceived))
	assert.True(t, CanTransitionState(PostStateBothSent, PostStateBothReceived))
	assert.True(t, CanTransitionState(PostStateBothSent, PostStateBothSent))

	// no going back, no sideways moves between equal ranks
	assert.False(t, CanTransitionState(PostStateBothReceived, PostStatePending))
	assert.False(t, CanTransitionState(PostStateSellerSent, PostStateBuyerSent))
	assert.False(t, CanTransitionState(PostState("Lost"), PostStateBothSent))
}
