package domain

var statusTransitions = map[PostStatus][]PostStatus{
	PostStatusPending:   {PostStatusApproved, PostStatusRejected},
	PostStatusApproved:  {PostStatusCompleted, PostStatusRejected},
	PostStatusRejected:  {PostStatusPending},
	PostStatusCompleted: {},
}

// stateRank orders fulfillment progress; a state may only move forward
var stateRank = map[PostState]int{
	PostStatePending:        0,
	PostStateSellerSent:     1,
	PostStateBuyerSent:      1,
	PostStateBothSent:       2,
	PostStateSellerReceived: 3,
	PostStateBuyerReceived:  3,
	PostStateBothReceived:   4,
}

// CanTransitionStatus reports whether moderation may move from -> to.
// Keeping the same status is always allowed.
func CanTransitionStatus(from, to PostStatus) bool {
	if from == to {
		return true
	}
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CanTransitionState reports whether fulfillment may move from -> to
func CanTransitionState(from, to PostState) bool {
	if from == to {
		return true
	}
	fromRank, ok := stateRank[from]
	if !ok {
		return false
	}
	toRank, ok := stateRank[to]
	if !ok {
		return false
	}
	return toRank > fromRank
}
