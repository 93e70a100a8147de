package domain

import "fmt"

// UserStatus represents account status
type UserStatus string

const (
	UserStatusActive UserStatus = "Active"
	UserStatusBanned UserStatus = "Banned"
)

// PostType represents the kind of marketplace listing
type PostType string

const (
	PostTypeLiquidation PostType = "Liquidation"
	PostTypeExchange    PostType = "Exchange"
	PostTypeFundraiser  PostType = "Fundraiser"
)

// PostStatus tracks moderation of a listing
type PostStatus string

const (
	PostStatusPending   PostStatus = "Pending"
	PostStatusApproved  PostStatus = "Approved"
	PostStatusRejected  PostStatus = "Rejected"
	PostStatusCompleted PostStatus = "Completed"
)

// PostState tracks physical fulfillment of a listing
type PostState string

const (
	PostStatePending        PostState = "Pending"
	PostStateSellerSent     PostState = "SellerSent"
	PostStateBuyerSent      PostState = "BuyerSent"
	PostStateBothSent       PostState = "BothSent"
	PostStateSellerReceived PostState = "SellerReceived"
	PostStateBuyerReceived  PostState = "BuyerReceived"
	PostStateBothReceived   PostState = "BothReceived"
)

// ActivityType represents the kind of fundraising campaign
type ActivityType string

const (
	ActivityTypeDonation   ActivityType = "Donation"
	ActivityTypeFundraiser ActivityType = "Fundraiser"
)

// Ledger entry status
const (
	TransactionStatusPending = "Pending"
)

// RaisedMode decides who owns an activity's raised amount
type RaisedMode string

const (
	// RaisedModeLegacy leaves amount_raised to manual updates
	RaisedModeLegacy RaisedMode = "legacy"
	// RaisedModeLedger increments amount_raised from activity ledger entries
	RaisedModeLedger RaisedMode = "ledger"
)

var (
	userStatuses  = []UserStatus{UserStatusActive, UserStatusBanned}
	postTypes     = []PostType{PostTypeLiquidation, PostTypeExchange, PostTypeFundraiser}
	postStatuses  = []PostStatus{PostStatusPending, PostStatusApproved, PostStatusRejected, PostStatusCompleted}
	activityTypes = []ActivityType{ActivityTypeDonation, ActivityTypeFundraiser}
	postStates    = []PostState{
		PostStatePending,
		PostStateSellerSent,
		PostStateBuyerSent,
		PostStateBothSent,
		PostStateSellerReceived,
		PostStateBuyerReceived,
		PostStateBothReceived,
	}
)

// parseEnum matches s exactly against the allowed values
func parseEnum[T ~string](s string, allowed []T) (T, bool) {
	for _, v := range allowed {
		if string(v) == s {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// ParseUserStatus parses an account status by name
func ParseUserStatus(s string) (UserStatus, error) {
	if v, ok := parseEnum(s, userStatuses); ok {
		return v, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidUserStatus, s)
}

// ParsePostType parses a listing type by name
func ParsePostType(s string) (PostType, error) {
	if v, ok := parseEnum(s, postTypes); ok {
		return v, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPostType, s)
}

// ParsePostStatus parses a moderation status by name
func ParsePostStatus(s string) (PostStatus, error) {
	if v, ok := parseEnum(s, postStatuses); ok {
		return v, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// ParsePostState parses a fulfillment state by name
func ParsePostState(s string) (PostState, error) {
	if v, ok := parseEnum(s, postStates); ok {
		return v, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidState, s)
}

// ParseActivityType parses an activity type by name
func ParseActivityType(s string) (ActivityType, error) {
	if v, ok := parseEnum(s, activityTypes); ok {
		return v, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidActivityType, s)
}

// ParseRaisedMode parses the ACTIVITY_RAISED_MODE setting
func ParseRaisedMode(s string) (RaisedMode, error) {
	switch RaisedMode(s) {
	case RaisedModeLegacy, RaisedModeLedger:
		return RaisedMode(s), nil
	}
	return "", fmt.Errorf("invalid raised mode: %q (must be 'legacy' or 'ledger')", s)
}
