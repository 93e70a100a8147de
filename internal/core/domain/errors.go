package domain

import "errors"

// Error kinds. Every specific error below wraps exactly one of them so the
// HTTP layer can classify it with errors.Is.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrDuplicateEntry     = errors.New("duplicate entry")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrVersionConflict    = errors.New("version conflict")
)

// Error is a domain error with a kind
type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.kind }

func newError(kind error, msg string) error {
	return &Error{kind: kind, msg: msg}
}

// Identity errors
var (
	ErrUserNotFound       = newError(ErrNotFound, "user not found")
	ErrRoleNotFound       = newError(ErrNotFound, "role not found")
	ErrEmailAlreadyExists = newError(ErrDuplicateEntry, "email already exists")
	ErrUserBanned         = newError(ErrForbidden, "user account is banned")
	ErrInvalidUserStatus  = newError(ErrInvalidInput, "invalid user status")
	ErrPasswordTooShort   = newError(ErrInvalidInput, "password must be at least 6 characters")
	ErrTokenExpired       = newError(ErrUnauthorized, "token expired")
	ErrTokenInvalid       = newError(ErrUnauthorized, "token invalid")
	ErrTokenRevoked       = newError(ErrUnauthorized, "token revoked")
	ErrNotProfileOwner    = newError(ErrForbidden, "cannot modify another user's profile")
	ErrAdminOnlyField     = newError(ErrForbidden, "only an admin may change status or roles")
)

// Catalog errors
var (
	ErrCategoryNotFound  = newError(ErrNotFound, "category not found")
	ErrDuplicateCategory = newError(ErrDuplicateEntry, "category name already exists")
	ErrCategoryInUse     = newError(ErrDuplicateEntry, "category is referenced by existing items")
	ErrItemNotFound      = newError(ErrNotFound, "item not found")
	ErrItemInUse         = newError(ErrDuplicateEntry, "item is referenced by an existing listing")
	ErrOwnerNotFound     = newError(ErrNotFound, "owner not found")
	ErrNotItemOwner      = newError(ErrForbidden, "only the owner or an admin may modify this item")
)

// Listing errors
var (
	ErrListingNotFound   = newError(ErrNotFound, "post not found")
	ErrSellerNotFound    = newError(ErrNotFound, "seller not found")
	ErrInvalidPostType   = newError(ErrInvalidInput, "invalid post type")
	ErrInvalidStatus     = newError(ErrInvalidInput, "invalid post status")
	ErrInvalidState      = newError(ErrInvalidInput, "invalid post state")
	ErrInvalidPrice      = newError(ErrInvalidInput, "price must not be negative")
	ErrIllegalTransition = newError(ErrInvalidInput, "illegal status or state transition")
	ErrStaleListing      = newError(ErrVersionConflict, "post was modified by another request")
	ErrNotPostSeller     = newError(ErrForbidden, "only the seller or an admin may modify this post")
)

// Activity errors
var (
	ErrActivityNotFound    = newError(ErrNotFound, "activity not found")
	ErrOrganizerNotFound   = newError(ErrNotFound, "organizer not found")
	ErrInvalidActivityType = newError(ErrInvalidInput, "invalid activity type")
	ErrInvalidAmount       = newError(ErrInvalidInput, "amount must be positive")
	ErrStaleActivity       = newError(ErrVersionConflict, "activity was modified by another request")
	ErrNotOrganizer        = newError(ErrForbidden, "only the organizer or an admin may modify this activity")
	ErrEndDateRequired     = newError(ErrInvalidInput, "end date is required")
)

// Ledger errors
var (
	ErrTransactionNotFound = newError(ErrNotFound, "transaction not found")
	ErrTransactionType     = newError(ErrInvalidInput, "transaction type is required")
)

// Upload errors
var (
	ErrTimestampRequired   = newError(ErrInvalidInput, "timestamp is required")
	ErrUploadNotConfigured = errors.New("upload signing secret is not configured")
)
