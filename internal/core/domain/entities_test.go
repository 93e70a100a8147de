package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePostStatus(t *testing.T) {
	s, err := ParsePostStatus("Approved")
	require.NoError(t, err)
	assert.Equal(t, PostStatusApproved, s)

	for _, bad := range []string{"", "approved", "Done"} {
		_, err := ParsePostStatus(bad)
		assert.True(t, errors.Is(err, ErrInvalidStatus), bad)
		assert.True(t, errors.Is(err, ErrInvalidInput), bad)
	}
}

func TestParsePostState(t *testing.T) {
	s, err := ParsePostState("BothReceived")
	require.NoError(t, err)
	assert.Equal(t, PostStateBothReceived, s)

	_, err = ParsePostState("Completed")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestParsePostTypeAndActivityType(t *testing.T) {
	pt, err := ParsePostType("Exchange")
	require.NoError(t, err)
	assert.Equal(t, PostTypeExchange, pt)

	_, err = ParsePostType("Auction")
	assert.ErrorIs(t, err, ErrInvalidPostType)

	at, err := ParseActivityType("Donation")
	require.NoError(t, err)
	assert.Equal(t, ActivityTypeDonation, at)

	_, err = ParseActivityType("DONATION")
	assert.ErrorIs(t, err, ErrInvalidActivityType)
}

func TestParseRaisedMode(t *testing.T) {
	m, err := ParseRaisedMode("ledger")
	require.NoError(t, err)
	assert.Equal(t, RaisedModeLedger, m)

	_, err = ParseRaisedMode("strict")
	assert.Error(t, err)
}

func TestErrorKinds(t *testing.T) {
	assert.ErrorIs(t, ErrCategoryInUse, ErrDuplicateEntry)
	assert.ErrorIs(t, ErrListingNotFound, ErrNotFound)
	assert.ErrorIs(t, ErrStaleListing, ErrVersionConflict)
	assert.False(t, errors.Is(ErrListingNotFound, ErrDuplicateEntry))
	assert.Equal(t, "post not found", ErrListingNotFound.Error())
}
