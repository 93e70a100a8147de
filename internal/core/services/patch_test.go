package services

import (
	"testing"
	"time"

	"educycle-api/internal/core/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatch_Decimal(t *testing.T) {
	p := Patch{"n": 12.5, "s": "7.25", "bad": "seven", "obj": map[string]interface{}{}}

	d, ok, err := p.getDecimal("n")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, decimal.RequireFromString("12.5").Equal(d))

	d, _, err = p.getDecimal("s")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("7.25").Equal(d))

	_, ok, err = p.getDecimal("missing")
	assert.NoError(t, err)
	assert.False(t, ok)

	_, _, err = p.getDecimal("bad")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, _, err = p.getDecimal("obj")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPatch_Time(t *testing.T) {
	p := Patch{
		"rfc":   "2024-03-01T10:00:00Z",
		"local": "2024-03-01T10:00:00",
		"bad":   "yesterday",
	}

	got, _, err := p.getTime("rfc")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), got.UTC())

	_, _, err = p.getTime("local")
	assert.NoError(t, err)

	_, _, err = p.getTime("bad")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPatch_Enum(t *testing.T) {
	p := Patch{"status": "Approved", "state": "Teleported", "type": 3.0}

	status, ok, err := patchEnum(p, "status", domain.ParsePostStatus)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, domain.PostStatusApproved, status)

	_, _, err = patchEnum(p, "state", domain.ParsePostState)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, _, err = patchEnum(p, "type", domain.ParsePostType)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPatch_Int(t *testing.T) {
	p := Patch{"a": 3.0, "b": 3.5, "c": "4"}

	n, _, err := p.getInt("a")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, _, err = p.getInt("b")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	n, _, err = p.getInt("c")
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}
