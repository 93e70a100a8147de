package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewParams(t *testing.T) {
	p := NewParams("", "")
	assert.Equal(t, &Params{Page: 1, Limit: DefaultLimit, Offset: 0}, p)

	p = NewParams("3", "10")
	assert.Equal(t, 20, p.Offset)

	p = NewParams("-2", "5000")
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, MaxLimit, p.Limit)
}

func TestGetMeta(t *testing.T) {
	m := GetMeta(NewParams("2", "10"), 25)
	assert.Equal(t, 3, m.TotalPages)
	assert.True(t, m.HasNext)
	assert.True(t, m.HasPrev)

	m = GetMeta(NewParams("1", "10"), 0)
	assert.Equal(t, 0, m.TotalPages)
	assert.False(t, m.HasNext)
}
