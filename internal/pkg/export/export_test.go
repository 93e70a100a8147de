package export

import (
	"bytes"
	"testing"
	"time"

	"educycle-api/internal/adapters/persistence/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteTransactionsXLSX(t *testing.T) {
	postID := "p-1"
	activityID := "a-1"
	amount := decimal.RequireFromString("25")
	txns := []*models.Transaction{
		{ID: "t-1", ListingID: &postID, UserID: "u-1", Type: "Exchange", Status: "Pending", CreatedAt: time.Now()},
		{ID: "t-2", ActivityID: &activityID, UserID: "u-2", Type: "Donation", Status: "Pending", Amount: &amount, CreatedAt: time.Now()},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTransactionsXLSX(&buf, txns))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, headers, rows[0])
	assert.Equal(t, "t-1", rows[1][0])
	assert.Equal(t, "post", rows[1][1])
	assert.Equal(t, "activity", rows[2][1])
	assert.Equal(t, "25.00", rows[2][8])
}
