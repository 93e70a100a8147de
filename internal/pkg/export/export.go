// Package export renders ledger entries as spreadsheets.
package export

import (
	"fmt"
	"io"

	"educycle-api/internal/adapters/persistence/models"

	"github.com/xuri/excelize/v2"
)

// ContentTypeXLSX is the MIME type of the generated workbook
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const sheetName = "Transactions"

var headers = []string{"Transaction ID", "Target", "Post ID", "Activity ID", "Item ID", "User ID", "Type", "Status", "Amount", "Created At"}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// WriteTransactionsXLSX writes one row per entry to w
func WriteTransactionsXLSX(w io.Writer, txns []*models.Transaction) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return err
		}
	}

	for idx, t := range txns {
		row := idx + 2
		amount := ""
		if t.Amount != nil {
			amount = t.Amount.StringFixed(2)
		}
		values := []interface{}{
			t.ID,
			t.Target(),
			deref(t.ListingID),
			deref(t.ActivityID),
			deref(t.ItemID),
			t.UserID,
			t.Type,
			t.Status,
			amount,
			t.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := f.SetSheetRow(sheetName, fmt.Sprintf("A%d", row), &values); err != nil {
			return err
		}
	}

	_ = f.SetColWidth(sheetName, "A", "F", 38)
	_ = f.SetColWidth(sheetName, "G", "I", 14)
	_ = f.SetColWidth(sheetName, "J", "J", 20)

	return f.Write(w)
}
