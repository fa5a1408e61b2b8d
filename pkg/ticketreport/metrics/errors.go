package metrics

import (
	"fmt"
	"strings"
)

// ColumnNotFoundError reports a required column missing from the sheet.
type ColumnNotFoundError struct {
	Column    string
	Available []string
	// HeaderRow is where Column was seen elsewhere in the sheet, 0 if nowhere.
	HeaderRow int
}

func (e *ColumnNotFoundError) Error() string {
	msg := fmt.Sprintf("date column %q not found; available columns: [%s]", e.Column, strings.Join(e.Available, ", "))
	if e.HeaderRow > 0 {
		msg += fmt.Sprintf("; it appears in row %d", e.HeaderRow)
	}
	return msg
}
