package parser

import (
	"strings"

	"github.com/xuri/excelize/v2"
)

// LocateColumn scans sheetName for a cell whose text is column and returns
// its 1-based row, or 0 if no cell matches. It is used to suggest a header
// row when the configured one does not hold the expected column.
func (wb *Workbook) LocateColumn(sheetName, column string) (int, error) {
	rows, err := wb.f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return 0, err
	}
	return locateColumn(rows, column), nil
}

// locateColumn returns the first row, top to bottom, containing column.
// Surrounding whitespace is ignored on both sides.
func locateColumn(rows [][]string, column string) int {
	want := strings.TrimSpace(column)
	if want == "" {
		return 0
	}

	minRow, maxRow := dataBounds(rows)
	if minRow < 0 {
		return 0
	}
	for rowIdx := minRow; rowIdx <= maxRow; rowIdx++ {
		for _, cell := range rows[rowIdx] {
			if strings.TrimSpace(cell) == want {
				return rowIdx + 1
			}
		}
	}
	return 0
}

// dataBounds finds the first and last rows holding any non-blank cell.
// Both are -1 for an empty sheet.
func dataBounds(rows [][]string) (minRow, maxRow int) {
	minRow, maxRow = -1, -1
	for rowIdx, row := range rows {
		if isBlankRow(row) {
			continue
		}
		if minRow < 0 {
			minRow = rowIdx
		}
		maxRow = rowIdx
	}
	return minRow, maxRow
}
