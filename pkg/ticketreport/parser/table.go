// Package parser reads ticket sheets from xlsx workbooks.
package parser

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ukaji3/ticketreport-go/pkg/ticketreport/models"
	"github.com/xuri/excelize/v2"
)

// ErrSheetNotFound indicates the workbook has no sheet with the requested name.
var ErrSheetNotFound = errors.New("sheet not found")

// ErrInvalidFormat indicates the input is not a readable xlsx workbook.
var ErrInvalidFormat = errors.New("invalid xlsx format")

// Workbook is an opened xlsx file.
type Workbook struct {
	f        *excelize.File
	date1904 bool
}

// Open reads a workbook from r.
func Open(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	wb := &Workbook{f: f}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		wb.date1904 = *props.Date1904
	}
	return wb, nil
}

// Close releases the workbook.
func (wb *Workbook) Close() error {
	return wb.f.Close()
}

// Date1904 reports whether serial dates count from 1904.
func (wb *Workbook) Date1904() bool {
	return wb.date1904
}

// Table reads sheetName with headerRow (1-based) as the column names.
func (wb *Workbook) Table(sheetName string, headerRow int) (*models.Table, error) {
	return ReadTable(wb.f, sheetName, headerRow)
}

// LoadTable opens a workbook from r and reads one sheet from it.
func LoadTable(r io.Reader, sheetName string, headerRow int) (*models.Table, error) {
	wb, err := Open(r)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	return wb.Table(sheetName, headerRow)
}

// ReadTable extracts a table from a sheet.
// Rows above headerRow are ignored and fully blank data rows are skipped.
// Cell values are read unformatted, so dates come back as serial numbers.
func ReadTable(f *excelize.File, sheetName string, headerRow int) (*models.Table, error) {
	if headerRow < 1 {
		return nil, fmt.Errorf("header row must be >= 1, got %d", headerRow)
	}

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		var notExist excelize.ErrSheetNotExist
		if errors.As(err, &notExist) {
			return nil, fmt.Errorf("%w: %q (available: %s)", ErrSheetNotFound, sheetName, strings.Join(f.GetSheetList(), ", "))
		}
		return nil, err
	}

	table := &models.Table{}
	headerIdx := headerRow - 1 // GetRows is 0-based
	if headerIdx >= len(rows) {
		return table, nil
	}

	table.Columns = columnNames(rows[headerIdx])
	for _, row := range rows[headerIdx+1:] {
		if isBlankRow(row) {
			continue
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// ParseNumber parses a numeric cell. Thousands separators are tolerated.
func ParseNumber(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, false
	}
	// Try integer first
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return float64(i), true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, true
	}
	return 0, false
}
