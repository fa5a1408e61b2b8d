package ticketreport

import (
	"errors"
	"fmt"

	"github.com/ukaji3/ticketreport-go/pkg/ticketreport/metrics"
	"github.com/ukaji3/ticketreport-go/pkg/ticketreport/parser"
	"github.com/ukaji3/ticketreport-go/pkg/ticketreport/pptx"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidFormat indicates the input file is not a valid xlsx format.
var ErrInvalidFormat = parser.ErrInvalidFormat

// ErrSheetNotFound indicates the workbook lacks the configured sheet.
var ErrSheetNotFound = parser.ErrSheetNotFound

// ErrInvalidImage indicates logo or chart bytes that are not a PNG or JPEG image.
var ErrInvalidImage = pptx.ErrInvalidImage

// ErrInvalidOptions indicates Options failed validation.
var ErrInvalidOptions = errors.New("invalid options")

// ColumnNotFoundError reports that the configured date column is missing.
// It lists the columns the sheet does have.
type ColumnNotFoundError = metrics.ColumnNotFoundError

// Pipeline stages reported by StageError.
const (
	StageLoad      = "load"
	StageAggregate = "aggregate"
	StageCharts    = "charts"
	StageDeck      = "pptx"
	StagePage      = "html"
)

// StageError represents a failure in one step of report generation.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("report generation failed at %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// NewStageError creates a new StageError.
func NewStageError(stage string, err error) *StageError {
	return &StageError{
		Stage: stage,
		Err:   err,
	}
}
