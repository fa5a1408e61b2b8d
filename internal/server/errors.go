package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"github.com/ukaji3/ticketreport-go/pkg/ticketreport"
)

// Error codes returned in APIError.ErrorCode.
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodePayloadTooLarge    = "PAYLOAD_TOO_LARGE"
	CodeDateColumnNotFound = "DATE_COLUMN_NOT_FOUND"
	CodeGenerationFailed   = "REPORT_GENERATION_FAILED"
	CodeInternal           = "INTERNAL_SERVER_ERROR"
)

// APIError is a structured API error.
type APIError struct {
	StatusCode int    `json:"status_code"`
	ErrorCode  string `json:"error_code"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

// Render implements render.Renderer.
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// ErrorResponse is the JSON envelope for every error.
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   *APIError `json:"error"`
}

// Render implements render.Renderer.
func (e *ErrorResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return e.Error.Render(w, r)
}

// ColumnDetails lists what the sheet offered when the date column was missing.
type ColumnDetails struct {
	Column    string   `json:"column"`
	Available []string `json:"available"`
	HeaderRow int      `json:"suggested_header_row,omitempty"`
}

func newError(status int, code, message string, details any) *APIError {
	return &APIError{StatusCode: status, ErrorCode: code, Message: message, Details: details}
}

func validationError(message string) *APIError {
	return newError(http.StatusBadRequest, CodeValidationFailed, "Request validation failed", message)
}

// fromGenerateError maps a pipeline failure to its API error.
func fromGenerateError(err error) *APIError {
	var colErr *ticketreport.ColumnNotFoundError
	switch {
	case errors.As(err, &colErr):
		return newError(http.StatusUnprocessableEntity, CodeDateColumnNotFound, colErr.Error(), ColumnDetails{
			Column:    colErr.Column,
			Available: colErr.Available,
			HeaderRow: colErr.HeaderRow,
		})
	case errors.Is(err, ticketreport.ErrInvalidOptions):
		return validationError(err.Error())
	default:
		return newError(http.StatusInternalServerError, CodeGenerationFailed, "Report generation failed", err.Error())
	}
}

func writeError(w http.ResponseWriter, r *http.Request, e *APIError) {
	_ = render.Render(w, r, &ErrorResponse{Success: false, Error: e})
}
