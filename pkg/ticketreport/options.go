// Package ticketreport generates branded ticket reports from spreadsheet exports.
package ticketreport

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ukaji3/ticketreport-go/pkg/ticketreport/metrics"
	"github.com/ukaji3/ticketreport-go/pkg/ticketreport/models"
)

// Defaults for Options.
const (
	DefaultSheet          = "Data"
	DefaultHeaderRow      = 14
	DefaultDateColumn     = "Date Reported"
	DefaultGroupThreshold = 3.0
	DefaultTitle          = "Simplify360 Ticket Report"
	DefaultClient         = "Sumadhura Group"
)

// Options configures report generation.
type Options struct {
	// Sheet is the worksheet holding the tickets.
	Sheet string `validate:"required"`
	// HeaderRow is the 1-based row holding the column names.
	HeaderRow int `validate:"min=1"`
	// DateColumn names the required date column.
	DateColumn string `validate:"required"`
	// GroupThreshold is the minimum donut slice share, in percent (0-10).
	// Smaller categories are merged into "Other".
	GroupThreshold float64 `validate:"gte=0,lte=10"`
	// Columns overrides the optional column names.
	Columns metrics.Columns `validate:"-"`
	// Branding holds the colours and optional logo.
	Branding models.Branding
	// Title is the report heading.
	Title string `validate:"required"`
	// Client is shown under the title as "Client: <name>".
	Client string
	// Now returns the date printed on the HTML deck. Defaults to time.Now.
	Now func() time.Time `validate:"-"`
	// Logger receives progress logs. Defaults to slog.Default().
	Logger *slog.Logger `validate:"-"`
}

// DefaultOptions returns default generation options.
func DefaultOptions() Options {
	return Options{
		Sheet:          DefaultSheet,
		HeaderRow:      DefaultHeaderRow,
		DateColumn:     DefaultDateColumn,
		GroupThreshold: DefaultGroupThreshold,
		Columns:        metrics.DefaultColumns(),
		Branding:       models.DefaultBranding(),
		Title:          DefaultTitle,
		Client:         DefaultClient,
	}
}

var brandColorRe = regexp.MustCompile(`^#?[0-9A-Fa-f]{6}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("brandcolor", isBrandColor); err != nil {
		panic(fmt.Sprintf("register brandcolor validation: %v", err))
	}
	return v
}

// isBrandColor accepts "#RRGGBB" or "RRGGBB".
func isBrandColor(fl validator.FieldLevel) bool {
	return brandColorRe.MatchString(strings.TrimSpace(fl.Field().String()))
}

// Validate checks the options. Failures wrap ErrInvalidOptions.
func (o Options) Validate() error {
	err := validate.Struct(o)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidOptions, strings.Join(msgs, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Options.")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "gte", "lte":
		return fmt.Sprintf("%s must be between 0 and 10, got %v", field, fe.Value())
	case "brandcolor":
		return fmt.Sprintf("%s must be a hex colour like #e2282a, got %q", field, fe.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// Subtitle returns the line shown under the title.
func (o Options) Subtitle() string {
	if o.Client == "" {
		return ""
	}
	return "Client: " + o.Client
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}
