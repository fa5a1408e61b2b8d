// Package charts renders the report charts as PNG images.
//
// Every renderer accepts empty input and draws a "No data" placeholder instead
// of failing, so a report can always be assembled.
package charts

import (
	"bytes"
	"fmt"

	"github.com/ukaji3/ticketreport-go/pkg/ticketreport/models"
)

// Chart titles used in both output documents.
const (
	DonutTitle = "Ticket Category Breakdown (L1)"
	BarTitle   = "Query Type Breakdown"
	LineTitle  = "Tickets Over Time"
)

// NoDataText is drawn on placeholder images.
const NoDataText = "No data"

// Image sizes in pixels.
const (
	donutWidth  = 1200
	donutHeight = 800
	plotWidth   = 1000
	plotHeight  = 600
)

func encode(title string, w, h int, render func(*bytes.Buffer) error) (*models.ChartImage, error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return nil, fmt.Errorf("render %q: %w", title, err)
	}
	return &models.ChartImage{
		Title: title,
		PNG:   buf.Bytes(),
		W:     w,
		H:     h,
	}, nil
}
