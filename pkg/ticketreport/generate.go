package ticketreport

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/ukaji3/ticketreport-go/pkg/ticketreport/charts"
	"github.com/ukaji3/ticketreport-go/pkg/ticketreport/htmldeck"
	"github.com/ukaji3/ticketreport-go/pkg/ticketreport/metrics"
	"github.com/ukaji3/ticketreport-go/pkg/ticketreport/models"
	"github.com/ukaji3/ticketreport-go/pkg/ticketreport/parser"
	"github.com/ukaji3/ticketreport-go/pkg/ticketreport/pptx"
)

// Output file names.
const (
	DeckFilename = "Sumadhura_Ticket_Report.pptx"
	PageFilename = "Sumadhura_Ticket_Report_inline.html"
)

// DonutCaption is shown under the category chart in the HTML deck.
const DonutCaption = "Small categories grouped into “Other” for readability"

// GenerateFile generates a report from the workbook at path.
func GenerateFile(path string, opts Options) (*models.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	defer f.Close()

	return Generate(f, opts)
}

// Generate reads a ticket workbook from r and builds both report documents.
//
// The run is all or nothing: the first failing stage aborts it and is
// returned as a *StageError.
func Generate(r io.Reader, opts Options) (*models.Report, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	report := &models.Report{RunID: uuid.NewString()}
	log := opts.logger().With(slog.String("run_id", report.RunID))

	// Load sheet
	log.Debug("loading workbook", slog.String("sheet", opts.Sheet), slog.Int("header_row", opts.HeaderRow))
	wb, err := parser.Open(r)
	if err != nil {
		return nil, fail(log, StageLoad, err)
	}
	table, err := wb.Table(opts.Sheet, opts.HeaderRow)
	var dateRow int
	if _, ok := table.ColumnIndex(opts.DateColumn); err == nil && !ok {
		dateRow, _ = wb.LocateColumn(opts.Sheet, opts.DateColumn)
	}
	date1904 := wb.Date1904()
	wb.Close()
	if err != nil {
		return nil, fail(log, StageLoad, err)
	}

	// Aggregate
	log.Debug("aggregating", slog.Int("rows", table.Len()), slog.Int("columns", len(table.Columns)))
	m, err := metrics.Aggregate(table, opts.DateColumn,
		metrics.WithColumns(opts.Columns),
		metrics.WithDate1904(date1904),
	)
	if err != nil {
		var colErr *ColumnNotFoundError
		if errors.As(err, &colErr) && dateRow != opts.HeaderRow {
			colErr.HeaderRow = dateRow
		}
		return nil, fail(log, StageAggregate, err)
	}
	report.Metrics = m
	if m.UnparsedDates > 0 {
		log.Warn("rows without a readable date", slog.Int("count", m.UnparsedDates), slog.String("column", opts.DateColumn))
	}

	// Render charts
	log.Debug("rendering charts")
	palette := charts.BrandPalette(opts.Branding.Primary, opts.Branding.Secondary, opts.Branding.Tertiary)
	donut, err := charts.Donut(m.Categories, opts.GroupThreshold/100, palette)
	if err != nil {
		return nil, fail(log, StageCharts, err)
	}
	bar, err := charts.Bar(m.QueryTypes, charts.BarTitle)
	if err != nil {
		return nil, fail(log, StageCharts, err)
	}
	line, err := charts.Line(m.TicketsPerDay, charts.LineTitle)
	if err != nil {
		return nil, fail(log, StageCharts, err)
	}
	report.Charts = []*models.ChartImage{donut, bar, line}

	// Build documents
	now := opts.now()
	log.Debug("building presentation")
	deck, err := pptx.Build(pptx.Deck{
		Title:    opts.Title,
		Subtitle: opts.Subtitle(),
		Branding: opts.Branding,
		KPIs:     m.KPIs(),
		Charts:   report.Charts,
		Created:  now,
	})
	if err != nil {
		return nil, fail(log, StageDeck, err)
	}
	report.Deck = models.Artifact{Filename: DeckFilename, ContentType: pptx.ContentType, Data: deck}

	log.Debug("building html deck")
	page, err := htmldeck.Build(htmldeck.Page{
		Title:    opts.Title,
		Subtitle: opts.Subtitle(),
		Updated:  now,
		Branding: opts.Branding,
		KPIs:     m.KPIs(),
		Sections: []htmldeck.Section{
			{Chart: donut, Alt: "Donut", Caption: DonutCaption},
			{Chart: bar, Alt: "Bar"},
			{Chart: line, Alt: "Line"},
		},
	})
	if err != nil {
		return nil, fail(log, StagePage, err)
	}
	report.Page = models.Artifact{Filename: PageFilename, ContentType: htmldeck.ContentType, Data: page}

	log.Info("report generated",
		slog.Int("total_tickets", m.TotalTickets),
		slog.Int64("total_conversations", m.TotalConversations),
		slog.Int64("total_replies", m.TotalReplies),
		slog.Int("pptx_bytes", len(deck)),
		slog.Int("html_bytes", len(page)),
		slog.Duration("duration", time.Since(start)),
	)
	return report, nil
}

func fail(log *slog.Logger, stage string, err error) error {
	log.Error("report generation failed", slog.String("stage", stage), slog.String("error", err.Error()))
	return NewStageError(stage, err)
}
