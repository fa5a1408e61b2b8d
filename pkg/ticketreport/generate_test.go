package ticketreport

import (
	"archive/zip"
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/ticketreport-go/pkg/ticketreport/models"
	"github.com/xuri/excelize/v2"
)

// ticketWorkbook writes header and rows starting at headerRow of the "Data"
// sheet, with a title line above it the way the ticketing export does.
func ticketWorkbook(t *testing.T, sheet string, headerRow int, header []interface{}, rows ...[]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName(f.GetSheetName(0), sheet))
	require.NoError(t, f.SetCellValue(sheet, "A1", "Ticket Details Report"))

	all := append([][]interface{}{header}, rows...)
	for i, row := range all {
		cell, err := excelize.CoordinatesToCellName(1, headerRow+i)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func fixedNow() time.Time {
	return time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.Now = fixedNow
	opts.Logger = slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	return opts
}

func TestGenerateThreeRows(t *testing.T) {
	data := ticketWorkbook(t, "Data", DefaultHeaderRow,
		[]interface{}{"Date Reported", "Category L1(Response)"},
		[]interface{}{"2024-01-01", "Billing"},
		[]interface{}{"2024-01-01", "Billing"},
		[]interface{}{"2024-01-02", "Tech"},
	)

	report, err := Generate(bytes.NewReader(data), testOptions())
	require.NoError(t, err)

	m := report.Metrics
	assert.Equal(t, 3, m.TotalTickets)
	assert.Zero(t, m.TotalConversations)
	assert.Zero(t, m.TotalReplies)
	assert.Equal(t, models.Distribution{{Label: "Billing", Count: 2}, {Label: "Tech", Count: 1}}, m.Categories)
	assert.Equal(t, models.DateSeries{
		{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Count: 2},
		{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Count: 1},
	}, m.TicketsPerDay)

	require.Len(t, report.Charts, 3)
	assert.Equal(t, []string{"Billing (2)", "Tech (1)"}, report.Charts[0].LegendLabels())
	assert.True(t, report.Charts[1].Placeholder, "no query type column")
	assert.False(t, report.Charts[2].Placeholder)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, DeckFilename, report.Deck.Filename)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.presentationml.presentation", report.Deck.ContentType)
	assert.Equal(t, PageFilename, report.Page.Filename)
	assert.Equal(t, "text/html; charset=utf-8", report.Page.ContentType)

	zr, err := zip.NewReader(bytes.NewReader(report.Deck.Data), int64(len(report.Deck.Data)))
	require.NoError(t, err)
	slides := 0
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "ppt/slides/slide") {
			slides++
		}
	}
	assert.Equal(t, 5, slides)

	html := string(report.Page.Data)
	assert.Contains(t, html, "Updated: Feb 01, 2024")
	assert.Contains(t, html, "<strong>3</strong>")
	assert.Contains(t, html, "Small categories grouped into “Other” for readability")

	assert.Equal(t, []models.Artifact{report.Deck, report.Page}, report.Artifacts())
}

func TestGenerateMissingDateColumn(t *testing.T) {
	data := ticketWorkbook(t, "Data", DefaultHeaderRow,
		[]interface{}{"Created", "Category L1(Response)", "Total Replies"},
		[]interface{}{"2024-01-01", "Billing", 2},
	)

	report, err := Generate(bytes.NewReader(data), testOptions())
	require.Error(t, err)
	assert.Nil(t, report, "no artifacts on failure")

	var colErr *ColumnNotFoundError
	require.True(t, errors.As(err, &colErr))
	assert.Equal(t, "Date Reported", colErr.Column)
	assert.Equal(t, []string{"Created", "Category L1(Response)", "Total Replies"}, colErr.Available)

	var stageErr *StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, StageAggregate, stageErr.Stage)
}

func TestGenerateSuggestsHeaderRow(t *testing.T) {
	data := ticketWorkbook(t, "Data", DefaultHeaderRow,
		[]interface{}{"Date Reported", "Category L1(Response)"},
		[]interface{}{"2024-01-01", "Billing"},
	)
	opts := testOptions()
	opts.HeaderRow = 10

	_, err := Generate(bytes.NewReader(data), opts)

	var colErr *ColumnNotFoundError
	require.True(t, errors.As(err, &colErr))
	assert.Equal(t, DefaultHeaderRow, colErr.HeaderRow)
	assert.Contains(t, err.Error(), "it appears in row 14")
}

func TestGenerateCustomSettings(t *testing.T) {
	data := ticketWorkbook(t, "Tickets", 2,
		[]interface{}{"Reported On", "Total Conversations", "Total Replies", "Query Type(Response)"},
		[]interface{}{time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC), 4, 6, "Complaint"},
		[]interface{}{time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC), 1, 2, "Request"},
	)

	opts := testOptions()
	opts.Sheet = "Tickets"
	opts.HeaderRow = 2
	opts.DateColumn = "Reported On"

	report, err := Generate(bytes.NewReader(data), opts)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Metrics.TotalTickets)
	assert.Equal(t, int64(5), report.Metrics.TotalConversations)
	assert.Equal(t, int64(8), report.Metrics.TotalReplies)
	assert.Len(t, report.Metrics.QueryTypes, 2)
	require.Len(t, report.Metrics.TicketsPerDay, 1)
	assert.Equal(t, 2, report.Metrics.TicketsPerDay[0].Count)
	assert.True(t, report.Charts[0].Placeholder, "no category column")
}

func TestGenerateFailures(t *testing.T) {
	valid := ticketWorkbook(t, "Data", DefaultHeaderRow,
		[]interface{}{"Date Reported"},
		[]interface{}{"2024-01-01"},
	)

	tests := []struct {
		name   string
		input  []byte
		modify func(*Options)
		target error
	}{
		{"not a workbook", []byte("plain text"), nil, ErrInvalidFormat},
		{"missing sheet", valid, func(o *Options) { o.Sheet = "Summary" }, ErrSheetNotFound},
		{"corrupt logo", valid, func(o *Options) { o.Branding.Logo = []byte("GIF89a nope") }, ErrInvalidImage},
		{"header row zero", valid, func(o *Options) { o.HeaderRow = 0 }, ErrInvalidOptions},
		{"threshold above ten", valid, func(o *Options) { o.GroupThreshold = 12 }, ErrInvalidOptions},
		{"bad colour", valid, func(o *Options) { o.Branding.Secondary = "orange" }, ErrInvalidOptions},
		{"empty date column", valid, func(o *Options) { o.DateColumn = "" }, ErrInvalidOptions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions()
			if tt.modify != nil {
				tt.modify(&opts)
			}
			report, err := Generate(bytes.NewReader(tt.input), opts)
			assert.Nil(t, report)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
		})
	}
}

func TestGenerateFile(t *testing.T) {
	_, err := GenerateFile(filepath.Join(t.TempDir(), "missing.xlsx"), testOptions())
	assert.True(t, errors.Is(err, ErrFileNotFound))

	path := filepath.Join(t.TempDir(), "tickets.xlsx")
	require.NoError(t, os.WriteFile(path, ticketWorkbook(t, "Data", DefaultHeaderRow,
		[]interface{}{"Date Reported"},
		[]interface{}{"2024-01-01"},
	), 0o644))

	report, err := GenerateFile(path, testOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Metrics.TotalTickets)
}

func TestGenerateLogsRunID(t *testing.T) {
	var logs bytes.Buffer
	opts := testOptions()
	opts.Logger = slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	data := ticketWorkbook(t, "Data", DefaultHeaderRow,
		[]interface{}{"Date Reported"},
		[]interface{}{"2024-01-01"},
	)
	report, err := Generate(bytes.NewReader(data), opts)
	require.NoError(t, err)

	out := logs.String()
	assert.Contains(t, out, `"msg":"report generated"`)
	assert.Contains(t, out, `"run_id":"`+report.RunID+`"`)
	assert.Contains(t, out, `"msg":"rendering charts"`)
}
