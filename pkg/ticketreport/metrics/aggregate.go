// Package metrics computes the headline numbers and distributions of a ticket table.
package metrics

import (
	"cmp"
	"slices"
	"time"

	"github.com/samber/lo"
	"github.com/ukaji3/ticketreport-go/pkg/ticketreport/models"
	"github.com/ukaji3/ticketreport-go/pkg/ticketreport/parser"
)

// Columns names the optional source columns.
type Columns struct {
	Conversations string `yaml:"conversations"`
	Replies       string `yaml:"replies"`
	Category      string `yaml:"category"`
	QueryType     string `yaml:"query_type"`
}

// DefaultColumns returns the column names used by the ticketing export.
func DefaultColumns() Columns {
	return Columns{
		Conversations: "Total Conversations",
		Replies:       "Total Replies",
		Category:      "Category L1(Response)",
		QueryType:     "Query Type(Response)",
	}
}

type config struct {
	columns  Columns
	date1904 bool
}

// Option configures Aggregate.
type Option func(*config)

// WithColumns overrides the optional column names. Empty fields keep their default.
func WithColumns(c Columns) Option {
	return func(cfg *config) {
		if c.Conversations != "" {
			cfg.columns.Conversations = c.Conversations
		}
		if c.Replies != "" {
			cfg.columns.Replies = c.Replies
		}
		if c.Category != "" {
			cfg.columns.Category = c.Category
		}
		if c.QueryType != "" {
			cfg.columns.QueryType = c.QueryType
		}
	}
}

// WithDate1904 interprets serial dates with the 1904 epoch.
func WithDate1904(v bool) Option {
	return func(cfg *config) {
		cfg.date1904 = v
	}
}

// Aggregate builds the metrics snapshot for t.
//
// Missing optional columns degrade to zero or an empty distribution. The date
// column is required: when it is absent a *ColumnNotFoundError is returned.
func Aggregate(t *models.Table, dateColumn string, opts ...Option) (*models.Metrics, error) {
	cfg := &config{columns: DefaultColumns()}
	for _, opt := range opts {
		opt(cfg)
	}

	m := &models.Metrics{
		TotalTickets:       t.Len(),
		TotalConversations: sumColumn(t, cfg.columns.Conversations),
		TotalReplies:       sumColumn(t, cfg.columns.Replies),
	}

	dateIdx, ok := t.ColumnIndex(dateColumn)
	if !ok {
		var available []string
		if t != nil {
			available = slices.Clone(t.Columns)
		}
		return nil, &ColumnNotFoundError{Column: dateColumn, Available: available}
	}

	m.Categories = Distribution(t, cfg.columns.Category)
	m.QueryTypes = Distribution(t, cfg.columns.QueryType)
	m.TicketsPerDay, m.UnparsedDates = perDay(t, dateIdx, cfg.date1904)

	return m, nil
}

// sumColumn adds up the numeric cells of a column. Blank and non-numeric
// cells count as zero; the result is truncated toward zero.
func sumColumn(t *models.Table, name string) int64 {
	values, ok := t.Column(name)
	if !ok {
		return 0
	}
	total := lo.SumBy(values, func(v string) float64 {
		n, _ := parser.ParseNumber(v)
		return n
	})
	return int64(total)
}

// Distribution counts the non-blank labels of a column, most frequent first.
// Ties keep the order in which labels first appear. An absent column yields nil.
func Distribution(t *models.Table, name string) models.Distribution {
	values, ok := t.Column(name)
	if !ok {
		return nil
	}

	counts := lo.CountValues(values)
	dist := lo.Map(lo.Uniq(values), func(label string, _ int) models.LabelCount {
		return models.LabelCount{Label: label, Count: counts[label]}
	})
	slices.SortStableFunc(dist, func(a, b models.LabelCount) int {
		return cmp.Compare(b.Count, a.Count)
	})
	return dist
}

func perDay(t *models.Table, dateIdx int, date1904 bool) (models.DateSeries, int) {
	days := lo.FilterMap(t.Rows, func(_ []string, i int) (time.Time, bool) {
		raw, ok := t.Value(i, dateIdx)
		if !ok {
			return time.Time{}, false
		}
		d, ok := parser.ParseDate(raw, date1904)
		if !ok {
			return time.Time{}, false
		}
		return parser.DateOnly(d), true
	})

	counts := lo.CountValues(days)
	series := lo.Map(lo.Keys(counts), func(d time.Time, _ int) models.DateCount {
		return models.DateCount{Date: d, Count: counts[d]}
	})
	slices.SortFunc(series, func(a, b models.DateCount) int {
		return a.Date.Compare(b.Date)
	})

	return series, t.Len() - len(days)
}
