package models

import "time"

// LabelCount is one entry of a frequency distribution.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Distribution is a label frequency table ordered by descending count.
type Distribution []LabelCount

// Total returns the sum of all counts.
func (d Distribution) Total() int {
	total := 0
	for _, lc := range d {
		total += lc.Count
	}
	return total
}

// Get returns the count for label, or false if absent.
func (d Distribution) Get(label string) (int, bool) {
	for _, lc := range d {
		if lc.Label == label {
			return lc.Count, true
		}
	}
	return 0, false
}

// DateCount is the number of tickets reported on a calendar date.
type DateCount struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}

// DateSeries is a chronological per-day count series.
type DateSeries []DateCount

// Total returns the sum of all counts.
func (s DateSeries) Total() int {
	total := 0
	for _, dc := range s {
		total += dc.Count
	}
	return total
}

// Metrics is the aggregate snapshot a report is built from.
type Metrics struct {
	// TotalTickets is the number of data rows.
	TotalTickets int `json:"total_tickets"`
	// TotalConversations is the sum of the conversations column (0 if absent).
	TotalConversations int64 `json:"total_conversations"`
	// TotalReplies is the sum of the replies column (0 if absent).
	TotalReplies int64 `json:"total_replies"`
	// Categories is the primary category distribution.
	Categories Distribution `json:"categories"`
	// QueryTypes is the query type distribution.
	QueryTypes Distribution `json:"query_types"`
	// TicketsPerDay counts rows per parsed date.
	TicketsPerDay DateSeries `json:"tickets_per_day"`
	// UnparsedDates is the number of rows whose date was missing or unreadable.
	UnparsedDates int `json:"unparsed_dates"`
}

// KPI is one headline number.
type KPI struct {
	Label string `json:"label"`
	Value int64  `json:"value"`
}

// KPIs returns the headline numbers in display order.
func (m *Metrics) KPIs() []KPI {
	return []KPI{
		{Label: "Total Tickets", Value: int64(m.TotalTickets)},
		{Label: "Total Conversations", Value: m.TotalConversations},
		{Label: "Total Replies", Value: m.TotalReplies},
	}
}
