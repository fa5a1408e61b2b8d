package models

// Artifact is one generated output document.
type Artifact struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
}

// Report is the outcome of one generation run.
type Report struct {
	// RunID identifies the run in logs.
	RunID string `json:"run_id"`
	// Metrics are the aggregates shown on the KPI slides.
	Metrics *Metrics `json:"metrics"`
	// Charts are the category donut, query type bar and tickets-over-time line, in that order.
	Charts []*ChartImage `json:"charts"`
	// Deck is the presentation file.
	Deck Artifact `json:"deck"`
	// Page is the standalone HTML deck.
	Page Artifact `json:"page"`
}

// Artifacts returns both outputs in download order.
func (r *Report) Artifacts() []Artifact {
	return []Artifact{r.Deck, r.Page}
}
