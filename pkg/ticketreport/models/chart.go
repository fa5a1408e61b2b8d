package models

import "fmt"

// LegendEntry is one line of a chart legend.
type LegendEntry struct {
	// Label is the category name.
	Label string `json:"label"`
	// Value is the count shown next to the label.
	Value int `json:"value"`
}

// String renders the entry as "label (count)".
func (e LegendEntry) String() string {
	return fmt.Sprintf("%s (%d)", e.Label, e.Value)
}

// ChartImage is a rendered chart.
type ChartImage struct {
	// Title is the chart heading.
	Title string `json:"title"`
	// PNG holds the encoded image.
	PNG []byte `json:"-"`
	// W is the image width in pixels.
	W int `json:"w"`
	// H is the image height in pixels.
	H int `json:"h"`
	// Legend lists the plotted entries (donut chart only).
	Legend []LegendEntry `json:"legend,omitempty"`
	// Placeholder is true when the input was empty and a "No data" image was drawn.
	Placeholder bool `json:"placeholder"`
}

// LegendLabels returns the legend as display strings.
func (c *ChartImage) LegendLabels() []string {
	labels := make([]string, len(c.Legend))
	for i, e := range c.Legend {
		labels[i] = e.String()
	}
	return labels
}
