package charts

import (
	"bytes"
	"math"

	"github.com/samber/lo"
	"github.com/ukaji3/ticketreport-go/pkg/ticketreport/models"
	"github.com/wcharczuk/go-chart/v2"
)

const (
	barFontSize      = 10
	barLabelMaxWidth = 240
	barPadding       = 20
	barTopPadding    = 50

	// Room left of the right padding for the y axis ticks and name.
	barYAxisRoom = 60
	barMaxCell   = 100
	barMaxWidth  = 60
	labelAngle   = 45
)

// barLayout sizes the bars and the space under them for labels drawn at
// labelAngle degrees.
type barLayout struct {
	Labels  []string
	Width   int
	Spacing int
	Bottom  int
}

func layoutBars(labels []string, m *measurer) barLayout {
	l := barLayout{Labels: make([]string, len(labels))}
	if len(labels) == 0 {
		return l
	}

	sin := math.Sin(labelAngle * math.Pi / 180)
	lineH := m.lineHeight()
	maxW := 0
	for i, s := range labels {
		l.Labels[i] = m.fit(s, barLabelMaxWidth)
		maxW = max(maxW, m.width(l.Labels[i]))
	}

	n := len(labels)
	cell := min((plotWidth-2*barPadding-barYAxisRoom)/n, barMaxCell)
	if n > 1 {
		// The last label runs down and to the right of its cell.
		last := int(math.Ceil(float64(m.width(l.Labels[n-1])+lineH) * sin))
		cell = min(cell, (plotWidth-barPadding-chart.DefaultYAxisMargin-last)/(n-1))
	}
	cell = max(cell, 1)

	l.Width = max(min(cell*3/4, barMaxWidth), 1)
	l.Spacing = cell - l.Width
	l.Bottom = max(int(math.Ceil(float64(maxW+lineH)*sin))+3*chart.DefaultXAxisMargin, 50)
	return l
}

// Bar renders one vertical bar per label in distribution order.
func Bar(dist models.Distribution, title string) (*models.ChartImage, error) {
	if len(dist) == 0 || dist.Total() == 0 {
		return Placeholder(title, plotWidth, plotHeight)
	}

	m, err := newMeasurer(barFontSize)
	if err != nil {
		return nil, err
	}
	layout := layoutBars(lo.Map(dist, func(lc models.LabelCount, _ int) string { return lc.Label }), m)

	fill := hexColor(defaultSeriesColor)
	bars := make([]chart.Value, len(dist))
	maxCount := 0
	for i, lc := range dist {
		bars[i] = chart.Value{
			Label: layout.Labels[i],
			Value: float64(lc.Count),
			Style: chart.Style{FillColor: fill, StrokeColor: fill, StrokeWidth: 1},
		}
		maxCount = max(maxCount, lc.Count)
	}
	yTicks := countTicks(maxCount)

	bc := chart.BarChart{
		Title:      title,
		TitleStyle: chart.Style{FontSize: 16},
		Width:      plotWidth,
		Height:     plotHeight,
		BarWidth:   layout.Width,
		BarSpacing: layout.Spacing,
		Background: chart.Style{
			Padding: chart.Box{Top: barTopPadding, Left: barPadding, Right: barPadding, Bottom: layout.Bottom},
		},
		XAxis: chart.Style{
			FontSize:            barFontSize,
			TextRotationDegrees: labelAngle,
			TextWrap:            chart.TextWrapNone,
			TextHorizontalAlign: chart.TextHorizontalAlignLeft,
		},
		YAxis: chart.YAxis{
			Name:  "Count",
			Range: tickRange(yTicks),
			Ticks: yTicks,
		},
		Bars: bars,
	}

	return encode(title, plotWidth, plotHeight, func(buf *bytes.Buffer) error {
		return bc.Render(chart.PNG, buf)
	})
}
