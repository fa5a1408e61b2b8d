package charts

import (
	"bytes"
	"math"
	"time"

	"github.com/ukaji3/ticketreport-go/pkg/ticketreport/models"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// DateLayout formats the x axis labels of the time-series chart.
const DateLayout = "2006-01-02"

const (
	lineFontSize = 9

	// Approximate pixel width of the x axis once padding and the y axis are
	// taken off.
	lineAxisSpan = plotWidth - 160
	dateLabelGap = 12
)

var gridColor = drawing.ColorFromHex("dddddd")

// dateTicks places a tick and grid line on every date, padded by half a day on
// both ends. Labels are drawn level and skipped where they would run into the
// previous one.
func dateTicks(series models.DateSeries, m *measurer) []chart.Tick {
	half := 12 * time.Hour
	start := chart.TimeToFloat64(series[0].Date.Add(-half))
	end := chart.TimeToFloat64(series[len(series)-1].Date.Add(half))
	slot := dateLabelSlot(m)

	ticks := make([]chart.Tick, 0, len(series)+2)
	ticks = append(ticks, chart.Tick{Value: start})
	last := math.Inf(-1)
	for _, dc := range series {
		v := chart.TimeToFloat64(dc.Date)
		tick := chart.Tick{Value: v}
		if pos := (v - start) / (end - start) * lineAxisSpan; pos-last >= slot {
			tick.Label = dc.Date.Format(DateLayout)
			last = pos
		}
		ticks = append(ticks, tick)
	}
	return append(ticks, chart.Tick{Value: end})
}

// dateLabelSlot is the horizontal room one date label needs.
func dateLabelSlot(m *measurer) float64 {
	return float64(m.width(DateLayout) + dateLabelGap)
}

// Line renders a per-day count series as a marked line in chronological order.
func Line(series models.DateSeries, title string) (*models.ChartImage, error) {
	if len(series) == 0 || series.Total() == 0 {
		return Placeholder(title, plotWidth, plotHeight)
	}

	m, err := newMeasurer(lineFontSize)
	if err != nil {
		return nil, err
	}

	xs := make([]time.Time, len(series))
	ys := make([]float64, len(series))
	maxCount := 0
	for i, dc := range series {
		xs[i] = dc.Date
		ys[i] = float64(dc.Count)
		maxCount = max(maxCount, dc.Count)
	}
	yTicks := countTicks(maxCount)

	color := hexColor(defaultSeriesColor)
	grid := chart.Style{StrokeColor: gridColor, StrokeWidth: 1}

	c := chart.Chart{
		Title:      title,
		TitleStyle: chart.Style{FontSize: 16},
		Width:      plotWidth,
		Height:     plotHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Left: 20, Right: 40, Bottom: 40},
		},
		XAxis: chart.XAxis{
			Name:           "Date",
			Ticks:          dateTicks(series, m),
			TickStyle:      chart.Style{FontSize: lineFontSize},
			GridMajorStyle: grid,
			GridMinorStyle: grid,
		},
		YAxis: chart.YAxis{
			Name:           "Count",
			Range:          tickRange(yTicks),
			Ticks:          yTicks,
			GridMajorStyle: grid,
			GridMinorStyle: grid,
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name: title,
				Style: chart.Style{
					StrokeColor: color,
					StrokeWidth: 2,
					DotColor:    color,
					DotWidth:    5,
				},
				XValues: xs,
				YValues: ys,
			},
		},
	}

	return encode(title, plotWidth, plotHeight, func(buf *bytes.Buffer) error {
		return c.Render(chart.PNG, buf)
	})
}
