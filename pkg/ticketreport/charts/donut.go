package charts

import (
	"bytes"
	"fmt"

	"github.com/ukaji3/ticketreport-go/pkg/ticketreport/models"
	"github.com/wcharczuk/go-chart/v2"
)

// OtherLabel names the slice that collects the small categories.
const OtherLabel = "Other"

// LegendTitle heads the donut legend.
const LegendTitle = "Category (count)"

// legendWidth is the space reserved right of the ring for the legend.
const legendWidth = 440

// Partition groups a distribution for the donut chart.
//
// Entries whose share of the total is at least threshold (a fraction, e.g.
// 0.03) are kept in order. The remaining entries are summed into one "Other"
// entry appended last; it is omitted when nothing falls below the threshold.
// Entries with a non-positive count are dropped. The counts of the result add
// up to the total of dist.
func Partition(dist models.Distribution, threshold float64) models.Distribution {
	total := dist.Total()
	if total <= 0 {
		return nil
	}

	var grouped models.Distribution
	other, hasSmall := 0, false
	for _, lc := range dist {
		if lc.Count <= 0 {
			continue
		}
		if share(lc.Count, total) >= threshold && lc.Label != OtherLabel {
			grouped = append(grouped, lc)
			continue
		}
		other += lc.Count
		hasSmall = true
	}

	if hasSmall {
		grouped = append(grouped, models.LabelCount{Label: OtherLabel, Count: other})
	}
	return grouped
}

// Donut renders the category distribution as a ring chart with a side legend.
// Slices are coloured by position from palette; slices whose share is below
// threshold carry no percentage label.
func Donut(dist models.Distribution, threshold float64, palette Palette) (*models.ChartImage, error) {
	grouped := Partition(dist, threshold)
	if len(grouped) == 0 {
		return Placeholder(DonutTitle, donutWidth, donutHeight)
	}

	total := grouped.Total()
	values := make([]chart.Value, len(grouped))
	legend := make([]models.LegendEntry, len(grouped))
	for i, lc := range grouped {
		values[i] = chart.Value{Value: float64(lc.Count)}
		if s := share(lc.Count, total); s >= threshold {
			values[i].Label = fmt.Sprintf("%.1f%%", s*100)
		}
		legend[i] = models.LegendEntry{Label: lc.Label, Value: lc.Count}
	}

	donut := chart.DonutChart{
		Title:        DonutTitle,
		ColorPalette: colorPalette{series: palette},
		Width:        donutWidth,
		Height:       donutHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 60, Left: 20, Right: legendWidth, Bottom: 20},
		},
		TitleStyle: chart.Style{FontSize: 18},
		SliceStyle: chart.Style{FontSize: 14},
		Values:     values,
		Elements: []chart.Renderable{
			legendRenderable(legend, palette, chart.Box{
				Top:    60,
				Left:   donutWidth - legendWidth + 20,
				Right:  donutWidth - 20,
				Bottom: donutHeight - 20,
			}),
		},
	}

	img, err := encode(DonutTitle, donutWidth, donutHeight, func(buf *bytes.Buffer) error {
		return donut.Render(chart.PNG, buf)
	})
	if err != nil {
		return nil, err
	}
	img.Legend = legend
	return img, nil
}

// legendRenderable draws one swatch and "label (count)" line per entry,
// vertically centred in box.
func legendRenderable(entries []models.LegendEntry, palette Palette, box chart.Box) chart.Renderable {
	return func(r chart.Renderer, _ chart.Box, defaults chart.Style) {
		const (
			swatch  = 18
			spacing = 10
		)

		text := chart.Style{
			Font:      defaults.Font,
			FontSize:  12,
			FontColor: chart.DefaultTextColor,
		}
		title := text
		title.FontSize = 14

		lineHeight := chart.Draw.MeasureText(r, LegendTitle, title).Height() + spacing
		height := lineHeight * (len(entries) + 1)
		y := box.Top + (box.Height()-height)/2
		if y < box.Top {
			y = box.Top
		}

		chart.Draw.Text(r, LegendTitle, box.Left, y+lineHeight-spacing, title)
		y += lineHeight

		for i, e := range entries {
			chart.Draw.Box(r, chart.Box{
				Top:    y,
				Left:   box.Left,
				Right:  box.Left + swatch,
				Bottom: y + swatch,
			}, chart.Style{
				FillColor:   palette.Color(i),
				StrokeColor: chart.ColorWhite,
				StrokeWidth: 1,
			})
			chart.Draw.Text(r, e.String(), box.Left+swatch+spacing, y+swatch-3, text)
			y += lineHeight
		}
	}
}

func share(count, total int) float64 {
	return float64(count) / float64(total)
}
