package charts

import (
	"bytes"

	"github.com/ukaji3/ticketreport-go/pkg/ticketreport/models"
	"github.com/wcharczuk/go-chart/v2"
)

// Placeholder draws a blank image with "No data" centred on it.
func Placeholder(title string, w, h int) (*models.ChartImage, error) {
	img, err := encode(title, w, h, func(buf *bytes.Buffer) error {
		r, err := chart.PNG(w, h)
		if err != nil {
			return err
		}
		r.SetDPI(chart.DefaultDPI)

		chart.Draw.Box(r, chart.Box{Right: w, Bottom: h}, chart.Style{
			FillColor:   chart.ColorWhite,
			StrokeColor: chart.ColorWhite,
			StrokeWidth: chart.DefaultStrokeWidth,
		})

		style := chart.StyleTextDefaults()
		style.FontSize = 24
		style.TextHorizontalAlign = chart.TextHorizontalAlignCenter
		style.TextVerticalAlign = chart.TextVerticalAlignMiddle
		chart.Draw.TextWithin(r, NoDataText, chart.Box{Right: w, Bottom: h}, style)

		return r.Save(buf)
	})
	if err != nil {
		return nil, err
	}
	img.Placeholder = true
	return img, nil
}
