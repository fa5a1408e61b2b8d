package charts

import (
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Grays used for donut slices beyond the three brand colours.
const (
	DarkGray  = "#888888"
	LightGray = "#cccccc"
)

// defaultSeriesColor is used for bars and the time-series line.
const defaultSeriesColor = "#1f77b4"

// Palette is an ordered list of hex colours assigned to slices by position.
type Palette []string

// BrandPalette returns the donut palette: the three brand colours followed by
// two grays.
func BrandPalette(primary, secondary, tertiary string) Palette {
	return Palette{primary, secondary, tertiary, DarkGray, LightGray}
}

// Color returns the colour for slice i, cycling when i exceeds the palette.
func (p Palette) Color(i int) drawing.Color {
	if len(p) == 0 {
		return hexColor(defaultSeriesColor)
	}
	return hexColor(p[i%len(p)])
}

// hexColor parses "#rrggbb", "rrggbb" or the three digit short forms.
// Malformed input falls back to the default series colour.
func hexColor(s string) drawing.Color {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 3 && len(h) != 6 {
		h = strings.TrimPrefix(defaultSeriesColor, "#")
	}
	return drawing.ColorFromHex(h)
}

// colorPalette adapts a Palette to chart.ColorPalette on a white background.
type colorPalette struct {
	series Palette
}

var _ chart.ColorPalette = colorPalette{}

func (cp colorPalette) BackgroundColor() drawing.Color       { return chart.ColorWhite }
func (cp colorPalette) BackgroundStrokeColor() drawing.Color { return chart.ColorWhite }
func (cp colorPalette) CanvasColor() drawing.Color           { return chart.ColorWhite }
func (cp colorPalette) CanvasStrokeColor() drawing.Color     { return chart.ColorWhite }
func (cp colorPalette) AxisStrokeColor() drawing.Color       { return chart.DefaultAxisColor }
func (cp colorPalette) TextColor() drawing.Color             { return chart.DefaultTextColor }
func (cp colorPalette) GetSeriesColor(index int) drawing.Color {
	return cp.series.Color(index)
}
