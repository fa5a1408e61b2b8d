package charts

import (
	"strconv"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
)

// maxCountIntervals bounds the number of gaps between y axis ticks.
const maxCountIntervals = 10

const ellipsis = "..."

// countTicks returns integer ticks from zero to a little above maxCount. The
// step is 1, 2 or 5 times a power of ten and the top tick is a multiple of it,
// so labels never repeat.
func countTicks(maxCount int) []chart.Tick {
	top := (maxCount*11 + 9) / 10
	if top < 1 {
		top = 1
	}
	step := countStep(top)
	top = (top + step - 1) / step * step

	ticks := make([]chart.Tick, 0, top/step+1)
	for v := 0; v <= top; v += step {
		ticks = append(ticks, chart.Tick{Value: float64(v), Label: strconv.Itoa(v)})
	}
	return ticks
}

func countStep(top int) int {
	for mag := 1; ; mag *= 10 {
		for _, m := range []int{1, 2, 5} {
			step := m * mag
			if (top+step-1)/step <= maxCountIntervals {
				return step
			}
		}
	}
}

// tickRange spans the first to the last tick.
func tickRange(ticks []chart.Tick) *chart.ContinuousRange {
	return &chart.ContinuousRange{Min: ticks[0].Value, Max: ticks[len(ticks)-1].Value}
}

// measurer sizes text with the font and DPI the charts are drawn with.
type measurer struct {
	r chart.Renderer
}

func newMeasurer(fontSize float64) (*measurer, error) {
	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, err
	}
	r, err := chart.PNG(1, 1)
	if err != nil {
		return nil, err
	}
	r.SetDPI(chart.DefaultDPI)
	r.SetFont(font)
	r.SetFontSize(fontSize)
	return &measurer{r: r}, nil
}

func (m *measurer) width(s string) int {
	return m.r.MeasureText(s).Width()
}

func (m *measurer) lineHeight() int {
	return m.r.MeasureText("Hg").Height()
}

// fit shortens s with a trailing ellipsis until it is at most maxWidth wide.
func (m *measurer) fit(s string, maxWidth int) string {
	if m.width(s) <= maxWidth {
		return s
	}
	runes := []rune(s)
	for n := len(runes) - 1; n > 0; n-- {
		short := strings.TrimSpace(string(runes[:n])) + ellipsis
		if m.width(short) <= maxWidth {
			return short
		}
	}
	return ellipsis
}
