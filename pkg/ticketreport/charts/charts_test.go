package charts

import (
	"bytes"
	"fmt"
	"image/png"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/ticketreport-go/pkg/ticketreport/models"
	"github.com/wcharczuk/go-chart/v2"
)

var testPalette = BrandPalette("#e2282a", "#eb7e27", "#1a9d4a")

func assertPNG(t *testing.T, img *models.ChartImage) {
	t.Helper()
	require.NotNil(t, img)
	cfg, err := png.DecodeConfig(bytes.NewReader(img.PNG))
	require.NoError(t, err)
	assert.Equal(t, img.W, cfg.Width)
	assert.Equal(t, img.H, cfg.Height)
}

func TestPartition(t *testing.T) {
	tests := []struct {
		name      string
		dist      models.Distribution
		threshold float64
		expected  models.Distribution
	}{
		{
			name:      "all above threshold",
			dist:      models.Distribution{{Label: "Billing", Count: 2}, {Label: "Tech", Count: 1}},
			threshold: 0.03,
			expected:  models.Distribution{{Label: "Billing", Count: 2}, {Label: "Tech", Count: 1}},
		},
		{
			name: "small entries grouped",
			dist: models.Distribution{
				{Label: "A", Count: 90},
				{Label: "B", Count: 6},
				{Label: "C", Count: 2},
				{Label: "D", Count: 2},
			},
			threshold: 0.05,
			expected: models.Distribution{
				{Label: "A", Count: 90},
				{Label: "B", Count: 6},
				{Label: OtherLabel, Count: 4},
			},
		},
		{
			name:      "share equal to threshold stays",
			dist:      models.Distribution{{Label: "A", Count: 97}, {Label: "B", Count: 3}},
			threshold: 0.03,
			expected:  models.Distribution{{Label: "A", Count: 97}, {Label: "B", Count: 3}},
		},
		{
			name:      "zero threshold keeps everything",
			dist:      models.Distribution{{Label: "A", Count: 1000}, {Label: "B", Count: 1}},
			threshold: 0,
			expected:  models.Distribution{{Label: "A", Count: 1000}, {Label: "B", Count: 1}},
		},
		{
			name:      "existing Other label merges into the group",
			dist:      models.Distribution{{Label: OtherLabel, Count: 50}, {Label: "A", Count: 49}, {Label: "B", Count: 1}},
			threshold: 0.1,
			expected:  models.Distribution{{Label: "A", Count: 49}, {Label: OtherLabel, Count: 51}},
		},
		{
			name:      "empty",
			dist:      nil,
			threshold: 0.03,
			expected:  nil,
		},
		{
			name:      "zero sum",
			dist:      models.Distribution{{Label: "A", Count: 0}},
			threshold: 0.03,
			expected:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Partition(tt.dist, tt.threshold)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.dist.Total(), got.Total())
		})
	}
}

func TestPartitionSmallEntriesNeverListed(t *testing.T) {
	dist := models.Distribution{
		{Label: "A", Count: 50},
		{Label: "B", Count: 30},
		{Label: "C", Count: 15},
		{Label: "D", Count: 3},
		{Label: "E", Count: 2},
	}
	const threshold = 0.04

	grouped := Partition(dist, threshold)
	total := dist.Total()
	for _, lc := range dist {
		_, listed := grouped.Get(lc.Label)
		assert.Equal(t, share(lc.Count, total) >= threshold, listed, "label %s", lc.Label)
	}
	assert.Equal(t, OtherLabel, grouped[len(grouped)-1].Label)
}

func TestDonutLegend(t *testing.T) {
	dist := models.Distribution{{Label: "Billing", Count: 2}, {Label: "Tech", Count: 1}}

	img, err := Donut(dist, 0.03, testPalette)
	require.NoError(t, err)
	assertPNG(t, img)

	assert.False(t, img.Placeholder)
	assert.Equal(t, DonutTitle, img.Title)
	assert.Equal(t, []string{"Billing (2)", "Tech (1)"}, img.LegendLabels())
}

func TestDonutManySlices(t *testing.T) {
	dist := models.Distribution{
		{Label: "A", Count: 40},
		{Label: "B", Count: 20},
		{Label: "C", Count: 15},
		{Label: "D", Count: 10},
		{Label: "E", Count: 8},
		{Label: "F", Count: 5},
		{Label: "G", Count: 1},
		{Label: "H", Count: 1},
	}

	img, err := Donut(dist, 0.03, testPalette)
	require.NoError(t, err)
	assertPNG(t, img)

	labels := img.LegendLabels()
	assert.Equal(t, "Other (2)", labels[len(labels)-1])
	assert.NotContains(t, labels, "G (1)")

	sum := 0
	for _, e := range img.Legend {
		sum += e.Value
	}
	assert.Equal(t, dist.Total(), sum)
}

func TestDonutSingleSlice(t *testing.T) {
	img, err := Donut(models.Distribution{{Label: "Only", Count: 7}}, 0.03, testPalette)
	require.NoError(t, err)
	assertPNG(t, img)
	assert.Equal(t, []string{"Only (7)"}, img.LegendLabels())
}

func TestEmptyInputRendersPlaceholder(t *testing.T) {
	zero := models.Distribution{{Label: "A", Count: 0}, {Label: "B", Count: 0}}
	zeroSeries := models.DateSeries{{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Count: 0}}

	tests := []struct {
		name   string
		render func() (*models.ChartImage, error)
	}{
		{"donut empty", func() (*models.ChartImage, error) { return Donut(nil, 0.03, testPalette) }},
		{"donut zero sum", func() (*models.ChartImage, error) { return Donut(zero, 0.03, testPalette) }},
		{"bar empty", func() (*models.ChartImage, error) { return Bar(nil, BarTitle) }},
		{"bar zero sum", func() (*models.ChartImage, error) { return Bar(zero, BarTitle) }},
		{"line empty", func() (*models.ChartImage, error) { return Line(nil, LineTitle) }},
		{"line zero sum", func() (*models.ChartImage, error) { return Line(zeroSeries, LineTitle) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := tt.render()
			require.NoError(t, err)
			assertPNG(t, img)
			assert.True(t, img.Placeholder)
			assert.Empty(t, img.Legend)
		})
	}
}

// seriesPixels counts the pixels painted exactly in the series colour.
func seriesPixels(t *testing.T, img *models.ChartImage) int {
	t.Helper()
	decoded, err := png.Decode(bytes.NewReader(img.PNG))
	require.NoError(t, err)

	want := hexColor(defaultSeriesColor)
	n := 0
	b := decoded.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := decoded.At(x, y).RGBA()
			if uint8(r>>8) == want.R && uint8(g>>8) == want.G && uint8(bl>>8) == want.B {
				n++
			}
		}
	}
	return n
}

func tickLabels(ticks []chart.Tick) []string {
	return lo.FilterMap(ticks, func(t chart.Tick, _ int) (string, bool) { return t.Label, t.Label != "" })
}

func TestCountTicks(t *testing.T) {
	tests := []struct {
		name     string
		maxCount int
		expected []string
	}{
		{"zero", 0, []string{"0", "1"}},
		{"small counts", 2, []string{"0", "1", "2", "3"}},
		{"ten", 10, []string{"0", "2", "4", "6", "8", "10", "12"}},
		{"step of five", 45, []string{"0", "5", "10", "15", "20", "25", "30", "35", "40", "45", "50"}},
		{"hundreds", 900, []string{"0", "100", "200", "300", "400", "500", "600", "700", "800", "900", "1000"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticks := countTicks(tt.maxCount)
			assert.Equal(t, tt.expected, tickLabels(ticks))
			assert.LessOrEqual(t, len(ticks)-1, maxCountIntervals)
			assert.GreaterOrEqual(t, ticks[len(ticks)-1].Value, float64(tt.maxCount))

			r := tickRange(ticks)
			assert.Equal(t, 0.0, r.Min)
			assert.Equal(t, ticks[len(ticks)-1].Value, r.Max)
		})
	}
}

func TestLayoutBars(t *testing.T) {
	m, err := newMeasurer(barFontSize)
	require.NoError(t, err)

	many := make([]string, 20)
	for i := range many {
		many[i] = fmt.Sprintf("Query type %d", i)
	}
	long := strings.Repeat("Escalation requested by regional office ", 4)

	tests := []struct {
		name      string
		labels    []string
		truncated []int
	}{
		{"multi word labels", []string{"Tech Support Issue", "Billing Query", "Information"}, nil},
		{"twenty labels", many, nil},
		{"long label", []string{"Complaint", long}, []int{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := layoutBars(tt.labels, m)
			require.Len(t, l.Labels, len(tt.labels))
			assert.Len(t, lo.Uniq(l.Labels), len(tt.labels))

			maxW := 0
			for i, label := range l.Labels {
				if lo.Contains(tt.truncated, i) {
					assert.True(t, strings.HasSuffix(label, ellipsis))
					assert.True(t, strings.HasPrefix(tt.labels[i], strings.TrimSuffix(label, ellipsis)))
				} else {
					assert.Equal(t, tt.labels[i], label)
				}
				assert.LessOrEqual(t, m.width(label), barLabelMaxWidth)
				maxW = max(maxW, m.width(label))
			}

			assert.GreaterOrEqual(t, l.Width, 1)
			assert.LessOrEqual(t, l.Width, barMaxWidth)
			assert.LessOrEqual(t, len(tt.labels)*(l.Width+l.Spacing), plotWidth-2*barPadding-barYAxisRoom)
			assert.GreaterOrEqual(t, float64(l.Bottom), float64(maxW)*math.Sqrt2/2)
			assert.Less(t, l.Bottom, plotHeight/2)
		})
	}
}

func TestBar(t *testing.T) {
	tests := []struct {
		name string
		dist models.Distribution
	}{
		{"few labels", models.Distribution{
			{Label: "Complaint", Count: 12},
			{Label: "Request", Count: 7},
			{Label: "Information", Count: 1},
		}},
		{"small counts", models.Distribution{{Label: "Billing Query", Count: 2}, {Label: "Tech Support Issue", Count: 1}}},
		{"many labels", lo.Times(20, func(i int) models.LabelCount {
			return models.LabelCount{Label: fmt.Sprintf("Query type %d", i), Count: 20 - i}
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := Bar(tt.dist, BarTitle)
			require.NoError(t, err)
			assertPNG(t, img)
			assert.Equal(t, BarTitle, img.Title)
			assert.False(t, img.Placeholder)
			assert.Greater(t, seriesPixels(t, img), 500)
		})
	}
}

func TestDateTicks(t *testing.T) {
	m, err := newMeasurer(lineFontSize)
	require.NoError(t, err)
	day := func(d int) time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, d) }

	tests := []struct {
		name     string
		series   models.DateSeries
		allShown bool
	}{
		{"single day", models.DateSeries{{Date: day(0), Count: 3}}, true},
		{"a week", lo.Times(7, func(i int) models.DateCount { return models.DateCount{Date: day(i), Count: i + 1} }), true},
		{"three months", lo.Times(90, func(i int) models.DateCount { return models.DateCount{Date: day(i), Count: 1} }), false},
		{"clustered dates", models.DateSeries{{Date: day(0), Count: 1}, {Date: day(1), Count: 1}, {Date: day(60), Count: 1}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticks := dateTicks(tt.series, m)
			require.Len(t, ticks, len(tt.series)+2)
			assert.Empty(t, ticks[0].Label)
			assert.Empty(t, ticks[len(ticks)-1].Label)
			assert.Equal(t, tt.series[0].Date.Format(DateLayout), ticks[1].Label)

			labels := tickLabels(ticks)
			assert.Len(t, lo.Uniq(labels), len(labels))
			if tt.allShown {
				assert.Len(t, labels, len(tt.series))
			}

			start, end := ticks[0].Value, ticks[len(ticks)-1].Value
			last := math.Inf(-1)
			for i, tick := range ticks[1 : len(ticks)-1] {
				assert.Equal(t, chart.TimeToFloat64(tt.series[i].Date), tick.Value)
				if tick.Label == "" {
					continue
				}
				assert.Equal(t, tt.series[i].Date.Format(DateLayout), tick.Label)
				pos := (tick.Value - start) / (end - start) * lineAxisSpan
				assert.GreaterOrEqual(t, pos-last, dateLabelSlot(m))
				last = pos
			}
		})
	}
}

func TestLine(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name   string
		series models.DateSeries
	}{
		{"single day", models.DateSeries{{Date: day(1), Count: 3}}},
		{"several days", models.DateSeries{{Date: day(1), Count: 2}, {Date: day(2), Count: 1}, {Date: day(5), Count: 4}}},
		{"a month", lo.Times(31, func(i int) models.DateCount { return models.DateCount{Date: day(i + 1), Count: i%4 + 1} })},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := Line(tt.series, LineTitle)
			require.NoError(t, err)
			assertPNG(t, img)
			assert.False(t, img.Placeholder)
			// Each marker is a filled dot in the series colour.
			assert.Greater(t, seriesPixels(t, img), 10*len(tt.series))
		})
	}
}

func TestRenderingIsDeterministic(t *testing.T) {
	dist := models.Distribution{{Label: "Billing", Count: 5}, {Label: "Tech", Count: 3}, {Label: "Misc", Count: 1}}

	first, err := Donut(dist, 0.03, testPalette)
	require.NoError(t, err)
	second, err := Donut(dist, 0.03, testPalette)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(first.PNG, second.PNG))

	b1, err := Bar(dist, BarTitle)
	require.NoError(t, err)
	b2, err := Bar(dist, BarTitle)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(b1.PNG, b2.PNG))
}

func TestPaletteCycles(t *testing.T) {
	assert.Equal(t, testPalette.Color(0), testPalette.Color(5))
	assert.Equal(t, hexColor(LightGray), testPalette.Color(4))
	assert.Equal(t, hexColor(defaultSeriesColor), hexColor("bogus"))
}
