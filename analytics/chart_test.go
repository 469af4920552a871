package analytics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineChartEmptySeries(t *testing.T) {
	svg := LineChart(nil)

	assert.Contains(t, svg, "No data available")
	assert.NotContains(t, svg, "polyline")
}

func TestLineChartRendersSeries(t *testing.T) {
	svg := LineChart([]GrowthPoint{
		{Date: "2024-01-01", Count: 1},
		{Date: "2024-01-02", Count: 3},
		{Date: "2024-01-03", Count: 4},
	})

	assert.Contains(t, svg, "<polyline")
	assert.Equal(t, 3, strings.Count(svg, "<circle"))
	// The peak value sits at the top of the plot area.
	assert.Contains(t, svg, `cy="40.0"`)
}

func TestLineChartSinglePointHasNoLine(t *testing.T) {
	svg := LineChart([]GrowthPoint{{Date: "2024-01-01", Count: 5}})

	assert.NotContains(t, svg, "<polyline")
	assert.Equal(t, 1, strings.Count(svg, "<circle"))
}

func TestBarChartTruncatesLabelsAndBars(t *testing.T) {
	items := make([]CategoryCount, 0, 12)
	for i := 0; i < 12; i++ {
		items = append(items, CategoryCount{Name: "Entertainment", Count: 12 - i})
	}

	svg := BarChart(items)

	assert.Equal(t, 10, strings.Count(svg, "<rect"))
	assert.Contains(t, svg, ">Entertai<")
	assert.NotContains(t, svg, ">Entertainment<")
}

func TestBarChartEscapesLabels(t *testing.T) {
	svg := BarChart([]CategoryCount{{Name: "A&B", Count: 1}})

	assert.Contains(t, svg, "A&amp;B")
}

func TestBarChartZeroCountsStillRender(t *testing.T) {
	svg := BarChart([]CategoryCount{{Name: "quiet", Count: 0}})

	assert.Equal(t, 1, strings.Count(svg, "<rect"))
	assert.Contains(t, svg, `height="4.0"`)
}
