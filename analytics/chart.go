package analytics

import (
	"fmt"
	"strings"
)

// Inline SVG rendering for the dashboard charts. The viewport and scaling
// mirror the dashboard's hand-rolled chart: a 400x200 viewBox with the plot
// area spanning x 40..380 and y 40..168.
const (
	chartWidth  = 400
	chartHeight = 200

	plotLeft   = 40.0
	plotSpanX  = 340.0
	plotBottom = 168.0
	plotSpanY  = 128.0

	maxBars      = 10
	barLabelRune = 8
)

// LineChart renders a per-day series as a polyline with point markers.
// An empty series renders a placeholder message instead of axes.
func LineChart(points []GrowthPoint) string {
	var b strings.Builder
	openSVG(&b)

	if len(points) == 0 {
		emptyMessage(&b)
		b.WriteString("</svg>")
		return b.String()
	}

	maxValue := 0
	for _, p := range points {
		if p.Count > maxValue {
			maxValue = p.Count
		}
	}
	if maxValue == 0 {
		maxValue = 1
	}

	// Horizontal grid lines.
	for i := 0; i < 5; i++ {
		y := 40 + i*32
		fmt.Fprintf(&b, `<line x1="40" y1="%d" x2="380" y2="%d" stroke="#e5e7eb" stroke-width="1"/>`, y, y)
	}

	step := plotSpanX
	if len(points) > 1 {
		step = plotSpanX / float64(len(points)-1)
	}

	if len(points) > 1 {
		coords := make([]string, len(points))
		for i, p := range points {
			x := plotLeft + float64(i)*step
			y := plotBottom - float64(p.Count)/float64(maxValue)*plotSpanY
			coords[i] = fmt.Sprintf("%.1f,%.1f", x, y)
		}
		fmt.Fprintf(&b, `<polyline fill="none" stroke="#3b82f6" stroke-width="2" points="%s"/>`, strings.Join(coords, " "))
	}

	for i, p := range points {
		x := plotLeft + float64(i)*step
		y := plotBottom - float64(p.Count)/float64(maxValue)*plotSpanY
		fmt.Fprintf(&b, `<circle cx="%.1f" cy="%.1f" r="3" fill="#3b82f6"/>`, x, y)
	}

	b.WriteString("</svg>")
	return b.String()
}

// BarChart renders up to the first ten entries as vertical bars with
// truncated labels underneath.
func BarChart(items []CategoryCount) string {
	var b strings.Builder
	openSVG(&b)

	if len(items) == 0 {
		emptyMessage(&b)
		b.WriteString("</svg>")
		return b.String()
	}

	if len(items) > maxBars {
		items = items[:maxBars]
	}

	maxValue := 0
	for _, item := range items {
		if item.Count > maxValue {
			maxValue = item.Count
		}
	}
	if maxValue == 0 {
		maxValue = 1
	}

	slot := plotSpanX / float64(len(items))
	barWidth := slot * 0.7

	for i, item := range items {
		height := float64(item.Count) / float64(maxValue) * plotSpanY
		if height < 4 {
			height = 4
		}
		x := plotLeft + float64(i)*slot + (slot-barWidth)/2
		y := plotBottom - height
		fmt.Fprintf(&b, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="2" fill="#3b82f6"/>`, x, y, barWidth, height)
		fmt.Fprintf(&b, `<text x="%.1f" y="182" font-size="9" text-anchor="middle" fill="#6b7280">%s</text>`,
			x+barWidth/2, escapeText(truncateLabel(item.Name)))
	}

	b.WriteString("</svg>")
	return b.String()
}

func openSVG(b *strings.Builder) {
	fmt.Fprintf(b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d">`, chartWidth, chartHeight)
}

func emptyMessage(b *strings.Builder) {
	fmt.Fprintf(b, `<text x="%d" y="%d" font-size="12" text-anchor="middle" fill="#6b7280">No data available</text>`,
		chartWidth/2, chartHeight/2)
}

func truncateLabel(s string) string {
	runes := []rune(s)
	if len(runes) <= barLabelRune {
		return s
	}
	return string(runes[:barLabelRune])
}

func escapeText(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
