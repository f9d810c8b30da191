package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mkozlov/sheetchart/internal/chart"
)

// Terminal rendering of a chart projection. This is presentation only:
// it consumes chart.Data and never touches the pipeline.

const (
	chartLabelWidth = 14
	chartBarWidth   = 30
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

func paletteColor(i int) lipgloss.Color {
	return lipgloss.Color("#" + chart.PaletteColor(i))
}

func renderChart(d chart.Data, width int) string {
	switch d.Style {
	case chart.StyleSeries:
		return renderSparkline(d.Points, width)
	case chart.StyleCategorical:
		return renderBars(d.Points, width)
	case chart.StyleProportional:
		return renderSlices(d.Slices, width)
	}
	return ""
}

// renderSparkline draws the y values as one block rune per point,
// downsampled to the available width, with the value range alongside.
func renderSparkline(points []chart.Point, width int) string {
	values := make([]float64, len(points))
	for i, p := range points {
		v, _ := p.Y.Float()
		values[i] = v
	}
	if len(values) == 0 {
		return ChartLabelStyle.Render("no data")
	}

	w := width - 4
	if w < 10 {
		w = 10
	}
	if len(values) > w {
		step := float64(len(values)) / float64(w)
		sampled := make([]float64, w)
		for i := 0; i < w; i++ {
			idx := int(float64(i) * step)
			if idx >= len(values) {
				idx = len(values) - 1
			}
			sampled[i] = values[idx]
		}
		values = sampled
	}

	minV, maxV := values[0], values[0]
	for _, v := range values {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	rng := maxV - minV
	if rng == 0 {
		rng = 1
	}

	var sb strings.Builder
	for _, v := range values {
		idx := int((v - minV) / rng * float64(len(sparkBlocks)-1))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkBlocks) {
			idx = len(sparkBlocks) - 1
		}
		sb.WriteRune(sparkBlocks[idx])
	}

	line := lipgloss.NewStyle().Foreground(paletteColor(0)).Render(sb.String())
	span := ChartLabelStyle.Render(fmt.Sprintf("%s … %s", formatChartValue(minV), formatChartValue(maxV)))
	return line + "\n" + span
}

// renderBars draws one horizontal bar per point, scaled to the largest
// y value. Every row keeps its own bar; duplicate labels stay separate.
func renderBars(points []chart.Point, width int) string {
	if len(points) == 0 {
		return ChartLabelStyle.Render("no data")
	}

	barW := width - chartLabelWidth - 12
	if barW < 8 {
		barW = 8
	}
	if barW > chartBarWidth {
		barW = chartBarWidth
	}

	maxVal := 0.0
	for _, p := range points {
		if v, ok := p.Y.Float(); ok && v > maxVal {
			maxVal = v
		}
	}
	if maxVal == 0 {
		maxVal = 1
	}

	barColor := paletteColor(0)
	var lines []string
	for _, p := range points {
		v, ok := p.Y.Float()
		if !ok || v < 0 {
			v = 0
		}
		barLen := int(v / maxVal * float64(barW))
		if barLen < 1 && v > 0 {
			barLen = 1
		}
		bar := lipgloss.NewStyle().Foreground(barColor).Render(strings.Repeat("█", barLen))
		track := ChartTrackStyle.Render(strings.Repeat("░", barW-barLen))
		value := p.Y.String()
		if !ok {
			value = ChartLabelStyle.Render(p.Y.String())
		}
		lines = append(lines, fmt.Sprintf("%s %s%s  %s", chartLabel(p.X.String()), bar, track, value))
	}
	return strings.Join(lines, "\n")
}

// renderSlices draws each slice as a bar in its palette color with its
// share of the total.
func renderSlices(slices []chart.Slice, width int) string {
	if len(slices) == 0 {
		return ChartLabelStyle.Render("no data")
	}

	barW := width - chartLabelWidth - 16
	if barW < 8 {
		barW = 8
	}
	if barW > chartBarWidth {
		barW = chartBarWidth
	}

	total := 0.0
	maxVal := 0.0
	for _, s := range slices {
		if v, ok := s.Value.Float(); ok && v > 0 {
			total += v
			if v > maxVal {
				maxVal = v
			}
		}
	}
	if maxVal == 0 {
		maxVal = 1
	}

	var lines []string
	for _, s := range slices {
		v, ok := s.Value.Float()
		if !ok || v < 0 {
			v = 0
		}
		barLen := int(v / maxVal * float64(barW))
		if barLen < 1 && v > 0 {
			barLen = 1
		}
		color := paletteColor(s.Color)
		bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", barLen))
		track := ChartTrackStyle.Render(strings.Repeat("░", barW-barLen))
		share := ""
		if total > 0 && ok {
			share = fmt.Sprintf("%.1f%%", v/total*100)
		}
		lines = append(lines, fmt.Sprintf("%s %s%s  %s %s",
			chartLabel(s.Name.String()), bar, track, s.Value.String(), ChartLabelStyle.Render(share)))
	}
	return strings.Join(lines, "\n")
}

func chartLabel(s string) string {
	if len(s) > chartLabelWidth {
		s = s[:chartLabelWidth-1] + "…"
	}
	return ChartLabelStyle.Width(chartLabelWidth).Render(s)
}

func formatChartValue(v float64) string {
	if v == float64(int(v)) {
		return fmt.Sprintf("%d", int(v))
	}
	return fmt.Sprintf("%.2f", v)
}
