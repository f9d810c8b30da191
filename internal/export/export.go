// Package export renders a chart projection to a PNG image.
package export

import (
	"fmt"
	"io"
	"os"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/mkozlov/sheetchart/internal/chart"
)

// FileName is the name offered for the downloaded image.
const FileName = "chart.png"

const (
	imageWidth  = 1000
	imageHeight = 600
)

// PNG renders the projection to w. Callers only invoke it with at
// least one projected entry; it reads the projection and nothing else.
func PNG(w io.Writer, d chart.Data, xLabel, yLabel string) error {
	switch d.Style {
	case chart.StyleSeries:
		return renderSeries(w, d, xLabel, yLabel)
	case chart.StyleCategorical:
		return renderBars(w, d, xLabel, yLabel)
	case chart.StyleProportional:
		return renderPie(w, d)
	}
	return fmt.Errorf("unknown chart style %v", d.Style)
}

// File renders the projection into a file at path.
func File(path string, d chart.Data, xLabel, yLabel string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return PNG(f, d, xLabel, yLabel)
}

func renderSeries(w io.Writer, d chart.Data, xLabel, yLabel string) error {
	xs, ys, ticks := seriesValues(d.Points)

	// go-chart refuses a single-point x range, so pad with a copy.
	if len(xs) == 1 {
		xs = append(xs, xs[0]+1)
		ys = append(ys, ys[0])
	}

	xAxis := gochart.XAxis{Name: xLabel, Ticks: ticks}
	line := drawing.ColorFromHex(chart.PaletteColor(0))
	ch := gochart.Chart{
		Title:  fmt.Sprintf("%s by %s", yLabel, xLabel),
		Width:  imageWidth,
		Height: imageHeight,
		XAxis:  xAxis,
		YAxis:  gochart.YAxis{Name: yLabel},
		Series: []gochart.Series{
			gochart.ContinuousSeries{
				XValues: xs,
				YValues: ys,
				Style: gochart.Style{
					StrokeColor: line,
					StrokeWidth: 2,
					DotColor:    line,
					DotWidth:    3,
				},
			},
		},
	}
	return ch.Render(gochart.PNG, w)
}

func renderBars(w io.Writer, d chart.Data, xLabel, yLabel string) error {
	fill := drawing.ColorFromHex(chart.PaletteColor(0))
	bars := make([]gochart.Value, len(d.Points))
	for i, p := range d.Points {
		v, _ := p.Y.Float()
		bars[i] = gochart.Value{
			Label: p.X.String(),
			Value: v,
			Style: gochart.Style{FillColor: fill, StrokeColor: fill},
		}
	}
	ch := gochart.BarChart{
		Title:  fmt.Sprintf("%s by %s", yLabel, xLabel),
		Width:  imageWidth,
		Height: imageHeight,
		Bars:   bars,
	}
	return ch.Render(gochart.PNG, w)
}

func renderPie(w io.Writer, d chart.Data) error {
	values := make([]gochart.Value, len(d.Slices))
	for i, s := range d.Slices {
		v, _ := s.Value.Float()
		fill := drawing.ColorFromHex(chart.PaletteColor(s.Color))
		values[i] = gochart.Value{
			Label: s.Name.String(),
			Value: v,
			Style: gochart.Style{FillColor: fill},
		}
	}
	ch := gochart.PieChart{
		Width:  imageHeight,
		Height: imageHeight,
		Values: values,
	}
	return ch.Render(gochart.PNG, w)
}

// seriesValues maps points to plottable x/y pairs. When every x cell
// coerces to a number the numeric values are used directly; otherwise
// points are placed at their row index with the x text as tick labels.
func seriesValues(points []chart.Point) (xs, ys []float64, ticks []gochart.Tick) {
	xs = make([]float64, len(points))
	ys = make([]float64, len(points))
	numeric := true
	for i, p := range points {
		v, ok := p.X.Float()
		if !ok {
			numeric = false
			break
		}
		xs[i] = v
	}
	if !numeric {
		ticks = make([]gochart.Tick, len(points))
		for i, p := range points {
			xs[i] = float64(i)
			ticks[i] = gochart.Tick{Value: float64(i), Label: p.X.String()}
		}
	}
	for i, p := range points {
		// Non-numeric y values plot as zero; filtering them is not the
		// projection's job and the image must keep row alignment.
		v, _ := p.Y.Float()
		ys[i] = v
	}
	return xs, ys, ticks
}
