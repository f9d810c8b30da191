package chart

import (
	"github.com/mkozlov/sheetchart/internal/sheet"
)

// Style selects the chart representation.
type Style int

const (
	StyleSeries Style = iota
	StyleCategorical
	StyleProportional
)

func (s Style) String() string {
	switch s {
	case StyleSeries:
		return "line"
	case StyleCategorical:
		return "bar"
	case StyleProportional:
		return "pie"
	}
	return "unknown"
}

// Next cycles to the following style, wrapping after the last one.
func (s Style) Next() Style {
	switch s {
	case StyleSeries:
		return StyleCategorical
	case StyleCategorical:
		return StyleProportional
	default:
		return StyleSeries
	}
}

// Axis names one of the two chart axes.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

// Binding is the pair of fields assigned to the chart axes. An empty
// field name means that axis is unbound.
type Binding struct {
	X string
	Y string
}

// DefaultBinding binds x to the first field and y to the second. With
// a single field, y stays unbound; consumers suppress statistics and
// projection until both axes are set.
func DefaultBinding(fields []string) Binding {
	var b Binding
	if len(fields) > 0 {
		b.X = fields[0]
	}
	if len(fields) > 1 {
		b.Y = fields[1]
	}
	return b
}

func (b Binding) Ready() bool {
	return b.X != "" && b.Y != ""
}

// WithAxis returns a binding with the given axis set to field. A field
// that is not a member of fields leaves the binding unchanged.
func (b Binding) WithAxis(axis Axis, field string, fields []string) Binding {
	member := false
	for _, f := range fields {
		if f == field {
			member = true
			break
		}
	}
	if !member {
		return b
	}
	switch axis {
	case AxisX:
		b.X = field
	case AxisY:
		b.Y = field
	}
	return b
}

// Point is one entry of a series or categorical projection.
type Point struct {
	X sheet.Cell
	Y sheet.Cell
}

// Slice is one entry of a proportional projection. Color is the index
// into the fixed palette.
type Slice struct {
	Name  sheet.Cell
	Value sheet.Cell
	Color int
}

// PaletteSize is the length of the fixed color cycle.
const PaletteSize = 6

// Palette holds the hex colors assigned cyclically to proportional
// slices; entry i of the projection gets Palette[i%PaletteSize].
var Palette = [PaletteSize]string{
	"2563EB", "10B981", "F59E0B", "EF4444", "8B5CF6", "EC4899",
}

func PaletteColor(i int) string {
	return Palette[i%PaletteSize]
}

// Series projects rows into x/y points in row order. Values pass
// through unmodified; non-numeric cells are the renderer's concern.
// Both the series and categorical styles consume this shape, and
// duplicate x values are kept as separate entries.
func Series(rows []sheet.Row, b Binding) []Point {
	points := make([]Point, len(rows))
	for i, row := range rows {
		points[i] = Point{X: row[b.X], Y: row[b.Y]}
	}
	return points
}

// Slices projects rows into name/value entries with cycling palette
// indices, in row order.
func Slices(rows []sheet.Row, b Binding) []Slice {
	slices := make([]Slice, len(rows))
	for i, row := range rows {
		slices[i] = Slice{
			Name:  row[b.X],
			Value: row[b.Y],
			Color: i % PaletteSize,
		}
	}
	return slices
}

// Data is the style-tagged projection consumed by renderers: Points is
// populated for the series and categorical styles, Slices for the
// proportional style.
type Data struct {
	Style  Style
	Points []Point
	Slices []Slice
}

// Project reshapes rows for the given style. Callers guard on
// b.Ready() before projecting.
func Project(rows []sheet.Row, b Binding, style Style) Data {
	d := Data{Style: style}
	switch style {
	case StyleProportional:
		d.Slices = Slices(rows, b)
	default:
		d.Points = Series(rows, b)
	}
	return d
}
