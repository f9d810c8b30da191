package sheet

import (
	"math"
	"strconv"
	"strings"
)

// CellKind discriminates the two value types a cell can hold.
type CellKind int

const (
	KindText CellKind = iota
	KindNumber
)

// Cell is a single spreadsheet value, either numeric or textual.
// The zero Cell is an empty text cell.
type Cell struct {
	kind CellKind
	num  float64
	text string
}

func Number(v float64) Cell {
	return Cell{kind: KindNumber, num: v}
}

func Text(s string) Cell {
	return Cell{kind: KindText, text: s}
}

// CellOf classifies a raw cell string: values that parse as a finite
// number become Number cells, everything else stays Text.
func CellOf(raw string) Cell {
	trimmed := strings.TrimSpace(raw)
	if trimmed != "" {
		if v, err := strconv.ParseFloat(trimmed, 64); err == nil && isFinite(v) {
			return Number(v)
		}
	}
	return Text(raw)
}

func (c Cell) Kind() CellKind { return c.kind }

// Float coerces the cell to a number. Text cells are parsed; anything
// that is not a finite number reports ok=false.
func (c Cell) Float() (float64, bool) {
	if c.kind == KindNumber {
		return c.num, true
	}
	trimmed := strings.TrimSpace(c.text)
	if trimmed == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || !isFinite(v) {
		return 0, false
	}
	return v, true
}

func (c Cell) String() string {
	if c.kind == KindNumber {
		return strconv.FormatFloat(c.num, 'g', -1, 64)
	}
	return c.text
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
