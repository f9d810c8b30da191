package stats

import (
	"math"
	"sort"

	"github.com/mkozlov/sheetchart/internal/sheet"
)

// Summary aggregates the numeric-coercible values of one field.
type Summary struct {
	Count  int
	Sum    float64
	Mean   float64
	Min    float64
	Max    float64
	Median float64
	StdDev float64
	Q1     float64
	Q3     float64
}

// Compute aggregates the values of field across rows. Cells that do
// not coerce to a finite number are excluded. Returns nil when rows is
// empty, field is unset, or no value survives coercion.
func Compute(rows []sheet.Row, field string) *Summary {
	if len(rows) == 0 || field == "" {
		return nil
	}

	values := make([]float64, 0, len(rows))
	sum := 0.0
	for _, row := range rows {
		v, ok := row[field].Float()
		if !ok {
			continue
		}
		values = append(values, v)
		sum += v
	}
	if len(values) == 0 {
		return nil
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	mean := sum / float64(len(values))
	return &Summary{
		Count:  len(values),
		Sum:    sum,
		Mean:   mean,
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Median: quantile(sorted, 0.5),
		StdDev: stdDev(values, mean),
		Q1:     quantile(sorted, 0.25),
		Q3:     quantile(sorted, 0.75),
	}
}

// quantile interpolates linearly between the two nearest ranks of an
// ascending-sorted slice.
func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// stdDev is the sample standard deviation (n-1 denominator), 0 for a
// single value.
func stdDev(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)-1))
}
