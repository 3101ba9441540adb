package climate

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes the spread of one generated series
type Summary struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
	Count  int
}

// Summarize computes the mean, sample standard deviation and extremes of values.
// An empty input yields a zero Summary.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}

	mean, std := stat.MeanStdDev(values, nil)
	if len(values) == 1 {
		std = 0
	}

	return Summary{
		Mean:   mean,
		StdDev: std,
		Min:    floats.Min(values),
		Max:    floats.Max(values),
		Count:  len(values),
	}
}

// Summaries returns a summary per quantity for every climate in the dataset,
// keyed by climate name.
func (d *Dataset) Summaries() map[string]map[Quantity]Summary {
	out := make(map[string]map[Quantity]Summary, len(d.Climates))
	for _, c := range d.Climates {
		m := make(map[Quantity]Summary, len(Quantities))
		for _, q := range Quantities {
			m[q] = Summarize(c.Get(q))
		}
		out[c.Climate] = m
	}
	return out
}
