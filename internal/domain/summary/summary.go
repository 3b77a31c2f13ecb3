// Package summary computes descriptive statistics of a numeric column.
package summary

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats describes a numeric column. Percentiles interpolate linearly
// between the closest ranks, at position p*(n-1) of the sorted values.
type Stats struct {
	Name  string
	Count int
	Mean  float64
	Std   float64 // sample standard deviation, NaN below two values
	Min   float64
	P25   float64
	P50   float64
	P75   float64
	Max   float64
}

// Describe summarises values. An empty column yields Count 0 and NaN
// everywhere else.
func Describe(name string, values []float64) Stats {
	s := Stats{Name: name, Count: len(values)}
	if len(values) == 0 {
		nan := math.NaN()
		s.Mean, s.Std, s.Min, s.P25, s.P50, s.P75, s.Max = nan, nan, nan, nan, nan, nan, nan
		return s
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	s.Mean = stat.Mean(sorted, nil)
	s.Std = math.NaN()
	if len(sorted) > 1 {
		s.Std = stat.StdDev(sorted, nil)
	}
	s.Min = floats.Min(sorted)
	s.Max = floats.Max(sorted)
	s.P25 = quantile(sorted, 0.25)
	s.P50 = quantile(sorted, 0.50)
	s.P75 = quantile(sorted, 0.75)
	return s
}

// quantile reads the p-quantile of sorted values with numpy's default
// linear method.
func quantile(sorted []float64, p float64) float64 {
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// Ints converts integer counts for Describe.
func Ints(xs []int) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = float64(x)
	}
	return out
}
