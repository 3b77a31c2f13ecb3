// Package ranking orders operators and neighborhoods for the market
// overview charts.
package ranking

import (
	"cmp"
	"slices"

	"github.com/okian/ridestats/internal/domain/model"
)

// RankByCount returns the operators ordered by trip count, highest first.
// Operators with equal counts keep their input order. The input is not
// modified.
func RankByCount(operators []model.Operator) []model.Operator {
	out := slices.Clone(operators)
	if out == nil {
		out = []model.Operator{}
	}
	slices.SortStableFunc(out, func(a, b model.Operator) int {
		return cmp.Compare(b.TripCount, a.TripCount)
	})
	return out
}

// TopN returns at most n neighborhoods ordered by average trips, highest
// first, with ties kept in input order. n <= 0 yields an empty slice.
func TopN(neighborhoods []model.Neighborhood, n int) []model.Neighborhood {
	if n <= 0 {
		return []model.Neighborhood{}
	}
	sorted := slices.Clone(neighborhoods)
	slices.SortStableFunc(sorted, func(a, b model.Neighborhood) int {
		return cmp.Compare(b.AverageTrips, a.AverageTrips)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	if sorted == nil {
		sorted = []model.Neighborhood{}
	}
	return sorted
}

// Share is an operator's fraction of all trips.
type Share struct {
	Name     string
	Trips    int
	Fraction float64
}

// MarketShare computes each operator's share of the total trip count in
// input order. A zero total gives every operator a zero share.
func MarketShare(operators []model.Operator) []Share {
	total := 0
	for _, op := range operators {
		total += op.TripCount
	}
	shares := make([]Share, len(operators))
	for i, op := range operators {
		shares[i] = Share{Name: op.Name, Trips: op.TripCount}
		if total > 0 {
			shares[i].Fraction = float64(op.TripCount) / float64(total)
		}
	}
	return shares
}
