package service

import (
	"fmt"

	"github.com/okian/ridestats/internal/adapters/chart"
	"github.com/okian/ridestats/internal/domain/model"
)

func operatorChart(ranked []model.Operator) chart.Chart {
	bars := make([]chart.Bar, len(ranked))
	for i, op := range ranked {
		bars[i] = chart.Bar{Label: op.Name, Value: float64(op.TripCount)}
	}
	return chart.Chart{
		Title:  "Trips per taxi company",
		XLabel: "company",
		YLabel: "trips",
		Bars:   bars,
	}
}

func neighborhoodChart(top []model.Neighborhood) chart.Chart {
	bars := make([]chart.Bar, len(top))
	for i, n := range top {
		bars[i] = chart.Bar{Label: n.Name, Value: n.AverageTrips}
	}
	return chart.Chart{
		Title:  fmt.Sprintf("Top %d drop-off neighborhoods", len(top)),
		XLabel: "neighborhood",
		YLabel: "average trips",
		Bars:   bars,
	}
}
