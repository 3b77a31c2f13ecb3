package hypothesis

import "github.com/okian/ridestats/internal/domain/model"

// Partition holds ride durations split by weather category.
type Partition struct {
	Good []float64
	Bad  []float64
	// Discarded counts rides whose category was neither Good nor Bad.
	Discarded int
}

// PartitionByWeather splits ride durations by weather, preserving order.
func PartitionByWeather(rides []model.Ride) Partition {
	p := Partition{Good: []float64{}, Bad: []float64{}}
	for _, r := range rides {
		switch r.Weather {
		case model.WeatherGood:
			p.Good = append(p.Good, r.DurationSeconds)
		case model.WeatherBad:
			p.Bad = append(p.Bad, r.DurationSeconds)
		default:
			p.Discarded++
		}
	}
	return p
}
