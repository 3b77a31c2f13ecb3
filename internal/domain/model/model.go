// Package model contains the records shared between the loader, the
// aggregator and the hypothesis tester.
package model

import "time"

// Operator is a taxi company with its total trip count.
type Operator struct {
	Name      string
	TripCount int
}

// Neighborhood is a drop-off location with its average number of trips.
type Neighborhood struct {
	Name         string
	AverageTrips float64
}

// Ride is a single observed ride. Start is naive local time stored as UTC.
type Ride struct {
	Start           time.Time
	Weather         Weather
	DurationSeconds float64
}
