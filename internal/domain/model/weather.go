package model

import "strings"

// Weather is the binary weather category of a ride.
type Weather int

// Weather categories. WeatherUnknown is the zero value.
const (
	WeatherUnknown Weather = iota
	WeatherGood
	WeatherBad
)

// String returns the category as it appears in the datasets.
func (w Weather) String() string {
	switch w {
	case WeatherGood:
		return "Good"
	case WeatherBad:
		return "Bad"
	default:
		return "Unknown"
	}
}

// ParseWeather maps a dataset value to a category, ignoring case and
// surrounding space. ok is false for anything but good/bad.
func ParseWeather(s string) (w Weather, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "good":
		return WeatherGood, true
	case "bad":
		return WeatherBad, true
	default:
		return WeatherUnknown, false
	}
}
