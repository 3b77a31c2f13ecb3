package model_test

import (
	"testing"

	model "github.com/okian/ridestats/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestParseWeather(t *testing.T) {
	convey.Convey("Given dataset weather values", t, func() {
		convey.Convey("When the value is Good or Bad in any case", func() {
			good, okGood := model.ParseWeather("Good")
			bad, okBad := model.ParseWeather(" bad ")

			convey.Convey("Then it should map to the category", func() {
				convey.So(okGood, convey.ShouldBeTrue)
				convey.So(good, convey.ShouldEqual, model.WeatherGood)
				convey.So(okBad, convey.ShouldBeTrue)
				convey.So(bad, convey.ShouldEqual, model.WeatherBad)
			})
		})

		convey.Convey("When the value is not recognised", func() {
			w, ok := model.ParseWeather("Stormy")

			convey.Convey("Then it should report unknown", func() {
				convey.So(ok, convey.ShouldBeFalse)
				convey.So(w, convey.ShouldEqual, model.WeatherUnknown)
			})
		})

		convey.Convey("Then String should round-trip the dataset spelling", func() {
			convey.So(model.WeatherGood.String(), convey.ShouldEqual, "Good")
			convey.So(model.WeatherBad.String(), convey.ShouldEqual, "Bad")
			convey.So(model.WeatherUnknown.String(), convey.ShouldEqual, "Unknown")
		})
	})
}
