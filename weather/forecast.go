package weather

import (
	"math"
	"strings"
	"time"

	"skyfetch/datasource"
)

const (
	// middayMarker selects the 12:00 sample of each day, in the series' own offset
	middayMarker = "12:00:00"

	// ForecastDays is the most daily entries a reduced forecast holds
	ForecastDays = 5
)

// ReduceForecast keeps the midday entry of each day, at most ForecastDays of
// them, in series order. A day without a 12:00:00 sample is left out rather
// than approximated from a neighbouring sample.
func ReduceForecast(items []datasource.ForecastItem) []datasource.ForecastItem {
	daily := make([]datasource.ForecastItem, 0, ForecastDays)
	for _, item := range items {
		if len(daily) == ForecastDays {
			break
		}
		if strings.Contains(item.DtTxt, middayMarker) {
			daily = append(daily, item)
		}
	}
	return daily
}

// DayLabel returns the short weekday name ("Mon") of an epoch-seconds timestamp in loc
func DayLabel(dt int64, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return time.Unix(dt, 0).In(loc).Format("Mon")
}

// roundTemp rounds halves up (18.5 -> 19, -2.5 -> -2)
func roundTemp(t float64) int {
	return int(math.Floor(t + 0.5))
}
