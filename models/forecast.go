package models

import (
	"time"
)

// ForecastEntry represents one calendar day's midday forecast reading
type ForecastEntry struct {
	Timestamp          time.Time `json:"timestamp"`          // UTC time this reading is for
	DayLabel           string    `json:"dayLabel"`           // short weekday name, e.g. "Mon"
	TemperatureCelsius int       `json:"temperatureCelsius"` // rounded
	Description        string    `json:"description"`        // short text description
	IconCode           string    `json:"iconCode"`           // icon code
}

// IconURL returns the image URL for the forecast condition icon
func (f ForecastEntry) IconURL() string {
	return IconURL(f.IconCode)
}
