package models

import "fmt"

// iconURLPattern is the OpenWeatherMap image asset location for a condition icon
const iconURLPattern = "https://openweathermap.org/img/wn/%s@2x.png"

// IconURL returns the image URL for an OpenWeatherMap icon code
func IconURL(code string) string {
	return fmt.Sprintf(iconURLPattern, code)
}

// CurrentConditions is the point-in-time weather snapshot for a city
type CurrentConditions struct {
	CityName           string `json:"cityName"`
	TemperatureCelsius int    `json:"temperatureCelsius"` // rounded
	Description        string `json:"description"`        // short text description
	IconCode           string `json:"iconCode"`           // e.g. "01d"
}

// IconURL returns the image URL for the current condition icon
func (c CurrentConditions) IconURL() string {
	return IconURL(c.IconCode)
}

// Report is the result of one city lookup: current conditions plus the daily forecast
type Report struct {
	Current  CurrentConditions `json:"current"`
	Forecast []ForecastEntry   `json:"forecast"`
}
