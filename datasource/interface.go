package datasource

import (
	"context"
)

// Source defines the interface for the upstream weather API
type Source interface {
	Name() string

	// CurrentWeather fetches current conditions for a city
	CurrentWeather(ctx context.Context, city string) (CurrentResponse, error)

	// Forecast fetches the 3-hour forecast series for a city
	Forecast(ctx context.Context, city string) (ForecastResponse, error)
}
