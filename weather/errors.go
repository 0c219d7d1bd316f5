package weather

import (
	"errors"
	"fmt"

	"skyfetch/datasource"
)

// Validation failures, raised before any network activity
var (
	ErrEmptyInput = errors.New("empty city name")
	ErrTooShort   = errors.New("city name too short")
)

// Lookup failures, raised after network activity
var (
	ErrCityNotFound        = errors.New("city not found")
	ErrUpstreamUnavailable = errors.New("weather service unavailable")
)

// Malformed success bodies, always wrapped in ErrUpstreamUnavailable
var (
	errNoConditions  = errors.New("response has no weather conditions")
	errNoTemperature = errors.New("response has no main block")
	errNoSeries      = errors.New("forecast response has no list")
)

// classify wraps an upstream failure in the matching lookup error kind
func classify(err error) error {
	var apiErr *datasource.APIError
	if errors.As(err, &apiErr) && apiErr.NotFound() {
		return fmt.Errorf("%w: %w", ErrCityNotFound, err)
	}
	return fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
}

// Message returns the user-facing text for an error returned by Validate or FetchWeather
func Message(err error) string {
	switch {
	case errors.Is(err, ErrEmptyInput):
		return "Please enter a city name."
	case errors.Is(err, ErrTooShort):
		return "City name must be at least 2 characters long."
	case errors.Is(err, ErrCityNotFound):
		return "City not found. Please check the spelling and try again."
	default:
		return "Something went wrong. Please try again later."
	}
}
