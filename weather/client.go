// Package weather looks up current conditions and a daily forecast for a city.
package weather

import (
	"context"
	"fmt"
	"log"
	"time"

	"skyfetch/datasource"
	"skyfetch/models"
)

// Fetcher is what presentation code needs from a Client
type Fetcher interface {
	FetchWeather(ctx context.Context, city string) (*models.Report, error)
}

// Client turns a validated city name into a Report using one upstream source
type Client struct {
	source   datasource.Source
	location *time.Location
	logger   *log.Logger
}

// Option configures a Client
type Option func(*Client)

// WithLocation sets the time zone used for forecast day labels
func WithLocation(loc *time.Location) Option {
	return func(c *Client) {
		if loc != nil {
			c.location = loc
		}
	}
}

// WithLogger replaces the standard logger
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client over the given source
func NewClient(source datasource.Source, opts ...Option) *Client {
	c := &Client{
		source:   source,
		location: time.Local,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ Fetcher = (*Client)(nil)

// FetchWeather fetches current conditions, then the forecast, for an already
// validated city. The forecast request is only issued once the current
// weather request has succeeded; any failure aborts the lookup with
// ErrCityNotFound or ErrUpstreamUnavailable and no partial report.
func (c *Client) FetchWeather(ctx context.Context, city string) (*models.Report, error) {
	current, err := c.source.CurrentWeather(ctx, city)
	if err != nil {
		return nil, c.fail(city, "current weather", classify(err))
	}

	series, err := c.source.Forecast(ctx, city)
	if err != nil {
		return nil, c.fail(city, "forecast", classify(err))
	}

	conditions, err := currentConditions(current)
	if err != nil {
		return nil, c.fail(city, "current weather", err)
	}

	forecast, err := c.dailyForecast(series)
	if err != nil {
		return nil, c.fail(city, "forecast", err)
	}

	c.logger.Printf("Fetched weather for %s from %s (%d forecast days)", city, c.source.Name(), len(forecast))

	return &models.Report{
		Current:  conditions,
		Forecast: forecast,
	}, nil
}

func (c *Client) fail(city, what string, err error) error {
	c.logger.Printf("Error fetching %s for %s from %s: %v", what, city, c.source.Name(), err)
	return err
}

func currentConditions(resp datasource.CurrentResponse) (models.CurrentConditions, error) {
	if resp.Main == nil {
		return models.CurrentConditions{}, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, errNoTemperature)
	}
	if len(resp.Weather) == 0 {
		return models.CurrentConditions{}, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, errNoConditions)
	}
	return models.CurrentConditions{
		CityName:           resp.Name,
		TemperatureCelsius: roundTemp(resp.Main.Temp),
		Description:        resp.Weather[0].Description,
		IconCode:           resp.Weather[0].Icon,
	}, nil
}

func (c *Client) dailyForecast(resp datasource.ForecastResponse) ([]models.ForecastEntry, error) {
	// an empty list is a valid (if useless) series; a missing one is not
	if resp.List == nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, errNoSeries)
	}
	daily := ReduceForecast(resp.List)

	entries := make([]models.ForecastEntry, 0, len(daily))
	for _, item := range daily {
		if item.Main == nil {
			return nil, fmt.Errorf("%w: %w at %s", ErrUpstreamUnavailable, errNoTemperature, item.DtTxt)
		}
		if len(item.Weather) == 0 {
			return nil, fmt.Errorf("%w: %w at %s", ErrUpstreamUnavailable, errNoConditions, item.DtTxt)
		}
		entries = append(entries, models.ForecastEntry{
			Timestamp:          time.Unix(item.Dt, 0).UTC(),
			DayLabel:           DayLabel(item.Dt, c.location),
			TemperatureCelsius: roundTemp(item.Main.Temp),
			Description:        item.Weather[0].Description,
			IconCode:           item.Weather[0].Icon,
		})
	}
	return entries, nil
}
