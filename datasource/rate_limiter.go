package datasource

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimitedSource wraps a Source with rate limiting. Both endpoints draw
// from the same bucket since they share one API quota.
type RateLimitedSource struct {
	source  Source
	limiter *rate.Limiter
	name    string
}

// NewRateLimitedSource creates a new rate limited source
// rps is the maximum requests per second allowed (can be fractional for less than 1 request per second)
// burst is the maximum burst size allowed
func NewRateLimitedSource(source Source, rps float64, burst int) *RateLimitedSource {
	return &RateLimitedSource{
		source:  source,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		name:    fmt.Sprintf("%s [Rate Limited]", source.Name()),
	}
}

// CurrentWeather fetches current weather, respecting rate limits
func (r *RateLimitedSource) CurrentWeather(ctx context.Context, city string) (CurrentResponse, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return CurrentResponse{}, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.source.CurrentWeather(ctx, city)
}

// Forecast fetches the forecast series, respecting rate limits
func (r *RateLimitedSource) Forecast(ctx context.Context, city string) (ForecastResponse, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return ForecastResponse{}, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.source.Forecast(ctx, city)
}

// Name returns the source name
func (r *RateLimitedSource) Name() string {
	return r.name
}

// NewSource builds the configured OpenWeatherMap source, rate limited unless
// requestsPerSecond is negative
func NewSource(cfg OpenWeatherMapConfig) Source {
	owm := NewOpenWeatherMapSource(cfg)
	switch {
	case cfg.RequestsPerSecond < 0:
		return owm
	case cfg.RequestsPerSecond == 0:
		cfg.RequestsPerSecond = defaultRequestsPerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = defaultBurst
	}
	return NewRateLimitedSource(owm, cfg.RequestsPerSecond, cfg.Burst)
}

var _ Source = (*RateLimitedSource)(nil)
