package datasource

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
)

/*
	OpenWeatherMap status codes seen by this source
	200  // Success
	401  // Unauthorized (invalid API key)
	404  // City not found
	429  // Too many requests
	5xx  // Upstream failure
*/

// Condition is one entry of the upstream "weather" list
type Condition struct {
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// MainData carries the temperature block of a response
type MainData struct {
	Temp float64 `json:"temp"`
}

// CurrentResponse is the subset of the current weather response this source reads
type CurrentResponse struct {
	Name    string      `json:"name"`
	Main    *MainData   `json:"main"`
	Weather []Condition `json:"weather"`
}

// ForecastItem is one 3-hour step of the forecast series
type ForecastItem struct {
	Dt      int64       `json:"dt"`     // epoch seconds
	DtTxt   string      `json:"dt_txt"` // "2006-01-02 15:04:05"
	Main    *MainData   `json:"main"`
	Weather []Condition `json:"weather"`
}

// ForecastResponse is the subset of the 5 day / 3 hour forecast response this source reads.
// List is nil when the body carried no "list" field at all.
type ForecastResponse struct {
	List []ForecastItem `json:"list"`
}

// APIError is a non-2xx answer from the upstream API
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API error (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
}

// NotFound reports whether the upstream answered 404
func (e *APIError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// OpenWeatherMapSource fetches current weather and forecasts from OpenWeatherMap
type OpenWeatherMapSource struct {
	apiKey      string
	currentURL  string
	forecastURL string
	client      *resty.Client
}

// Ensure OpenWeatherMapSource implements Source
var _ Source = (*OpenWeatherMapSource)(nil)

// NewOpenWeatherMapSource creates a new OpenWeatherMap source
func NewOpenWeatherMapSource(cfg OpenWeatherMapConfig) *OpenWeatherMapSource {
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = defaultTimeoutSeconds
	}
	return &OpenWeatherMapSource{
		apiKey:      cfg.APIKey,
		currentURL:  cfg.CurrentURL,
		forecastURL: cfg.ForecastURL,
		client: resty.New().
			SetTimeout(cfg.Timeout()).
			SetHeader("Accept", "application/json"),
	}
}

// Name returns the provider name
func (p *OpenWeatherMapSource) Name() string {
	return "OpenWeatherMap"
}

// CurrentWeather fetches current weather for a city
func (p *OpenWeatherMapSource) CurrentWeather(ctx context.Context, city string) (CurrentResponse, error) {
	var response CurrentResponse
	if err := p.get(ctx, p.currentURL, city, &response); err != nil {
		return CurrentResponse{}, err
	}
	return response, nil
}

// Forecast fetches the 3-hour forecast series for a city
func (p *OpenWeatherMapSource) Forecast(ctx context.Context, city string) (ForecastResponse, error) {
	var response ForecastResponse
	if err := p.get(ctx, p.forecastURL, city, &response); err != nil {
		return ForecastResponse{}, err
	}
	return response, nil
}

func (p *OpenWeatherMapSource) get(ctx context.Context, endpoint, city string, target interface{}) error {
	// cod is a string on some endpoints and a number on others, so only message is read
	var errBody struct {
		Message string `json:"message"`
	}

	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":     city,
			"appid": p.apiKey,
			"units": "metric",
		}).
		ForceContentType("application/json").
		SetResult(target).
		SetError(&errBody).
		Get(endpoint)

	// A non-2xx status wins over a body that failed to decode
	if resp != nil && resp.StatusCode() != 0 && !resp.IsSuccess() {
		return &APIError{
			StatusCode: resp.StatusCode(),
			Message:    errBody.Message,
		}
	}
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}

	return nil
}
