package datasource

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// APIKeyEnv names the environment variable that overrides the configured API key
const APIKeyEnv = "OPENWEATHER_API_KEY"

const (
	defaultCurrentURL  = "https://api.openweathermap.org/data/2.5/weather"
	defaultForecastURL = "https://api.openweathermap.org/data/2.5/forecast"

	// OpenWeatherMap free tier allows 60 calls/minute = 1 call per second
	defaultRequestsPerSecond = 1.0
	defaultBurst             = 5
	defaultTimeoutSeconds    = 10
)

// OpenWeatherMapConfig holds the credential and endpoints for the upstream API
type OpenWeatherMapConfig struct {
	APIKey            string  `json:"apiKey"`
	CurrentURL        string  `json:"currentURL"`
	ForecastURL       string  `json:"forecastURL"`
	RequestsPerSecond float64 `json:"requestsPerSecond"` // 0 keeps the default, negative disables limiting
	Burst             int     `json:"burst"`
	TimeoutSeconds    int     `json:"timeoutSeconds"`
}

// Timeout returns the per-request timeout
func (c OpenWeatherMapConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Config represents the application configuration
type Config struct {
	OpenWeatherMap OpenWeatherMapConfig `json:"openWeatherMap"`

	// IANA zone used for forecast day labels; empty means the local zone
	Timezone string `json:"timezone"`
}

// LoadConfig loads configuration from a JSON file. A missing file yields the
// default configuration. The API key from the environment takes precedence
// over the file.
func LoadConfig(filename string) (*Config, error) {
	config := DefaultConfig()

	file, err := os.Open(filename)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		defer file.Close()
		if err := json.NewDecoder(file).Decode(config); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", filename, err)
		}
	}

	if key := os.Getenv(APIKeyEnv); key != "" {
		config.OpenWeatherMap.APIKey = key
	}
	config.applyDefaults()

	return config, nil
}

// DefaultConfig creates a default configuration without a credential
func DefaultConfig() *Config {
	config := &Config{}
	config.applyDefaults()
	return config
}

func (c *Config) applyDefaults() {
	owm := &c.OpenWeatherMap
	if owm.CurrentURL == "" {
		owm.CurrentURL = defaultCurrentURL
	}
	if owm.ForecastURL == "" {
		owm.ForecastURL = defaultForecastURL
	}
	if owm.RequestsPerSecond == 0 {
		owm.RequestsPerSecond = defaultRequestsPerSecond
	}
	if owm.Burst <= 0 {
		owm.Burst = defaultBurst
	}
	if owm.TimeoutSeconds <= 0 {
		owm.TimeoutSeconds = defaultTimeoutSeconds
	}
}

// Validate reports configuration that cannot be used to reach the upstream API
func (c *Config) Validate() error {
	if c.OpenWeatherMap.APIKey == "" {
		return fmt.Errorf("no OpenWeatherMap API key provided (set %s or openWeatherMap.apiKey)", APIKeyEnv)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the configured time zone
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
