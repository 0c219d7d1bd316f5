package weather

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"skyfetch/datasource"
)

const parisCurrent = `{"name":"Paris","main":{"temp":18.6},"weather":[{"description":"clear sky","icon":"01d"}]}`

// upstream is a fake OpenWeatherMap with per-endpoint responses and hit counters
type upstream struct {
	mu             sync.Mutex
	hits           map[string]int
	currentStatus  int
	currentBody    string
	forecastStatus int
	forecastBody   string
}

func newUpstream(t *testing.T) (*upstream, *httptest.Server) {
	u := &upstream{
		hits:           map[string]int{},
		currentStatus:  http.StatusOK,
		currentBody:    parisCurrent,
		forecastStatus: http.StatusOK,
		forecastBody:   forecastBody(6),
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.mu.Lock()
		defer u.mu.Unlock()
		u.hits[r.URL.Path]++

		status, body := u.currentStatus, u.currentBody
		if r.URL.Path == "/forecast" {
			status, body = u.forecastStatus, u.forecastBody
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(server.Close)
	return u, server
}

func (u *upstream) count(path string) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.hits[path]
}

// forecastBody renders a JSON forecast series of days*8 three-hour steps from 2024-01-20 UTC
func forecastBody(days int) string {
	var items []string
	for _, item := range series(days) {
		items = append(items, fmt.Sprintf(
			`{"dt":%d,"dt_txt":%q,"main":{"temp":%v},"weather":[{"description":%q,"icon":"02d"}]}`,
			item.Dt, item.DtTxt, item.Main.Temp+0.4, item.Weather[0].Description))
	}
	return `{"cod":"200","list":[` + strings.Join(items, ",") + `]}`
}

func newTestClient(server *httptest.Server) *Client {
	source := datasource.NewOpenWeatherMapSource(datasource.OpenWeatherMapConfig{
		APIKey:      "test-key",
		CurrentURL:  server.URL + "/weather",
		ForecastURL: server.URL + "/forecast",
	})
	return NewClient(source, WithLocation(time.UTC), WithLogger(log.New(io.Discard, "", 0)))
}

// TestFetchWeatherParis checks current conditions extraction and rounding
func TestFetchWeatherParis(t *testing.T) {
	_, server := newUpstream(t)
	client := newTestClient(server)

	report, err := client.FetchWeather(context.Background(), "Paris")
	if err != nil {
		t.Fatalf("FetchWeather failed: %v", err)
	}

	current := report.Current
	if current.CityName != "Paris" || current.TemperatureCelsius != 19 ||
		current.Description != "clear sky" || current.IconCode != "01d" {
		t.Errorf("Unexpected current conditions: %+v", current)
	}
	if current.IconURL() != "https://openweathermap.org/img/wn/01d@2x.png" {
		t.Errorf("Unexpected icon URL %s", current.IconURL())
	}
}

// TestFetchWeatherForecast checks the six-day series is reduced to five labelled days
func TestFetchWeatherForecast(t *testing.T) {
	_, server := newUpstream(t)
	client := newTestClient(server)

	report, err := client.FetchWeather(context.Background(), "Paris")
	if err != nil {
		t.Fatalf("FetchWeather failed: %v", err)
	}

	if len(report.Forecast) != 5 {
		t.Fatalf("Expected 5 forecast days, got %d", len(report.Forecast))
	}

	wantDays := []string{"Sat", "Sun", "Mon", "Tue", "Wed"}
	for i, entry := range report.Forecast {
		if entry.DayLabel != wantDays[i] {
			t.Errorf("Day %d: expected %s, got %s", i, wantDays[i], entry.DayLabel)
		}
		if entry.Timestamp.Hour() != 12 || entry.Timestamp.Location() != time.UTC {
			t.Errorf("Day %d: expected midday UTC timestamp, got %s", i, entry.Timestamp)
		}
		// midday is step 4 of each day; temperatures are step index + 0.4
		wantTemp := i*8 + 4
		if entry.TemperatureCelsius != wantTemp {
			t.Errorf("Day %d: expected %d°C, got %d", i, wantTemp, entry.TemperatureCelsius)
		}
		if entry.IconCode != "02d" {
			t.Errorf("Day %d: unexpected icon %s", i, entry.IconCode)
		}
	}
}

// TestFetchWeatherCityNotFound checks a 404 short-circuits before the forecast request
func TestFetchWeatherCityNotFound(t *testing.T) {
	up, server := newUpstream(t)
	up.currentStatus = http.StatusNotFound
	up.currentBody = `{"cod":"404","message":"city not found"}`
	client := newTestClient(server)

	report, err := client.FetchWeather(context.Background(), "Nonexistentville")
	if !errors.Is(err, ErrCityNotFound) {
		t.Fatalf("Expected ErrCityNotFound, got %v", err)
	}
	if errors.Is(err, ErrUpstreamUnavailable) {
		t.Error("City not found must be distinguishable from unavailable")
	}
	if report != nil {
		t.Errorf("Expected no report, got %+v", report)
	}
	if n := up.count("/forecast"); n != 0 {
		t.Errorf("Forecast must not be requested after a failed current lookup, got %d requests", n)
	}
	if n := up.count("/weather"); n != 1 {
		t.Errorf("Expected 1 current weather request, got %d", n)
	}
}

// TestFetchWeatherUpstreamFailures checks every other failure maps to ErrUpstreamUnavailable
func TestFetchWeatherUpstreamFailures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(u *upstream)
	}{
		{"current 500", func(u *upstream) { u.currentStatus = http.StatusInternalServerError }},
		{"current 401", func(u *upstream) { u.currentStatus = http.StatusUnauthorized }},
		{"forecast 500", func(u *upstream) { u.forecastStatus = http.StatusInternalServerError }},
		{"forecast 404", func(u *upstream) {
			u.forecastStatus = http.StatusNotFound
		}},
		{"malformed current", func(u *upstream) { u.currentBody = `{"name":` }},
		{"no conditions", func(u *upstream) { u.currentBody = `{"name":"Paris","main":{"temp":1},"weather":[]}` }},
		{"malformed forecast", func(u *upstream) { u.forecastBody = `[]` }},
		{"current without main", func(u *upstream) {
			u.currentBody = `{"name":"Paris","weather":[{"description":"clear sky","icon":"01d"}]}`
		}},
		{"current null", func(u *upstream) { u.currentBody = `null` }},
		{"forecast empty object", func(u *upstream) { u.forecastBody = `{}` }},
		{"forecast without list", func(u *upstream) { u.forecastBody = `{"cod":"200"}` }},
		{"forecast null", func(u *upstream) { u.forecastBody = `null` }},
		{"forecast midday without main", func(u *upstream) {
			u.forecastBody = `{"list":[{"dt":1705752000,"dt_txt":"2024-01-20 12:00:00","weather":[{"description":"snow","icon":"13d"}]}]}`
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			up, server := newUpstream(t)
			tt.setup(up)
			client := newTestClient(server)

			report, err := client.FetchWeather(context.Background(), "Paris")
			if report != nil {
				t.Errorf("Expected no partial report, got %+v", report)
			}
			if tt.name == "forecast 404" {
				if !errors.Is(err, ErrCityNotFound) {
					t.Errorf("Expected ErrCityNotFound from forecast 404, got %v", err)
				}
				return
			}
			if !errors.Is(err, ErrUpstreamUnavailable) {
				t.Errorf("Expected ErrUpstreamUnavailable, got %v", err)
			}
		})
	}
}

// TestFetchWeatherEmptySeries checks a present but empty list is a report with no forecast days
func TestFetchWeatherEmptySeries(t *testing.T) {
	up, server := newUpstream(t)
	up.forecastBody = `{"cod":"200","list":[]}`
	client := newTestClient(server)

	report, err := client.FetchWeather(context.Background(), "Paris")
	if err != nil {
		t.Fatalf("FetchWeather failed: %v", err)
	}
	if len(report.Forecast) != 0 {
		t.Errorf("Expected no forecast days, got %d", len(report.Forecast))
	}
}

// TestFetchWeatherTransportFailure checks an unreachable upstream is unavailable
func TestFetchWeatherTransportFailure(t *testing.T) {
	_, server := newUpstream(t)
	client := newTestClient(server)
	server.Close()

	_, err := client.FetchWeather(context.Background(), "Paris")
	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Errorf("Expected ErrUpstreamUnavailable, got %v", err)
	}
}

// TestFetchWeatherSequential checks the forecast is only requested after current weather completes
func TestFetchWeatherSequential(t *testing.T) {
	var order []string
	var mu sync.Mutex
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		order = append(order, r.URL.Path+":start")
		mu.Unlock()

		time.Sleep(20 * time.Millisecond)
		body := parisCurrent
		if r.URL.Path == "/forecast" {
			body = forecastBody(5)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, body)

		mu.Lock()
		order = append(order, r.URL.Path+":end")
		mu.Unlock()
	}))
	defer server.Close()

	if _, err := newTestClient(server).FetchWeather(context.Background(), "Paris"); err != nil {
		t.Fatalf("FetchWeather failed: %v", err)
	}

	want := []string{"/weather:start", "/weather:end", "/forecast:start", "/forecast:end"}
	mu.Lock()
	defer mu.Unlock()
	if strings.Join(order, ",") != strings.Join(want, ",") {
		t.Errorf("Expected request order %v, got %v", want, order)
	}
}
