package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
)

// Default location: Washington Dulles International Airport.
const (
	DefaultLatitude  = "38.93"
	DefaultLongitude = "-77.45"
)

// DailyForecast is a normalized one-day weather summary in imperial
// units: temperatures in Fahrenheit, wind in mph, precipitation in
// inches.
type DailyForecast struct {
	TempMax   float64 `json:"temp_max"`
	TempMin   float64 `json:"temp_min"`
	WindSpeed float64 `json:"wind_speed"`
	Rain      float64 `json:"rain"`
	Snow      float64 `json:"snow"`
}

// Client fetches daily forecasts from the OpenWeatherMap One Call API
// with retries, exponential backoff and a circuit breaker.
type Client struct {
	apiKey   string
	baseURL  string
	lat, lon string
	httpCfg  HTTPClientConfig
	circuit  *gobreaker.CircuitBreaker
}

// NewClient creates a forecast client for the given location. Empty
// coordinates fall back to the default location.
func NewClient(httpClient *http.Client, apiKey, lat, lon string) *Client {
	if lat == "" || lon == "" {
		lat, lon = DefaultLatitude, DefaultLongitude
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweather",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org/data/2.5/onecall",
		lat:     lat,
		lon:     lon,
		httpCfg: HTTPClientConfig{
			Client: httpClient,
			Backoff: BackoffConfig{
				MaxRetries:      3,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
		},
		circuit: cb,
	}
}

// DailyForecast returns the forecast for `day` days from today. Only
// 0-7 days are available from the upstream API.
func (c *Client) DailyForecast(ctx context.Context, day int) (DailyForecast, error) {
	if c.apiKey == "" {
		return DailyForecast{}, fmt.Errorf("openweather api key is not configured")
	}
	if day < 0 || day > 7 {
		return DailyForecast{}, fmt.Errorf("requested forecast day %d outside available range (0-7)", day)
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("lat", c.lat)
		values.Set("lon", c.lon)
		// Everything but the daily forecast is dead weight here.
		values.Set("exclude", "current,minutely,hourly,alerts")
		values.Set("appid", c.apiKey)
		values.Set("units", "imperial")

		u := fmt.Sprintf("%s?%s", c.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		return DailyForecast{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Daily []struct {
			Temp struct {
				Min float64 `json:"min"`
				Max float64 `json:"max"`
			} `json:"temp"`
			WindSpeed float64 `json:"wind_speed"`
			Rain      float64 `json:"rain"`
			Snow      float64 `json:"snow"`
		} `json:"daily"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return DailyForecast{}, err
	}
	if day >= len(payload.Daily) {
		return DailyForecast{}, fmt.Errorf("forecast response has no entry for day %d", day)
	}

	d := payload.Daily[day]
	return DailyForecast{
		TempMax:   round1(d.Temp.Max),
		TempMin:   round1(d.Temp.Min),
		WindSpeed: round1(d.WindSpeed),
		Rain:      mmToInch(d.Rain),
		Snow:      mmToInch(d.Snow),
	}, nil
}

// mmToInch converts millimetres to inches, rounded to two decimals.
func mmToInch(mm float64) float64 {
	return math.Round(mm/25.4*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
