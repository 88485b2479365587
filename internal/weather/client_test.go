package weather

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

const forecastPayload = `{
	"daily": [
		{"temp": {"min": 55.0, "max": 75.0}, "wind_speed": 8.27, "rain": 25.4},
		{"temp": {"min": 48.31, "max": 68.08}, "wind_speed": 12.0, "snow": 12.7}
	]
}`

func testClient(t *testing.T, handler http.HandlerFunc) (*Client, func()) {
	t.Helper()
	srv := httptest.NewServer(handler)
	c := NewClient(srv.Client(), "test-key", "", "")
	c.baseURL = srv.URL
	return c, srv.Close
}

func TestDailyForecast(t *testing.T) {
	var query map[string][]string
	c, done := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		fmt.Fprint(w, forecastPayload)
	})
	defer done()

	forecast, err := c.DailyForecast(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if forecast.TempMax != 75.0 || forecast.TempMin != 55.0 {
		t.Fatalf("bad temperature mapping: %+v", forecast)
	}
	if forecast.WindSpeed != 8.3 {
		t.Fatalf("wind not rounded to one decimal: %v", forecast.WindSpeed)
	}
	// 25.4mm is exactly one inch.
	if forecast.Rain != 1.0 {
		t.Fatalf("rain not converted to inches: %v", forecast.Rain)
	}

	if got := query["units"]; len(got) != 1 || got[0] != "imperial" {
		t.Fatalf("expected imperial units, got %v", got)
	}
}

func TestDailyForecastDayIndex(t *testing.T) {
	c, done := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, forecastPayload)
	})
	defer done()

	forecast, err := c.DailyForecast(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if forecast.TempMin != 48.3 {
		t.Fatalf("day 1 min temp %v, want 48.3", forecast.TempMin)
	}
	if forecast.Snow != 0.5 {
		t.Fatalf("snow not converted: %v", forecast.Snow)
	}
}

func TestDailyForecastRange(t *testing.T) {
	c, done := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, forecastPayload)
	})
	defer done()

	for _, day := range []int{-1, 8} {
		if _, err := c.DailyForecast(context.Background(), day); err == nil {
			t.Fatalf("day %d: expected error", day)
		}
	}
}

func TestDailyForecastMissingDay(t *testing.T) {
	c, done := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"daily": []}`)
	})
	defer done()

	if _, err := c.DailyForecast(context.Background(), 0); err == nil {
		t.Fatal("expected error for missing forecast entry")
	}
}

func TestDailyForecastNoKey(t *testing.T) {
	c := NewClient(http.DefaultClient, "", "", "")
	if _, err := c.DailyForecast(context.Background(), 1); err == nil {
		t.Fatal("expected error without api key")
	}
}

func TestMmToInch(t *testing.T) {
	if got := mmToInch(50.8); got != 2.0 {
		t.Fatalf("expected 2.0, got %v", got)
	}
	if got := mmToInch(0); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}
