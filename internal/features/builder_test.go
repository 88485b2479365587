package features

import (
	"context"
	"errors"
	"testing"
	"time"

	"bike-share-predict/internal/weather"
)

type stubForecast struct {
	forecast weather.DailyForecast
	err      error
	calls    int
}

func (s *stubForecast) DailyForecast(_ context.Context, _ int) (weather.DailyForecast, error) {
	s.calls++
	return s.forecast, s.err
}

type stubHolidays struct {
	holiday bool
}

func (s stubHolidays) IsHoliday(_ time.Time) bool { return s.holiday }

func validForm() FormInput {
	return FormInput{
		Date:   "2024-07-03", // a Wednesday
		HiTemp: 88.0,
		LoTemp: 66.0,
		Wind:   5.5,
		Precip: 0.2,
		Snow:   0,
	}
}

func TestFromFormShape(t *testing.T) {
	b := NewBuilder(nil, nil)

	frame, err := b.FromForm(validForm())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(frame) != 24 {
		t.Fatalf("expected 24 rows, got %d", len(frame))
	}

	first := frame[0]
	for i, row := range frame {
		if row.Hour != i {
			t.Fatalf("row %d has hour %d", i, row.Hour)
		}
		// Everything except the hour is broadcast.
		probe := row
		probe.Hour = first.Hour
		if probe != first {
			t.Fatalf("row %d differs beyond the hour column: %+v vs %+v", i, row, first)
		}
	}

	if first.DayOfWeek != 2 {
		t.Fatalf("expected Wednesday=2, got %d", first.DayOfWeek)
	}
	if first.Month != 7 {
		t.Fatalf("expected month 7, got %d", first.Month)
	}
	if first.Summer != 1 || first.Winter != 0 || first.Spring != 0 || first.Fall != 0 {
		t.Fatalf("bad season one-hot for July: %+v", first)
	}
}

func TestFromFormHoliday(t *testing.T) {
	b := NewBuilder(nil, nil)

	in := validForm()
	in.Holiday = "on"
	frame, err := b.FromForm(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if frame[0].Holiday != 1 {
		t.Fatalf("checked box should set holiday to 1")
	}

	in.Holiday = ""
	frame, err = b.FromForm(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if frame[0].Holiday != 0 {
		t.Fatalf("absent box should set holiday to 0")
	}

	in.Holiday = "yes"
	if _, err := b.FromForm(in); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for bad holiday literal, got %v", err)
	}
}

func TestFromFormBadDate(t *testing.T) {
	b := NewBuilder(nil, nil)

	in := validForm()
	in.Date = "07/03/2024"
	if _, err := b.FromForm(in); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestFromFormSnowThreshold(t *testing.T) {
	b := NewBuilder(nil, nil)

	in := validForm()
	in.Snow = 0.4
	frame, _ := b.FromForm(in)
	if frame[0].Snow != 1 {
		t.Fatalf("snow above zero should flag 1")
	}

	in.Snow = 0
	frame, _ = b.FromForm(in)
	if frame[0].Snow != 0 {
		t.Fatalf("zero snow should flag 0")
	}
}

func TestSeasonFlags(t *testing.T) {
	cases := []struct {
		month  int
		season string
	}{
		{12, "winter"}, {1, "winter"}, {2, "winter"},
		{3, "spring"}, {5, "spring"},
		{6, "summer"}, {8, "summer"},
		{9, "fall"}, {11, "fall"},
	}
	for _, tc := range cases {
		fall, spring, summer, winter := seasonFlags(tc.month)
		if fall+spring+summer+winter != 1 {
			t.Fatalf("month %d: flags not mutually exclusive", tc.month)
		}
		got := map[string]int{"fall": fall, "spring": spring, "summer": summer, "winter": winter}
		if got[tc.season] != 1 {
			t.Fatalf("month %d: expected %s", tc.month, tc.season)
		}
	}
}

func TestFromForecast(t *testing.T) {
	provider := &stubForecast{forecast: weather.DailyForecast{
		TempMax:   91.2,
		TempMin:   71.8,
		WindSpeed: 4.0,
		Rain:      0.12,
		Snow:      0,
	}}
	b := NewBuilder(provider, stubHolidays{holiday: true})
	b.now = func() time.Time { return time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC) }

	frame, err := b.FromForecast(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(frame) != 24 {
		t.Fatalf("expected 24 rows, got %d", len(frame))
	}

	row := frame[0]
	// Forecast max maps to Hi temp, min to Lo temp.
	if row.HiTemp != 91.2 || row.LoTemp != 71.8 {
		t.Fatalf("temperature mapping wrong: hi=%v lo=%v", row.HiTemp, row.LoTemp)
	}
	if row.Holiday != 1 {
		t.Fatalf("holiday flag not taken from the calendar")
	}
	// July 1 + 3 days = July 4, a Thursday.
	if row.DayOfWeek != 3 {
		t.Fatalf("expected Thursday=3, got %d", row.DayOfWeek)
	}
}

func TestFromForecastRange(t *testing.T) {
	provider := &stubForecast{}
	b := NewBuilder(provider, stubHolidays{})

	for _, day := range []int{-1, 8, 100} {
		if _, err := b.FromForecast(context.Background(), day); !errors.Is(err, ErrRange) {
			t.Fatalf("day %d: expected range error, got %v", day, err)
		}
	}
	if provider.calls != 0 {
		t.Fatalf("provider must not be called for out-of-range days")
	}

	for _, day := range []int{0, 7} {
		if _, err := b.FromForecast(context.Background(), day); err != nil {
			t.Fatalf("day %d: unexpected error %v", day, err)
		}
	}
}

func TestFromForecastSnow(t *testing.T) {
	provider := &stubForecast{forecast: weather.DailyForecast{Snow: 0.25}}
	b := NewBuilder(provider, stubHolidays{})

	frame, err := b.FromForecast(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if frame[0].Snow != 1 {
		t.Fatalf("forecast snow above zero should flag 1")
	}
}
