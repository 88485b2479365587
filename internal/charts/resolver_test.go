package charts

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"bike-share-predict/internal/rides"
)

func testTable(t *testing.T, hours int) *rides.Table {
	t.Helper()

	var b strings.Builder
	b.WriteString("Timestamp,Ride count,Wind,Rain,Snow,Hi temp,Lo temp,Average temp,Month,Year\n")
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < hours; i++ {
		ts := start.Add(time.Duration(i) * time.Hour)
		day := i / 24
		fmt.Fprintf(&b, "%s,%d,%.1f,%.2f,0,%.1f,%.1f,%.1f,%d,%d\n",
			ts.Format("2006-01-02 15:04:05"),
			i%30, float64(day%4)+1, float64(day%2)*0.2,
			60.0, 40.0, 48.0+float64(day%8),
			int(ts.Month()), ts.Year())
	}

	table, err := rides.Load(strings.NewReader(b.String()))
	if err != nil {
		t.Fatalf("failed to load test table: %v", err)
	}
	return table
}

func TestNormalizeDefaults(t *testing.T) {
	cases := []struct {
		typ, subtype      string
		wantType, wantSub string
	}{
		{"", "", TypeRides, "week"},
		{"bogus", "bogus", TypeRides, "week"},
		{"", "bogus", TypeRides, "week"},
		{TypeRides, "year", TypeRides, "year"},
		{TypeRides, "rain", TypeRides, "week"}, // rain is not a rides subtype
		{TypeWeather, "", TypeWeather, "temp"},
		{TypeWeather, "monthly", TypeWeather, "temp"},
		{TypeWeather, "rain", TypeWeather, "rain"},
	}

	for _, tc := range cases {
		typ, sub := Normalize(tc.typ, tc.subtype)
		if typ != tc.wantType || sub != tc.wantSub {
			t.Fatalf("Normalize(%q, %q) = (%q, %q), want (%q, %q)",
				tc.typ, tc.subtype, typ, sub, tc.wantType, tc.wantSub)
		}
	}
}

func TestResolveKinds(t *testing.T) {
	table := testTable(t, 20*24)

	cases := []struct {
		typ, subtype string
		kind         Kind
	}{
		{TypeRides, "week", KindLine},
		{TypeRides, "year", KindLine},
		{TypeRides, "monthly", KindBox},
		{TypeRides, "temp", KindArea},
		{TypeRides, "wind", KindLine},
		{TypeWeather, "temp", KindLine},
		{TypeWeather, "wind", KindLine},
		{TypeWeather, "rain", KindBar},
	}

	for _, tc := range cases {
		s := Resolve(table, tc.typ, tc.subtype)
		if s.Kind != tc.kind {
			t.Fatalf("%s/%s: kind %s, want %s", tc.typ, tc.subtype, s.Kind, tc.kind)
		}
		if s.Title == "" || s.XLabel == "" || s.YLabel == "" {
			t.Fatalf("%s/%s: presentation metadata incomplete: %+v", tc.typ, tc.subtype, s)
		}
		if tc.kind == KindBox {
			if len(s.Box) == 0 {
				t.Fatalf("box series without summaries")
			}
		} else if len(s.X) == 0 || len(s.X) != len(s.Y) {
			t.Fatalf("%s/%s: x/y length mismatch: %d vs %d", tc.typ, tc.subtype, len(s.X), len(s.Y))
		}
	}
}

func TestResolveBogusFallsBack(t *testing.T) {
	table := testTable(t, 10*24)

	s := Resolve(table, "", "bogus")
	if s.Title != "Ride Count per Hour for Past Week" {
		t.Fatalf("expected fall back to rides/week, got %q", s.Title)
	}
	if len(s.X) != 168 {
		t.Fatalf("week series should carry 168 points, got %d", len(s.X))
	}
}

func TestResolveWeekSeries(t *testing.T) {
	table := testTable(t, 10*24)

	s := Resolve(table, TypeRides, "week")
	if !s.DateAxis {
		t.Fatal("week view should request a date axis")
	}
	if len(s.Y) != 168 {
		t.Fatalf("expected 168 points, got %d", len(s.Y))
	}
}

func TestMonthlyDistributionSummaries(t *testing.T) {
	table := testTable(t, 70*24)

	s := Resolve(table, TypeRides, "monthly")
	if len(s.X) != len(s.Box) {
		t.Fatalf("month labels and summaries out of step")
	}
	for i, summary := range s.Box {
		if len(summary) != 5 {
			t.Fatalf("summary %d has %d values", i, len(summary))
		}
		for j := 1; j < 5; j++ {
			if summary[j] < summary[j-1] {
				t.Fatalf("summary %d not monotone: %v", i, summary)
			}
		}
	}
}

func TestTicks(t *testing.T) {
	got := ticks(0, 23, 4)
	want := []float64{0, 4, 8, 12, 16, 20}
	if len(got) != len(want) {
		t.Fatalf("ticks %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ticks %v, want %v", got, want)
		}
	}
}
