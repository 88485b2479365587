package charts

import (
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"bike-share-predict/internal/rides"
)

// Kind selects the chart style.
type Kind string

const (
	KindLine Kind = "line"
	KindBar  Kind = "bar"
	KindBox  Kind = "box"
	KindArea Kind = "area"
)

// Chart selectors. Unknown or missing values fall back to the default
// rather than failing; a bad query string must not 500.
const (
	TypeRides   = "rides"
	TypeWeather = "weather"
)

var ridesSubtypes = map[string]bool{"week": true, "year": true, "monthly": true, "temp": true, "wind": true}
var weatherSubtypes = map[string]bool{"temp": true, "wind": true, "rain": true}

// Series is a fully resolved chart request: the x/y data plus the
// presentation metadata the renderer needs. Box holds the per-group
// five-number summaries when Kind is KindBox.
type Series struct {
	Title  string
	XLabel string
	YLabel string
	Kind   Kind

	X []string
	Y []float64

	Box [][]float64

	// Ticks carries explicit x tick values; DateAxis requests
	// calendar auto-ticks instead. Both unset means no tick policy.
	Ticks    []float64
	DateAxis bool
}

// Normalize validates the (type, subtype) selector pair, substituting
// the documented defaults for anything unknown.
func Normalize(typ, subtype string) (string, string) {
	if typ != TypeRides && typ != TypeWeather {
		typ = TypeRides
	}
	if typ == TypeRides {
		if !ridesSubtypes[subtype] {
			subtype = "week"
		}
	} else if !weatherSubtypes[subtype] {
		subtype = "temp"
	}
	return typ, subtype
}

// Resolve maps a normalized selector pair onto the matching table view
// and its presentation.
func Resolve(table *rides.Table, typ, subtype string) Series {
	typ, subtype = Normalize(typ, subtype)
	if typ == TypeRides {
		return resolveRides(table, subtype)
	}
	return resolveWeather(table, subtype)
}

func resolveRides(table *rides.Table, subtype string) Series {
	switch subtype {
	case "year":
		points := table.DailyRolling(365)
		s := Series{
			Title:    "Ride Count 7-day rolling average for Past Year",
			XLabel:   "Date",
			YLabel:   "Ride Count",
			Kind:     KindLine,
			DateAxis: true,
		}
		for _, p := range points {
			s.X = append(s.X, p.Date.Format("2006-01-02"))
			s.Y = append(s.Y, p.RollingAvg)
		}
		return s

	case "monthly":
		return monthlyDistribution(table.Monthly())

	case "temp":
		points := table.RidesByTemp()
		s := Series{
			Title:  "Distribution of total rides over daily average temperatures",
			XLabel: "Temp (F)",
			YLabel: "Ride Count",
			Kind:   KindArea,
		}
		for _, p := range points {
			s.X = append(s.X, formatKey(p.Key))
			s.Y = append(s.Y, p.Rides)
		}
		if len(points) > 0 {
			s.Ticks = ticks(points[0].Key, points[len(points)-1].Key, 3.0)
		}
		return s

	case "wind":
		points := table.RidesByWind()
		s := Series{
			Title:  "Average Hourly Ride Count by Daily Average Wind Speed",
			XLabel: "Wind Speed (MPH)",
			YLabel: "Ride Count",
			Kind:   KindLine,
		}
		for _, p := range points {
			s.X = append(s.X, formatKey(p.Key))
			s.Y = append(s.Y, p.Rides)
		}
		if len(points) > 0 {
			s.Ticks = ticks(math.Round(points[0].Key), math.Round(points[len(points)-1].Key)+1, 2.0)
		}
		return s

	default: // week
		records := table.Week()
		s := Series{
			Title:    "Ride Count per Hour for Past Week",
			XLabel:   "Date",
			YLabel:   "Ride Count",
			Kind:     KindLine,
			DateAxis: true,
		}
		for _, rec := range records {
			s.X = append(s.X, rec.Timestamp.Format("2006-01-02 15:04"))
			s.Y = append(s.Y, float64(rec.RideCount))
		}
		return s
	}
}

func resolveWeather(table *rides.Table, subtype string) Series {
	switch subtype {
	case "wind":
		return rollingSeries(table.RollingWind(),
			"Wind Speed 3-day rolling average for Past Year", "Average Wind Speed (MPH)")

	case "rain":
		points := table.MonthlyRain()
		s := Series{
			Title:  "Total Rainfall by Month",
			XLabel: "Month",
			YLabel: "Rain (inches)",
			Kind:   KindBar,
		}
		for _, p := range points {
			s.X = append(s.X, monthName(p.Month))
			s.Y = append(s.Y, p.Rain)
		}
		return s

	default: // temp
		return rollingSeries(table.RollingTemp(),
			"Temperature 7-day rolling average for Past Year", "Average Temp (F)")
	}
}

func rollingSeries(points []rides.RollingPoint, title, ylabel string) Series {
	s := Series{
		Title:    title,
		XLabel:   "Date",
		YLabel:   ylabel,
		Kind:     KindLine,
		DateAxis: true,
	}
	for _, p := range points {
		s.X = append(s.X, p.Date.Format("2006-01-02"))
		s.Y = append(s.Y, p.RollingAvg)
	}
	return s
}

// monthlyDistribution builds the box-plot series: one five-number
// summary of hourly ride counts per month present in the data.
func monthlyDistribution(records []rides.Record) Series {
	byMonth := make(map[int][]float64)
	for _, rec := range records {
		byMonth[rec.Month] = append(byMonth[rec.Month], float64(rec.RideCount))
	}

	months := make([]int, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Ints(months)

	s := Series{
		Title:  "Distribution of hourly rides by month",
		XLabel: "Month",
		YLabel: "Ride Count",
		Kind:   KindBox,
	}
	for _, m := range months {
		values := byMonth[m]
		sort.Float64s(values)
		s.X = append(s.X, monthName(m))
		s.Box = append(s.Box, fiveNumberSummary(values))
		s.Ticks = append(s.Ticks, float64(m))
	}
	return s
}

// fiveNumberSummary returns [min, q1, median, q3, max] of sorted values.
func fiveNumberSummary(sorted []float64) []float64 {
	if len(sorted) == 0 {
		return []float64{0, 0, 0, 0, 0}
	}
	return []float64{
		sorted[0],
		stat.Quantile(0.25, stat.Empirical, sorted, nil),
		stat.Quantile(0.5, stat.Empirical, sorted, nil),
		stat.Quantile(0.75, stat.Empirical, sorted, nil),
		sorted[len(sorted)-1],
	}
}

// ticks enumerates [min, max) in step increments.
func ticks(min, max, step float64) []float64 {
	var out []float64
	for v := min; v < max; v += step {
		out = append(out, v)
	}
	return out
}

var monthNames = []string{"", "Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

func monthName(m int) string {
	if m >= 1 && m <= 12 {
		return monthNames[m]
	}
	return ""
}

func formatKey(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
