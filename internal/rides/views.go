package rides

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// weekRows is one week of hourly rows. The week view assumes strictly
// hourly, gap-free data and slices by row rather than by timestamp.
const weekRows = 7 * 24

// yearDays is the grouped-row cutoff for the year-scale views.
const yearDays = 365

// Week returns the last week of hourly rows in storage order.
func (t *Table) Week() []Record {
	t.mu.RLock()
	defer t.mu.RUnlock()

	start := len(t.records) - weekRows
	if start < 0 {
		start = 0
	}
	out := make([]Record, len(t.records)-start)
	copy(out, t.records[start:])
	return out
}

// DailyRolling groups rows by calendar date, sums the ride count per
// date and attaches a trailing 7-row simple moving average over the
// grouped series. A non-zero limit keeps only the last limit dates.
//
// The window advances by grouped row, not by elapsed days, so a date
// missing from the data does not widen the window.
func (t *Table) DailyRolling(limit int) []DatePoint {
	t.mu.RLock()
	points := t.groupByDate()
	t.mu.RUnlock()

	sums := make([]float64, len(points))
	for i, p := range points {
		sums[i] = float64(p.RideCount)
	}
	attachRolling(sums, 7, func(i int, avg float64) {
		points[i].RollingAvg = avg
	})

	return tail(points, limit)
}

// Monthly returns the hourly rows of the latest year present in the
// table, ungrouped, for per-month distribution analysis.
func (t *Table) Monthly() []Record {
	t.mu.RLock()
	defer t.mu.RUnlock()

	year := t.maxYear()
	var out []Record
	for _, rec := range t.records {
		if rec.Year == year {
			out = append(out, rec)
		}
	}
	return out
}

// RidesByTemp groups rows by daily average temperature and sums the
// ride counts, keys ascending.
func (t *Table) RidesByTemp() []GroupPoint {
	t.mu.RLock()
	defer t.mu.RUnlock()

	sums := make(map[float64]float64)
	for _, rec := range t.records {
		sums[rec.AverageTemp] += float64(rec.RideCount)
	}
	return sortedGroups(sums, nil)
}

// RidesByWind groups rows by wind speed and averages the ride counts,
// keys ascending.
func (t *Table) RidesByWind() []GroupPoint {
	t.mu.RLock()
	defer t.mu.RUnlock()

	sums := make(map[float64]float64)
	counts := make(map[float64]float64)
	for _, rec := range t.records {
		sums[rec.Wind] += float64(rec.RideCount)
		counts[rec.Wind]++
	}
	return sortedGroups(sums, counts)
}

// RollingTemp groups rows by (date, average temperature), counts the
// hourly rows per group and attaches a trailing 7-row moving average of
// the temperature values. Returns the last 365 grouped rows.
func (t *Table) RollingTemp() []RollingPoint {
	return t.rollingWeather(func(r Record) float64 { return r.AverageTemp }, 7)
}

// RollingWind is RollingTemp keyed by wind speed with a 3-row window.
func (t *Table) RollingWind() []RollingPoint {
	return t.rollingWeather(func(r Record) float64 { return r.Wind }, 3)
}

// MonthlyRain filters rows to the latest year and totals the distinct
// daily rainfall readings per month, months ascending.
func (t *Table) MonthlyRain() []MonthRain {
	t.mu.RLock()
	defer t.mu.RUnlock()

	year := t.maxYear()

	type dayRain struct {
		day   string
		rain  float64
		month int
	}
	seen := make(map[dayRain]struct{})
	totals := make(map[int]float64)

	for _, rec := range t.records {
		if rec.Year != year {
			continue
		}
		key := dayRain{rec.Date().Format("2006-01-02"), rec.Rain, rec.Month}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		totals[key.month] += key.rain
	}

	out := make([]MonthRain, 0, len(totals))
	for month, rain := range totals {
		out = append(out, MonthRain{Month: month, Rain: rain})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// groupByDate walks the storage-ordered rows and emits one point per
// consecutive run of equal dates. Callers hold at least a read lock.
func (t *Table) groupByDate() []DatePoint {
	var points []DatePoint
	for _, rec := range t.records {
		date := rec.Date()
		if n := len(points); n > 0 && points[n-1].Date.Equal(date) {
			points[n-1].RideCount += rec.RideCount
			continue
		}
		points = append(points, DatePoint{Date: date, RideCount: rec.RideCount, RollingAvg: math.NaN()})
	}
	return points
}

func (t *Table) rollingWeather(key func(Record) float64, window int) []RollingPoint {
	t.mu.RLock()

	type group struct {
		day   string
		value float64
	}
	counts := make(map[group]*RollingPoint)
	var order []group

	for _, rec := range t.records {
		g := group{rec.Date().Format("2006-01-02"), key(rec)}
		p, ok := counts[g]
		if !ok {
			p = &RollingPoint{Date: rec.Date(), Value: g.value, RollingAvg: math.NaN()}
			counts[g] = p
			order = append(order, g)
		}
		p.Count++
	}
	t.mu.RUnlock()

	// Sort groups by date then value, matching grouped-key ordering.
	sort.SliceStable(order, func(i, j int) bool {
		if order[i].day != order[j].day {
			return order[i].day < order[j].day
		}
		return order[i].value < order[j].value
	})

	points := make([]RollingPoint, len(order))
	values := make([]float64, len(order))
	for i, g := range order {
		points[i] = *counts[g]
		values[i] = g.value
	}
	attachRolling(values, window, func(i int, avg float64) {
		points[i].RollingAvg = avg
	})

	return tail(points, yearDays)
}

// attachRolling computes a trailing simple moving average over series
// and reports it per index once the window has filled.
func attachRolling(series []float64, window int, set func(i int, avg float64)) {
	for i := range series {
		if i < window-1 {
			continue
		}
		set(i, stat.Mean(series[i-window+1:i+1], nil))
	}
}

func (t *Table) maxYear() int {
	year := 0
	for _, rec := range t.records {
		if rec.Year > year {
			year = rec.Year
		}
	}
	return year
}

func sortedGroups(sums, counts map[float64]float64) []GroupPoint {
	keys := make([]float64, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Float64s(keys)

	out := make([]GroupPoint, len(keys))
	for i, k := range keys {
		rides := sums[k]
		if counts != nil {
			rides /= counts[k]
		}
		out[i] = GroupPoint{Key: k, Rides: rides}
	}
	return out
}

func tail[T any](s []T, limit int) []T {
	if limit > 0 && len(s) > limit {
		return s[len(s)-limit:]
	}
	return s
}
