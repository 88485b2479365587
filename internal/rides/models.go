package rides

import (
	"time"
)

// PageSize is the static number of rows returned per page.
const PageSize = 50

// Canonical column names for the ride history table. This is the
// schema the data file, the display layer, and the feature builder
// all agree on (the Snow variant of the data set).
const (
	ColTimestamp = "Timestamp"
	ColRideCount = "Ride count"
	ColWind      = "Wind"
	ColRain      = "Rain"
	ColSnow      = "Snow"
	ColHiTemp    = "Hi temp"
	ColLoTemp    = "Lo temp"
	ColAvgTemp   = "Average temp"
	ColMonth     = "Month"
	ColYear      = "Year"
)

// DataColumns is the ordered set of columns a row update may overwrite.
var DataColumns = []string{ColRideCount, ColWind, ColRain, ColSnow, ColHiTemp, ColLoTemp}

// DisplayColumns is the ordered set of columns exposed for display:
// the timestamp followed by the editable data columns.
var DisplayColumns = []string{ColTimestamp, ColRideCount, ColWind, ColRain, ColSnow, ColHiTemp, ColLoTemp}

// allColumns is the full on-disk schema, in export order.
var allColumns = []string{
	ColTimestamp, ColRideCount, ColWind, ColRain, ColSnow,
	ColHiTemp, ColLoTemp, ColAvgTemp, ColMonth, ColYear,
}

// Record is one hourly row of the ride history table.
type Record struct {
	Timestamp   time.Time `json:"timestamp"`
	RideCount   int       `json:"rideCount"`
	Wind        float64   `json:"wind"`
	Rain        float64   `json:"rain"`
	Snow        float64   `json:"snow"`
	HiTemp      float64   `json:"hiTemp"`
	LoTemp      float64   `json:"loTemp"`
	AverageTemp float64   `json:"averageTemp"`
	Month       int       `json:"month"`
	Year        int       `json:"year"`
}

// Date returns the record's timestamp truncated to its calendar day.
func (r Record) Date() time.Time {
	return time.Date(r.Timestamp.Year(), r.Timestamp.Month(), r.Timestamp.Day(), 0, 0, 0, 0, r.Timestamp.Location())
}

// DataValues returns the record's editable values in DataColumns order.
func (r Record) DataValues() []float64 {
	return []float64{float64(r.RideCount), r.Wind, r.Rain, r.Snow, r.HiTemp, r.LoTemp}
}

// setDataValues overwrites the editable columns from values in
// DataColumns order. The ride count is truncated to an integer.
func (r *Record) setDataValues(values []float64) {
	r.RideCount = int(values[0])
	r.Wind = values[1]
	r.Rain = values[2]
	r.Snow = values[3]
	r.HiTemp = values[4]
	r.LoTemp = values[5]
}

// DatePoint is one grouped-by-date row of a time view: the summed ride
// count for the date plus the trailing moving average over the grouped
// series. RollingAvg is NaN until the window has filled.
type DatePoint struct {
	Date       time.Time
	RideCount  int
	RollingAvg float64
}

// GroupPoint is one row of a weather correlation view keyed by a single
// numeric value (average temperature or wind speed).
type GroupPoint struct {
	Key   float64
	Rides float64
}

// RollingPoint is one row of a rolling weather view: the grouping date,
// the grouped weather value, the number of hourly rows in the group and
// the trailing moving average of the weather value.
type RollingPoint struct {
	Date       time.Time
	Value      float64
	Count      int
	RollingAvg float64
}

// MonthRain is the total rainfall recorded for one month.
type MonthRain struct {
	Month int
	Rain  float64
}
