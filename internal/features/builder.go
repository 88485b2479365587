package features

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"bike-share-predict/internal/weather"
)

var (
	// ErrValidation is returned on bad form input. Recoverable; the
	// request is rejected and the caller may retry.
	ErrValidation = errors.New("invalid prediction input")

	// ErrRange is returned when the forecast day offset falls outside
	// the available range of 0-7 days.
	ErrRange = errors.New("forecast day outside available range (0-7)")
)

var validate = validator.New()

// hoursPerDay is the fixed number of feature rows per prediction: one
// row per hour of the target day.
const hoursPerDay = 24

// Columns is the pinned feature schema, in the exact order the
// inference service expects its input matrix.
var Columns = []string{
	"Hour", "Hi temp", "Lo temp", "Day of week", "Month",
	"Fall", "Spring", "Summer", "Winter",
	"Holiday", "Wind", "Rain", "Snow",
}

// Row is one hourly feature row. Every field except Hour is broadcast
// across the 24 rows of a frame.
type Row struct {
	Hour      int
	HiTemp    float64
	LoTemp    float64
	DayOfWeek int
	Month     int
	Fall      int
	Spring    int
	Summer    int
	Winter    int
	Holiday   float64
	Wind      float64
	Rain      float64
	Snow      int
}

// Values returns the row as a numeric vector in Columns order.
func (r Row) Values() []float64 {
	return []float64{
		float64(r.Hour), r.HiTemp, r.LoTemp, float64(r.DayOfWeek), float64(r.Month),
		float64(r.Fall), float64(r.Spring), float64(r.Summer), float64(r.Winter),
		r.Holiday, r.Wind, r.Rain, float64(r.Snow),
	}
}

// Frame is the 24-row feature table consumed once by the inference
// service and discarded.
type Frame []Row

// Hours returns the hour column of the frame.
func (f Frame) Hours() []int {
	hours := make([]int, len(f))
	for i, row := range f {
		hours[i] = row.Hour
	}
	return hours
}

// FormInput is a user-submitted prediction request.
type FormInput struct {
	Date    string `validate:"required,datetime=2006-01-02"`
	Holiday string
	HiTemp  float64
	LoTemp  float64
	Wind    float64
	Precip  float64
	Snow    float64
}

// ForecastProvider supplies the daily weather forecast for a day
// offset from today.
type ForecastProvider interface {
	DailyForecast(ctx context.Context, day int) (weather.DailyForecast, error)
}

// HolidayOracle reports whether a date is a holiday.
type HolidayOracle interface {
	IsHoliday(date time.Time) bool
}

// Builder constructs feature frames from form input or from the
// weather forecast.
type Builder struct {
	forecast ForecastProvider
	holidays HolidayOracle
	now      func() time.Time
}

// NewBuilder creates a Builder over the given collaborators.
func NewBuilder(forecast ForecastProvider, holidays HolidayOracle) *Builder {
	return &Builder{forecast: forecast, holidays: holidays, now: time.Now}
}

// FromForm builds the feature frame for a user-submitted form:
// explicit date and weather values, holiday from a checkbox.
func (b *Builder) FromForm(in FormInput) (Frame, error) {
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	date, err := time.Parse("2006-01-02", in.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: bad date %q", ErrValidation, in.Date)
	}

	// Checkbox semantics: present means "on", absent means off. Any
	// other literal is a malformed request.
	var holiday float64
	switch in.Holiday {
	case "":
		holiday = 0
	case "on":
		holiday = 1
	default:
		return nil, fmt.Errorf("%w: bad holiday value %q", ErrValidation, in.Holiday)
	}

	return broadcast(Row{
		HiTemp:  in.HiTemp,
		LoTemp:  in.LoTemp,
		Holiday: holiday,
		Wind:    in.Wind,
		Rain:    in.Precip,
		Snow:    boolFlag(in.Snow > 0),
	}, date), nil
}

// FromForecast builds the feature frame for the day `day` days from
// today, sourcing weather from the forecast provider and the holiday
// flag from the calendar.
//
// Forecast max maps to Hi temp and min to Lo temp.
func (b *Builder) FromForecast(ctx context.Context, day int) (Frame, error) {
	if day < 0 || day > 7 {
		return nil, fmt.Errorf("%w: day %d", ErrRange, day)
	}

	forecast, err := b.forecast.DailyForecast(ctx, day)
	if err != nil {
		return nil, err
	}

	date := b.now().AddDate(0, 0, day)

	return broadcast(Row{
		HiTemp:  forecast.TempMax,
		LoTemp:  forecast.TempMin,
		Holiday: boolToFloat(b.holidays.IsHoliday(date)),
		Wind:    forecast.WindSpeed,
		Rain:    forecast.Rain,
		Snow:    boolFlag(forecast.Snow > 0),
	}, date), nil
}

// broadcast fills the date-derived fields of base and repeats it across
// hours 0-23.
func broadcast(base Row, date time.Time) Frame {
	base.DayOfWeek = mondayWeekday(date)
	base.Month = int(date.Month())
	base.Fall, base.Spring, base.Summer, base.Winter = seasonFlags(base.Month)

	frame := make(Frame, hoursPerDay)
	for hour := 0; hour < hoursPerDay; hour++ {
		row := base
		row.Hour = hour
		frame[hour] = row
	}
	return frame
}

// mondayWeekday maps time.Weekday (Sunday=0) onto Monday=0 numbering.
func mondayWeekday(date time.Time) int {
	return (int(date.Weekday()) + 6) % 7
}

// seasonFlags derives the mutually exclusive season one-hot columns
// from the month: Winter {12,1,2}, Spring {3,4,5}, Summer {6,7,8},
// Fall {9,10,11}.
func seasonFlags(month int) (fall, spring, summer, winter int) {
	switch {
	case month == 12 || month <= 2:
		winter = 1
	case month <= 5:
		spring = 1
	case month <= 8:
		summer = 1
	default:
		fall = 1
	}
	return
}

func boolFlag(b bool) int {
	if b {
		return 1
	}
	return 0
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
