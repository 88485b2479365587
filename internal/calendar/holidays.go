package calendar

import (
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
)

// dayAfterThanksgiving is observed the Friday following Thanksgiving.
var dayAfterThanksgiving = &cal.Holiday{
	Name: "Day after Thanksgiving",
	Type: cal.ObservancePublic,
	Func: func(h *cal.Holiday, year int) time.Time {
		actual, _ := us.ThanksgivingDay.Calc(year)
		return actual.AddDate(0, 0, 1)
	},
}

// christmasEve shifts to the previous Friday when it lands on a
// weekend.
var christmasEve = &cal.Holiday{
	Name:  "Christmas Eve",
	Type:  cal.ObservancePublic,
	Month: time.December,
	Day:   24,
	Func:  cal.CalcDayOfMonth,
	Observed: []cal.AltDay{
		{Day: time.Saturday, Offset: -1},
		{Day: time.Sunday, Offset: -2},
	},
}

// USCalendar answers holiday queries for the ridership model: the
// federal holidays that move demand, plus the day after Thanksgiving
// and Christmas Eve.
type USCalendar struct {
	cal *cal.Calendar
}

// NewUSCalendar builds the calendar with its full rule set.
func NewUSCalendar() *USCalendar {
	c := &cal.Calendar{Name: "bike-share-predict"}
	c.AddHoliday(
		us.NewYear,
		us.MlkDay,
		us.PresidentsDay,
		us.MemorialDay,
		us.IndependenceDay,
		us.LaborDay,
		us.ThanksgivingDay,
		dayAfterThanksgiving,
		christmasEve,
		us.ChristmasDay,
	)
	return &USCalendar{cal: c}
}

// IsHoliday reports whether date is a holiday, on its actual or
// observed day.
func (c *USCalendar) IsHoliday(date time.Time) bool {
	actual, observed, _ := c.cal.IsHoliday(date)
	return actual || observed
}
