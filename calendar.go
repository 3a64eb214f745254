package invoicelayout

import (
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/de"
)

// provinceHolidays maps German state abbreviations to their holiday slices.
var provinceHolidays = map[string][]*cal.Holiday{
	"BW": de.HolidaysBW,
	"BY": de.HolidaysBY,
	"BE": de.HolidaysBE,
	"BB": de.HolidaysBB,
	"HB": de.HolidaysHB,
	"HH": de.HolidaysHH,
	"HE": de.HolidaysHE,
	"MV": de.HolidaysMV,
	"NI": de.HolidaysNI,
	"NW": de.HolidaysNW,
	"RP": de.HolidaysRP,
	"SL": de.HolidaysSL,
	"SN": de.HolidaysSN,
	"ST": de.HolidaysST,
	"SH": de.HolidaysSH,
	"TH": de.HolidaysTH,
}

// NewBusinessCalendar creates a calendar with the public holidays of the
// given German state. Unknown states fall back to weekends only.
func NewBusinessCalendar(province string) *cal.BusinessCalendar {
	c := cal.NewBusinessCalendar()
	c.Name = "invoice terms"
	if holidays, ok := provinceHolidays[province]; ok {
		c.AddHoliday(holidays...)
	}
	return c
}

// DueDate is the date payment falls due: termDays business days after the
// issue date. A zero term makes the invoice due on issue.
func (inv Invoice) DueDate(c *cal.BusinessCalendar, termDays int) time.Time {
	if termDays <= 0 {
		return inv.IssuedAt
	}
	return c.WorkdaysFrom(inv.IssuedAt, termDays)
}
