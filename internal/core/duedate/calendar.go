// Package duedate turns a category and a competence into the calendar date on
// which the corresponding obligation is due.
package duedate

import (
	"time"

	"github.com/kirillkom/accounting-doc-router/internal/core/domain"
)

// NationalHolidays is the default table of fixed-date national holidays.
// Moving holidays (Carnival, Good Friday, Corpus Christi) are not tracked.
func NationalHolidays() []domain.Holiday {
	return []domain.Holiday{
		{Month: time.January, Day: 1, Name: "Confraternização Universal"},
		{Month: time.April, Day: 21, Name: "Tiradentes"},
		{Month: time.May, Day: 1, Name: "Dia do Trabalho"},
		{Month: time.September, Day: 7, Name: "Independência"},
		{Month: time.October, Day: 12, Name: "Nossa Senhora Aparecida"},
		{Month: time.November, Day: 2, Name: "Finados"},
		{Month: time.November, Day: 15, Name: "Proclamação da República"},
		{Month: time.December, Day: 25, Name: "Natal"},
	}
}

type monthDay struct {
	month time.Month
	day   int
}

// Calendar answers business-day questions against a fixed holiday table.
type Calendar struct {
	holidays map[monthDay]struct{}
}

func NewCalendar(holidays []domain.Holiday) Calendar {
	set := make(map[monthDay]struct{}, len(holidays))
	for _, h := range holidays {
		set[monthDay{month: h.Month, day: h.Day}] = struct{}{}
	}
	return Calendar{holidays: set}
}

func (c Calendar) IsBusinessDay(date time.Time) bool {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	_, holiday := c.holidays[monthDay{month: date.Month(), day: date.Day()}]
	return !holiday
}

// NthBusinessDay counts business days from the first of the period.
func (c Calendar) NthBusinessDay(period domain.Competence, n int) (time.Time, bool) {
	if n < 1 {
		return time.Time{}, false
	}
	last := period.LastDay()
	count := 0
	for d := period.FirstDay(); !d.After(last); d = d.AddDate(0, 0, 1) {
		if c.IsBusinessDay(d) {
			count++
			if count == n {
				return d, true
			}
		}
	}
	return time.Time{}, false
}

// Adjust walks from date one day at a time in direction until it lands on a
// business day.
func (c Calendar) Adjust(date time.Time, direction domain.Direction) time.Time {
	step := 1
	if direction == domain.Backward {
		step = -1
	}
	// A full year of holidays would never terminate otherwise.
	for i := 0; i < 366 && !c.IsBusinessDay(date); i++ {
		date = date.AddDate(0, 0, step)
	}
	return date
}

// LastBusinessDay is the last business day of the period.
func (c Calendar) LastBusinessDay(period domain.Competence) time.Time {
	return c.Adjust(period.LastDay(), domain.Backward)
}
