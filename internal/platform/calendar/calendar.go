// Package calendar implements the week arithmetic used by the ranking
// sweep. Ranking weeks run Monday to Sunday and follow the
// first-four-day-week rule, so week numbers match ISO-8601 numbering.
package calendar

import "time"

// WeekNumber returns the ranking week number for a date. Dates within the
// same Monday-Sunday week always map to the same number.
func WeekNumber(date time.Time) int {
	_, week := date.ISOWeek()
	return week
}

// Is53WeekYear reports whether a ranking year has 53 weeks instead of 52.
// The rule is the historical one: a year is long when January 1st of the
// following year falls on a Friday, Saturday or Sunday. This is close to,
// but not identical with, the ISO-8601 long-year rule; the Sunday case is
// kept for parity with the persisted ranking history.
func Is53WeekYear(year int) bool {
	switch time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC).Weekday() {
	case time.Friday, time.Saturday, time.Sunday:
		return true
	default:
		return false
	}
}

// WeeksInYear returns 52 or 53.
func WeeksInYear(year int) int {
	if Is53WeekYear(year) {
		return 53
	}
	return 52
}

// RankingYearAndWeek maps an arbitrary date onto the (year, week) pair a
// ranking table was stored under, shifting the year at the boundaries where
// the week number and the calendar year disagree (a December date in week 1
// belongs to the next ranking year, a January date in week 52/53 to the
// previous one).
func RankingYearAndWeek(date time.Time) (int, int) {
	week := WeekNumber(date)
	year := date.Year()
	if week == 1 && date.Month() == time.December {
		year++
	} else if week >= 52 && date.Month() == time.January {
		year--
	}
	return year, week
}
