// Package dates implements whole-year/month/day differences between two
// calendar dates, borrowing days and months the way humans count ages.
package dates

import "time"

// Diff is the whole elapsed years, months and days between two dates.
type Diff struct {
	Years  int
	Months int
	Days   int
}

// monthDays holds the day count per month; February is resolved against the
// earlier date's year at computation time.
var monthDays = [12]int{31, -1, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// IsLeapYear reports whether year is a Gregorian leap year.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// Between computes the calendar difference between two dates. Argument order
// does not matter; the earlier date is used as the starting point.
func Between(d1, d2 time.Time) Diff {
	from, to := d1, d2
	if from.After(to) {
		from, to = to, from
	}

	increment := 0
	if from.Day() > to.Day() {
		increment = monthDays[from.Month()-1]
	}

	if increment == -1 {
		if IsLeapYear(from.Year()) {
			increment = 29
		} else {
			increment = 28
		}
	}

	var d Diff
	if increment != 0 {
		d.Days = (to.Day() + increment) - from.Day()
		increment = 1
	} else {
		d.Days = to.Day() - from.Day()
	}

	if int(from.Month())+increment > int(to.Month()) {
		d.Months = (int(to.Month()) + 12) - (int(from.Month()) + increment)
		increment = 1
	} else {
		d.Months = int(to.Month()) - (int(from.Month()) + increment)
		increment = 0
	}

	d.Years = to.Year() - (from.Year() + increment)

	return d
}

// YearsBetween is a convenience for age checks.
func YearsBetween(d1, d2 time.Time) int {
	return Between(d1, d2).Years
}
