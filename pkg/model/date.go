package model

import (
	"fmt"
	"time"
)

// CivilDate is an unambiguous calendar day, free of any timezone.
// Callers construct it explicitly instead of passing timezone-sensitive
// time.Time values, so "which day" can never depend on server locale.
type CivilDate struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Day   int        `json:"day"`
}

const civilDateLayout = "2006-01-02"

func ParseCivilDate(s string) (CivilDate, error) {
	t, err := time.Parse(civilDateLayout, s)
	if err != nil {
		return CivilDate{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return CivilDate{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// CivilDateOf returns the calendar day of t as observed in loc.
func CivilDateOf(t time.Time, loc *time.Location) CivilDate {
	local := t.In(loc)
	return CivilDate{Year: local.Year(), Month: local.Month(), Day: local.Day()}
}

func (d CivilDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d CivilDate) IsZero() bool {
	return d == CivilDate{}
}

func (d CivilDate) Validate() error {
	if d.Year < 1900 || d.Year > 2200 {
		return fmt.Errorf("year %d out of range", d.Year)
	}
	if d.Month < time.January || d.Month > time.December {
		return fmt.Errorf("month %d out of range", d.Month)
	}
	// time.Date normalizes overflow, so round-trip to detect e.g. Feb 30.
	t := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
	if t.Year() != d.Year || t.Month() != d.Month || t.Day() != d.Day {
		return fmt.Errorf("day %d does not exist in %04d-%02d", d.Day, d.Year, int(d.Month))
	}
	return nil
}

// Weekday derives the day of week from the calendar date alone.
func (d CivilDate) Weekday() time.Weekday {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Weekday()
}

func (d CivilDate) AddDays(n int) CivilDate {
	t := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
	return CivilDate{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// Before reports whether d is an earlier calendar day than other.
func (d CivilDate) Before(other CivilDate) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// At composes the date with a wall-clock time in loc and returns the
// resulting UTC instant. DST offsets for that specific date apply.
func (d CivilDate) At(hour, minute, second int, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, hour, minute, second, 0, loc).UTC()
}

// DayWindow returns the half-open UTC interval [local midnight, next local
// midnight) covering every instant of this calendar day in loc.
func (d CivilDate) DayWindow(loc *time.Location) (time.Time, time.Time) {
	start := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)
	return start.UTC(), end.UTC()
}
