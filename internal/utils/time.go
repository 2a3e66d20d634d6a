package utils

import (
	"time"

	"github.com/julianstephens/habitree/internal/constants"
)

// Clock supplies the current instant. Services take one so tests can pin
// "today".
type Clock func() time.Time

// SystemClock returns time.Now.
func SystemClock() time.Time { return time.Now() }

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// DayString formats t as a calendar date in loc.
func DayString(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(constants.DateFormat)
}

// Today and Yesterday return the calendar dates for now in loc. Yesterday is
// computed on the calendar rather than by subtracting 24h so DST shifts do
// not skip or repeat a day.
func Today(now time.Time, loc *time.Location) string {
	return DayString(now, loc)
}

func Yesterday(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	n := now.In(loc)
	y := time.Date(n.Year(), n.Month(), n.Day(), 12, 0, 0, 0, loc).AddDate(0, 0, -1)
	return y.Format(constants.DateFormat)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(day string) (time.Time, error) {
	return time.Parse(constants.DateFormat, day)
}

// ValidateDate reports whether day is a well-formed YYYY-MM-DD string.
func ValidateDate(day string) bool {
	_, err := ParseDate(day)
	return err == nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	if timezone == "" || timezone == "Local" {
		return true
	}
	_, err := time.LoadLocation(timezone)
	return err == nil
}

// DaysBetween returns the number of calendar days from a to b. Both must be
// YYYY-MM-DD strings.
func DaysBetween(a, b string) (int, error) {
	ta, err := ParseDate(a)
	if err != nil {
		return 0, err
	}
	tb, err := ParseDate(b)
	if err != nil {
		return 0, err
	}
	return int(tb.Sub(ta).Hours() / 24), nil
}
