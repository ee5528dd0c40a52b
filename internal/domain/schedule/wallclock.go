package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

var (
	ErrInvalidWallClock = errors.New("invalid wall clock time, expected HH:MM")
	ErrInvalidDate      = errors.New("invalid date, expected YYYY-MM-DD")
)

// WallClock is a local time of day with minute precision.
type WallClock struct {
	minutes int
}

// ParseWallClock accepts "HH:MM" and the "HH:MM:SS" form Postgres renders for time columns.
func ParseWallClock(s string) (WallClock, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return WallClock{}, ErrInvalidWallClock
	}

	hour, err := parseClockField(parts[0], 23)
	if err != nil {
		return WallClock{}, err
	}
	minute, err := parseClockField(parts[1], 59)
	if err != nil {
		return WallClock{}, err
	}
	if len(parts) == 3 {
		if _, err := parseClockField(parts[2], 59); err != nil {
			return WallClock{}, err
		}
	}

	return WallClock{minutes: hour*60 + minute}, nil
}

func parseClockField(s string, maxValue int) (int, error) {
	if len(s) != 2 {
		return 0, ErrInvalidWallClock
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 || v > maxValue {
		return 0, ErrInvalidWallClock
	}
	return v, nil
}

func MustWallClock(s string) WallClock {
	wc, err := ParseWallClock(s)
	if err != nil {
		panic(fmt.Sprintf("schedule: %q: %v", s, err))
	}
	return wc
}

func (w WallClock) Hour() int   { return w.minutes / 60 }
func (w WallClock) Minute() int { return w.minutes % 60 }

func (w WallClock) Before(o WallClock) bool { return w.minutes < o.minutes }

func (w WallClock) String() string {
	return fmt.Sprintf("%02d:%02d", w.Hour(), w.Minute())
}

// On anchors the wall clock to the calendar day of date in loc.
func (w WallClock) On(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, w.Hour(), w.Minute(), 0, 0, loc)
}

// ParseDate returns local midnight of a YYYY-MM-DD date.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// Combine converts a date and an "HH:MM" pair into an absolute instant.
func Combine(date, clock string, loc *time.Location) (time.Time, error) {
	day, err := ParseDate(date, loc)
	if err != nil {
		return time.Time{}, err
	}
	wc, err := ParseWallClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return wc.On(day, loc), nil
}

// DayOf returns the local calendar day containing t as [midnight, next midnight).
func DayOf(t time.Time, loc *time.Location) Interval {
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return Interval{Start: start, End: start.AddDate(0, 0, 1)}
}
