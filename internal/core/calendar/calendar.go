package calendar

import (
	"errors"
	"fmt"
	"time"
)

// Period selects the bucket granularity for order history aggregation.
// The single-letter codes match the request parameter values.
type Period string

const (
	PeriodDay   Period = "D"
	PeriodWeek  Period = "W"
	PeriodMonth Period = "M"
	PeriodYear  Period = "Y"
)

var (
	// ErrInvalidRange marks a date range whose start falls after its end.
	ErrInvalidRange = errors.New("invalid date range")

	// ErrUnsupportedPeriod marks a period outside the supported set.
	ErrUnsupportedPeriod = errors.New("unsupported period")
)

// Key identifies one period instance, e.g. "2024-01" for a month bucket.
// Keys sort chronologically under plain string comparison.
type Key string

// ParsePeriod maps a request parameter to a Period.
// An empty string defaults to monthly bucketing.
func ParsePeriod(s string) (Period, error) {
	switch s {
	case "":
		return PeriodMonth, nil
	case string(PeriodDay), string(PeriodWeek), string(PeriodMonth), string(PeriodYear):
		return Period(s), nil
	default:
		return "", fmt.Errorf("%w: %q (must be D, W, M or Y)", ErrUnsupportedPeriod, s)
	}
}

// KeyFor returns the key of the period instance containing t.
// It uses the same boundary arithmetic as Sequence, so any timestamp inside
// [start, end] maps to a key present in Sequence(start, end, p).
func KeyFor(t time.Time, p Period) (Key, error) {
	switch p {
	case PeriodDay:
		return Key(t.Format("2006-01-02")), nil
	case PeriodWeek:
		year, week := t.ISOWeek()
		return Key(fmt.Sprintf("%04d-W%02d", year, week)), nil
	case PeriodMonth:
		return Key(t.Format("2006-01")), nil
	case PeriodYear:
		return Key(t.Format("2006")), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedPeriod, p)
	}
}

// Sequence returns the complete, strictly ascending key sequence for every
// period instance intersecting [start, end]. The instances containing start
// and end are always included, even when they only partially overlap the
// range.
func Sequence(start, end time.Time, p Period) ([]Key, error) {
	if start.After(end) {
		return nil, fmt.Errorf("%w: start %s is after end %s",
			ErrInvalidRange, start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	var step func(time.Time) time.Time
	switch p {
	case PeriodDay:
		step = func(t time.Time) time.Time { return t.AddDate(0, 0, 1) }
	case PeriodWeek:
		step = func(t time.Time) time.Time { return t.AddDate(0, 0, 7) }
	case PeriodMonth:
		step = func(t time.Time) time.Time { return t.AddDate(0, 1, 0) }
	case PeriodYear:
		step = func(t time.Time) time.Time { return t.AddDate(1, 0, 0) }
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedPeriod, p)
	}

	var keys []Key
	last, err := KeyFor(end, p)
	if err != nil {
		return nil, err
	}

	// Walk instance starts until the instance containing end is emitted.
	// Instance starts keep KeyFor and Sequence on identical boundaries.
	for cursor := instanceStart(start, p); ; cursor = step(cursor) {
		key, err := KeyFor(cursor, p)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
		if key == last {
			return keys, nil
		}
	}
}

// instanceStart truncates t to the first day of its period instance.
func instanceStart(t time.Time, p Period) time.Time {
	year, month, day := t.Date()
	switch p {
	case PeriodWeek:
		// ISO weeks start on Monday.
		offset := (int(t.Weekday()) + 6) % 7
		return time.Date(year, month, day-offset, 0, 0, 0, 0, t.Location())
	case PeriodMonth:
		return time.Date(year, month, 1, 0, 0, 0, 0, t.Location())
	case PeriodYear:
		return time.Date(year, time.January, 1, 0, 0, 0, 0, t.Location())
	default:
		return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
	}
}
