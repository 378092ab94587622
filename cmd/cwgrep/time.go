package main

import (
	"fmt"
	"strings"
	"time"
)

// parseTimeArg parses a time string in one of three formats:
// - RFC3339: "2024-01-15T10:32:00Z"
// - HH:MM: "10:32" — resolved against refDate
// - Relative: "-30m" — resolved against refTime
func parseTimeArg(s string, refDate, refTime time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}

	// try RFC3339
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}

	// try HH:MM
	if len(s) == 5 && s[2] == ':' {
		t, err := time.Parse("15:04", s)
		if err == nil {
			return time.Date(
				refDate.Year(), refDate.Month(), refDate.Day(),
				t.Hour(), t.Minute(), 0, 0, refDate.Location(),
			), nil
		}
	}

	// try relative duration (e.g. "-30m", "-2h")
	if strings.HasPrefix(s, "-") {
		d, err := time.ParseDuration(s[1:])
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid duration %q: %w", s, err)
		}
		return refTime.Add(-d), nil
	}

	return time.Time{}, fmt.Errorf("unrecognized time format: %q", s)
}

// resolveBound resolves a time bound from an explicit epoch-millisecond
// value or a human time string. The millisecond value wins when both
// are given; zero means unbounded.
func resolveBound(millis int64, str string, now time.Time) (int64, error) {
	if millis > 0 {
		return millis, nil
	}
	if str == "" {
		return 0, nil
	}
	t, err := parseTimeArg(str, now, now)
	if err != nil {
		return 0, err
	}
	if t.IsZero() {
		return 0, nil
	}
	return t.UnixMilli(), nil
}
