package service

import (
	"fmt"
	"time"
)

// DateLayout is the only accepted date form; month and day are zero padded.
const DateLayout = "2006-01-02"

// trailingWindowDays is a fixed offset, not a calendar year.
const trailingWindowDays = 365

// ParseDate parses a caller-supplied date, reporting *InvalidDateFormatError on failure.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, &InvalidDateFormatError{Value: s}
	}
	return t, nil
}

// parseStoredDate parses a date read from the data source. A malformed stored
// date is a data error, not a caller error.
func parseStoredDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("stored date %q: %w", s, err)
	}
	return t, nil
}

// trailingWindowStart returns the exclusive lower bound of the trailing year
// ending at last.
func trailingWindowStart(last time.Time) string {
	return last.AddDate(0, 0, -trailingWindowDays).Format(DateLayout)
}

// withinCoverage applies the asymmetric bounds first <= start < last and
// first < end <= last.
func withinCoverage(first, last, start, end time.Time) bool {
	startOK := !start.Before(first) && start.Before(last)
	endOK := end.After(first) && !end.After(last)
	return startOK && endOK
}
