package service

import (
	"errors"
	"fmt"
)

// ErrEmptyDataset is returned by operations that need the dataset's first or
// last date when no measurement exists.
var ErrEmptyDataset = errors.New("no measurements in dataset")

// InvalidDateFormatError reports a caller-supplied date that is not YYYY-MM-DD.
type InvalidDateFormatError struct {
	Value string
}

func (e *InvalidDateFormatError) Error() string {
	return fmt.Sprintf("Invalid date '%s': expected format YYYY-MM-DD.", e.Value)
}

// DateNotFoundError reports a single-date range query with no temperature data.
type DateNotFoundError struct {
	Date string
}

func (e *DateNotFoundError) Error() string {
	return fmt.Sprintf("Sorry, the date '%s' was not found.", e.Date)
}

// DateRangeOutOfBoundsError reports a range that falls outside, or improperly
// overlaps, the dataset's coverage window [First, Last].
type DateRangeOutOfBoundsError struct {
	First string
	Last  string
}

func (e *DateRangeOutOfBoundsError) Error() string {
	return fmt.Sprintf("Please enter a date after %s and before %s.", e.First, e.Last)
}
