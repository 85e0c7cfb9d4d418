package controller

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"climate-server/internal/modules/climate/service"
)

func Test_validateDate(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{in: "2017-08-23"},
		{in: "2016-02-29"},
		{in: "", wantErr: true},
		{in: "2017-8-23", wantErr: true},
		{in: "2017-02-30", wantErr: true},
		{in: "23-08-2017", wantErr: true},
		{in: "stations", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			err := validateDate(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateDate(%q) = %v; wantErr %v", tt.in, err, tt.wantErr)
			}
			var invalid *service.InvalidDateFormatError
			if err != nil && (!errors.As(err, &invalid) || invalid.Value != tt.in) {
				t.Errorf("validateDate(%q) = %#v; want *InvalidDateFormatError", tt.in, err)
			}
		})
	}
}

func Test_classify(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantOutcome string
	}{
		{"invalid", &service.InvalidDateFormatError{Value: "x"}, http.StatusNotFound, outcomeInvalid},
		{"not found", &service.DateNotFoundError{Date: "2030-01-01"}, http.StatusNotFound, outcomeNotFound},
		{"out of bounds", &service.DateRangeOutOfBoundsError{}, http.StatusNotFound, outcomeOutOfBounds},
		{"wrapped out of bounds", fmt.Errorf("query: %w", &service.DateRangeOutOfBoundsError{}), http.StatusNotFound, outcomeOutOfBounds},
		{"empty", service.ErrEmptyDataset, http.StatusInternalServerError, outcomeEmpty},
		{"data source", errors.New("database is locked"), http.StatusInternalServerError, outcomeError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, outcome := classify(tt.err)
			if status != tt.wantStatus || outcome != tt.wantOutcome {
				t.Errorf("classify() = %d, %q; want %d, %q", status, outcome, tt.wantStatus, tt.wantOutcome)
			}
		})
	}
}
