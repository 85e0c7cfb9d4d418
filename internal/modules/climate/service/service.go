// Package service is the climate query engine. It is stateless: every
// operation acquires its own data source handle and releases it before
// returning. Failures are returned as typed errors and never logged here.
package service

import (
	"context"
	"errors"
	"fmt"

	"climate-server/internal/modules/climate/repository"
	"climate-server/internal/modules/climate/types"
)

type Service struct {
	repository repository.ClimateRepository
}

func NewService(repository repository.ClimateRepository) *Service {
	return &Service{repository: repository}
}

// withHandle runs fn with a freshly acquired handle and closes it on every path.
func (s *Service) withHandle(ctx context.Context, fn func(repository.Handle) error) (err error) {
	h, err := s.repository.Acquire(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := h.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("release handle: %w", closeErr))
		}
	}()
	return fn(h)
}

// ListStations returns every station in source order. An empty dataset yields
// an empty, non-nil slice.
func (s *Service) ListStations(ctx context.Context) ([]types.Station, error) {
	var out []types.Station
	err := s.withHandle(ctx, func(h repository.Handle) error {
		stations, err := h.Stations(ctx)
		if err != nil {
			return fmt.Errorf("list stations: %w", err)
		}
		out = stations
		return nil
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []types.Station{}
	}
	return out, nil
}

// DailyPrecipitation averages precipitation per date across all stations.
func (s *Service) DailyPrecipitation(ctx context.Context) (types.DailyAverages, error) {
	var out types.DailyAverages
	err := s.withHandle(ctx, func(h repository.Handle) error {
		values, err := h.DailyPrecipitation(ctx)
		if err != nil {
			return fmt.Errorf("daily precipitation: %w", err)
		}
		out = toAverages(values)
		return nil
	})
	return out, err
}

// TrailingYearTemperature averages temperature per date for dates strictly
// after last_date - 365 days.
func (s *Service) TrailingYearTemperature(ctx context.Context) (types.DailyAverages, error) {
	var out types.DailyAverages
	err := s.withHandle(ctx, func(h repository.Handle) error {
		cov, found, err := h.Coverage(ctx)
		if err != nil {
			return fmt.Errorf("dataset coverage: %w", err)
		}
		if !found {
			return ErrEmptyDataset
		}
		last, err := parseStoredDate(cov.Last)
		if err != nil {
			return err
		}
		values, err := h.DailyTemperatureAfter(ctx, trailingWindowStart(last))
		if err != nil {
			return fmt.Errorf("daily temperature: %w", err)
		}
		out = toAverages(values)
		return nil
	})
	return out, err
}

// RangeStats computes temperature statistics for every date >= start. It
// returns *DateNotFoundError when no temperature reading exists in that range.
func (s *Service) RangeStats(ctx context.Context, start string) (types.TemperatureStats, error) {
	if _, err := ParseDate(start); err != nil {
		return types.TemperatureStats{}, err
	}

	var out types.TemperatureStats
	err := s.withHandle(ctx, func(h repository.Handle) error {
		stats, err := h.TemperatureStats(ctx, types.DateRange{From: start})
		if err != nil {
			return fmt.Errorf("temperature stats: %w", err)
		}
		if stats.Min == nil {
			return &DateNotFoundError{Date: start}
		}
		out = stats
		return nil
	})
	return out, err
}

// RangeStatsBetween computes temperature statistics for start <= date <= end
// after checking the range against the dataset coverage [first, last]: start
// may equal first but not last, end may equal last but not first.
//
// Errors, in the order they are checked: ErrEmptyDataset,
// *InvalidDateFormatError (start, then end), *DateRangeOutOfBoundsError.
func (s *Service) RangeStatsBetween(ctx context.Context, start, end string) (types.TemperatureStats, error) {
	var out types.TemperatureStats
	err := s.withHandle(ctx, func(h repository.Handle) error {
		cov, found, err := h.Coverage(ctx)
		if err != nil {
			return fmt.Errorf("dataset coverage: %w", err)
		}
		if !found {
			return ErrEmptyDataset
		}
		first, err := parseStoredDate(cov.First)
		if err != nil {
			return err
		}
		last, err := parseStoredDate(cov.Last)
		if err != nil {
			return err
		}

		startDate, err := ParseDate(start)
		if err != nil {
			return err
		}
		endDate, err := ParseDate(end)
		if err != nil {
			return err
		}

		if !withinCoverage(first, last, startDate, endDate) {
			return &DateRangeOutOfBoundsError{First: cov.First, Last: cov.Last}
		}

		stats, err := h.TemperatureStats(ctx, types.DateRange{From: start, To: end})
		if err != nil {
			return fmt.Errorf("temperature stats: %w", err)
		}
		out = stats
		return nil
	})
	return out, err
}

func toAverages(values []types.DailyValue) types.DailyAverages {
	out := make(types.DailyAverages, len(values))
	for _, v := range values {
		out[v.Date] = v.Value
	}
	return out
}
