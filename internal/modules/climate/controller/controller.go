package controller

import (
	"context"
	"net/http"

	"climate-server/internal/modules/climate/types"
)

// ClimateService is the query engine surface the controller depends on.
type ClimateService interface {
	ListStations(ctx context.Context) ([]types.Station, error)
	DailyPrecipitation(ctx context.Context) (types.DailyAverages, error)
	TrailingYearTemperature(ctx context.Context) (types.DailyAverages, error)
	RangeStats(ctx context.Context, start string) (types.TemperatureStats, error)
	RangeStatsBetween(ctx context.Context, start, end string) (types.TemperatureStats, error)
}

type ClimateController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type climateControllerImpl struct {
	service ClimateService
}

func NewClimateController(service ClimateService) ClimateController {
	return &climateControllerImpl{service: service}
}

func (c *climateControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", c.handleIndex)
	mux.HandleFunc("GET /api/v1.0/stations", c.handleStations)
	mux.HandleFunc("GET /api/v1.0/precipitation", c.handlePrecipitation)
	mux.HandleFunc("GET /api/v1.0/tobs", c.handleTobs)
	mux.HandleFunc("GET /api/v1.0/{start}", c.handleRangeFrom)
	mux.HandleFunc("GET /api/v1.0/{start}/{end}", c.handleRangeBetween)
}
