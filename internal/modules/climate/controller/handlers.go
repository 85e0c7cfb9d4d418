package controller

import (
	"bytes"
	"net/http"

	"climate-server/internal/logging"
	"climate-server/internal/modules/climate/views"
	"climate-server/internal/observability"
	"climate-server/internal/utils"
)

const (
	opStations          = "stations"
	opPrecipitation     = "precipitation"
	opTobs              = "tobs"
	opRangeStats        = "range_stats"
	opRangeStatsBetween = "range_stats_between"
)

func (c *climateControllerImpl) handleIndex(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := views.RenderIndex(&buf, views.DefaultIndex()); err != nil {
		logging.FromContext(r.Context()).Error("index template render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render page")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(buf.Bytes()); err != nil {
		logging.FromContext(r.Context()).Error("index: write response failed", "error", err)
	}
}

func (c *climateControllerImpl) handleStations(w http.ResponseWriter, r *http.Request) {
	stations, err := c.service.ListStations(r.Context())
	if err != nil {
		writeQueryError(w, r, opStations, err)
		return
	}
	observability.RecordClimateQuery(opStations, outcomeOK)
	utils.WriteJSON(w, http.StatusOK, stations)
}

func (c *climateControllerImpl) handlePrecipitation(w http.ResponseWriter, r *http.Request) {
	values, err := c.service.DailyPrecipitation(r.Context())
	if err != nil {
		writeQueryError(w, r, opPrecipitation, err)
		return
	}
	observability.RecordClimateQuery(opPrecipitation, outcomeOK)
	utils.WriteJSON(w, http.StatusOK, values)
}

func (c *climateControllerImpl) handleTobs(w http.ResponseWriter, r *http.Request) {
	values, err := c.service.TrailingYearTemperature(r.Context())
	if err != nil {
		writeQueryError(w, r, opTobs, err)
		return
	}
	observability.RecordClimateQuery(opTobs, outcomeOK)
	utils.WriteJSON(w, http.StatusOK, values)
}

func (c *climateControllerImpl) handleRangeFrom(w http.ResponseWriter, r *http.Request) {
	start := r.PathValue("start")
	if err := validateDate(start); err != nil {
		writeQueryError(w, r, opRangeStats, err)
		return
	}

	stats, err := c.service.RangeStats(r.Context(), start)
	if err != nil {
		writeQueryError(w, r, opRangeStats, err)
		return
	}
	observability.RecordClimateQuery(opRangeStats, outcomeOK)
	utils.WriteJSON(w, http.StatusOK, stats)
}

func (c *climateControllerImpl) handleRangeBetween(w http.ResponseWriter, r *http.Request) {
	start, end := r.PathValue("start"), r.PathValue("end")
	for _, d := range []string{start, end} {
		if err := validateDate(d); err != nil {
			writeQueryError(w, r, opRangeStatsBetween, err)
			return
		}
	}

	stats, err := c.service.RangeStatsBetween(r.Context(), start, end)
	if err != nil {
		writeQueryError(w, r, opRangeStatsBetween, err)
		return
	}
	observability.RecordClimateQuery(opRangeStatsBetween, outcomeOK)
	utils.WriteJSON(w, http.StatusOK, stats)
}
