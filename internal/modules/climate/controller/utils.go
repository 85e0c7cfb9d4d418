package controller

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"climate-server/internal/logging"
	"climate-server/internal/modules/climate/service"
	"climate-server/internal/observability"
	"climate-server/internal/utils"
)

var validate = validator.New()

const (
	outcomeOK          = "ok"
	outcomeInvalid     = "invalid"
	outcomeNotFound    = "not_found"
	outcomeOutOfBounds = "out_of_bounds"
	outcomeEmpty       = "empty"
	outcomeError       = "error"
)

// validateDate checks a path segment is a YYYY-MM-DD date, reporting failures
// as *service.InvalidDateFormatError.
func validateDate(value string) error {
	if err := validate.Var(value, "required,datetime=2006-01-02"); err != nil {
		return &service.InvalidDateFormatError{Value: value}
	}
	return nil
}

// classify maps an engine error to its HTTP status and metrics outcome.
func classify(err error) (int, string) {
	var (
		invalid  *service.InvalidDateFormatError
		notFound *service.DateNotFoundError
		oob      *service.DateRangeOutOfBoundsError
	)
	switch {
	case errors.As(err, &invalid):
		return http.StatusNotFound, outcomeInvalid
	case errors.As(err, &notFound):
		return http.StatusNotFound, outcomeNotFound
	case errors.As(err, &oob):
		return http.StatusNotFound, outcomeOutOfBounds
	case errors.Is(err, service.ErrEmptyDataset):
		return http.StatusInternalServerError, outcomeEmpty
	default:
		return http.StatusInternalServerError, outcomeError
	}
}

func writeQueryError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	status, outcome := classify(err)
	observability.RecordClimateQuery(operation, outcome)

	logger := logging.FromContext(r.Context())
	msg := err.Error()
	switch outcome {
	case outcomeError:
		logger.Error("climate query failed", "operation", operation, "error", err)
		msg = "failed to query climate data"
	case outcomeEmpty:
		logger.Error("climate query on empty dataset", "operation", operation)
	default:
		logger.Debug("climate query rejected", "operation", operation, "outcome", outcome, "error", err)
	}
	utils.WriteError(w, status, msg)
}
