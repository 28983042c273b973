package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/vishwaksen/campus-scheduler/internal/cache"
	"github.com/vishwaksen/campus-scheduler/internal/engine"
	appErrors "github.com/vishwaksen/campus-scheduler/pkg/errors"
)

// translateEngineErr maps the engine package's sentinel errors onto the
// taxonomy pkg/response.Error expects, so a scheduling failure reaches
// the client with the right HTTP status instead of a blanket 500.
func translateEngineErr(err error) error {
	if err == nil {
		return nil
	}

	var invariantErr *engine.InternalInvariantError
	switch {
	case errors.As(err, &invariantErr):
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusInternalServerError, "scheduler produced an invalid timetable")
	case errors.Is(err, engine.ErrInput):
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, err.Error())
	case errors.Is(err, engine.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return appErrors.Wrap(err, "SCHEDULE_TIMEOUT", http.StatusGatewayTimeout, "no feasible schedule was found before the deadline")
	case errors.Is(err, engine.ErrInfeasible):
		return appErrors.Wrap(err, "SCHEDULE_INFEASIBLE", http.StatusUnprocessableEntity, "no algorithm could produce a feasible schedule")
	case errors.Is(err, cache.ErrMiss):
		return appErrors.Wrap(err, appErrors.ErrNotFound.Code, http.StatusNotFound, "proposal not found")
	default:
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusInternalServerError, "scheduling failed")
	}
}
