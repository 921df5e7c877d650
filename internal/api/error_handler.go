package api

import (
	stderrors "errors"
	"net/http"

	"github.com/vytor/econgraph/internal/errors"
	"github.com/vytor/econgraph/internal/logger"
	"github.com/vytor/econgraph/internal/session"
	"github.com/vytor/econgraph/internal/status"
)

// toAppError maps domain errors onto HTTP-facing AppErrors.
func toAppError(err error) *errors.AppError {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}

	var oor *session.OutOfRangeError
	var werr *status.PersistenceWriteError
	switch {
	case stderrors.As(err, &oor):
		return errors.NewOutOfRangeError(oor)
	case stderrors.Is(err, session.ErrAnswerHidden):
		return errors.NewConflictError("flip the card to its answer before marking it")
	case stderrors.Is(err, session.ErrDeckEmpty):
		return errors.NewConflictError("the deck has no cards")
	case stderrors.Is(err, status.ErrInvalidEntry):
		return errors.NewValidationError("mastery", err.Error())
	case stderrors.As(err, &werr):
		return errors.NewPersistenceError(werr)
	default:
		return errors.NewInternalError(err)
	}
}

// handleError centralizes error handling for HTTP responses
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	appErr := toAppError(err)

	if appErr.Status >= 500 {
		log.Error("server error: %v", appErr)
	} else if appErr.Status >= 400 {
		log.Warn("client error: %v", appErr)
	} else {
		log.Debug("error: %v", appErr)
	}

	writeJSON(w, r, appErr.Status, map[string]any{
		"error": map[string]any{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	})
}
