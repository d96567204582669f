package handler

import (
	"errors"
	"net/http"

	"clinic-queue/pkg/apperror"
	"clinic-queue/pkg/response"
)

// writeError answers domain errors with their own message and hides anything
// else behind fallback.
func writeError(w http.ResponseWriter, err error, fallback string) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		response.InternalServerError(w, fallback)
		return
	}

	switch appErr.Code {
	case apperror.CodeValidation:
		response.BadRequest(w, appErr.Message)
	case apperror.CodeNotFound:
		response.NotFound(w, appErr.Message)
	case apperror.CodeInvalidTransition, apperror.CodeConflict:
		response.Conflict(w, appErr.Message)
	default:
		response.InternalServerError(w, fallback)
	}
}
