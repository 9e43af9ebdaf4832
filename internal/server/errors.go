// internal/server/errors.go
package server

import (
	"net/http"

	apperrors "scholarship-matcher/internal/common/errors"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"requestId,omitempty"`
}

// HTTPStatus returns the status code for an error code.
func HTTPStatus(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrCodeInvalidInput,
		apperrors.ErrCodeInvalidFilterFormat,
		apperrors.ErrCodeInvalidQueryType:
		return http.StatusBadRequest
	case apperrors.ErrCodeIndexNotFound:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage keeps details for client errors and hides them otherwise.
func errorMessage(stdErr *apperrors.StandardError, status int) string {
	if status < http.StatusInternalServerError && stdErr.Details != "" {
		return stdErr.Message + ": " + stdErr.Details
	}
	return stdErr.Message
}
