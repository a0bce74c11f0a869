package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/fotoclick/gallerygate/internal/service"
)

type errorResponse struct {
	Code    service.ErrorCode `json:"code"`
	Message string            `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(payload)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError maps pipeline failures onto HTTP statuses. Codes and
// messages come straight from the typed error; anything untyped is a
// plain 500 with no detail leaked.
func writeError(w http.ResponseWriter, err error) {
	var accessErr *service.AccessError
	if !errors.As(err, &accessErr) {
		slog.Error("unhandled resolution error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Code:    "INTERNAL",
			Message: "something went wrong",
		})
		return
	}

	status := statusFor(accessErr.Code)
	if accessErr.Code == service.CodeRateLimited && accessErr.RetryAfter > 0 {
		seconds := int(accessErr.RetryAfter.Seconds())
		if seconds < 1 {
			seconds = 1
		}
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	writeJSON(w, status, errorResponse{Code: accessErr.Code, Message: accessErr.Message})
}

func statusFor(code service.ErrorCode) int {
	switch code {
	case service.CodeEmptyInput:
		return http.StatusBadRequest
	case service.CodeAliasNotFound, service.CodeNoSafePath:
		return http.StatusNotFound
	case service.CodeInvalidToken, service.CodeInactiveToken, service.CodeExpiredToken,
		service.CodeViewLimitExceeded, service.CodeScopeViolation:
		return http.StatusForbidden
	case service.CodeRateLimited:
		return http.StatusTooManyRequests
	case service.CodeNetworkError, service.CodeUnexpectedResponse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
