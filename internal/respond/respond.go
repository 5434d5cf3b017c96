// internal/respond/respond.go
//
// JSON response helpers shared by components and middleware.
//
// Context
// -------
// Every handler ends in JSON or Error.  Error maps *apperr.Error to its
// HTTP status and writes the error body as-is; any other error is logged
// with the request id and answered with an opaque 500 so driver messages
// never reach clients.
package respond

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/yanizio/triomap/internal/apperr"
)

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Debug("response encode", zap.Error(err))
	}
}

// OK writes {"ok": true}.
func OK(w http.ResponseWriter) {
	JSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// StatusOf maps an apperr status class to an HTTP code.
func StatusOf(e *apperr.Error) int {
	switch e.Status {
	case apperr.StatusNotFound:
		return http.StatusNotFound
	case apperr.StatusUnauthorized:
		return http.StatusUnauthorized
	case apperr.StatusForbidden:
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}

// Error writes err as a JSON error body.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	if ae, ok := apperr.As(err); ok {
		JSON(w, StatusOf(ae), ae)
		return
	}
	zap.L().Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Error(err),
	)
	JSON(w, http.StatusInternalServerError, &apperr.Error{
		Status:  "INTERNAL",
		Code:    "INTERNAL_ERROR",
		Message: "Internal server error",
	})
}
