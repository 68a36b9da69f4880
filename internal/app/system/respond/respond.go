// internal/app/system/respond/respond.go

// Package respond writes JSON responses and maps business error kinds to
// HTTP status codes, the single place the API surface needs to know about
// either.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalemusser/teamnotes/internal/domain/faults"
	"go.uber.org/zap"
)

// JSON writes v as a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// Message writes a single-field JSON message body.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"message": msg})
}

func statusFor(kind faults.Kind) int {
	switch kind {
	case faults.KindValidation:
		return http.StatusBadRequest
	case faults.KindNotFound:
		return http.StatusNotFound
	case faults.KindAccessDenied:
		return http.StatusForbidden
	case faults.KindAlreadyMember, faults.KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// Error writes err as a JSON error response. Business errors map to their
// HTTP status with their own message; anything else is an infrastructure
// fault, logged and reported as a bare 500.
func Error(w http.ResponseWriter, logger *zap.Logger, err error) {
	var fe *faults.Error
	if errors.As(err, &fe) {
		JSON(w, statusFor(fe.Kind), map[string]string{"message": fe.Message})
		return
	}
	logger.Error("request failed", zap.Error(err))
	Message(w, http.StatusInternalServerError, "server error")
}
