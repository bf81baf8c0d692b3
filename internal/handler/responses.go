package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/osse101/IdleRealm_Go/internal/domain"
	"github.com/osse101/IdleRealm_Go/internal/logger"
)

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// bufferPool reuses encode buffers across responses
var bufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 1024))
	},
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	buf := bufferPool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		bufferPool.Put(buf)
	}()

	// encode first so a marshal failure can still become a 500
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		logger.Error(LogMsgEncodeFailed, "error", err)
		http.Error(w, ErrMsgGenericServerError, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		logger.Error(LogMsgWriteFailed, "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// mapServiceError converts a service error into a status code and a message
// safe to show the user. Rejections carry their own message; everything
// else is reported generically.
func mapServiceError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrCharacterNotFound):
		return http.StatusNotFound, ErrMsgCharacterNotFound
	case errors.Is(err, domain.ErrCharacterExists),
		errors.Is(err, domain.ErrAlreadyBusy),
		errors.Is(err, domain.ErrNotBusy),
		errors.Is(err, domain.ErrDuplicatePayment):
		return http.StatusConflict, err.Error()
	case domain.IsValidation(err):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, ErrMsgUnavailableError
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, ErrMsgTimeoutError
	}
	return http.StatusInternalServerError, ErrMsgGenericServerError
}

// respondServiceError logs err at a level matching its class and writes the
// mapped response
func respondServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, msg := mapServiceError(err)
	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error(LogMsgServiceError, "op", op, "error", err)
	} else {
		log.Info(LogMsgRejected, "op", op, "status", status, "reason", err.Error())
	}
	respondError(w, status, msg)
}
