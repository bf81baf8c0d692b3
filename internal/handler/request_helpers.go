package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/IdleRealm_Go/internal/logger"
)

// ValidationErrorResponse defines the response structure for validation errors
type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// DecodeAndValidateRequest decodes a JSON request body and validates it.
// If it returns an error the response has already been written.
func DecodeAndValidateRequest(r *http.Request, w http.ResponseWriter, req interface{}, actionName string) error {
	log := logger.FromContext(r.Context())

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(req); err != nil {
		log.Warn(LogMsgDecodeFailed, "action", actionName, "error", err)
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
		return err
	}
	log.Debug(LogMsgRequestDecoded, "action", actionName)

	if err := GetValidator().ValidateStruct(req); err != nil {
		respondJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:  ErrMsgInvalidRequestSummary,
			Fields: FormatValidationError(err),
		})
		return err
	}
	return nil
}

// ownerFromURL returns the {owner} route parameter and tags the request
// logger with it. On a malformed id the response has been written.
func ownerFromURL(w http.ResponseWriter, r *http.Request) (string, *http.Request, bool) {
	owner := chi.URLParam(r, URLParamOwner)
	if !ValidOwnerID(owner) {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidOwner)
		return "", r, false
	}
	return owner, r.WithContext(logger.WithOwner(r.Context(), owner)), true
}
