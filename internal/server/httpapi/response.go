package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/streamhub/authd/internal/common"
)

// apiResponse is the JSON envelope every endpoint answers with.
type apiResponse struct {
	Status  int    `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data any, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apiResponse{Status: status, Data: data, Message: message})
}

// statusForError translates the service error taxonomy into a status code and
// a client-safe message. NoSuchUser and BadCredentials deliberately share one
// message so the response does not reveal which accounts exist.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrNoSuchUser),
		errors.Is(err, common.ErrBadCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, common.ErrMissingCredential):
		return http.StatusUnauthorized, "authentication required"
	case errors.Is(err, common.ErrExpiredCredential):
		return http.StatusUnauthorized, "credential expired"
	case errors.Is(err, common.ErrStaleCredential):
		return http.StatusUnauthorized, "session superseded, please log in again"
	case errors.Is(err, common.ErrInvalidCredential):
		return http.StatusUnauthorized, "invalid credential"
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest, "invalid request"
	case errors.Is(err, common.ErrAlreadyExists):
		return http.StatusConflict, "user with same email or username already exists"
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, "not found"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func writeError(w http.ResponseWriter, err error) {
	status, msg := statusForError(err)
	writeJSON(w, status, nil, msg)
}
