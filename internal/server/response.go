package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/litescript/ls-nightwatch/internal/astro"
)

// Error codes returned in the envelope.
const (
	CodeBadRequest         = "bad_request"
	CodeInvalidCoordinates = "invalid_coordinates"
	CodeNotFound           = "not_found"
	CodeNoData             = "no_data"
	CodeInternal           = "internal_error"
)

// ErrorBody is the JSON error envelope.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// apiError carries an HTTP status alongside the envelope.
type apiError struct {
	status int
	body   ErrorBody
}

func (e *apiError) Error() string { return e.body.Message }

func newAPIError(status int, code, message string) *apiError {
	if code == "" {
		code = defaultCodeForStatus(status)
	}
	return &apiError{status: status, body: ErrorBody{Code: code, Message: message}}
}

func badRequest(message string) *apiError {
	return newAPIError(http.StatusBadRequest, CodeBadRequest, message)
}

func notFound(message string) *apiError {
	return newAPIError(http.StatusNotFound, CodeNotFound, message)
}

func defaultCodeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return CodeBadRequest
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusServiceUnavailable:
		return CodeNoData
	case http.StatusInternalServerError:
		return CodeInternal
	default:
		return strings.ToLower(strings.ReplaceAll(http.StatusText(status), " ", "_"))
	}
}

// toAPIError classifies err. Invalid coordinates are the caller's fault;
// anything unrecognized is a 500 that does not leak details.
func toAPIError(err error) *apiError {
	var ae *apiError
	if errors.As(err, &ae) {
		return ae
	}
	if errors.Is(err, astro.ErrInvalidCoordinates) {
		return newAPIError(http.StatusBadRequest, CodeInvalidCoordinates, err.Error())
	}
	return newAPIError(http.StatusInternalServerError, CodeInternal, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(ErrorBody{Code: CodeInternal, Message: "failed to marshal response"})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	ae := toAPIError(err)
	if ae.status >= http.StatusInternalServerError {
		s.log.Error("request failed", "path", r.URL.Path, "request_id", requestID(r.Context()), "error", err)
	}
	writeJSON(w, ae.status, ae.body)
}
