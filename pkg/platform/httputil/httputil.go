// Package httputil holds the JSON response helpers shared by every HTTP
// handler.
package httputil

import (
	"encoding/json"
	"net/http"

	pkgerrors "partnerdesk/pkg/errors"
)

// WriteJSON encodes v as the response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ErrorBody is the wire shape of every error response.
type ErrorBody struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// WriteError maps a coded error onto its HTTP status. Internal errors omit
// the description so storage details never reach clients.
func WriteError(w http.ResponseWriter, err error) {
	code := pkgerrors.CodeOf(err)
	body := ErrorBody{Error: string(code)}
	if code != pkgerrors.CodeInternal {
		if e := pkgerrors.AsError(err); e != nil {
			body.ErrorDescription = e.Message
		}
	}
	WriteJSON(w, pkgerrors.ToHTTPStatus(code), body)
}

// Decode reads the request body into T, reporting a bad_request on malformed
// JSON. The boolean is false when the error response has already been
// written.
func Decode[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var v T
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		WriteError(w, pkgerrors.Wrap(err, pkgerrors.CodeBadRequest, "malformed request body"))
		var zero T
		return zero, false
	}
	return v, true
}
