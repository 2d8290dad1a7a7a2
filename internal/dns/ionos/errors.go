package ionos

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// APIError is returned when the API answers with a non-success status.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	status := e.Status
	if status == "" {
		status = fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	if e.Message == "" {
		return fmt.Sprintf("ionos: HTTP %s", status)
	}
	return fmt.Sprintf("ionos: HTTP %s: %s", status, e.Message)
}

// TransportError is returned when a request could not be completed at all.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("ionos: %s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// MalformedResponseError is returned when a success response is not the
// expected JSON document. Body holds the raw response text.
type MalformedResponseError struct {
	Body string
	Err  error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("ionos: API response with non JSON: %s (%v)", e.Body, e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// apiErrorBody is one error object. Depending on the endpoint the API sends
// it bare or as the single element of an array.
type apiErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorMessage extracts the provider message from an error response body,
// falling back to the raw text.
func errorMessage(body []byte) string {
	var list []apiErrorBody
	if err := json.Unmarshal(body, &list); err == nil {
		for _, e := range list {
			if e.Message != "" {
				return e.Message
			}
		}
	}

	var single apiErrorBody
	if err := json.Unmarshal(body, &single); err == nil && single.Message != "" {
		return single.Message
	}

	return strings.TrimSpace(string(body))
}

// decodeJSON parses body into a T, returning a MalformedResponseError on failure.
func decodeJSON[T any](body []byte) (T, error) {
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return v, &MalformedResponseError{Body: string(body), Err: err}
	}
	return v, nil
}
