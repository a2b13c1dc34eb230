package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a failed request. Status is zero when no response was
// received (network failure, timeout, cancelled context).
type APIError struct {
	Status int
	Detail string
	Method string
	Path   string
	Err    error
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	}
	if e.Detail != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Detail)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Status)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func newAPIError(req *Request, status int, body []byte) *APIError {
	apiErr := &APIError{Status: status, Method: req.Method, Path: req.Path}

	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Detail) > 0 {
		// validation errors carry a list here; only plain strings are shown to people
		var detail string
		if json.Unmarshal(payload.Detail, &detail) == nil {
			apiErr.Detail = strings.TrimSpace(detail)
		}
	}
	return apiErr
}

// Kind classifies a failure for callers that must react differently to
// each class
type Kind int

const (
	KindUnknown Kind = iota
	KindTransient
	KindUnauthenticated
	KindForbidden
	KindValidation
	KindNotFound
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindTransient:
		return "transient"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// KindOf classifies err. Errors without an HTTP status are transient.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status == 0 {
		return KindTransient
	}
	switch s := apiErr.Status; {
	case s == http.StatusUnauthorized:
		return KindUnauthenticated
	case s == http.StatusForbidden:
		return KindForbidden
	case s == http.StatusNotFound:
		return KindNotFound
	case s >= 400 && s < 500:
		return KindValidation
	case s >= 500:
		return KindServer
	default:
		return KindUnknown
	}
}

// IsDenial reports whether err is an authentication or authorization
// denial
func IsDenial(err error) bool {
	k := KindOf(err)
	return k == KindUnauthenticated || k == KindForbidden
}

// StatusOf returns the HTTP status carried by err, or 0
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// Message returns the server-supplied detail for err, or fallback. Raw
// transport errors are never surfaced.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}
