package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

var (
	ErrUnavailable  = errors.New("gateway unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrBadRequest   = errors.New("bad request")
	ErrConflict     = errors.New("conflict")
)

// APIError is a non-2xx gateway response. It unwraps to the sentinel that
// matches Status, so errors.Is(err, ErrNotFound) works on it.
type APIError struct {
	Status      int
	Code        string
	Message     string
	FieldErrors map[string]string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("gateway returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("gateway returned %d", e.Status)
}

func (e *APIError) Unwrap() error {
	return sentinelFor(e.Status)
}

func sentinelFor(status int) error {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ErrBadRequest
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return ErrUnavailable
	}
	return nil
}

// parseAPIError builds an APIError from a response body. The backends emit
// {"error","message","status"} plus either "fieldErrors" or
// "validationErrors"; anything unparseable keeps only the status.
func parseAPIError(status int, body []byte) *APIError {
	e := &APIError{Status: status}
	if !gjson.ValidBytes(body) {
		return e
	}

	res := gjson.ParseBytes(body)
	e.Code = res.Get("error").String()
	e.Message = res.Get("message").String()

	fields := res.Get("fieldErrors")
	if !fields.Exists() {
		fields = res.Get("validationErrors")
	}
	if fields.IsObject() {
		e.FieldErrors = make(map[string]string)
		fields.ForEach(func(k, v gjson.Result) bool {
			e.FieldErrors[k.String()] = v.String()
			return true
		})
	}
	return e
}
