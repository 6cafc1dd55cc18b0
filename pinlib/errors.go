package pinlib

import (
	"encoding/json"
	"errors"
	"net/http"
)

var (
	ErrPinmapShutdown = errors.New("pinmap instance was shutdown")
	ErrEmptyStore     = errors.New("point store is empty")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnknownSession = errors.New("unknown session")

	ErrIPLookupFailed    = errors.New("ip lookup failed")
	ErrPlaceNotFound     = errors.New("place not found")
	ErrOutOfRange        = errors.New("coordinates are out of range")
	ErrNetworkTimeout    = errors.New("network timeout")
	ErrMalformedResponse = errors.New("malformed response")
)

// ResolutionError is returned by Resolver if it cannot produce a
// LocatedPoint. Kind is one of ErrIPLookupFailed, ErrPlaceNotFound or
// ErrOutOfRange. Cause is optional and can itself be ErrNetworkTimeout
// or ErrMalformedResponse, so both errors.Is(err, ErrPlaceNotFound) and
// errors.Is(err, ErrNetworkTimeout) can be true.
type ResolutionError struct {
	Kind    error
	Message string
	Cause   error
}

func (r *ResolutionError) Error() string {
	rv := r.Kind.Error()

	if r.Message != "" {
		rv += ": " + r.Message
	}

	if r.Cause != nil {
		rv += ": " + r.Cause.Error()
	}

	return rv
}

func (r *ResolutionError) Is(target error) bool {
	return r.Kind == target
}

func (r *ResolutionError) Unwrap() error {
	return r.Cause
}

// StatusCode maps resolution failure to the HTTP status of API
// response.
func (r *ResolutionError) StatusCode() int {
	switch {
	case errors.Is(r.Cause, ErrNetworkTimeout):
		return http.StatusGatewayTimeout
	case r.Kind == ErrOutOfRange:
		return http.StatusBadRequest
	case r.Kind == ErrPlaceNotFound:
		return http.StatusNotFound
	}

	return http.StatusBadGateway
}

func newResolutionError(kind error, message string, cause error) *ResolutionError {
	return &ResolutionError{
		Kind:    kind,
		Message: message,
		Cause:   cause,
	}
}

type jsonHTTPError struct {
	Error struct {
		Message string `json:"message"`
		Context string `json:"context"`
	} `json:"error"`
}

type httpError struct {
	message    string
	err        error
	statusCode int
}

func (h *httpError) Message() string {
	if h == nil {
		return ""
	}

	return h.message
}

func (h *httpError) Err() string {
	if err := errors.Unwrap(h); err != nil {
		return err.Error()
	}

	return ""
}

func (h *httpError) StatusCode() int {
	if h != nil && h.statusCode != 0 {
		return h.statusCode
	}

	var resErr *ResolutionError

	switch {
	case h == nil:
	case errors.As(h.err, &resErr):
		return resErr.StatusCode()
	case errors.Is(h.err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(h.err, ErrPinmapShutdown):
		return http.StatusServiceUnavailable
	}

	return http.StatusInternalServerError
}

func (h *httpError) Unwrap() error {
	if h == nil {
		return nil
	}

	return h.err
}

func (h *httpError) Error() string {
	switch {
	case h == nil:
		return ""
	case h.err != nil && h.message != "":
		return h.message + ": " + h.err.Error()
	case h.err != nil:
		return h.err.Error()
	}

	return h.message
}

func (h *httpError) MarshalJSON() ([]byte, error) {
	value := jsonHTTPError{}
	value.Error.Message = h.Message()
	value.Error.Context = h.Err()

	return json.Marshal(&value)
}
