// Package apperr defines the error kinds shared by the gateway and the
// inventory wire surface, and their HTTP status mapping.
package apperr

import (
	"errors"
	"net/http"
)

var (
	ErrInvalidArgument = errors.New("qty must be > 0")
	ErrNotFound        = errors.New("product not found")
	ErrConflict        = errors.New("insufficient stock")
	ErrPaymentFailed   = errors.New("payment failure")
	ErrCommitFailed    = errors.New("commit failure")
	ErrOverloaded      = errors.New("server overloaded (fail-fast)")
)

// HTTPStatus maps an error kind to its wire status code. Unknown errors map
// to 500.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrPaymentFailed):
		return http.StatusBadGateway
	case errors.Is(err, ErrOverloaded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// FromStatus is the client-side inverse of HTTPStatus.
func FromStatus(code int) error {
	switch code {
	case http.StatusBadRequest:
		return ErrInvalidArgument
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	default:
		return errors.New(http.StatusText(code))
	}
}
