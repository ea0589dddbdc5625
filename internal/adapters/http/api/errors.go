package api

import (
	"errors"
	"fmt"
	"net/http"

	service "github.com/okian/cancha/internal/app"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest       = errors.New("bad request")
	ErrMethodNotAllowed = errors.New("method not allowed")
)

// NewKind tags a sentinel kind with the failing operation.
func NewKind(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}

// WrapKind tags err with op and kind so both stay matchable with errors.Is.
func WrapKind(op string, kind, err error) error {
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}

// Wrap prefixes err with op.
func Wrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

// statusFor maps a service error to its HTTP status and response code.
func statusFor(err error) (int, string) {
	if errors.Is(err, ErrBadRequest) {
		return http.StatusBadRequest, "bad_request"
	}
	kind := service.ErrorKind(err)
	switch kind {
	case "not_found":
		return http.StatusNotFound, kind
	case "already_evaluated":
		return http.StatusConflict, kind
	case "invalid_limit":
		return http.StatusBadRequest, kind
	case "internal":
		return http.StatusInternalServerError, "internal_error"
	}
	return http.StatusUnprocessableEntity, kind
}

// fail writes err with the status derived from its kind.
func fail(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	writeError(w, status, code, err)
}
