package failure

import (
	"errors"
	"net/http"
)

// Failure is an error that carries the HTTP status it should be answered with.
// Message is shown to the caller as is.
type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

var (
	InvalidPageParam  = New(http.StatusBadRequest, "invalid page parameter")
	InvalidLimitParam = New(http.StatusBadRequest, "invalid limit parameter")
	InvalidDateParam  = New(http.StatusBadRequest, "invalid date parameter, expected YYYY-MM-DD")
	ForbiddenError    = New(http.StatusForbidden, "You don't have the required permissions")
)

func New(code int, message string) *Failure {
	return &Failure{Code: code, Message: message}
}

func (e *Failure) Error() string {
	return e.Message
}

// BadRequest wraps a validation error; a nil err stays nil.
func BadRequest(err error) error {
	if err == nil {
		return nil
	}

	return New(http.StatusBadRequest, err.Error())
}

func BadRequestFromString(msg string) error {
	return New(http.StatusBadRequest, msg)
}

func Unauthorized(msg string) error {
	return New(http.StatusUnauthorized, msg)
}

func Forbidden(msg string) error {
	return New(http.StatusForbidden, msg)
}

// NotFound takes the full message, e.g. "reservation not found".
func NotFound(msg string) error {
	return New(http.StatusNotFound, msg)
}

func Conflict(msg string) error {
	return New(http.StatusConflict, msg)
}

// BadGateway reports an upstream that rejected or failed a request. The
// upstream message is kept verbatim.
func BadGateway(msg string) error {
	return New(http.StatusBadGateway, msg)
}

// ServiceUnavailable reports a dependency that is refusing work for now, such
// as an open circuit breaker.
func ServiceUnavailable(msg string) error {
	return New(http.StatusServiceUnavailable, msg)
}

// GetCode returns the status carried by err, or 500 for anything else.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}
