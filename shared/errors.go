package shared

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorKind string

const (
	KindNotFound           ErrorKind = "NOT_FOUND"
	KindInvalidArgument    ErrorKind = "INVALID_ARGUMENT"
	KindPreconditionFailed ErrorKind = "PRECONDITION_FAILED"
	KindConflict           ErrorKind = "CONFLICT"
	KindInvalidState       ErrorKind = "INVALID_STATE"
	KindUnauthorized       ErrorKind = "UNAUTHORIZED"
	KindInternal           ErrorKind = "INTERNAL"
)

// AppError is the error type services hand back to the HTTP layer.
// Message is safe to show to clients; Err is only logged.
type AppError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Data       interface{}
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newAppError(kind ErrorKind, status int, err error, message string) *AppError {
	return &AppError{
		Kind:       kind,
		StatusCode: status,
		Message:    message,
		Err:        err,
	}
}

func NewNotFoundError(err error, message string) *AppError {
	return newAppError(KindNotFound, http.StatusNotFound, err, message)
}

func NewBadRequestError(err error, message string) *AppError {
	return newAppError(KindInvalidArgument, http.StatusBadRequest, err, message)
}

func NewPreconditionFailedError(err error, message string) *AppError {
	return newAppError(KindPreconditionFailed, http.StatusBadRequest, err, message)
}

func NewConflictError(err error, message string) *AppError {
	return newAppError(KindConflict, http.StatusConflict, err, message)
}

// NewAlreadyExistsError is a Conflict answered with 400, for requests that
// would repeat a one-time action such as issuing a certificate.
func NewAlreadyExistsError(err error, message string) *AppError {
	return newAppError(KindConflict, http.StatusBadRequest, err, message)
}

// NewInvalidStateError answers 404: a course without lessons is reported to
// clients the same way as a missing course.
func NewInvalidStateError(err error, message string) *AppError {
	return newAppError(KindInvalidState, http.StatusNotFound, err, message)
}

func NewUnauthorizedError(err error, message string) *AppError {
	return newAppError(KindUnauthorized, http.StatusUnauthorized, err, message)
}

func NewInternalError(err error, message string) *AppError {
	return newAppError(KindInternal, http.StatusInternalServerError, err, message)
}

func GetAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	appErr, ok := GetAppError(err)
	return ok && appErr.Kind == kind
}
