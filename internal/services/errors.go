package services

import (
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("not found")
	ErrUnauthenticated    = errors.New("unauthenticated")
)

var responseCodes = map[error]int{
	ErrInvalidInput:       http.StatusBadRequest,
	ErrDuplicateEmail:     http.StatusBadRequest,
	ErrInvalidCredentials: http.StatusUnauthorized,
	ErrNotFound:           http.StatusNotFound,
	ErrUnauthenticated:    http.StatusUnauthorized,
}

// codedError pairs a client-facing message with one of the sentinel kinds
// above. errors.Is matches the kind.
type codedError struct {
	kind    error
	message string
	code    int
}

func (e *codedError) Error() string {
	return e.message
}

func (e *codedError) Unwrap() error {
	return e.kind
}

// CodedError wraps kind with a human readable message.
func CodedError(kind error, message string) error {
	code, ok := responseCodes[kind]
	if !ok {
		code = http.StatusInternalServerError
	}
	return &codedError{kind: kind, message: message, code: code}
}

func invalidInput(format string, args ...interface{}) error {
	return CodedError(ErrInvalidInput, fmt.Sprintf(format, args...))
}

// StatusCode maps an error returned by a service to an HTTP status.
func StatusCode(err error) int {
	var cerr *codedError
	if errors.As(err, &cerr) {
		return cerr.code
	}
	zap.S().Errorw("non coded error passed to StatusCode", "error", err)
	return http.StatusInternalServerError
}

// Message is the text sent to the client for err. Uncoded errors are
// internal and never leak their details.
func Message(err error) string {
	var cerr *codedError
	if errors.As(err, &cerr) {
		return cerr.message
	}
	return "Internal server error"
}
