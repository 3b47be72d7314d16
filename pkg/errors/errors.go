package errors

import (
	"fmt"
	"net/http"
)

var (
	// Tokens
	ErrInvalidSigningMethod = fmt.Errorf("invalid token signing method")
	ErrInvalidToken         = fmt.Errorf("invalid token")
	ErrTokenExpired         = fmt.Errorf("token has expired")
	ErrTokenNotYetValid     = fmt.Errorf("token is not yet valid")
	ErrTokenIsNotAccess     = fmt.Errorf("refresh token cannot be used for access")

	// Authorization
	ErrEmptyAuthHeader    = fmt.Errorf("authorization header is missing")
	ErrInvalidAuthHeader  = fmt.Errorf("malformed authorization header")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrUnauthorized       = fmt.Errorf("unauthorized")
	ErrForbidden          = fmt.Errorf("access denied")

	// Context
	ErrEmployeeIDNotFoundInContext = fmt.Errorf("employee id not found in request context")

	// General
	ErrNotFound       = fmt.Errorf("record not found")
	ErrConflict       = fmt.Errorf("record already exists")
	ErrBadRequest     = fmt.Errorf("bad request")
	ErrInternalServer = fmt.Errorf("internal server error")
)

// HttpError carries the HTTP status and the message safe to show to the
// client; Err keeps the underlying cause for the logs only.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Context map[string]interface{}
	Details interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, ctx map[string]interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Context: ctx}
}

func NewBadRequestError(message string, err error) *HttpError {
	return NewHttpError(http.StatusBadRequest, message, err, nil)
}

func NewNotFoundError(message string) *HttpError {
	return NewHttpError(http.StatusNotFound, message, ErrNotFound, nil)
}

func NewConflictError(message string) *HttpError {
	return NewHttpError(http.StatusBadRequest, message, ErrConflict, nil)
}

func NewInternalError(message string) *HttpError {
	return NewHttpError(http.StatusInternalServerError, message, ErrInternalServer, nil)
}
