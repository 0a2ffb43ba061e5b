package apierror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse is what services hand back to routes. It renders as
// {"ok": false, "code": "...", "message": "..."} with Code() as the status.
type ErrorResponse interface {
	error
	Code() int
}

type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

type SimpleError struct {
	Status  int          `json:"-"`
	OK      bool         `json:"ok"`
	Kind    string       `json:"code"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields,omitempty"`
}

func (e *SimpleError) Code() int {
	return e.Status
}

func (e *SimpleError) Error() string {
	return e.Message
}

var (
	InternalServerError     = New(http.StatusInternalServerError, "internal_error", "Something went wrong on our side")
	StorageUnavailableError = New(http.StatusInternalServerError, "storage_unavailable", "Storage is currently unavailable")
	MalformedBodyError      = New(http.StatusBadRequest, "malformed_body", "Request body could not be parsed")
	NotFoundError           = New(http.StatusNotFound, "not_found", "Resource not found")
	InvalidAuthTokenError   = New(http.StatusUnauthorized, "invalid_token", "Missing or invalid access token")
	ForbiddenError          = New(http.StatusForbidden, "forbidden", "You are not allowed to do this")
	TooManyRequestsError    = New(http.StatusTooManyRequests, "too_many_requests", "Too many requests, slow down")

	DuplicateEmailError     = New(http.StatusConflict, "duplicate_email", "This email is already registered")
	InvalidCredentialsError = New(http.StatusUnauthorized, "invalid_credentials", "Invalid email or password")
	DuplicateRecordError    = New(http.StatusConflict, "duplicate_record", "This appointment already has a medical record")
	InvalidTransitionError  = New(http.StatusConflict, "invalid_transition", "The appointment status does not allow this action")
)

func New(status int, kind, message string) *SimpleError {
	return &SimpleError{Status: status, Kind: kind, Message: message}
}

// NewSimple builds an error whose machine code is derived from the status.
func NewSimple(status int, message string) *SimpleError {
	return New(status, kindFor(status), message)
}

func NewInvalidInputError(message string) *SimpleError {
	return New(http.StatusBadRequest, "invalid_input", message)
}

func NewMissingParamError(name string) *SimpleError {
	return NewInvalidInputError(fmt.Sprintf("Missing required parameter '%s'", name))
}

func NewInvalidParamTypeError(name, expected string) *SimpleError {
	return NewInvalidInputError(fmt.Sprintf("Parameter '%s' must be of type %s", name, expected))
}

// FromValidationError turns validator failures into an invalid_input error
// listing every offending field.
func FromValidationError(err error) *SimpleError {
	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) {
		return NewInvalidInputError(err.Error())
	}

	resp := NewInvalidInputError("One or more fields are invalid")
	resp.Fields = make([]FieldError, len(valErrs))
	for i, fe := range valErrs {
		resp.Fields[i] = FieldError{
			Field: fe.Field(),
			Rule:  fe.Tag(),
			Param: fe.Param(),
		}
	}
	return resp
}

func kindFor(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "invalid_input"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusTooManyRequests:
		return "too_many_requests"
	default:
		if status >= 500 {
			return "internal_error"
		}
		return "error"
	}
}
