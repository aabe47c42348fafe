package ranch

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	ErrInvalidField   ErrorKind = "invalid_field"
	ErrInvalidAddress ErrorKind = "invalid_address"
	ErrMissingField   ErrorKind = "missing_field"
	ErrSpec           ErrorKind = "spec"
	ErrIO             ErrorKind = "io"
	ErrSQL            ErrorKind = "sql"
	ErrNotFound       ErrorKind = "not_found"
)

type Error struct {
	Kind    ErrorKind
	Message string
	Field   string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	base := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Field != "" {
		base = fmt.Sprintf("%s (field=%s)", base, e.Field)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", base, e.Cause)
	}
	return base
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func Wrap(kind ErrorKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

func NewError(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func SpecError(msg string) *Error {
	return &Error{Kind: ErrSpec, Message: msg}
}

func InvalidFieldError(f Field, msg string) *Error {
	return &Error{Kind: ErrInvalidField, Field: f.String(), Message: msg}
}

func InvalidAddressError(f Field, msg string) *Error {
	return &Error{Kind: ErrInvalidAddress, Field: f.String(), Message: msg}
}

func MissingFieldError(f Field) *Error {
	return &Error{Kind: ErrMissingField, Field: f.String(), Message: "no value set for required field " + f.String()}
}

func NotFoundError(what string) *Error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf("not found: %s", what)}
}

func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
