// Package qerror defines the caller-facing errors of the query engine.
package qerror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an engine error.
type Kind string

const (
	InvalidField      Kind = "invalid_field"
	InvalidFilterKind Kind = "invalid_filter_kind"
	InvalidPagination Kind = "invalid_pagination"
	NotFound          Kind = "not_found"
	LoadFailure       Kind = "load_failure"
	MalformedValue    Kind = "malformed_value"
)

// Error is a classified error carrying the offending field, id or value in Details.
type Error struct {
	Kind    Kind
	Message string
	Details map[string]any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatusCode maps the kind to the status the API responds with.
func (e *Error) HTTPStatusCode() int {
	switch e.Kind {
	case InvalidField, InvalidFilterKind, InvalidPagination:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case LoadFailure:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Option configures an Error.
type Option func(*Error)

// WithDetail attaches a key/value to the error details.
func WithDetail(key string, value any) Option {
	return func(e *Error) {
		if e.Details == nil {
			e.Details = make(map[string]any)
		}
		e.Details[key] = value
	}
}

// WithCause sets the wrapped error.
func WithCause(err error) Option {
	return func(e *Error) {
		e.Err = err
	}
}

// New builds an Error of the given kind.
func New(kind Kind, message string, opts ...Option) *Error {
	e := &Error{Kind: kind, Message: message}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func NewInvalidField(field string, allowed []string) *Error {
	return New(InvalidField,
		fmt.Sprintf("field %q is not allowed; allowed fields: %v", field, allowed),
		WithDetail("field", field),
		WithDetail("allowed", allowed))
}

func NewInvalidFilterKind(field, kind string, value any, reason string) *Error {
	return New(InvalidFilterKind,
		fmt.Sprintf("unsupported filter for field %q (%s): %s", field, kind, reason),
		WithDetail("field", field),
		WithDetail("kind", kind),
		WithDetail("value", value))
}

func NewInvalidPagination(param string, value int, reason string) *Error {
	return New(InvalidPagination,
		fmt.Sprintf("invalid %s %d: %s", param, value, reason),
		WithDetail("param", param),
		WithDetail("value", value))
}

func NewNotFound(id string) *Error {
	return New(NotFound,
		fmt.Sprintf("grievance %q not found", id),
		WithDetail("id", id))
}

func NewLoadFailure(source string, err error) *Error {
	return New(LoadFailure,
		fmt.Sprintf("failed to load collection from %s", source),
		WithDetail("source", source),
		WithCause(err))
}

func NewMalformedValue(key string, raw any) *Error {
	return New(MalformedValue,
		fmt.Sprintf("malformed %s value", key),
		WithDetail("key", key),
		WithDetail("value", raw))
}

// As returns the *Error in err's chain, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Is reports whether err carries an Error of the given kind.
func Is(err error, kind Kind) bool {
	e, ok := As(err)
	return ok && e.Kind == kind
}
