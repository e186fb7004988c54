// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, transport errors, etc.).
package apierror

import "errors"

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// Validation wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}

// Kind classifies a failure so handlers can pick the HTTP status.
type Kind string

const (
	// KindValidacion: input rejected locally, nothing was sent to the backend.
	KindValidacion Kind = "VALIDACION"
	// KindRechazo: the backend refused the operation; Msg is its message verbatim.
	KindRechazo      Kind = "RECHAZO"
	KindNoEncontrado Kind = "NO_ENCONTRADO"
	KindNoAutorizado Kind = "NO_AUTORIZADO"
	// KindTransitorio: transport failure, 5xx or open circuit. The operator may retry.
	KindTransitorio Kind = "TRANSITORIO"
)

// Error carries a Kind alongside the message shown to the operator.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Msg == "" {
		return e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Validacion wraps a local validation failure, keeping err reachable for errors.Is.
func Validacion(err error) *Error {
	return &Error{Kind: KindValidacion, Msg: err.Error(), Err: err}
}

func Rechazo(msg string) *Error {
	return &Error{Kind: KindRechazo, Msg: msg}
}

func NoEncontrado(msg string) *Error {
	return &Error{Kind: KindNoEncontrado, Msg: msg}
}

func NoAutorizado(msg string) *Error {
	return &Error{Kind: KindNoAutorizado, Msg: msg}
}

func Transitorio(err error) *Error {
	return &Error{Kind: KindTransitorio, Msg: "Servicio no disponible, intente nuevamente", Err: err}
}

// KindOf returns the Kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
