package http

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"

	"github.com/km-arc/go-force/framework/http/validation"
	"github.com/km-arc/go-force/framework/routing"
)

// StatusCoder is implemented by errors that know their HTTP status.
type StatusCoder interface {
	StatusCode() int
}

// ── Binding errors ────────────────────────────────────────────────────────────

// ParameterConversionError is returned when a path or query value cannot be
// converted to the declared type, or a required query parameter is absent.
type ParameterConversionError struct {
	Kind   routing.ParamKind
	Name   string
	Value  string
	Type   reflect.Type
	Reason string
	Err    error
}

func (e *ParameterConversionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s parameter %q: %s", e.Kind, e.Name, e.Reason)
	}
	return fmt.Sprintf("%s parameter %q: cannot convert %q to %s", e.Kind, e.Name, e.Value, e.Type)
}

func (e *ParameterConversionError) Unwrap() error   { return e.Err }
func (e *ParameterConversionError) StatusCode() int { return http.StatusBadRequest }

// PayloadParsingError is returned when the request body is empty or cannot be
// decoded into the declared payload type.
type PayloadParsingError struct {
	Type reflect.Type
	Err  error
}

func (e *PayloadParsingError) Error() string {
	return fmt.Sprintf("invalid %s payload: %v", e.Type, e.Err)
}

func (e *PayloadParsingError) Unwrap() error   { return e.Err }
func (e *PayloadParsingError) StatusCode() int { return http.StatusBadRequest }

// PayloadTooLargeError is returned when the request body exceeds the limit.
type PayloadTooLargeError struct {
	Limit int64
}

func (e *PayloadTooLargeError) Error() string {
	return fmt.Sprintf("request body exceeds %d bytes", e.Limit)
}

func (e *PayloadTooLargeError) StatusCode() int { return http.StatusRequestEntityTooLarge }

// ValidationError carries the error bag of a payload that failed its rules.
type ValidationError struct {
	Errors *validation.Errors
}

func (e *ValidationError) Error() string   { return e.Errors.Error() }
func (e *ValidationError) StatusCode() int { return http.StatusUnprocessableEntity }

// ErrorBag exposes the per-field messages for the default error view.
func (e *ValidationError) ErrorBag() map[string][]string { return e.Errors.Bag }

// ── Invocation errors ─────────────────────────────────────────────────────────

// PanicError wraps a value recovered from a panicking handler, or from a
// pipeline stage (Stage) such as the filter chain.
type PanicError struct {
	Handler string
	Stage   string
	Value   any
}

func (e *PanicError) Error() string {
	if e.Handler == "" {
		return fmt.Sprintf("%s panicked: %v", e.Stage, e.Value)
	}
	return fmt.Sprintf("handler %s panicked: %v", e.Handler, e.Value)
}

func (e *PanicError) StatusCode() int { return http.StatusInternalServerError }

// Unwrap exposes the panic value when it was itself an error.
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

// statusOf returns the status of the first StatusCoder in err's chain, or
// fallback.
func statusOf(err error, fallback int) int {
	var sc StatusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	return fallback
}
