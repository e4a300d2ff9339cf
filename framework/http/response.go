package http

import (
	"net/http"
)

// ── ResponseView ─────────────────────────────────────────────────────────────

// ResponseView is a status, extra headers and a body. Handlers and exception
// handlers return it when they need more than the route's default status.
type ResponseView struct {
	Status int
	Header http.Header
	Body   any
}

// Status builds a view with an arbitrary code.
//
//	return http.Status(http.StatusAccepted, job), nil
func Status(code int, body any) *ResponseView {
	return &ResponseView{Status: code, Body: body}
}

// OK sends 200 with body.
func OK(body any) *ResponseView { return Status(http.StatusOK, body) }

// Created sends 201 with body.
func Created(body any) *ResponseView { return Status(http.StatusCreated, body) }

// NoContent sends 204 with no body.
func NoContent() *ResponseView { return Status(http.StatusNoContent, nil) }

// BadRequest sends 400 with body.
func BadRequest(body any) *ResponseView { return Status(http.StatusBadRequest, body) }

// NotFound sends 404 with body.
func NotFound(body any) *ResponseView { return Status(http.StatusNotFound, body) }

// Conflict sends 409 with body.
func Conflict(body any) *ResponseView { return Status(http.StatusConflict, body) }

// Error sends {"message": message} with code.
//
//	return http.Error(http.StatusNotFound, "Product not found."), nil
func Error(code int, message string) *ResponseView {
	return Status(code, envelope{"message": message})
}

// WithHeader adds a response header.
func (v *ResponseView) WithHeader(key, value string) *ResponseView {
	if v.Header == nil {
		v.Header = make(http.Header)
	}
	v.Header.Add(key, value)
	return v
}

// ── Writing ──────────────────────────────────────────────────────────────────

// write sends v on w. The body is encoded before the status line goes out so
// an encoding failure can still become a 500.
func write(w http.ResponseWriter, codec Codec, v *ResponseView) {
	status := v.Status
	if status == 0 {
		status = http.StatusOK
	}

	var (
		body        []byte
		contentType string
	)
	switch b := v.Body.(type) {
	case nil:
	case string:
		body, contentType = []byte(b), "text/plain; charset=utf-8"
	case []byte:
		body, contentType = b, "application/octet-stream"
	default:
		encoded, err := codec.Serialize(b)
		if err != nil {
			encoded, _ = codec.Serialize(envelope{"message": "could not encode response: " + err.Error()})
			status = http.StatusInternalServerError
		}
		body, contentType = encoded, codec.ContentType()
	}

	h := w.Header()
	for k, vs := range v.Header {
		for _, val := range vs {
			h.Add(k, val)
		}
	}
	if body != nil && h.Get("Content-Type") == "" {
		h.Set("Content-Type", contentType)
	}
	w.WriteHeader(status)
	if body != nil && status != http.StatusNoContent {
		_, _ = w.Write(body)
	}
}

// ── Helpers ──────────────────────────────────────────────────────────────────

type envelope map[string]any
