package http

import (
	"bytes"
	"encoding/json"
	"errors"
)

// ErrEmptyBody is returned by a Codec asked to parse an empty body.
var ErrEmptyBody = errors.New("empty request body")

// Codec turns request bodies into values and results into response bodies.
type Codec interface {
	Parse(raw []byte, target any) error
	Serialize(v any) ([]byte, error)
	ContentType() string
}

// JSONCodec is the default Codec.
type JSONCodec struct{}

func (JSONCodec) Parse(raw []byte, target any) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return ErrEmptyBody
	}
	return json.Unmarshal(raw, target)
}

func (JSONCodec) Serialize(v any) ([]byte, error) { return json.Marshal(v) }

func (JSONCodec) ContentType() string { return "application/json" }
