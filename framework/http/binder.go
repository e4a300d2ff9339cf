package http

import (
	"reflect"

	"github.com/km-arc/go-force/framework/http/validation"
	"github.com/km-arc/go-force/framework/routing"
)

// Binder produces handler arguments from a matched request.
type Binder struct {
	codec Codec
}

// NewBinder creates a Binder that parses payloads with codec.
func NewBinder(codec Codec) *Binder {
	if codec == nil {
		codec = JSONCodec{}
	}
	return &Binder{codec: codec}
}

// Bind returns one argument per declared parameter of req's route, in
// declaration order.
func (b *Binder) Bind(req *Request) ([]any, error) {
	params := req.Route().Params
	args := make([]any, len(params))
	for i, p := range params {
		v, err := b.bind(req, p)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

func (b *Binder) bind(req *Request, p routing.Param) (any, error) {
	switch p.Kind {
	case routing.PathVarParam:
		raw, ok := req.PathVar(p.Name)
		if !ok {
			return nil, &ParameterConversionError{Kind: p.Kind, Name: p.Name, Type: p.Type, Reason: "not in route template"}
		}
		return convertParam(p, raw)

	case routing.QueryParam:
		raw, ok := req.QueryValue(p.Name)
		switch {
		case ok:
		case p.HasFallback:
			raw = p.Fallback
		case p.Mandatory:
			return nil, &ParameterConversionError{Kind: p.Kind, Name: p.Name, Type: p.Type, Reason: "required"}
		default:
			return reflect.Zero(p.Type).Interface(), nil
		}
		return convertParam(p, raw)

	case routing.BodyParam:
		return b.payload(req, p)

	case routing.HeadersParam:
		return req.Headers(), nil

	case routing.RequestParam:
		return req, nil

	default:
		if p.Type == nil {
			return nil, nil
		}
		return reflect.Zero(p.Type).Interface(), nil
	}
}

func convertParam(p routing.Param, raw string) (any, error) {
	v, err := Convert(raw, p.Type)
	if err != nil {
		return nil, &ParameterConversionError{Kind: p.Kind, Name: p.Name, Value: raw, Type: p.Type, Err: err}
	}
	return v, nil
}

// payload parses the body into a new *T and runs its rules when the
// parameter is marked Validated.
func (b *Binder) payload(req *Request, p routing.Param) (any, error) {
	target := reflect.New(p.Type).Interface()
	if err := b.codec.Parse(req.Body(), target); err != nil {
		return nil, &PayloadParsingError{Type: p.Type, Err: err}
	}
	if p.Validate {
		if v := validation.Struct(target); v.Fails() {
			return nil, &ValidationError{Errors: v.Errors()}
		}
	}
	return target, nil
}
