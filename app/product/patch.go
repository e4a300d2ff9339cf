package product

import (
	"fmt"
	"net/http"
	"sort"
)

// UnknownFieldError rejects a patch naming a field that cannot be patched, or
// carrying a value of the wrong type.
type UnknownFieldError struct {
	Field  string
	Reason string
}

func (e *UnknownFieldError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("field %q: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("field %q cannot be patched", e.Field)
}

func (e *UnknownFieldError) StatusCode() int { return http.StatusBadRequest }

type setter func(p *Product, v any) error

var patchable = map[string]setter{
	"name":        text(func(p *Product, s string) { p.Name = s }),
	"description": text(func(p *Product, s string) { p.Description = s }),
	"price":       number(func(p *Product, f float64) { p.Price = f }),
}

func text(set func(*Product, string)) setter {
	return func(p *Product, v any) error {
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("expected a string, got %T", v)
		}
		set(p, s)
		return nil
	}
}

func number(set func(*Product, float64)) setter {
	return func(p *Product, v any) error {
		switch n := v.(type) {
		case float64:
			set(p, n)
		case int:
			set(p, float64(n))
		default:
			return fmt.Errorf("expected a number, got %T", v)
		}
		return nil
	}
}

// Apply returns p with the fields in patch replaced. Nothing is changed when
// any key is unknown or any value has the wrong type. Keys are checked in
// sorted order so the reported field is deterministic.
func Apply(p Product, patch map[string]any) (Product, error) {
	keys := make([]string, 0, len(patch))
	for k := range patch {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := p
	for _, k := range keys {
		set, ok := patchable[k]
		if !ok {
			return p, &UnknownFieldError{Field: k}
		}
		if err := set(&out, patch[k]); err != nil {
			return p, &UnknownFieldError{Field: k, Reason: err.Error()}
		}
	}
	return out, nil
}
