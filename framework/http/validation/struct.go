package validation

import (
	"fmt"
	"reflect"
	"strings"
)

// Struct builds a Validator from the exported fields of v (a struct or a
// pointer to one) that carry a `rules` tag. Fields are named by their json
// tag when present.
//
//	type ProductPayload struct {
//	    Name  string  `json:"name"  rules:"required|min:2"`
//	    Price float64 `json:"price" rules:"required|numeric|gte:0"`
//	}
//
//	if v := validation.Struct(&p); v.Fails() { ... }
func Struct(v any) *Validator {
	data := map[string]string{}
	rules := Rules{}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return Make(data, rules)
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return Make(data, rules)
	}

	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		tag, ok := f.Tag.Lookup("rules")
		if !ok || !f.IsExported() {
			continue
		}
		name := fieldName(f)
		rules[name] = tag
		data[name] = text(rv.Field(i))
	}
	return Make(data, rules)
}

func fieldName(f reflect.StructField) string {
	if tag := f.Tag.Get("json"); tag != "" {
		if name, _, _ := strings.Cut(tag, ","); name != "" && name != "-" {
			return name
		}
	}
	return f.Name
}

// text renders a field the way it would arrive in a form: nil pointers and
// interfaces are empty.
func text(v reflect.Value) string {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}
	if v.Kind() == reflect.String {
		return v.String()
	}
	return fmt.Sprint(v.Interface())
}
