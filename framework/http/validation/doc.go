// Package validation checks request payloads against pipe-separated rule
// strings.
//
// # Basic Usage
//
// Rules are declared on payload structs with a `rules` tag; the field is
// reported under its json name:
//
//	type ProductPayload struct {
//	    Name  string  `json:"name"  rules:"required|min:2|max:100"`
//	    Price float64 `json:"price" rules:"required|range:0.01,100000"`
//	}
//
//	if v := validation.Struct(&payload); v.Fails() {
//	    return v.Errors() // {"errors": {"name": ["The name field is required."]}}
//	}
//
// Flat maps work the same way through Make:
//
//	v := validation.Make(map[string]string{"email": "x"}, validation.Rules{"email": "required|email"})
//
// Fields are checked in name order and each field stops at its first failing
// rule, so every field reports at most one message.
//
// # Available Rules
//
// String rules:
//   - required: present and not blank
//   - min:n, max:n, size:n, between:lo,hi: length in UTF-8 characters
//   - alpha, alpha_num, alpha_dash
//   - regex:pattern
//
// Format rules:
//   - email: RFC 5322 address
//   - url: http:// or https:// prefix
//
// Numeric rules:
//   - numeric, integer
//   - gt:n, gte:n, lt:n, lte:n
//   - range:lo,hi (inclusive, numeric)
//
// Comparison rules:
//   - confirmed: field_confirmation must match
//   - same:other, different:other
//   - in:a,b,c, not_in:a,b,c
//   - boolean: true/false/1/0/yes/no
//
// Control rules:
//   - nullable, sometimes: an empty value skips the remaining rules
package validation
