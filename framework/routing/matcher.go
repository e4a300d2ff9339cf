package routing

import "strings"

// segments splits a path on "/" and drops empty segments, so "/a//b/" and
// "a/b" both yield [a b].
func segments(path string) []string {
	parts := strings.Split(path, "/")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Canonical returns the template form of path: a leading slash, single
// separators and no trailing slash. The root is "/".
func Canonical(path string) string {
	return "/" + strings.Join(segments(path), "/")
}

func isVariable(seg string) bool {
	return len(seg) > 2 && seg[0] == '{' && seg[len(seg)-1] == '}'
}

func variableName(seg string) string { return seg[1 : len(seg)-1] }

// Match reports whether path fits template and returns the captured
// variables. Segment counts must be equal, literal segments must be
// byte-equal and each {name} captures exactly one segment. A query string on
// path is ignored.
//
//	Match("/users/{id}", "/users/42")       // {"id": "42"}, true
//	Match("/users/{id}", "/users/42/posts") // nil, false
func Match(template, path string) (map[string]string, bool) {
	return matchSegments(segments(template), path)
}

func matchSegments(tmpl []string, path string) (map[string]string, bool) {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	parts := segments(path)
	if len(parts) != len(tmpl) {
		return nil, false
	}

	vars := make(map[string]string)
	for i, seg := range tmpl {
		if isVariable(seg) {
			vars[variableName(seg)] = parts[i]
			continue
		}
		if seg != parts[i] {
			return nil, false
		}
	}
	return vars, true
}

// shape replaces every variable with {} so "/a/{id}" and "/a/{name}" compare
// equal.
func shape(tmpl []string) string {
	var b strings.Builder
	for _, seg := range tmpl {
		b.WriteByte('/')
		if isVariable(seg) {
			b.WriteString("{}")
		} else {
			b.WriteString(seg)
		}
	}
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}

// moreSpecific reports whether a should win over b when both match the same
// path: the first segment where one is literal and the other a variable
// decides in favour of the literal.
func moreSpecific(a, b []string) bool {
	for i := range a {
		av, bv := isVariable(a[i]), isVariable(b[i])
		if av != bv {
			return !av
		}
	}
	return false
}
