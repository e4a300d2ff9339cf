package validation

import (
	"fmt"
	"net/mail"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ── Types ────────────────────────────────────────────────────────────────────

// Errors holds validation errors keyed by field.
// JSON output: {"errors": {"field": ["msg1", "msg2"]}}
type Errors struct {
	Bag map[string][]string `json:"errors"`
}

func (e *Errors) add(field, msg string) {
	if e.Bag == nil {
		e.Bag = make(map[string][]string)
	}
	e.Bag[field] = append(e.Bag[field], msg)
}

// Has returns true if there are any errors.
func (e *Errors) Has() bool { return e != nil && len(e.Bag) > 0 }

// First returns the first error for a field.
func (e *Errors) First(field string) string {
	if msgs, ok := e.Bag[field]; ok && len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Fields returns the failing field names, sorted.
func (e *Errors) Fields() []string {
	out := make([]string, 0, len(e.Bag))
	for f := range e.Bag {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Error joins the first message of every failing field.
func (e *Errors) Error() string {
	msgs := make([]string, 0, len(e.Bag))
	for _, f := range e.Fields() {
		msgs = append(msgs, e.First(f))
	}
	return strings.Join(msgs, " ")
}

// ── Validator ────────────────────────────────────────────────────────────────

// Rules is a map of field → pipe-separated rule string.
// e.g. Rules{"email": "required|email", "age": "required|numeric|gte:18"}
type Rules map[string]string

// Validator validates a flat map of input values.
type Validator struct {
	data   map[string]string
	rules  Rules
	errors *Errors
	ran    bool
}

// Make creates a new Validator over data.
func Make(data map[string]string, rules Rules) *Validator {
	return &Validator{
		data:   data,
		rules:  rules,
		errors: &Errors{},
	}
}

// Fails runs validation and returns true if any rule fails.
func (v *Validator) Fails() bool {
	v.validate()
	return v.errors.Has()
}

// Passes runs validation and returns true if all rules pass.
func (v *Validator) Passes() bool { return !v.Fails() }

// Errors returns the validation error bag.
func (v *Validator) Errors() *Errors { return v.errors }

// ── Core validation loop ─────────────────────────────────────────────────────

func (v *Validator) validate() {
	if v.ran {
		return
	}
	v.ran = true

	fields := make([]string, 0, len(v.rules))
	for f := range v.rules {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	for _, field := range fields {
		value := v.data[field]
		for _, rule := range strings.Split(v.rules[field], "|") {
			rule = strings.TrimSpace(rule)
			if rule == "" {
				continue
			}
			name, param, _ := strings.Cut(rule, ":")

			fn, known := checks[name]
			if !known {
				continue
			}
			msg, res := fn(v, field, value, param)
			if res == pass {
				continue
			}
			if res == fail {
				v.errors.add(field, msg)
			}
			break // first failure stops the field
		}
	}
}

// ── Rules ────────────────────────────────────────────────────────────────────

type outcome int

const (
	pass outcome = iota
	fail
	skip // stop the field without an error
)

type check func(v *Validator, field, value, param string) (string, outcome)

var (
	urlPattern       = regexp.MustCompile(`^https?://`)
	alphaPattern     = regexp.MustCompile(`^[a-zA-Z]+$`)
	alphaNumPattern  = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	alphaDashPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

var checks = map[string]check{
	"required": func(_ *Validator, field, value, _ string) (string, outcome) {
		return when(strings.TrimSpace(value) != "", "The %s field is required.", field)
	},
	"string":    func(*Validator, string, string, string) (string, outcome) { return "", pass },
	"nullable":  optional,
	"sometimes": optional,
	"numeric": func(_ *Validator, field, value, _ string) (string, outcome) {
		_, err := strconv.ParseFloat(value, 64)
		return when(err == nil, "The %s must be a number.", field)
	},
	"integer": func(_ *Validator, field, value, _ string) (string, outcome) {
		_, err := strconv.Atoi(value)
		return when(err == nil, "The %s must be an integer.", field)
	},
	"boolean": func(_ *Validator, field, value, _ string) (string, outcome) {
		switch strings.ToLower(value) {
		case "true", "false", "1", "0", "yes", "no":
			return "", pass
		}
		return fmt.Sprintf("The %s field must be true or false.", field), fail
	},
	"email": func(_ *Validator, field, value, _ string) (string, outcome) {
		_, err := mail.ParseAddress(value)
		return when(err == nil, "The %s must be a valid email address.", field)
	},
	"url": func(_ *Validator, field, value, _ string) (string, outcome) {
		return when(urlPattern.MatchString(value), "The %s must be a valid URL.", field)
	},
	"min": func(_ *Validator, field, value, param string) (string, outcome) {
		n, _ := strconv.Atoi(param)
		return when(utf8.RuneCountInString(value) >= n, "The %s must be at least %d characters.", field, n)
	},
	"max": func(_ *Validator, field, value, param string) (string, outcome) {
		n, _ := strconv.Atoi(param)
		return when(utf8.RuneCountInString(value) <= n, "The %s may not be greater than %d characters.", field, n)
	},
	"size": func(_ *Validator, field, value, param string) (string, outcome) {
		n, _ := strconv.Atoi(param)
		return when(utf8.RuneCountInString(value) == n, "The %s must be %d characters.", field, n)
	},
	"between": func(_ *Validator, field, value, param string) (string, outcome) {
		lo, hi, ok := strings.Cut(param, ",")
		if !ok {
			return "", pass
		}
		min, _ := strconv.Atoi(strings.TrimSpace(lo))
		max, _ := strconv.Atoi(strings.TrimSpace(hi))
		l := utf8.RuneCountInString(value)
		return when(l >= min && l <= max, "The %s must be between %d and %d characters.", field, min, max)
	},
	"range": func(_ *Validator, field, value, param string) (string, outcome) {
		lo, hi, ok := strings.Cut(param, ",")
		if !ok {
			return "", pass
		}
		f, err := strconv.ParseFloat(value, 64)
		min, _ := strconv.ParseFloat(strings.TrimSpace(lo), 64)
		max, _ := strconv.ParseFloat(strings.TrimSpace(hi), 64)
		return when(err == nil && f >= min && f <= max, "The %s must be between %s and %s.", field, lo, hi)
	},
	"in": func(_ *Validator, field, value, param string) (string, outcome) {
		return when(inList(param, value), "The selected %s is invalid.", field)
	},
	"not_in": func(_ *Validator, field, value, param string) (string, outcome) {
		return when(!inList(param, value), "The selected %s is invalid.", field)
	},
	"confirmed": func(v *Validator, field, value, _ string) (string, outcome) {
		return when(v.data[field+"_confirmation"] == value, "The %s confirmation does not match.", field)
	},
	"same": func(v *Validator, field, value, param string) (string, outcome) {
		return when(v.data[param] == value, "The %s and %s must match.", field, param)
	},
	"different": func(v *Validator, field, value, param string) (string, outcome) {
		return when(v.data[param] != value, "The %s and %s must be different.", field, param)
	},
	"alpha": func(_ *Validator, field, value, _ string) (string, outcome) {
		return when(alphaPattern.MatchString(value), "The %s may only contain letters.", field)
	},
	"alpha_num": func(_ *Validator, field, value, _ string) (string, outcome) {
		return when(alphaNumPattern.MatchString(value), "The %s may only contain letters and numbers.", field)
	},
	"alpha_dash": func(_ *Validator, field, value, _ string) (string, outcome) {
		return when(alphaDashPattern.MatchString(value), "The %s may only contain letters, numbers, dashes and underscores.", field)
	},
	"regex": func(_ *Validator, field, value, param string) (string, outcome) {
		re, err := regexp.Compile(param)
		return when(err == nil && re.MatchString(value), "The %s format is invalid.", field)
	},
	"gt":  compare(func(f, t float64) bool { return f > t }, "greater than"),
	"gte": compare(func(f, t float64) bool { return f >= t }, "greater than or equal to"),
	"lt":  compare(func(f, t float64) bool { return f < t }, "less than"),
	"lte": compare(func(f, t float64) bool { return f <= t }, "less than or equal to"),
}

// optional stops the field silently when the value is empty.
func optional(_ *Validator, _, value, _ string) (string, outcome) {
	if value == "" {
		return "", skip
	}
	return "", pass
}

func when(ok bool, format string, args ...any) (string, outcome) {
	if ok {
		return "", pass
	}
	return fmt.Sprintf(format, args...), fail
}

func compare(ok func(f, t float64) bool, phrase string) check {
	return func(_ *Validator, field, value, param string) (string, outcome) {
		f, _ := strconv.ParseFloat(value, 64)
		t, _ := strconv.ParseFloat(param, 64)
		return when(ok(f, t), "The %s must be %s %s.", field, phrase, param)
	}
}

func inList(list, value string) bool {
	for _, a := range strings.Split(list, ",") {
		if strings.TrimSpace(a) == value {
			return true
		}
	}
	return false
}
