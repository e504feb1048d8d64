package validation

import (
	"fmt"
	"net"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
)

// ── Types ────────────────────────────────────────────────────────────────────

// Errors collects failed rules per field.
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
func (e *Errors) Has() bool { return len(e.Bag) > 0 }

// First returns the first error for a field.
func (e *Errors) First(field string) string {
	if msgs, ok := e.Bag[field]; ok && len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Fields returns the failed fields in sorted order.
func (e *Errors) Fields() []string {
	fields := lo.Keys(e.Bag)
	sort.Strings(fields)
	return fields
}

// Error implements error, listing every message field by field.
func (e *Errors) Error() string {
	messages := lo.FlatMap(e.Fields(), func(field string, _ int) []string {
		return e.Bag[field]
	})
	return "validation failed: " + strings.Join(messages, " ")
}

// ── Validator ────────────────────────────────────────────────────────────────

// Rules is a map of field → pipe-separated rule string.
// e.g. Rules{"env": "required|in:local,production,testing", "addr": "required|hostport"}
type Rules map[string]string

// Validator validates a flat map of input values.
type Validator struct {
	data   map[string]string
	rules  Rules
	errors *Errors
	ran    bool
}

// Make creates a new Validator.
func Make(data map[string]string, rules Rules) *Validator {
	return &Validator{
		data:   data,
		rules:  rules,
		errors: &Errors{},
	}
}

// Validate is a shorthand returning the error bag as an error, or nil.
func Validate(data map[string]string, rules Rules) error {
	v := Make(data, rules)
	if v.Fails() {
		return v.Errors()
	}
	return nil
}

// Fails runs validation and returns true if any rule fails.
func (v *Validator) Fails() bool {
	if !v.ran {
		v.validate()
		v.ran = true
	}
	return v.errors.Has()
}

// Passes runs validation and returns true if all rules pass.
func (v *Validator) Passes() bool { return !v.Fails() }

// Errors returns the validation error bag.
func (v *Validator) Errors() *Errors { return v.errors }

// ── Core validation loop ─────────────────────────────────────────────────────

func (v *Validator) validate() {
	fields := lo.Keys(v.rules)
	sort.Strings(fields)

	for _, field := range fields {
		value := v.data[field]

		for _, rule := range strings.Split(v.rules[field], "|") {
			rule = strings.TrimSpace(rule)
			if rule == "" {
				continue
			}

			// min:3 → name=min, param=3
			name, param, _ := strings.Cut(rule, ":")

			if !v.applyRule(field, value, name, param) {
				break
			}
		}
	}
}

// applyRule returns false when the field needs no further checks.
func (v *Validator) applyRule(field, value, rule, param string) bool {
	switch rule {
	case "required":
		if strings.TrimSpace(value) == "" {
			v.errors.add(field, fmt.Sprintf("The %s field is required.", field))
			return false
		}

	case "sometimes":
		// Remaining rules only apply to present values.
		if value == "" {
			return false
		}

	case "boolean":
		if _, err := strconv.ParseBool(value); err != nil {
			v.errors.add(field, fmt.Sprintf("The %s field must be true or false.", field))
			return false
		}

	case "min":
		n, _ := strconv.Atoi(param)
		if utf8.RuneCountInString(value) < n {
			v.errors.add(field, fmt.Sprintf("The %s must be at least %d characters.", field, n))
			return false
		}

	case "max":
		n, _ := strconv.Atoi(param)
		if utf8.RuneCountInString(value) > n {
			v.errors.add(field, fmt.Sprintf("The %s may not be greater than %d characters.", field, n))
			return false
		}

	case "in":
		allowed := lo.Map(strings.Split(param, ","), func(a string, _ int) string { return strings.TrimSpace(a) })
		if !lo.Contains(allowed, value) {
			v.errors.add(field, fmt.Sprintf("The selected %s is invalid.", field))
			return false
		}

	case "alpha_dash":
		if !alphaDash.MatchString(value) {
			v.errors.add(field, fmt.Sprintf("The %s may only contain letters, numbers, dashes and underscores.", field))
			return false
		}

	case "regex":
		re, err := regexp.Compile(param)
		if err != nil || !re.MatchString(value) {
			v.errors.add(field, fmt.Sprintf("The %s format is invalid.", field))
			return false
		}

	case "hostport":
		if _, port, err := net.SplitHostPort(value); err != nil || port == "" {
			v.errors.add(field, fmt.Sprintf("The %s must be a host:port address.", field))
			return false
		}

	default:
		v.errors.add(field, fmt.Sprintf("Unknown rule %q for %s.", rule, field))
		return false
	}

	return true
}

var alphaDash = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
