// Package validation checks flat string maps against pipe-separated rules.
//
// # Basic Usage
//
//	err := validation.Validate(map[string]string{
//	    "app.env":      "local",
//	    "inspect.addr": "127.0.0.1:8090",
//	}, validation.Rules{
//	    "app.env":      "required|in:local,production,testing",
//	    "inspect.addr": "required|hostport",
//	})
//
// The returned error is an *Errors; its Bag maps each failed field to its
// messages. Fields are checked in sorted order, and checking a field stops
// at its first failed rule.
//
// # Available Rules
//
//   - required      field must be present and non-empty
//   - sometimes     skip the remaining rules when the field is empty
//   - boolean       anything strconv.ParseBool accepts
//   - min:n, max:n  UTF-8 length bounds
//   - in:a,b,c      value is one of the list
//   - alpha_dash    letters, digits, dashes and underscores
//   - regex:pattern matches the Go regular expression
//   - hostport      host:port with a non-empty port
//
// Unknown rules fail the field.
package validation
