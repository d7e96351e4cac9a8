// Package naming encodes and decodes the run directory, variant and archive
// file name conventions.
package naming

import "fmt"

// ParseError represents a directory or file name that does not follow the
// expected convention
type ParseError struct {
	Name   string
	Reason string
	Cause  error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %q: %s: %v", e.Name, e.Reason, e.Cause)
	}
	return fmt.Sprintf("parse error: %q: %s", e.Name, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
