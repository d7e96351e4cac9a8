// Package fsutil provides the file operations shared by assembly and archival.
package fsutil

import "fmt"

// NotFoundError represents a required file or directory that does not exist
type NotFoundError struct {
	Path    string
	Message string
	Cause   error
}

func (e *NotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("not found: %s: %s: %v", e.Message, e.Path, e.Cause)
	}
	return fmt.Sprintf("not found: %s: %s", e.Message, e.Path)
}

func (e *NotFoundError) Unwrap() error {
	return e.Cause
}

// IOError represents a failed copy, delete, create or read
type IOError struct {
	Op    string
	Path  string
	Cause error
}

func (e *IOError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("io error: %s %s: %v", e.Op, e.Path, e.Cause)
	}
	return fmt.Sprintf("io error: %s %s", e.Op, e.Path)
}

func (e *IOError) Unwrap() error {
	return e.Cause
}
