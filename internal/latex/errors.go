// Package latex prepares a template workspace and runs the typesetter on it.
package latex

import "fmt"

// CompilationError represents a typesetter failure
type CompilationError struct {
	Message   string
	LogOutput string
	ExitCode  int
	Cause     error
}

func (e *CompilationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("LaTeX compilation error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("LaTeX compilation error: %s", e.Message)
}

func (e *CompilationError) Unwrap() error {
	return e.Cause
}
