// Package types provides type definitions for the data a generation run works on.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/easel/internal/naming"
)

// TestPosition marks a trial run whose output name ignores company and applicant
const TestPosition = "TEST"

// testNameLayout formats the timestamp of a trial run output name
const testNameLayout = "2006-01-02-1504"

// ApplicationData identifies who is applying where, for which position.
type ApplicationData struct {
	FullName string `json:"full_name,omitempty" yaml:"full_name,omitempty"`
	Company  string `json:"company" yaml:"company" validate:"required"`
	Position string `json:"position" yaml:"position" validate:"required"`
}

// Validate validates the ApplicationData using the validator.
func (a *ApplicationData) Validate() error {
	validate := validator.New()
	return validate.Struct(a)
}

// IsTest reports whether the position requests a trial run.
func (a ApplicationData) IsTest() bool {
	return strings.EqualFold(strings.TrimSpace(a.Position), TestPosition)
}

// OutputBaseName returns the variant file name prefix
// "{FullName} - {Company} - {Position}" with '/', '\' and ';' removed.
// The name segment is omitted when FullName is empty. A TEST position yields
// "TEST-yyyy-MM-dd-HHmm" instead.
func (a ApplicationData) OutputBaseName(now time.Time) string {
	if a.IsTest() {
		return TestPosition + "-" + now.Format(testNameLayout)
	}

	parts := make([]string, 0, 3)
	if name := strings.TrimSpace(a.FullName); name != "" {
		parts = append(parts, name)
	}
	parts = append(parts, strings.TrimSpace(a.Company), strings.TrimSpace(a.Position))
	return naming.StripBaseName(strings.Join(parts, " - "))
}
