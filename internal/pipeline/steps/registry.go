// Package steps provides step definitions and dependency validation for the
// generation pipeline.
package steps

import (
	"fmt"
)

// Step names
const (
	PrepareWorkspace = "prepare_workspace"
	FindSource       = "find_source"
	Compile          = "compile"
	CleanupArtifacts = "cleanup_artifacts"
	Assemble         = "assemble"
)

// Step categories
const (
	CategoryWorkspace   = "workspace"
	CategoryTypesetting = "typesetting"
	CategoryPacket      = "packet"
)

// StepDefinition defines metadata for a pipeline step
type StepDefinition struct {
	Name         string
	Category     string
	Dependencies []string
}

// StepRegistry holds all step definitions
var StepRegistry = map[string]StepDefinition{
	PrepareWorkspace: {
		Name:         PrepareWorkspace,
		Category:     CategoryWorkspace,
		Dependencies: []string{},
	},
	FindSource: {
		Name:         FindSource,
		Category:     CategoryWorkspace,
		Dependencies: []string{PrepareWorkspace},
	},
	Compile: {
		Name:         Compile,
		Category:     CategoryTypesetting,
		Dependencies: []string{FindSource},
	},
	CleanupArtifacts: {
		Name:         CleanupArtifacts,
		Category:     CategoryTypesetting,
		Dependencies: []string{Compile},
	},
	Assemble: {
		Name:         Assemble,
		Category:     CategoryPacket,
		Dependencies: []string{Compile},
	},
}

// Sequence is the order a generation run executes its steps in
var Sequence = []string{PrepareWorkspace, FindSource, Compile, CleanupArtifacts, Assemble}

// DependencyError represents a dependency validation error
type DependencyError struct {
	Step                string
	MissingDependencies []string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("missing dependencies: %v", e.MissingDependencies)
}

// ValidateDependencies checks if all required dependencies for a step are completed
func ValidateDependencies(completed map[string]bool, stepName string) error {
	def, ok := StepRegistry[stepName]
	if !ok {
		return fmt.Errorf("unknown step: %s", stepName)
	}

	var missing []string
	for _, dep := range def.Dependencies {
		if !completed[dep] {
			missing = append(missing, dep)
		}
	}

	if len(missing) > 0 {
		return &DependencyError{
			Step:                stepName,
			MissingDependencies: missing,
		}
	}
	return nil
}

// Category returns the category of a step, or "" for an unknown step
func Category(stepName string) string {
	return StepRegistry[stepName].Category
}
