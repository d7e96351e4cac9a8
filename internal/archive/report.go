// Package archive migrates expired run directories into the flat archive.
package archive

import "time"

// ArchivedDocument describes one variant-0 document copied into the archive
type ArchivedDocument struct {
	RunDirectory string    `json:"run_directory"`
	Source       string    `json:"source"`
	Destination  string    `json:"destination"`
	Company      string    `json:"company"`
	Position     string    `json:"position"`
	AppliedAt    time.Time `json:"applied_at"`
}

// Failure records a run directory whose processing was abandoned
type Failure struct {
	RunDirectory string `json:"run_directory"`
	Err          error  `json:"-"`
	Message      string `json:"error"`
}

// Report summarizes one migration pass
type Report struct {
	Scanned      int                `json:"scanned"`
	SkippedToday []string           `json:"skipped_today,omitempty"`
	Malformed    []string           `json:"malformed,omitempty"`
	Archived     []ArchivedDocument `json:"archived,omitempty"`
	Removed      []string           `json:"removed,omitempty"`
	Failures     []Failure          `json:"failures,omitempty"`
	DryRun       bool               `json:"dry_run,omitempty"`
}

func (r *Report) addFailure(dir string, err error) {
	r.Failures = append(r.Failures, Failure{RunDirectory: dir, Err: err, Message: err.Error()})
}
