package latex

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/easel/internal/fsutil"
)

// MainSourceName is the source file compiled when present
const MainSourceName = "main.tex"

// PrepareWorkspace empties workDir and fills it with a copy of templateDir.
func PrepareWorkspace(templateDir, workDir string) error {
	if !fsutil.DirExists(templateDir) {
		return &fsutil.NotFoundError{Path: templateDir, Message: "template directory"}
	}

	if sameDir(templateDir, workDir) {
		return fmt.Errorf("template directory %s is the work directory; choose another template", templateDir)
	}

	if err := os.RemoveAll(workDir); err != nil {
		return &fsutil.IOError{Op: "remove", Path: workDir, Cause: err}
	}
	if err := os.MkdirAll(workDir, 0755); err != nil {
		return &fsutil.IOError{Op: "mkdir", Path: workDir, Cause: err}
	}

	if err := fsutil.CopyDir(templateDir, workDir); err != nil {
		return fmt.Errorf("failed to copy template %s: %w", filepath.Base(templateDir), err)
	}
	return nil
}

func sameDir(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA == nil && errB == nil && absA == absB {
		return true
	}
	return fsutil.SameFile(a, b)
}

// FindMainSource returns main.tex inside workDir, or else the first .tex file.
func FindMainSource(workDir string) (string, error) {
	preferred := filepath.Join(workDir, MainSourceName)
	if fsutil.Exists(preferred) {
		return preferred, nil
	}

	sources, err := fsutil.ListFilesWithSuffix(workDir, ".tex")
	if err != nil {
		return "", &fsutil.NotFoundError{Path: workDir, Message: "LaTeX source", Cause: err}
	}
	if len(sources) == 0 {
		return "", &fsutil.NotFoundError{Path: workDir, Message: "LaTeX source"}
	}
	return filepath.Join(workDir, sources[0]), nil
}
