package latex

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultBinary is the typesetter used when none is configured
const DefaultBinary = "pdflatex"

// Result holds the outcome of a successful compilation
type Result struct {
	PDFPath  string
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// LogOutput returns stdout followed by stderr
func (r *Result) LogOutput() string {
	return r.Stdout + r.Stderr
}

// Compiler runs the typesetter as a blocking subprocess
type Compiler struct {
	Binary  string
	Timeout time.Duration // zero means no limit beyond ctx
	Logger  *zap.Logger
}

// NewCompiler creates a Compiler for binary. An empty binary selects pdflatex.
func NewCompiler(binary string, timeout time.Duration, logger *zap.Logger) *Compiler {
	if binary == "" {
		binary = DefaultBinary
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Compiler{Binary: binary, Timeout: timeout, Logger: logger.Named("latex")}
}

// Compile typesets mainFile inside workDir and returns the produced PDF.
// A non-zero exit status is a CompilationError carrying the captured output.
func (c *Compiler) Compile(ctx context.Context, workDir, mainFile string) (*Result, error) {
	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	binary, err := exec.LookPath(c.Binary)
	if err != nil {
		return nil, &CompilationError{
			Message:  fmt.Sprintf("%s not found in PATH. Please install a LaTeX distribution (e.g., TeX Live, MiKTeX)", c.Binary),
			ExitCode: -1,
			Cause:    err,
		}
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	source := mainFile
	if !filepath.IsAbs(source) {
		source = filepath.Join(workDir, mainFile)
	}

	cmd := exec.CommandContext(ctx, binary, "-interaction=nonstopmode", "-output-directory", workDir, source)
	cmd.Dir = workDir

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug("running typesetter", zap.String("binary", binary), zap.String("source", source))
	start := time.Now()
	runErr := cmd.Run()

	result := &Result{
		PDFPath:  filepath.Join(workDir, strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))+".pdf"),
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if runErr != nil {
		result.ExitCode = -1
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			runErr = fmt.Errorf("%w: %v", ctxErr, runErr)
		}
		return nil, &CompilationError{
			Message:   fmt.Sprintf("%s exited with status %d", filepath.Base(binary), result.ExitCode),
			LogOutput: result.LogOutput(),
			ExitCode:  result.ExitCode,
			Cause:     runErr,
		}
	}

	if _, err := os.Stat(result.PDFPath); err != nil {
		return nil, &CompilationError{
			Message:   "LaTeX compilation failed: PDF was not generated",
			LogOutput: result.LogOutput(),
			Cause:     err,
		}
	}

	logger.Info("compiled document",
		zap.String("pdf", filepath.Base(result.PDFPath)),
		zap.Duration("duration", result.Duration),
	)
	return result, nil
}

var auxExtensions = []string{".aux", ".log", ".out", ".toc", ".lof", ".lot"}

// CleanupArtifacts removes the auxiliary files the typesetter leaves next to
// base (a file name with or without its .tex extension). Missing files are ignored.
func CleanupArtifacts(workDir, base string) error {
	if workDir == "" {
		return nil
	}
	base = strings.TrimSuffix(filepath.Base(base), ".tex")

	for _, ext := range auxExtensions {
		path := filepath.Join(workDir, base+ext)
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove %s: %w", filepath.Base(path), err)
		}
	}
	return nil
}
