// Package pdf concatenates and inspects PDF documents.
package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jonathan/easel/internal/fsutil"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"go.uber.org/zap"
)

// Combiner writes every page of first followed by every page of second to
// outputPath and returns outputPath.
type Combiner interface {
	Combine(ctx context.Context, first, second, outputPath string) (string, error)
}

var disableConfigDir sync.Once

// PageCombiner is the pdfcpu-backed Combiner
type PageCombiner struct {
	logger *zap.Logger
	conf   *model.Configuration
}

// NewCombiner creates a PageCombiner. A nil logger disables logging.
func NewCombiner(logger *zap.Logger) *PageCombiner {
	if logger == nil {
		logger = zap.NewNop()
	}
	disableConfigDir.Do(api.DisableConfigDir)

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	// plain xref tables keep the output readable by CountPages
	conf.WriteObjectStream = false
	conf.WriteXRefStream = false

	return &PageCombiner{logger: logger.Named("pdf"), conf: conf}
}

// Combine concatenates first and second into a freshly created outputPath.
// Inputs are never modified; a partially written output is removed on failure.
func (c *PageCombiner) Combine(ctx context.Context, first, second, outputPath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	for _, in := range []string{first, second} {
		if err := checkReadable(in); err != nil {
			return "", err
		}
	}

	if src, ok := nonEmptySource(first, second); ok {
		if err := fsutil.CopyFile(src, outputPath); err != nil {
			_ = os.Remove(outputPath)
			return "", err
		}
		c.logger.Debug("combined with an empty document",
			zap.String("first", filepath.Base(first)),
			zap.String("second", filepath.Base(second)),
			zap.String("output", outputPath),
		)
		return outputPath, nil
	}

	if err := api.MergeCreateFile([]string{first, second}, outputPath, false, c.conf); err != nil {
		_ = os.Remove(outputPath)
		return "", &fsutil.IOError{Op: "combine", Path: outputPath, Cause: err}
	}

	c.logger.Debug("combined documents",
		zap.String("first", filepath.Base(first)),
		zap.String("second", filepath.Base(second)),
		zap.String("output", outputPath),
	)
	return outputPath, nil
}

// nonEmptySource reports whether one of the inputs has no pages, and if so
// which input alone makes up the result. When both are empty the first one,
// itself a valid empty document, is the result. Unreadable inputs are left
// for the merge to reject.
func nonEmptySource(first, second string) (string, bool) {
	firstPages, err := CountPages(first)
	if err != nil {
		return "", false
	}
	secondPages, err := CountPages(second)
	if err != nil {
		return "", false
	}

	switch {
	case firstPages == 0 && secondPages > 0:
		return second, true
	case secondPages == 0:
		return first, true
	}
	return "", false
}

func checkReadable(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return &fsutil.IOError{Op: "open", Path: path, Cause: err}
	}
	return f.Close()
}

// CombineAll concatenates inputs in order into outputPath by chaining
// pairwise combines. Intermediate results live in a private temporary
// directory that is removed on every exit path.
func CombineAll(ctx context.Context, c Combiner, inputs []string, outputPath string) (err error) {
	switch len(inputs) {
	case 0:
		return fmt.Errorf("combine: no input documents")
	case 1:
		return fsutil.CopyFile(inputs[0], outputPath)
	case 2:
		_, err = c.Combine(ctx, inputs[0], inputs[1], outputPath)
		return err
	}

	tmpDir, err := os.MkdirTemp("", "easel-combine-*")
	if err != nil {
		return &fsutil.IOError{Op: "mkdir temp", Path: os.TempDir(), Cause: err}
	}
	defer func() {
		if rmErr := os.RemoveAll(tmpDir); rmErr != nil && err == nil {
			err = &fsutil.IOError{Op: "remove temp", Path: tmpDir, Cause: rmErr}
		}
	}()

	current := inputs[0]
	for i, next := range inputs[1:] {
		target := outputPath
		if i < len(inputs)-2 {
			target = filepath.Join(tmpDir, fmt.Sprintf("step-%d.pdf", i+1))
		}
		if current, err = c.Combine(ctx, current, next, target); err != nil {
			return err
		}
	}
	return nil
}
