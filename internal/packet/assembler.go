package packet

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/easel/internal/archive"
	"github.com/jonathan/easel/internal/fsutil"
	"github.com/jonathan/easel/internal/naming"
	"github.com/jonathan/easel/internal/pdf"
	"go.uber.org/zap"
)

// PrimaryFileName is the compiled document preferred as the primary
const PrimaryFileName = "main.pdf"

// Migrator is run after every assembly.
type Migrator interface {
	Run(ctx context.Context) (*archive.Report, error)
}

// Request describes one assembly
type Request struct {
	WorkDir     string // directory holding the compiled primary document
	OutputDir   string // run directory receiving the variants
	BaseName    string // variant file name prefix
	Attachments AttachmentSet
}

// Result lists what an assembly produced
type Result struct {
	PrimaryPath string          `json:"primary_path"`
	Variants    []Variant       `json:"variants"`
	Migration   *archive.Report `json:"migration,omitempty"`
}

// Assembler builds output variants from a primary document
type Assembler struct {
	combiner pdf.Combiner
	migrator Migrator
	logger   *zap.Logger
}

// NewAssembler creates an Assembler. migrator may be nil to skip the
// post-assembly migration pass.
func NewAssembler(combiner pdf.Combiner, migrator Migrator, logger *zap.Logger) *Assembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assembler{combiner: combiner, migrator: migrator, logger: logger.Named("packet")}
}

// FindPrimary returns main.pdf inside workDir, or else the first PDF in
// directory listing order.
func FindPrimary(workDir string) (string, error) {
	preferred := filepath.Join(workDir, PrimaryFileName)
	if fsutil.Exists(preferred) {
		return preferred, nil
	}

	pdfs, err := fsutil.ListFilesWithSuffix(workDir, naming.PDFExt)
	if err != nil {
		return "", &fsutil.NotFoundError{Path: workDir, Message: "compiled PDF", Cause: err}
	}
	if len(pdfs) == 0 {
		return "", &fsutil.NotFoundError{Path: workDir, Message: "compiled PDF"}
	}
	return filepath.Join(workDir, pdfs[0]), nil
}

// Assemble copies the primary document as variant 0, builds every variant
// the present attachments allow, then runs the migrator. It returns the
// variant-0 path in Result.PrimaryPath.
func (a *Assembler) Assemble(ctx context.Context, req Request) (*Result, error) {
	if req.BaseName == "" {
		return nil, fmt.Errorf("assemble: output base name is empty")
	}

	primary, err := FindPrimary(req.WorkDir)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(req.OutputDir, 0755); err != nil {
		return nil, &fsutil.IOError{Op: "mkdir", Path: req.OutputDir, Cause: err}
	}

	variantPath := func(index int) string {
		return filepath.Join(req.OutputDir, naming.VariantFileName(req.BaseName, index))
	}

	result := &Result{PrimaryPath: variantPath(VariantPrimary)}
	if err := fsutil.CopyFile(primary, result.PrimaryPath); err != nil {
		return nil, fmt.Errorf("failed to copy primary document: %w", err)
	}
	result.Variants = append(result.Variants, Variant{Index: VariantPrimary, Path: result.PrimaryPath})

	present := req.Attachments.Present()
	a.logger.Debug("attachment presence",
		zap.Bool("resume", present.Resume),
		zap.Bool("transcript", present.Transcript),
		zap.Bool("recommendations", present.Recommendations),
	)

	sources := map[int][]string{
		VariantWithResume:      {result.PrimaryPath, req.Attachments.Resume},
		VariantWithReferences:  {result.PrimaryPath, req.Attachments.Resume, req.Attachments.Recommendations},
		VariantComplete:        {result.PrimaryPath, req.Attachments.Resume, req.Attachments.Recommendations, req.Attachments.Transcript},
		VariantResume:          {req.Attachments.Resume},
		VariantTranscript:      {req.Attachments.Transcript},
		VariantRecommendations: {req.Attachments.Recommendations},
	}

	for _, index := range PlanVariants(present) {
		if index == VariantPrimary {
			continue
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}

		out := variantPath(index)
		if err := pdf.CombineAll(ctx, a.combiner, sources[index], out); err != nil {
			return result, fmt.Errorf("failed to build variant %d: %w", index, err)
		}
		result.Variants = append(result.Variants, Variant{Index: index, Path: out})
	}

	a.logger.Info("assembled packet",
		zap.String("output_dir", req.OutputDir),
		zap.String("base_name", req.BaseName),
		zap.Int("variants", len(result.Variants)),
	)

	if a.migrator != nil {
		report, err := a.migrator.Run(ctx)
		if err != nil {
			a.logger.Warn("migration pass failed after assembly", zap.Error(err))
		}
		result.Migration = report
	}

	return result, nil
}
