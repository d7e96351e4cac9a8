// Package pipeline provides the high-level orchestration of one generation run.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/easel/internal/archive"
	"github.com/jonathan/easel/internal/config"
	"github.com/jonathan/easel/internal/latex"
	"github.com/jonathan/easel/internal/naming"
	"github.com/jonathan/easel/internal/packet"
	"github.com/jonathan/easel/internal/pdf"
	"github.com/jonathan/easel/internal/pipeline/steps"
	"github.com/jonathan/easel/internal/types"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Message  string `json:"message"`
	RunID    string `json:"run_id,omitempty"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// Typesetter compiles the main source of a prepared workspace.
type Typesetter interface {
	Compile(ctx context.Context, workDir, mainFile string) (*latex.Result, error)
}

// Assembler turns the compiled primary document into a run directory.
type Assembler interface {
	Assemble(ctx context.Context, req packet.Request) (*packet.Result, error)
}

// Options holds configuration for one generation run
type Options struct {
	Template    string // template directory name under the templates path
	Application types.ApplicationData
	Config      config.Config

	// Optional collaborators; defaults are built from Config when nil.
	Typesetter Typesetter
	Assembler  Assembler
	Recorder   archive.Recorder

	KeepArtifacts bool
	Now           func() time.Time
	Logger        *zap.Logger
	OnProgress    ProgressCallback
}

// Outcome describes a finished generation run
type Outcome struct {
	RunID    uuid.UUID      `json:"run_id"`
	RunDir   string         `json:"run_dir"`
	BaseName string         `json:"base_name"`
	Source   string         `json:"source"`
	Compile  *latex.Result  `json:"-"`
	Packet   *packet.Result `json:"packet"`
}

// NewAssembler builds the default assembler for cfg: pdfcpu combining
// followed by a migration pass over the applications path.
func NewAssembler(cfg config.Config, recorder archive.Recorder, now func() time.Time, logger *zap.Logger) *packet.Assembler {
	migrator := archive.NewMigrator(archive.Options{
		ApplicationsDir: cfg.ApplicationsPath(),
		ArchiveDirName:  cfg.ArchiveDir,
		Now:             now,
		Recorder:        recorder,
		Logger:          logger,
	})
	return packet.NewAssembler(pdf.NewCombiner(logger), migrator, logger)
}

// emitProgress calls the progress callback if configured
func emitProgress(opts *Options, runID uuid.UUID, step, message string, content any) {
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{
			Step:     step,
			Category: steps.Category(step),
			Message:  message,
			RunID:    runID.String(),
			Content:  content,
		})
	}
}

// Generate runs one generation: prepare the workspace from the template,
// compile it, and assemble the compiled document into a new run directory.
func Generate(ctx context.Context, opts Options) (*Outcome, error) {
	if err := opts.Application.Validate(); err != nil {
		return nil, fmt.Errorf("invalid application data: %w", err)
	}
	if opts.Template == "" {
		return nil, fmt.Errorf("template name is empty")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	cfg := opts.Config
	now := opts.Now()
	outcome := &Outcome{
		RunID:    uuid.New(),
		RunDir:   filepath.Join(cfg.ApplicationsPath(), naming.EncodeRunDirName(now, opts.Application.Company)),
		BaseName: opts.Application.OutputBaseName(now),
	}
	logger := opts.Logger.Named("pipeline").With(zap.String("run_id", outcome.RunID.String()))

	typesetter := opts.Typesetter
	if typesetter == nil {
		typesetter = latex.NewCompiler(cfg.Typesetter, cfg.CompileTimeout(), logger)
	}
	assembler := opts.Assembler
	if assembler == nil {
		assembler = NewAssembler(cfg, opts.Recorder, opts.Now, logger)
	}

	workDir := cfg.WorkDir()
	templateDir := cfg.TemplateDir(opts.Template)

	run := map[string]func() (string, any, error){
		steps.PrepareWorkspace: func() (string, any, error) {
			if err := latex.PrepareWorkspace(templateDir, workDir); err != nil {
				return "", nil, err
			}
			return fmt.Sprintf("Copied template %s into %s", opts.Template, workDir), nil, nil
		},
		steps.FindSource: func() (string, any, error) {
			source, err := latex.FindMainSource(workDir)
			if err != nil {
				return "", nil, err
			}
			outcome.Source = source
			return fmt.Sprintf("Using %s", filepath.Base(source)), nil, nil
		},
		steps.Compile: func() (string, any, error) {
			result, err := typesetter.Compile(ctx, workDir, outcome.Source)
			if err != nil {
				return "", nil, err
			}
			outcome.Compile = result
			return fmt.Sprintf("Compiled %s", filepath.Base(result.PDFPath)), nil, nil
		},
		steps.CleanupArtifacts: func() (string, any, error) {
			if opts.KeepArtifacts {
				return "Kept auxiliary files", nil, nil
			}
			if err := latex.CleanupArtifacts(workDir, outcome.Source); err != nil {
				logger.Warn("failed to remove typesetter artifacts", zap.Error(err))
			}
			return "Removed auxiliary files", nil, nil
		},
		steps.Assemble: func() (string, any, error) {
			result, err := assembler.Assemble(ctx, packet.Request{
				WorkDir:     workDir,
				OutputDir:   outcome.RunDir,
				BaseName:    outcome.BaseName,
				Attachments: cfg.AttachmentSet(),
			})
			if err != nil {
				return "", nil, err
			}
			outcome.Packet = result
			return fmt.Sprintf("Assembled %d variants in %s", len(result.Variants), filepath.Base(outcome.RunDir)), result, nil
		},
	}

	completed := make(map[string]bool, len(steps.Sequence))
	for i, step := range steps.Sequence {
		if err := ctx.Err(); err != nil {
			return outcome, err
		}
		if err := steps.ValidateDependencies(completed, step); err != nil {
			return outcome, err
		}

		logger.Debug("starting step", zap.String("step", step), zap.Int("index", i+1), zap.Int("total", len(steps.Sequence)))
		message, content, err := run[step]()
		if err != nil {
			logger.Error("step failed", zap.String("step", step), zap.Error(err))
			return outcome, fmt.Errorf("%s failed: %w", step, err)
		}

		completed[step] = true
		emitProgress(&opts, outcome.RunID, step, message, content)
	}

	logger.Info("generation complete",
		zap.String("run_dir", outcome.RunDir),
		zap.String("base_name", outcome.BaseName),
	)
	return outcome, nil
}
