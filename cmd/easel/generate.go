package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/jonathan/easel/internal/latex"
	"github.com/jonathan/easel/internal/pipeline"
	"github.com/jonathan/easel/internal/pipeline/steps"
	"github.com/jonathan/easel/internal/types"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Compile a template and assemble the application packet",
	Long: `Copies the named template into the work directory, compiles it with the configured
typesetter, and assembles the compiled document with every available attachment into
a new run directory. Run directories from earlier days are archived afterwards.`,
	RunE: runGenerate,
}

var (
	generateTemplate      string
	generateCompany       string
	generatePosition      string
	generateFullName      string
	generateKeepArtifacts bool
)

func init() {
	generateCmd.Flags().StringVarP(&generateTemplate, "template", "t", "", "Template directory name under the templates path (required)")
	generateCmd.Flags().StringVarP(&generateCompany, "company", "c", "", "Company name (required)")
	generateCmd.Flags().StringVarP(&generatePosition, "position", "p", "", "Position title; TEST produces a timestamped trial name (required)")
	generateCmd.Flags().StringVarP(&generateFullName, "full-name", "n", "", "Applicant name used in output file names (overrides config)")
	generateCmd.Flags().BoolVar(&generateKeepArtifacts, "keep-artifacts", false, "Keep typesetter auxiliary files in the work directory")

	for _, name := range []string{"template", "company", "position"} {
		if err := generateCmd.MarkFlagRequired(name); err != nil {
			panic(fmt.Sprintf("failed to mark %s flag as required: %v", name, err))
		}
	}

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	rt, err := loadSession(cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	if cmd.Flags().Changed("full-name") {
		rt.cfg.FullName = generateFullName
	}
	if err := rt.cfg.EnsureDirectories(); err != nil {
		return err
	}
	rt.openLedger(ctx)

	total := len(steps.Sequence)
	step := 0
	outcome, err := pipeline.Generate(ctx, pipeline.Options{
		Template: generateTemplate,
		Application: types.ApplicationData{
			FullName: rt.cfg.FullName,
			Company:  generateCompany,
			Position: generatePosition,
		},
		Config:        rt.cfg,
		Recorder:      rt.recorder(),
		KeepArtifacts: generateKeepArtifacts,
		Logger:        rt.logger,
		OnProgress: func(e pipeline.ProgressEvent) {
			step++
			_, _ = fmt.Fprintf(rt.out, "Step %d/%d: %s\n", step, total, e.Message)
		},
	})
	if err != nil {
		var compErr *latex.CompilationError
		if verbose && errors.As(err, &compErr) {
			rt.printer.PrintCompilationError(compErr)
		}
		return fmt.Errorf("generation failed: %w", err)
	}

	if verbose {
		rt.printer.PrintCompilation(outcome.Compile)
		rt.printer.PrintAssembly(outcome.Packet)
		rt.printer.PrintMigration(outcome.Packet.Migration)
	}

	_, _ = fmt.Fprintf(rt.out, "✓ Wrote %d variants to %s\n", len(outcome.Packet.Variants), filepath.Base(outcome.RunDir))
	return nil
}
