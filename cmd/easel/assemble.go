package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/jonathan/easel/internal/naming"
	"github.com/jonathan/easel/internal/packet"
	"github.com/jonathan/easel/internal/pdf"
	"github.com/jonathan/easel/internal/pipeline"
	"github.com/jonathan/easel/internal/types"
	"github.com/spf13/cobra"
)

var assembleCmd = &cobra.Command{
	Use:   "assemble",
	Short: "Assemble packet variants from an already compiled document",
	Long: `Builds the numbered variants from main.pdf (or the first PDF) in the work directory
and the configured attachments, without compiling anything. The run directory and base
name are derived from --company and --position unless --out-dir and --base-name are given.`,
	RunE: runAssemble,
}

var (
	assembleWorkDir   string
	assembleCompany   string
	assemblePosition  string
	assembleFullName  string
	assembleOutDir    string
	assembleBaseName  string
	assembleNoArchive bool
)

func init() {
	assembleCmd.Flags().StringVarP(&assembleWorkDir, "work-dir", "w", "", "Directory holding the compiled document (default: {templates}/Temporary)")
	assembleCmd.Flags().StringVarP(&assembleCompany, "company", "c", "", "Company name")
	assembleCmd.Flags().StringVarP(&assemblePosition, "position", "p", "", "Position title")
	assembleCmd.Flags().StringVarP(&assembleFullName, "full-name", "n", "", "Applicant name used in output file names (overrides config)")
	assembleCmd.Flags().StringVarP(&assembleOutDir, "out-dir", "o", "", "Output directory (default: new run directory under the applications path)")
	assembleCmd.Flags().StringVar(&assembleBaseName, "base-name", "", "Variant file name prefix (default: derived from name, company and position)")
	assembleCmd.Flags().BoolVar(&assembleNoArchive, "no-archive", false, "Skip the archive pass after assembling")

	rootCmd.AddCommand(assembleCmd)
}

func runAssemble(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	rt, err := loadSession(cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	if cmd.Flags().Changed("full-name") {
		rt.cfg.FullName = assembleFullName
	}

	now := time.Now()
	app := types.ApplicationData{FullName: rt.cfg.FullName, Company: assembleCompany, Position: assemblePosition}

	outDir := assembleOutDir
	if outDir == "" {
		if assembleCompany == "" {
			return fmt.Errorf("--company is required unless --out-dir is given")
		}
		outDir = filepath.Join(rt.cfg.ApplicationsPath(), naming.EncodeRunDirName(now, assembleCompany))
	}

	baseName := assembleBaseName
	if baseName == "" {
		if err := app.Validate(); err != nil {
			return fmt.Errorf("--company and --position are required unless --base-name is given: %w", err)
		}
		baseName = app.OutputBaseName(now)
	}

	workDir := assembleWorkDir
	if workDir == "" {
		workDir = rt.cfg.WorkDir()
	}

	var assembler *packet.Assembler
	if assembleNoArchive {
		assembler = packet.NewAssembler(pdf.NewCombiner(rt.logger), nil, rt.logger)
	} else {
		rt.openLedger(ctx)
		assembler = pipeline.NewAssembler(rt.cfg, rt.recorder(), time.Now, rt.logger)
	}

	result, err := assembler.Assemble(ctx, packet.Request{
		WorkDir:     workDir,
		OutputDir:   outDir,
		BaseName:    baseName,
		Attachments: rt.cfg.AttachmentSet(),
	})
	if err != nil {
		return fmt.Errorf("assembly failed: %w", err)
	}

	if verbose {
		rt.printer.PrintAssembly(result)
		rt.printer.PrintMigration(result.Migration)
	}

	for _, v := range result.Variants {
		_, _ = fmt.Fprintf(rt.out, "  %s\n", filepath.Base(v.Path))
	}
	_, _ = fmt.Fprintf(rt.out, "✓ Wrote %d variants to %s\n", len(result.Variants), outDir)
	return nil
}
