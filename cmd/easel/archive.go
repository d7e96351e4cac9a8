package main

import (
	"fmt"
	"path/filepath"

	"github.com/jonathan/easel/internal/archive"
	"github.com/spf13/cobra"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Move earlier days' run directories into the archive",
	Long: `Copies the primary document of every run directory created before today into the
flat archive directory under a date, company and position name, then removes the run
directory. Directories whose names do not start with a valid timestamp are left alone.`,
	Args: cobra.NoArgs,
	RunE: runArchive,
}

var archiveDryRun bool

func init() {
	archiveCmd.Flags().BoolVar(&archiveDryRun, "dry-run", false, "Report what would be archived without changing anything")

	rootCmd.AddCommand(archiveCmd)
}

func runArchive(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	rt, err := loadSession(cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	if !archiveDryRun {
		rt.openLedger(ctx)
	}

	migrator := archive.NewMigrator(archive.Options{
		ApplicationsDir: rt.cfg.ApplicationsPath(),
		ArchiveDirName:  rt.cfg.ArchiveDir,
		Recorder:        rt.recorder(),
		DryRun:          archiveDryRun,
		Logger:          rt.logger,
	})

	report, err := migrator.Run(ctx)
	if err != nil {
		return fmt.Errorf("archive pass failed: %w", err)
	}

	if verbose {
		rt.printer.PrintMigration(report)
	}

	verb := "Archived"
	if report.DryRun {
		verb = "Would archive"
	}
	for _, doc := range report.Archived {
		_, _ = fmt.Fprintf(rt.out, "  %s → %s\n", doc.RunDirectory, filepath.Base(doc.Destination))
	}
	_, _ = fmt.Fprintf(rt.out, "%s %d document(s) from %d run directories\n", verb, len(report.Archived), len(report.Removed))

	if len(report.Failures) > 0 {
		for _, f := range report.Failures {
			_, _ = fmt.Fprintf(rt.out, "  ✗ %s: %s\n", f.RunDirectory, f.Message)
		}
		return fmt.Errorf("%d run directories could not be archived", len(report.Failures))
	}
	return nil
}
