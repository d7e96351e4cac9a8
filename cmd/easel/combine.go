package main

import (
	"fmt"

	"github.com/jonathan/easel/internal/pdf"
	"github.com/spf13/cobra"
)

var combineCmd = &cobra.Command{
	Use:   "combine FIRST SECOND OUTPUT",
	Short: "Concatenate two PDF documents",
	Long:  "Writes every page of FIRST followed by every page of SECOND to OUTPUT, replacing OUTPUT if it exists. Inputs are never modified.",
	Args:  cobra.ExactArgs(3),
	RunE:  runCombine,
}

func init() {
	rootCmd.AddCommand(combineCmd)
}

func runCombine(cmd *cobra.Command, args []string) error {
	rt, err := loadSession(cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	first, second, output := args[0], args[1], args[2]

	if _, err := pdf.NewCombiner(rt.logger).Combine(cmd.Context(), first, second, output); err != nil {
		return fmt.Errorf("combine failed: %w", err)
	}
	if err := pdf.VerifyPageCount(output, first, second); err != nil {
		return err
	}

	pages, err := pdf.CountPages(output)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(rt.out, "✓ Wrote %s (%d pages)\n", output, pages)
	return nil
}
