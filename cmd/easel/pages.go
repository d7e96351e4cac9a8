package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/jonathan/easel/internal/pdf"
	"github.com/spf13/cobra"
)

var pagesCmd = &cobra.Command{
	Use:   "pages FILE...",
	Short: "Print the page count of PDF documents",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPages,
}

func init() {
	rootCmd.AddCommand(pagesCmd)
}

func runPages(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "FILE\tPAGES")

	failed := 0
	for _, path := range args {
		n, err := pdf.CountPages(path)
		if err != nil {
			failed++
			_, _ = fmt.Fprintf(w, "%s\terror: %v\n", path, err)
			continue
		}
		_, _ = fmt.Fprintf(w, "%s\t%d\n", path, n)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be read", failed, len(args))
	}
	return nil
}
