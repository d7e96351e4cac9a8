package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/jonathan/easel/internal/db"
	"github.com/jonathan/easel/internal/fsutil"
	"github.com/jonathan/easel/internal/naming"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List archived applications",
	Long: `Lists the documents in the archive directory, newest first, with the date, company
and position decoded from their names. With --from-db the archive ledger is queried instead.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var (
	historyCompany string
	historyJSON    bool
	historyFromDB  bool
	historyLimit   int
)

func init() {
	historyCmd.Flags().StringVarP(&historyCompany, "company", "c", "", "Only show applications to this company (case-insensitive)")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Print JSON instead of a table")
	historyCmd.Flags().BoolVar(&historyFromDB, "from-db", false, "Read the archive ledger instead of the archive directory")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 0, "Maximum number of entries (0 for all)")

	rootCmd.AddCommand(historyCmd)
}

// historyEntry is one archived application
type historyEntry struct {
	Date     time.Time `json:"date"`
	Company  string    `json:"company"`
	Position string    `json:"position"`
	Path     string    `json:"path"`
}

func runHistory(cmd *cobra.Command, _ []string) error {
	rt, err := loadSession(cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	var entries []historyEntry
	if historyFromDB {
		entries, err = historyFromLedger(cmd, rt)
	} else {
		entries, err = historyFromArchive(rt)
	}
	if err != nil {
		return err
	}

	if historyJSON {
		if entries == nil {
			entries = []historyEntry{}
		}
		enc := json.NewEncoder(rt.out)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		_, _ = fmt.Fprintln(rt.out, "No archived applications found")
		return nil
	}

	w := tabwriter.NewWriter(rt.out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "DATE\tCOMPANY\tPOSITION")
	for _, e := range entries {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", e.Date.Format("2006-01-02 15:04"), e.Company, e.Position)
	}
	return w.Flush()
}

func historyFromArchive(rt *session) ([]historyEntry, error) {
	dir := rt.cfg.ArchivePath()
	if !fsutil.DirExists(dir) {
		return nil, nil
	}

	names, err := fsutil.ListFilesWithSuffix(dir, naming.PDFExt)
	if err != nil {
		return nil, err
	}

	var entries []historyEntry
	for _, name := range names {
		decoded, err := naming.DecodeArchivedFileName(name)
		if err != nil {
			rt.logger.Debug("skipping unrecognised archive entry", zap.String("file", name), zap.Error(err))
			continue
		}
		if historyCompany != "" && !strings.EqualFold(decoded.Company, historyCompany) {
			continue
		}
		entries = append(entries, historyEntry{
			Date:     decoded.Date,
			Company:  decoded.Company,
			Position: decoded.Position,
			Path:     filepath.Join(dir, name),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.After(entries[j].Date)
	})
	if historyLimit > 0 && len(entries) > historyLimit {
		entries = entries[:historyLimit]
	}
	return entries, nil
}

func historyFromLedger(cmd *cobra.Command, rt *session) ([]historyEntry, error) {
	if rt.cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("--from-db requires database_url (or DATABASE_URL) to be set")
	}

	ctx := cmd.Context()
	ledger, err := db.Connect(ctx, rt.cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	defer ledger.Close()

	docs, err := ledger.ListArchivedDocuments(ctx, db.ListFilter{Company: historyCompany, Limit: historyLimit})
	if err != nil {
		return nil, err
	}

	entries := make([]historyEntry, 0, len(docs))
	for _, d := range docs {
		entries = append(entries, historyEntry{
			Date:     d.AppliedAt,
			Company:  d.Company,
			Position: d.Position,
			Path:     d.ArchivedPath,
		})
	}
	return entries, nil
}
