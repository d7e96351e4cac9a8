package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonathan/easel/internal/fsutil"
	"github.com/jonathan/easel/internal/naming"
	"go.uber.org/zap"
)

// DefaultDirName is the archive directory created under the applications root
const DefaultDirName = "PAST"

// Recorder receives every document copied into the archive.
type Recorder interface {
	RecordArchivedDocument(ctx context.Context, doc ArchivedDocument) error
}

// Options configures a Migrator
type Options struct {
	ApplicationsDir string
	ArchiveDirName  string
	Now             func() time.Time
	Recorder        Recorder
	DryRun          bool
	Logger          *zap.Logger
}

// Migrator moves variant-0 documents out of run directories created before
// today into one flat archive directory and removes those run directories.
type Migrator struct {
	root        string
	archiveName string
	archiveDir  string
	now         func() time.Time
	recorder    Recorder
	dryRun      bool
	logger      *zap.Logger
}

// NewMigrator creates a Migrator from opts, filling in defaults.
func NewMigrator(opts Options) *Migrator {
	if opts.ArchiveDirName == "" {
		opts.ArchiveDirName = DefaultDirName
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Migrator{
		root:        opts.ApplicationsDir,
		archiveName: opts.ArchiveDirName,
		archiveDir:  filepath.Join(opts.ApplicationsDir, opts.ArchiveDirName),
		now:         opts.Now,
		recorder:    opts.Recorder,
		dryRun:      opts.DryRun,
		logger:      opts.Logger.Named("archive"),
	}
}

// ArchiveDir returns the flat archive directory.
func (m *Migrator) ArchiveDir() string {
	return m.archiveDir
}

// Run performs one migration pass over the applications root. Problems with
// a single run directory are logged and recorded in the report; only a
// failure to list the root or a cancelled context is returned.
func (m *Migrator) Run(ctx context.Context) (*Report, error) {
	report := &Report{DryRun: m.dryRun}

	entries, err := os.ReadDir(m.root)
	if err != nil {
		return report, &fsutil.IOError{Op: "read dir", Path: m.root, Cause: err}
	}

	today := naming.DayPrefix(m.now())
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		name := entry.Name()
		if name == m.archiveName {
			continue
		}
		if !entry.IsDir() {
			m.logger.Debug("ignoring non-directory entry", zap.String("name", name))
			continue
		}
		report.Scanned++

		if strings.HasPrefix(name, today) {
			m.logger.Debug("skipping run directory from today", zap.String("run_dir", name))
			report.SkippedToday = append(report.SkippedToday, name)
			continue
		}

		decoded, err := naming.DecodeRunDirName(name)
		if err != nil {
			m.logger.Warn("leaving malformed run directory in place", zap.String("run_dir", name), zap.Error(err))
			report.Malformed = append(report.Malformed, name)
			continue
		}

		if err := m.migrate(ctx, name, decoded, report); err != nil {
			m.logger.Error("failed to archive run directory", zap.String("run_dir", name), zap.Error(err))
			report.addFailure(name, err)
		}
	}

	m.logger.Info("migration pass complete",
		zap.Int("scanned", report.Scanned),
		zap.Int("archived", len(report.Archived)),
		zap.Int("removed", len(report.Removed)),
		zap.Int("malformed", len(report.Malformed)),
		zap.Int("failures", len(report.Failures)),
		zap.Bool("dry_run", m.dryRun),
	)
	return report, nil
}

func (m *Migrator) migrate(ctx context.Context, name string, decoded naming.RunDirName, report *Report) error {
	dir := filepath.Join(m.root, name)

	primaries, err := fsutil.ListFilesWithSuffix(dir, naming.PrimaryVariantSuffix)
	if err != nil {
		return err
	}
	if len(primaries) == 0 {
		m.logger.Warn("no primary document found, removing run directory anyway", zap.String("run_dir", name))
	}

	for _, file := range primaries {
		position := naming.DecodeVariantFileName(file, decoded.Company)
		if position == naming.UnknownPosition {
			m.logger.Warn("company not found in file name, using placeholder position",
				zap.String("run_dir", name),
				zap.String("file", file),
				zap.String("company", decoded.Company),
			)
		}

		doc := ArchivedDocument{
			RunDirectory: name,
			Source:       filepath.Join(dir, file),
			Destination:  filepath.Join(m.archiveDir, naming.EncodeArchivedFileName(decoded.Timestamp, decoded.Company, position)),
			Company:      decoded.Company,
			Position:     position,
			AppliedAt:    decoded.Timestamp,
		}

		if !m.dryRun {
			if err := m.store(ctx, doc); err != nil {
				return err
			}
		}

		m.logger.Info("archived document",
			zap.String("run_dir", name),
			zap.String("destination", filepath.Base(doc.Destination)),
		)
		report.Archived = append(report.Archived, doc)
	}

	if !m.dryRun {
		if err := os.RemoveAll(dir); err != nil {
			return &fsutil.IOError{Op: "remove", Path: dir, Cause: err}
		}
	}
	report.Removed = append(report.Removed, name)
	return nil
}

func (m *Migrator) store(ctx context.Context, doc ArchivedDocument) error {
	if err := os.MkdirAll(m.archiveDir, 0755); err != nil {
		return &fsutil.IOError{Op: "mkdir", Path: m.archiveDir, Cause: err}
	}
	if err := fsutil.CopyFile(doc.Source, doc.Destination); err != nil {
		return fmt.Errorf("failed to archive %s: %w", filepath.Base(doc.Source), err)
	}

	if m.recorder != nil {
		if err := m.recorder.RecordArchivedDocument(ctx, doc); err != nil {
			m.logger.Warn("failed to record archived document", zap.String("destination", doc.Destination), zap.Error(err))
		}
	}
	return nil
}
