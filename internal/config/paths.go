package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jonathan/easel/internal/packet"
)

// WorkDirName is the scratch directory inside the templates directory
const WorkDirName = "Temporary"

// AttachmentsDirName is the directory inside the data directory holding attachments
const AttachmentsDirName = "Attachments"

func (c Config) resolve(dir string) string {
	if filepath.IsAbs(dir) || c.RootDirectory == "" {
		return filepath.Clean(dir)
	}
	return filepath.Join(c.RootDirectory, dir)
}

// TemplatesPath returns the directory holding one subdirectory per template.
func (c Config) TemplatesPath() string { return c.resolve(c.TemplatesDir) }

// ApplicationsPath returns the output root holding run directories.
func (c Config) ApplicationsPath() string { return c.resolve(c.ApplicationsDir) }

// DataPath returns the data directory.
func (c Config) DataPath() string { return c.resolve(c.DataDir) }

// AttachmentsPath returns {DataPath}/Attachments.
func (c Config) AttachmentsPath() string {
	return filepath.Join(c.DataPath(), AttachmentsDirName)
}

// ArchivePath returns the flat archive directory.
func (c Config) ArchivePath() string {
	return filepath.Join(c.ApplicationsPath(), c.ArchiveDir)
}

// WorkDir returns the scratch directory templates are compiled in.
func (c Config) WorkDir() string {
	return filepath.Join(c.TemplatesPath(), WorkDirName)
}

// TemplateDir returns the directory of the named template.
func (c Config) TemplateDir(name string) string {
	return filepath.Join(c.TemplatesPath(), name)
}

// CompileTimeout returns the typesetter time limit; zero means none.
func (c Config) CompileTimeout() time.Duration {
	return time.Duration(c.CompileTimeoutSeconds) * time.Second
}

// AttachmentSet returns the full attachment paths. Unset names default to
// "{FullName} - Resume.pdf" and similar, or "Resume.pdf" without a full name.
func (c Config) AttachmentSet() packet.AttachmentSet {
	path := func(name, kind string) string {
		if name == "" {
			name = kind + ".pdf"
			if c.FullName != "" {
				name = c.FullName + " - " + name
			}
		}
		if filepath.IsAbs(name) {
			return name
		}
		return filepath.Join(c.AttachmentsPath(), name)
	}

	return packet.AttachmentSet{
		Resume:          path(c.Attachments.Resume, "Resume"),
		Transcript:      path(c.Attachments.Transcript, "Transcript"),
		Recommendations: path(c.Attachments.Recommendations, "Recommendations"),
	}
}

// EnsureDirectories creates the templates, work, applications and attachments
// directories if they are missing.
func (c Config) EnsureDirectories() error {
	for _, dir := range []string{c.TemplatesPath(), c.WorkDir(), c.ApplicationsPath(), c.AttachmentsPath()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
