package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/jonathan/easel/internal/config"
	"github.com/jonathan/easel/internal/fsutil"
	"github.com/jonathan/easel/internal/latex"
	"github.com/jonathan/easel/internal/pdf/pdftest"
	"github.com/jonathan/easel/internal/pipeline/steps"
	"github.com/jonathan/easel/internal/types"
)

// fakeTypesetter writes a one-page PDF next to the source it is given.
type fakeTypesetter struct {
	calls int
	err   error
}

func (f *fakeTypesetter) Compile(_ context.Context, workDir, mainFile string) (*latex.Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	base := filepath.Base(mainFile)
	out := filepath.Join(workDir, base[:len(base)-len(filepath.Ext(base))]+".pdf")
	if err := os.WriteFile(out, pdftest.Build(1, 100), 0644); err != nil {
		return nil, err
	}
	_ = os.WriteFile(filepath.Join(workDir, "main.aux"), []byte("aux"), 0644)
	return &latex.Result{PDFPath: out}, nil
}

func newWorkspace(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Defaults()
	cfg.RootDirectory = t.TempDir()
	cfg.FullName = "Jane Doe"
	require.NoError(t, cfg.EnsureDirectories())

	template := cfg.TemplateDir("Formal")
	require.NoError(t, os.MkdirAll(template, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(template, "main.tex"), []byte(`\documentclass{article}`), 0644))

	pdftest.Write(t, cfg.AttachmentSet().Resume, 2, 200)
	return cfg
}

var fixedNow = func() time.Time { return time.Date(2024, time.May, 14, 12, 30, 0, 0, time.Local) }

func TestGenerate_EndToEnd(t *testing.T) {
	cfg := newWorkspace(t)
	typesetter := &fakeTypesetter{}
	var events []ProgressEvent

	outcome, err := Generate(context.Background(), Options{
		Template:    "Formal",
		Application: types.ApplicationData{FullName: "Jane Doe", Company: "Acme Corp", Position: "Engineer"},
		Config:      cfg,
		Typesetter:  typesetter,
		Now:         fixedNow,
		Logger:      zaptest.NewLogger(t),
		OnProgress:  func(e ProgressEvent) { events = append(events, e) },
	})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(cfg.ApplicationsPath(), "2405141230 - Acme Corp"), outcome.RunDir)
	assert.Equal(t, "Jane Doe - Acme Corp - Engineer", outcome.BaseName)
	assert.Equal(t, 1, typesetter.calls)

	for _, name := range []string{"Jane Doe - Acme Corp - Engineer - 0.pdf", "Jane Doe - Acme Corp - Engineer - 1.pdf", "Jane Doe - Acme Corp - Engineer - 4.pdf"} {
		assert.FileExists(t, filepath.Join(outcome.RunDir, name))
	}
	assert.NoFileExists(t, filepath.Join(outcome.RunDir, "Jane Doe - Acme Corp - Engineer - 2.pdf"))
	assert.NoFileExists(t, filepath.Join(cfg.WorkDir(), "main.aux"))

	require.Len(t, events, len(steps.Sequence))
	for i, e := range events {
		assert.Equal(t, steps.Sequence[i], e.Step)
		assert.Equal(t, outcome.RunID.String(), e.RunID)
		assert.NotEmpty(t, e.Category)
	}
	require.NotNil(t, outcome.Packet)
	require.NotNil(t, outcome.Packet.Migration)
}

func TestGenerate_ArchivesEarlierRuns(t *testing.T) {
	cfg := newWorkspace(t)
	earlier := filepath.Join(cfg.ApplicationsPath(), "2405101000 - Globex")
	require.NoError(t, os.MkdirAll(earlier, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(earlier, "Jane Doe - Globex - Analyst - 0.pdf"), pdftest.Build(1, 10), 0644))

	_, err := Generate(context.Background(), Options{
		Template:    "Formal",
		Application: types.ApplicationData{Company: "Acme Corp", Position: "Engineer"},
		Config:      cfg,
		Typesetter:  &fakeTypesetter{},
		Now:         fixedNow,
	})
	require.NoError(t, err)

	assert.NoDirExists(t, earlier)
	assert.FileExists(t, filepath.Join(cfg.ArchivePath(), "10 May 2024 10.00 - Globex - Analyst.pdf"))
}

func TestGenerate_KeepArtifacts(t *testing.T) {
	cfg := newWorkspace(t)

	_, err := Generate(context.Background(), Options{
		Template:      "Formal",
		Application:   types.ApplicationData{Company: "Acme", Position: "Engineer"},
		Config:        cfg,
		Typesetter:    &fakeTypesetter{},
		Now:           fixedNow,
		KeepArtifacts: true,
	})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(cfg.WorkDir(), "main.aux"))
}

func TestGenerate_CompileFailureStopsBeforeAssembly(t *testing.T) {
	cfg := newWorkspace(t)
	compileErr := &latex.CompilationError{Message: "pdflatex exited with status 1", LogOutput: "! Undefined control sequence.", ExitCode: 1}
	var events []ProgressEvent

	outcome, err := Generate(context.Background(), Options{
		Template:    "Formal",
		Application: types.ApplicationData{Company: "Acme", Position: "Engineer"},
		Config:      cfg,
		Typesetter:  &fakeTypesetter{err: compileErr},
		Now:         fixedNow,
		OnProgress:  func(e ProgressEvent) { events = append(events, e) },
	})
	require.Error(t, err)

	var target *latex.CompilationError
	require.True(t, errors.As(err, &target))
	assert.Equal(t, 1, target.ExitCode)
	assert.NoDirExists(t, outcome.RunDir)
	assert.Len(t, events, 2)
}

func TestGenerate_MissingTemplate(t *testing.T) {
	cfg := newWorkspace(t)
	typesetter := &fakeTypesetter{}

	_, err := Generate(context.Background(), Options{
		Template:    "Casual",
		Application: types.ApplicationData{Company: "Acme", Position: "Engineer"},
		Config:      cfg,
		Typesetter:  typesetter,
	})

	var notFound *fsutil.NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Zero(t, typesetter.calls)
}

func TestGenerate_InvalidApplication(t *testing.T) {
	cfg := newWorkspace(t)
	typesetter := &fakeTypesetter{}

	_, err := Generate(context.Background(), Options{
		Template:    "Formal",
		Application: types.ApplicationData{Company: "Acme"},
		Config:      cfg,
		Typesetter:  typesetter,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid application data")
	assert.Zero(t, typesetter.calls)
}

func TestGenerate_CancelledContext(t *testing.T) {
	cfg := newWorkspace(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Generate(ctx, Options{
		Template:    "Formal",
		Application: types.ApplicationData{Company: "Acme", Position: "Engineer"},
		Config:      cfg,
		Typesetter:  &fakeTypesetter{},
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerate_TestPositionName(t *testing.T) {
	cfg := newWorkspace(t)

	outcome, err := Generate(context.Background(), Options{
		Template:    "Formal",
		Application: types.ApplicationData{Company: "Acme", Position: "TEST"},
		Config:      cfg,
		Typesetter:  &fakeTypesetter{},
		Now:         fixedNow,
	})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(outcome.RunDir, "TEST-2024-05-14-1230 - 0.pdf"))
}
