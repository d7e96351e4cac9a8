package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/jonathan/easel/internal/pdf/pdftest"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

// executeCommand runs rootCmd in-process with fresh flag values and returns
// everything written to stdout.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// testWorkspace is an easel root with a config file pointing at it
type testWorkspace struct {
	root       string
	configPath string
}

func newTestWorkspace(t *testing.T, extra map[string]any) testWorkspace {
	t.Helper()
	t.Setenv("DATABASE_URL", "")
	t.Setenv("EASEL_DATABASE_URL", "")

	root := t.TempDir()
	doc := map[string]any{
		"root_directory": root,
		"full_name":      "Jane Doe",
		"log_level":      "error",
	}
	for k, v := range extra {
		doc[k] = v
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)

	path := filepath.Join(root, "easel.json")
	require.NoError(t, os.WriteFile(path, data, 0644))

	for _, dir := range []string{"Templates/Temporary", "Applications", "Data/Attachments"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, filepath.FromSlash(dir)), 0755))
	}
	return testWorkspace{root: root, configPath: path}
}

func (w testWorkspace) path(parts ...string) string {
	return filepath.Join(append([]string{w.root}, parts...)...)
}

// fakeTypesetter writes a script that "compiles" by copying a one-page PDF.
func fakeTypesetter(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script typesetter requires a POSIX shell")
	}

	dir := t.TempDir()
	fixture := pdftest.Write(t, filepath.Join(dir, "compiled.pdf"), 1, 100)
	script := filepath.Join(dir, "faketex")
	body := "#!/bin/sh\ncp \"" + fixture + "\" \"$3/$(basename \"$4\" .tex).pdf\"\n"
	require.NoError(t, os.WriteFile(script, []byte(body), 0755))
	return script
}
