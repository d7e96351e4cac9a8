package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"

	"github.com/jonathan/easel/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and validate configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration and resolved paths",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate [FILE]",
	Short: "Validate a configuration file against the schema",
	Long:  "Validates FILE (or the --config / discovered file) against the embedded JSON Schema and the value constraints.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigValidate,
}

var configDirsCmd = &cobra.Command{
	Use:   "dirs",
	Short: "Create the templates, applications and data directories",
	Args:  cobra.NoArgs,
	RunE:  runConfigDirs,
}

var configShowJSON bool

func init() {
	configShowCmd.Flags().BoolVar(&configShowJSON, "json", false, "Print JSON instead of YAML")

	configCmd.AddCommand(configShowCmd, configValidateCmd, configDirsCmd)
	rootCmd.AddCommand(configCmd)
}

// effectiveConfig is what config show prints
type effectiveConfig struct {
	Config config.Config     `json:"config" yaml:"config"`
	Paths  map[string]string `json:"paths" yaml:"paths"`
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	rt, err := loadSession(cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	cfg := rt.cfg
	cfg.DatabaseURL = redactURL(cfg.DatabaseURL)
	attachments := cfg.AttachmentSet()

	view := effectiveConfig{
		Config: cfg,
		Paths: map[string]string{
			"templates":       cfg.TemplatesPath(),
			"work":            cfg.WorkDir(),
			"applications":    cfg.ApplicationsPath(),
			"archive":         cfg.ArchivePath(),
			"attachments":     cfg.AttachmentsPath(),
			"resume":          attachments.Resume,
			"transcript":      attachments.Transcript,
			"recommendations": attachments.Recommendations,
		},
	}

	if configShowJSON {
		enc := json.NewEncoder(rt.out)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}

	enc := yaml.NewEncoder(rt.out)
	enc.SetIndent(2)
	if err := enc.Encode(view); err != nil {
		return err
	}
	return enc.Close()
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	path := configPath
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		path = discoverConfig()
	}
	if path == "" {
		return fmt.Errorf("no config file given and none of %v found", config.DiscoveryNames)
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return err
	}
	if err := config.ApplyEnv(cfg); err != nil {
		return err
	}
	merged := cfg.MergeWithDefaults(config.Defaults())
	if err := merged.Validate(); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is valid\n", path)
	return nil
}

func runConfigDirs(cmd *cobra.Command, _ []string) error {
	rt, err := loadSession(cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	if err := rt.cfg.EnsureDirectories(); err != nil {
		return err
	}
	for _, dir := range []string{rt.cfg.TemplatesPath(), rt.cfg.WorkDir(), rt.cfg.ApplicationsPath(), rt.cfg.AttachmentsPath()} {
		_, _ = fmt.Fprintf(rt.out, "  %s\n", dir)
	}
	_, _ = fmt.Fprintln(rt.out, "✓ Directories ready")
	return nil
}

func discoverConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return config.Discover(cwd)
}

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "(unparseable)"
	}
	return u.Redacted()
}
