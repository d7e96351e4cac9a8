// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/easel/internal/schemas"
	configschema "github.com/jonathan/easel/schemas"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Default values applied by MergeWithDefaults
const (
	DefaultTemplatesDir    = "Templates"
	DefaultApplicationsDir = "Applications"
	DefaultDataDir         = "Data"
	DefaultArchiveDir      = "PAST"
	DefaultTypesetter      = "pdflatex"
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "console"
)

// DiscoveryNames are the file names searched for when no --config is given
var DiscoveryNames = []string{"easel.json", "easel.yaml", "easel.yml"}

// Attachments holds the attachment file names, relative to {data_dir}/Attachments
// unless absolute.
type Attachments struct {
	Resume          string `json:"resume,omitempty" yaml:"resume,omitempty" split_words:"true"`
	Transcript      string `json:"transcript,omitempty" yaml:"transcript,omitempty" split_words:"true"`
	Recommendations string `json:"recommendations,omitempty" yaml:"recommendations,omitempty" split_words:"true"`
}

// Config represents the CLI configuration that can be loaded from a JSON or YAML file.
// All fields are optional; missing values use defaults or are provided via CLI flags.
type Config struct {
	// Paths
	RootDirectory   string `json:"root_directory,omitempty" yaml:"root_directory,omitempty" envconfig:"EASEL_ROOT_DIRECTORY"`
	TemplatesDir    string `json:"templates_dir,omitempty" yaml:"templates_dir,omitempty" envconfig:"EASEL_TEMPLATES_DIR" validate:"required"`
	ApplicationsDir string `json:"applications_dir,omitempty" yaml:"applications_dir,omitempty" envconfig:"EASEL_APPLICATIONS_DIR" validate:"required"`
	DataDir         string `json:"data_dir,omitempty" yaml:"data_dir,omitempty" envconfig:"EASEL_DATA_DIR" validate:"required"`
	ArchiveDir      string `json:"archive_dir,omitempty" yaml:"archive_dir,omitempty" envconfig:"EASEL_ARCHIVE_DIR" validate:"required"`

	// Applicant
	FullName    string      `json:"full_name,omitempty" yaml:"full_name,omitempty" envconfig:"EASEL_FULL_NAME"`
	Attachments Attachments `json:"attachments,omitempty" yaml:"attachments,omitempty" envconfig:"EASEL_ATTACHMENTS"`

	// Typesetting
	Typesetter            string `json:"typesetter,omitempty" yaml:"typesetter,omitempty" envconfig:"EASEL_TYPESETTER" validate:"required"`
	CompileTimeoutSeconds int    `json:"compile_timeout_seconds,omitempty" yaml:"compile_timeout_seconds,omitempty" envconfig:"EASEL_COMPILE_TIMEOUT_SECONDS" validate:"gte=0"`

	// Behavior
	DatabaseURL string `json:"database_url,omitempty" yaml:"database_url,omitempty" envconfig:"EASEL_DATABASE_URL"` // PostgreSQL connection URL for the archive ledger
	LogLevel    string `json:"log_level,omitempty" yaml:"log_level,omitempty" envconfig:"EASEL_LOG_LEVEL" validate:"omitempty,oneof=debug info warn error"`
	LogFormat   string `json:"log_format,omitempty" yaml:"log_format,omitempty" envconfig:"EASEL_LOG_FORMAT" validate:"omitempty,oneof=console json"`
}

// databaseEnv reads the conventional unprefixed variable
type databaseEnv struct {
	URL string `envconfig:"DATABASE_URL"`
}

// Defaults returns the configuration used when nothing else is specified.
func Defaults() Config {
	return Config{
		TemplatesDir:    DefaultTemplatesDir,
		ApplicationsDir: DefaultApplicationsDir,
		DataDir:         DefaultDataDir,
		ArchiveDir:      DefaultArchiveDir,
		Typesetter:      DefaultTypesetter,
		LogLevel:        DefaultLogLevel,
		LogFormat:       DefaultLogFormat,
	}
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension.
// The document is checked against the embedded config schema before decoding.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc map[string]interface{}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
		if doc == nil {
			doc = map[string]interface{}{}
		}
		if err := schemas.ValidateDocument(configschema.ConfigSchema, doc); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if !json.Valid(data) {
			return nil, fmt.Errorf("failed to parse config JSON: %s is not valid JSON", path)
		}
		if err := schemas.ValidateJSONString(configschema.ConfigSchema, string(data)); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// Discover returns the first of DiscoveryNames present in dir, or "".
func Discover(dir string) string {
	for _, name := range DiscoveryNames {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate
		}
	}
	return ""
}

// Load resolves the effective configuration: the file at path (or a
// discovered file in the current directory when path is empty), then
// environment overrides, then defaults for anything still unset.
func Load(path string) (Config, error) {
	if path == "" {
		if cwd, err := os.Getwd(); err == nil {
			path = Discover(cwd)
		}
	}

	cfg := &Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return Config{}, err
		}
		cfg = loaded
	}

	if err := ApplyEnv(cfg); err != nil {
		return Config{}, err
	}

	merged := cfg.MergeWithDefaults(Defaults())
	if err := merged.Validate(); err != nil {
		return Config{}, err
	}
	return merged, nil
}

// ApplyEnv overlays EASEL_* environment variables onto c. DATABASE_URL is
// honoured when EASEL_DATABASE_URL is not set.
func ApplyEnv(c *Config) error {
	var db databaseEnv
	if err := envconfig.Process("", &db); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if db.URL != "" {
		c.DatabaseURL = db.URL
	}

	if err := envconfig.Process("", c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if strings.ContainsAny(c.ArchiveDir, `/\`) {
		return fmt.Errorf("config error: 'archive_dir' must be a directory name, not a path: %s", c.ArchiveDir)
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&result.RootDirectory, defaults.RootDirectory)
	fill(&result.TemplatesDir, defaults.TemplatesDir)
	fill(&result.ApplicationsDir, defaults.ApplicationsDir)
	fill(&result.DataDir, defaults.DataDir)
	fill(&result.ArchiveDir, defaults.ArchiveDir)
	fill(&result.FullName, defaults.FullName)
	fill(&result.Attachments.Resume, defaults.Attachments.Resume)
	fill(&result.Attachments.Transcript, defaults.Attachments.Transcript)
	fill(&result.Attachments.Recommendations, defaults.Attachments.Recommendations)
	fill(&result.Typesetter, defaults.Typesetter)
	fill(&result.DatabaseURL, defaults.DatabaseURL)
	fill(&result.LogLevel, defaults.LogLevel)
	fill(&result.LogFormat, defaults.LogFormat)

	// Int fields: use default if zero
	if result.CompileTimeoutSeconds == 0 {
		result.CompileTimeoutSeconds = defaults.CompileTimeoutSeconds
	}

	return result
}
