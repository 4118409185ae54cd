package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Environment variables that override file configuration.
const (
	EnvConfigFile  = "INSIGHTDECK_CONFIG"
	EnvLogLevel    = "INSIGHTDECK_LOG_LEVEL"
	EnvLogFormat   = "INSIGHTDECK_LOG_FORMAT"
	EnvLogFile     = "INSIGHTDECK_LOG_FILE"
	EnvMaxDepth    = "INSIGHTDECK_MAX_DEPTH"
	EnvWidth       = "INSIGHTDECK_WIDTH"
	EnvStyle       = "INSIGHTDECK_STYLE"
	EnvFormat      = "INSIGHTDECK_FORMAT"
	EnvSourceDir   = "INSIGHTDECK_SOURCE_DIR"
	EnvPreloadAll  = "INSIGHTDECK_PRELOAD"
	EnvConstraint  = "INSIGHTDECK_MODULE_API"
	configDirName  = ".insightdeck"
	configFileName = "config.yaml"
)

// Render defaults.
const (
	DefaultMaxDepth   = 8
	DefaultWidth      = 80
	DefaultStyle      = "auto"
	DefaultFormat     = "text"
	DefaultConstraint = "^1.0.0"
	DefaultPreloadMax = 4
)

// Supported output formats.
const (
	FormatText = "text"
	FormatHTML = "html"
	FormatJSON = "json"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the complete insightdeck configuration.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Render  RenderConfig  `yaml:"render"`
	Modules ModulesConfig `yaml:"modules"`
	Source  SourceConfig  `yaml:"source"`
}

// RenderConfig controls the block renderer and output printers.
type RenderConfig struct {
	// MaxDepth bounds nested card recursion.
	MaxDepth int    `yaml:"max_depth"`
	Width    int    `yaml:"width"`
	Style    string `yaml:"style"`
	Format   string `yaml:"format"`
}

// ModulesConfig controls the lazy chart module resolver.
type ModulesConfig struct {
	// Preload resolves every chart referenced by a document before printing.
	Preload bool `yaml:"preload"`
	// Concurrency limits parallel loads during preload.
	Concurrency int `yaml:"concurrency"`
	// APIConstraint is the semver constraint module API versions must satisfy.
	APIConstraint string `yaml:"api_constraint"`
}

// SourceConfig locates card decks and detail documents.
type SourceConfig struct {
	Dir   string `yaml:"dir"`
	Watch bool   `yaml:"watch"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Render: RenderConfig{
			MaxDepth: DefaultMaxDepth,
			Width:    DefaultWidth,
			Style:    DefaultStyle,
			Format:   DefaultFormat,
		},
		Modules: ModulesConfig{
			Preload:       true,
			Concurrency:   DefaultPreloadMax,
			APIConstraint: DefaultConstraint,
		},
		Source: SourceConfig{Dir: "."},
	}
}

// DefaultPath returns ~/.insightdeck/config.yaml, or "" if the home directory
// cannot be determined.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, configDirName, configFileName)
}

// Load builds the effective configuration: defaults, then the YAML file at
// path (a missing file is not an error), then environment overrides.
func Load(path string) (*Config, error) {
	cfg := New()

	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path == "" {
		path = DefaultPath()
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		default:
			if unmarshalErr := yaml.Unmarshal(data, cfg); unmarshalErr != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, unmarshalErr)
			}
		}
	}

	cfg.ApplyEnv(os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from the environment. Unparsable numeric or
// boolean values are ignored.
func (c *Config) ApplyEnv(lookupEnv func(string) (string, bool)) {
	str := func(key string, dst *string) {
		if v, ok := lookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v, ok := lookupEnv(key); ok {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	str(EnvLogLevel, &c.Logging.Level)
	str(EnvLogFormat, &c.Logging.Format)
	str(EnvLogFile, &c.Logging.File)
	num(EnvMaxDepth, &c.Render.MaxDepth)
	num(EnvWidth, &c.Render.Width)
	str(EnvStyle, &c.Render.Style)
	str(EnvFormat, &c.Render.Format)
	str(EnvSourceDir, &c.Source.Dir)
	str(EnvConstraint, &c.Modules.APIConstraint)

	if v, ok := lookupEnv(EnvPreloadAll); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Modules.Preload = b
		}
	}
}

// Validate reports configuration values that would break rendering.
func (c *Config) Validate() error {
	if c.Render.MaxDepth <= 0 {
		return fmt.Errorf("%w: render.max_depth must be positive, got %d", ErrInvalidConfig, c.Render.MaxDepth)
	}
	if c.Render.Width <= 0 {
		return fmt.Errorf("%w: render.width must be positive, got %d", ErrInvalidConfig, c.Render.Width)
	}
	switch c.Render.Format {
	case FormatText, FormatHTML, FormatJSON:
	default:
		return fmt.Errorf("%w: render.format %q (want text, html or json)", ErrInvalidConfig, c.Render.Format)
	}
	if c.Modules.Concurrency < 0 {
		return fmt.Errorf("%w: modules.concurrency must be >= 0", ErrInvalidConfig)
	}
	return nil
}
