package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EnvHome overrides the insightdeck home directory.
const EnvHome = "INSIGHTDECK_HOME"

const logFileName = "insightdeck.log"

// ErrConfigExists is returned by Save when the target exists and overwrite
// was not requested.
var ErrConfigExists = errors.New("configuration file already exists, use --force to overwrite")

// GetConfigDir returns the insightdeck home directory: $INSIGHTDECK_HOME when
// set, otherwise ~/.insightdeck.
func GetConfigDir() (string, error) {
	if home := os.Getenv(EnvHome); home != "" {
		return home, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, configDirName), nil
}

// DefaultLogFile returns the log file used when the terminal is owned by the
// interactive browser.
func DefaultLogFile() string {
	dir, err := GetConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), logFileName)
	}
	return filepath.Join(dir, logFileName)
}

// EnsureLogDir creates the parent directory of file. An empty file is a no-op.
func EnsureLogDir(file string) error {
	if file == "" {
		return nil
	}
	logDir := filepath.Dir(file)
	if err := os.MkdirAll(logDir, 0o700); err != nil {
		return fmt.Errorf("failed to create log directory %q: %w", logDir, err)
	}
	return nil
}

// Save writes c as YAML to path, creating parent directories. An existing
// file is only replaced when force is set.
func (c *Config) Save(path string, force bool) error {
	if !force {
		_, err := os.Stat(path)
		if err == nil {
			return ErrConfigExists
		}
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("cannot access config path %s: %w", path, err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	if err = os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write configuration: %w", err)
	}
	return nil
}
