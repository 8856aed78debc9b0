// Package config reads the rc file of the shell.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EnvRC names the environment variable that overrides the rc file path.
const EnvRC = "SPOOFAX_SHELL_RC"

// Values of the color setting.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config is the content of the rc file.
type Config struct {
	// Language to load at startup. Empty means none.
	Language string `yaml:"language"`
	// Prompt shown by the interactive mode.
	Prompt string `yaml:"prompt"`
	// Color is one of auto, always and never.
	Color string `yaml:"color"`
	// Startup lists input lines run before the first prompt, such as
	// ":load go".
	Startup []string `yaml:"startup"`
}

// Default returns the configuration used when there is no rc file.
func Default() *Config {
	return &Config{Prompt: "> ", Color: ColorAuto}
}

// Path returns the path of the rc file. A non-empty flag value wins, then
// $SPOOFAX_SHELL_RC, then rc.yaml in the user configuration directory.
func Path(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if p := os.Getenv(EnvRC); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot find rc file: %w", err)
	}
	return filepath.Join(dir, "spoofax-shell", "rc.yaml"), nil
}

// Load reads the rc file at path. Settings missing from the file keep their
// default values; a nonexistent file yields Default().
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("cannot read rc file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("cannot parse rc file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks settings that have a fixed set of values.
func (c *Config) Validate() error {
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
		return nil
	default:
		return fmt.Errorf("color must be %s, %s or %s, got %q",
			ColorAuto, ColorAlways, ColorNever, c.Color)
	}
}
