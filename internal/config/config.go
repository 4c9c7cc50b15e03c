// Package config loads the divert configuration from
// ~/.config/divert/config.toml.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// DivertConfig holds diversion defaults.
type DivertConfig struct {
	// Suffix is appended to a path to form the default divert target.
	Suffix string `toml:"suffix"`
}

// UIConfig holds interactivity settings.
type UIConfig struct {
	// Interactive disables the picker and confirm prompts when false,
	// even on a tty. Defaults to true.
	Interactive *bool `toml:"interactive"`
}

// Config holds the divert configuration.
type Config struct {
	// DpkgDivert overrides the dpkg-divert binary ("dpkg-divert" on PATH
	// by default). Absolute path or bare command name.
	DpkgDivert string `toml:"dpkg_divert"`

	// Admindir is passed to dpkg-divert as --admindir when set.
	Admindir string `toml:"admindir"`

	Divert DivertConfig `toml:"divert"`
	UI     UIConfig     `toml:"ui"`
}

// DefaultSuffix is appended to a diverted path when no divert location is
// given, matching dpkg-divert's own default.
const DefaultSuffix = ".distrib"

// Default returns the default configuration.
func Default() Config {
	return Config{
		Divert: DivertConfig{Suffix: DefaultSuffix},
	}
}

// InteractiveEnabled reports whether interactive prompts are allowed.
func (c *Config) InteractiveEnabled() bool {
	return c.UI.Interactive == nil || *c.UI.Interactive
}

// Path returns the config file location. DIVERT_CONFIG overrides the
// default of ~/.config/divert/config.toml.
func Path() (string, error) {
	if p := os.Getenv("DIVERT_CONFIG"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "divert", "config.toml"), nil
}

// Load reads the configuration file. A missing file is not an error and
// yields the defaults.
func Load() (Config, error) {
	cfg := Default()

	path, err := Path()
	if err != nil {
		return cfg, fmt.Errorf("locate config: %w", err)
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	// Expand ~ in paths (shell doesn't expand in config files)
	if cfg.DpkgDivert, err = expandPath(cfg.DpkgDivert); err != nil {
		return Default(), fmt.Errorf("expand dpkg_divert: %w", err)
	}
	if cfg.Admindir, err = expandPath(cfg.Admindir); err != nil {
		return Default(), fmt.Errorf("expand admindir: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Default(), fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) (string, error) {
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	if path == "~" {
		return os.UserHomeDir()
	}
	return path, nil
}

func (c *Config) validate() error {
	if c.Divert.Suffix == "" {
		c.Divert.Suffix = DefaultSuffix
	}
	if !strings.HasPrefix(c.Divert.Suffix, ".") {
		return fmt.Errorf("divert.suffix must start with a dot, got %q", c.Divert.Suffix)
	}
	if c.Admindir != "" && !filepath.IsAbs(c.Admindir) {
		return fmt.Errorf("admindir must be absolute, got %q", c.Admindir)
	}
	return nil
}
