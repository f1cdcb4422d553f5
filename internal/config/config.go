// Package config loads settings for the intcalc command.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math/big"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/zephyrtronium/intcalc"
)

// EnvVar names the environment variable holding the config file path.
const EnvVar = "INTCALC_CONFIG"

// Config holds the complete command configuration.
type Config struct {
	// Prompt is the REPL prompt.
	Prompt string `toml:"prompt" yaml:"prompt"`
	// HistoryFile is where the REPL keeps line history. A leading ~ is
	// replaced with the user's home directory. Empty disables history.
	HistoryFile string `toml:"history_file" yaml:"history_file"`
	// Color enables styled output.
	Color bool `toml:"color" yaml:"color"`
	// Log configures diagnostic logging.
	Log LogConfig `toml:"log" yaml:"log"`
	// Vars are variables preset in every new session, as decimal integers.
	Vars map[string]string `toml:"vars" yaml:"vars"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, or error.
	Level string `toml:"level" yaml:"level"`
	// Format is text or json.
	Format string `toml:"format" yaml:"format"`
}

// Format is a config file syntax.
type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Prompt:      "> ",
		HistoryFile: "~/.intcalc_history",
		Color:       true,
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// DefaultPath returns the config file used when neither a flag nor the
// environment names one.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "intcalc", "config.toml")
}

// FormatOf detects the config format from a file extension. Anything that is
// not YAML is read as TOML.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// Load reads the configuration from a file. Settings absent from the file keep
// their defaults.
func Load(path string) (*Config, error) {
	path = ExpandHome(os.ExpandEnv(path))
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(content, FormatOf(path))
}

// Parse decodes configuration content in the given format over the defaults
// and validates the result.
func Parse(content []byte, format Format) (*Config, error) {
	cfg := Default()
	switch format {
	case FormatTOML:
		if _, err := toml.Decode(string(content), cfg); err != nil {
			return nil, fmt.Errorf("TOML parse error: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(content, cfg); err != nil {
			return nil, fmt.Errorf("YAML parse error: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %v", format)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Resolve picks the config file named by path, or by the environment if path
// is empty, or the default location otherwise, and loads it. A missing file at
// the default location yields the default configuration.
func Resolve(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvVar)
	}
	if path != "" {
		return Load(path)
	}
	path = DefaultPath()
	if path == "" {
		return Default(), nil
	}
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Validate checks the log settings and preset variables.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q", c.Log.Format)
	}
	_, err := c.Values()
	return err
}

// Values converts the preset variables to integers.
func (c *Config) Values() (map[string]*big.Int, error) {
	names := make([]string, 0, len(c.Vars))
	for name := range c.Vars {
		names = append(names, name)
	}
	sort.Strings(names)
	r := make(map[string]*big.Int, len(names))
	for _, name := range names {
		if !intcalc.IsIdent(name) {
			return nil, fmt.Errorf("invalid variable name %q", name)
		}
		s := strings.TrimSpace(c.Vars[name])
		v, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, fmt.Errorf("variable %s: %q is not a decimal integer", name, c.Vars[name])
		}
		if !intcalc.InRange(v) {
			return nil, fmt.Errorf("variable %s: %s is out of range", name, s)
		}
		r[name] = v
	}
	return r, nil
}

// History returns the history file path with the home directory expanded.
func (c *Config) History() string {
	return ExpandHome(c.HistoryFile)
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
