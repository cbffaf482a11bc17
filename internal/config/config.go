// Package config provides reading and writing of principal-md configuration.
// Supports both global (~/.principal-md/config.yaml) and local
// (.principal-md/config.yaml) files.
// Reading: uses local if it exists, otherwise global.
// Writing: goes back to wherever the config was read from.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNoConfigPath is returned when the config path cannot be determined.
	ErrNoConfigPath = errors.New("cannot determine config path")
	// ErrUnknownKey is returned when getting/setting an unknown config key.
	ErrUnknownKey = errors.New("unknown config key")
	// ErrInvalidValue is returned when a config value is invalid.
	ErrInvalidValue = errors.New("invalid config value")
)

// Dir is the directory name used for both local and global config.
const Dir = ".principal-md"

// Scope represents the configuration scope (global or local).
type Scope int

const (
	// ScopeGlobal is user-wide config in ~/.principal-md/config.yaml (default)
	ScopeGlobal Scope = iota
	// ScopeLocal is directory-specific config in .principal-md/config.yaml
	ScopeLocal
)

// Bridge holds where the editor bridge listens.
type Bridge struct {
	Host    string `yaml:"host,omitempty"`
	Port    *int   `yaml:"port,omitempty"`
	Timeout string `yaml:"timeout,omitempty"` // Go duration; empty means no timeout
}

// Log holds audit log options.
type Log struct {
	Audit *bool `yaml:"audit,omitempty"`
}

// Config contains configuration for principal-md.
type Config struct {
	Bridge Bridge `yaml:"bridge,omitempty"`
	Log    Log    `yaml:"log,omitempty"`

	// path is the file this config was loaded from (for Save)
	path  string
	scope Scope
}

// Validate checks that all configured values are within acceptable bounds.
// Returns nil if all values are valid or not set (defaults will be used).
func (c *Config) Validate() error {
	if c.Bridge.Port != nil {
		if err := ValidatePort(*c.Bridge.Port); err != nil {
			return err
		}
	}
	if c.Bridge.Timeout != "" {
		d, err := time.ParseDuration(c.Bridge.Timeout)
		if err != nil || d < 0 {
			return fmt.Errorf("%w: bridge.timeout must be a non-negative duration, got %q",
				ErrInvalidValue, c.Bridge.Timeout)
		}
	}
	return nil
}

// ValidatePort reports whether p is a usable TCP port.
func ValidatePort(p int) error {
	if p < MinPort || p > MaxPort {
		return fmt.Errorf("%w: port must be between %d and %d, got %d",
			ErrInvalidValue, MinPort, MaxPort, p)
	}
	return nil
}

// Host returns the configured bridge host, or "" when unset.
func (c *Config) Host() string {
	return c.Bridge.Host
}

// Port returns the configured bridge port, or 0 when unset.
func (c *Config) Port() int {
	if c.Bridge.Port == nil {
		return 0
	}
	return *c.Bridge.Port
}

// Timeout returns the bridge request timeout (defaults to 0, no timeout).
// Validate has already rejected unparseable values.
func (c *Config) Timeout() time.Duration {
	if c.Bridge.Timeout == "" {
		return 0
	}
	d, _ := time.ParseDuration(c.Bridge.Timeout)
	return d
}

// Audit returns whether tool calls are recorded in the audit log (defaults to false).
func (c *Config) Audit() bool {
	if c.Log.Audit == nil {
		return false
	}
	return *c.Log.Audit
}

// LocalPath returns the path to the local config file.
func LocalPath() string {
	return filepath.Join(Dir, "config.yaml")
}

// GlobalPath returns the path to the global (user) config file: ~/.principal-md/config.yaml
func GlobalPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, Dir, "config.yaml")
}

// Load reads configuration: uses local if it exists, otherwise global.
func Load() (*Config, error) {
	if _, err := os.Stat(LocalPath()); err == nil {
		return LoadScope(ScopeLocal)
	}
	return LoadScope(ScopeGlobal)
}

// LoadScope reads configuration from a specific scope.
func LoadScope(scope Scope) (*Config, error) {
	path := pathForScope(scope)
	if path == "" {
		return &Config{scope: scope}, nil
	}
	return loadPath(path, scope)
}

func loadPath(path string, scope Scope) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{path: path, scope: scope}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("malformed config file %s: %w\n\nTo fix: edit the file to correct the YAML syntax, or delete it to use defaults", path, err)
	}
	cfg.path = path
	cfg.scope = scope

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &cfg, nil
}

// Scope returns which scope this config was loaded from.
func (c *Config) Scope() Scope {
	return c.scope
}

// Path returns the file this config was loaded from.
func (c *Config) Path() string {
	return c.path
}

// Save writes the configuration to its original location.
func (c *Config) Save() error {
	if c.path == "" {
		c.path = pathForScope(c.scope)
	}
	if c.path == "" {
		return ErrNoConfigPath
	}
	return c.saveToPath(c.path)
}

// saveToPath writes configuration to a specific filesystem path.
// Creates parent directories as needed with mode 0755.
func (c *Config) saveToPath(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// pathForScope returns the filesystem path for a given scope.
func pathForScope(scope Scope) string {
	switch scope {
	case ScopeLocal:
		return LocalPath()
	case ScopeGlobal:
		return GlobalPath()
	default:
		return ""
	}
}
