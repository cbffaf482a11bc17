// config_keys.go provides key-value access to configuration settings.
//
// Separated from config.go so the YAML structure stays apart from the
// string-keyed get/set used by the "config" command.
//
// Pointers are used for optional fields so "not set" (nil) is distinct from
// an explicit value; defaults apply only to unset keys.

package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// ValidKeys returns all valid configuration keys.
func ValidKeys() []string {
	return []string{
		"bridge.host", "bridge.port", "bridge.timeout",
		"log.audit",
	}
}

// IsValidKey returns true if the key is a valid configuration key.
func IsValidKey(key string) bool {
	return slices.Contains(ValidKeys(), key)
}

// Get returns the value of a configuration key as a string.
// Unset bridge values report the effective default.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "bridge.host":
		if c.Bridge.Host == "" {
			return DefaultHost, nil
		}
		return c.Bridge.Host, nil
	case "bridge.port":
		if c.Bridge.Port == nil {
			return strconv.Itoa(DefaultPort), nil
		}
		return strconv.Itoa(*c.Bridge.Port), nil
	case "bridge.timeout":
		return c.Timeout().String(), nil
	case "log.audit":
		return strconv.FormatBool(c.Audit()), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
}

// Set sets the value of a configuration key.
func (c *Config) Set(key, value string) error {
	switch key {
	case "bridge.host":
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%w: bridge.host must not be empty", ErrInvalidValue)
		}
		c.Bridge.Host = value
	case "bridge.port":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: bridge.port must be an integer", ErrInvalidValue)
		}
		if err := ValidatePort(n); err != nil {
			return err
		}
		c.Bridge.Port = &n
	case "bridge.timeout":
		d, err := time.ParseDuration(value)
		if err != nil || d < 0 {
			return fmt.Errorf("%w: bridge.timeout must be a non-negative duration (e.g. 30s)", ErrInvalidValue)
		}
		c.Bridge.Timeout = value
	case "log.audit":
		v := strings.ToLower(value)
		if v != "true" && v != "false" {
			return fmt.Errorf("%w: log.audit must be true or false", ErrInvalidValue)
		}
		b := v == "true"
		c.Log.Audit = &b
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return nil
}

// All returns all configuration values as a map.
func (c *Config) All() map[string]string {
	all := make(map[string]string, len(ValidKeys()))
	for _, k := range ValidKeys() {
		v, _ := c.Get(k)
		all[k] = v
	}
	return all
}

// IsSet returns true if the key has an explicit value (not just defaults).
func (c *Config) IsSet(key string) bool {
	switch key {
	case "bridge.host":
		return c.Bridge.Host != ""
	case "bridge.port":
		return c.Bridge.Port != nil
	case "bridge.timeout":
		return c.Bridge.Timeout != ""
	case "log.audit":
		return c.Log.Audit != nil
	default:
		return false
	}
}
