// endpoint.go resolves where the bridge lives.
//
// Precedence for host and port, highest first: explicit command flags,
// environment variables, config file, built-in defaults. Each value is
// resolved independently, so a flag host can combine with an env port.

package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
)

// Environment variables read during resolution. The installer writes the
// same names into editor configs.
const (
	EnvHost = "VSCODE_MCP_BRIDGE_HOST"
	EnvPort = "VSCODE_MCP_BRIDGE_PORT"
)

// Defaults used when nothing else sets a value.
const (
	DefaultHost = "127.0.0.1"
	DefaultPort = 3043
)

// TCP port bounds.
const (
	MinPort = 1
	MaxPort = 65535
)

// Endpoint is the resolved bridge address. It is fixed for the process lifetime.
type Endpoint struct {
	Host string
	Port int
}

// Addr returns host:port, bracketing IPv6 literals.
func (e Endpoint) Addr() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// URL returns the base URL of the bridge, e.g. http://127.0.0.1:3043.
func (e Endpoint) URL() string {
	return "http://" + e.Addr()
}

// Overrides carries values from command flags. Zero values mean "not given".
type Overrides struct {
	Host string
	Port int
}

// Resolve computes the endpoint from overrides, the environment and cfg.
// cfg may be nil. Returns ErrInvalidValue for an out-of-range or non-numeric port.
func Resolve(o Overrides, cfg *Config) (Endpoint, error) {
	return resolve(o, cfg, os.Getenv)
}

func resolve(o Overrides, cfg *Config, getenv func(string) string) (Endpoint, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	e := Endpoint{Host: DefaultHost, Port: DefaultPort}

	switch {
	case o.Host != "":
		e.Host = o.Host
	case getenv(EnvHost) != "":
		e.Host = getenv(EnvHost)
	case cfg.Host() != "":
		e.Host = cfg.Host()
	}

	switch {
	case o.Port != 0:
		e.Port = o.Port
	case getenv(EnvPort) != "":
		n, err := strconv.Atoi(getenv(EnvPort))
		if err != nil {
			return Endpoint{}, fmt.Errorf("%w: %s=%q is not a port number", ErrInvalidValue, EnvPort, getenv(EnvPort))
		}
		e.Port = n
	case cfg.Port() != 0:
		e.Port = cfg.Port()
	}

	if err := ValidatePort(e.Port); err != nil {
		return Endpoint{}, err
	}
	return e, nil
}
