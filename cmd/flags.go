/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// flags.go defines global CLI flags and accessors for shared state.
//
// Flags are package-level variables bound to the root command. Commands read
// the resolved bridge endpoint through Endpoint() rather than the raw flags,
// so flag/env/config precedence lives in one place.

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jpl-au/principal-md/internal/config"
	"github.com/jpl-au/principal-md/internal/mcp"
	"github.com/jpl-au/principal-md/internal/version"
	"github.com/spf13/cobra"
)

var validOutputFormats = []string{"json"}

var (
	output string
	host   string
	port   int
)

// loaded is the config read in PersistentPreRunE; nil for noConfigCommands.
var loaded *config.Config

// out is the output writer for commands. Defaults to os.Stdout.
var out io.Writer = os.Stdout

// Out returns the output writer.
func Out() io.Writer { return out }

// SetOut sets the output writer (for testing).
func SetOut(w io.Writer) { out = w }

// JSON returns true if JSON output is requested.
func JSON() bool { return output == "json" }

// Config returns the loaded configuration, or an empty one.
func Config() *config.Config {
	if loaded == nil {
		return &config.Config{}
	}
	return loaded
}

// Endpoint resolves the bridge address.
// Priority: --host/--port flags > VSCODE_MCP_BRIDGE_* env vars > config file > defaults.
func Endpoint() (config.Endpoint, error) {
	if rootCmd.PersistentFlags().Changed("port") {
		if err := config.ValidatePort(port); err != nil {
			return config.Endpoint{}, fmt.Errorf("--port: %w", err)
		}
	}
	return config.Resolve(config.Overrides{Host: host, Port: port}, Config())
}

// Identity is how this build describes itself over MCP.
func Identity() mcp.Identity {
	return mcp.Identity{Name: version.Name, Version: version.Short()}
}

// PrintJSON marshals v to JSON and writes it to the output writer.
// Returns nil if output format is not JSON.
func PrintJSON(v any) error {
	if output != "json" {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Fprintln(out, string(b))
	return nil
}

// PrintJSONError prints an error in JSON format if output is JSON.
// Returns nil if error was printed (suppressing Cobra error), or the original error if not.
func PrintJSONError(err error) error {
	if output != "json" || err == nil {
		return err
	}
	_ = PrintJSON(map[string]string{"error": err.Error()})
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "", "Output format: json")
	rootCmd.PersistentFlags().StringVar(&host, "host", "", "Bridge host (default 127.0.0.1)")
	rootCmd.PersistentFlags().IntVar(&port, "port", 0, "Bridge port (default 3043)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return validOutputFormats, cobra.ShellCompDirectiveNoFileComp
	})
}
