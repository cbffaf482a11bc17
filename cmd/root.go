/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// root.go defines the root command and CLI execution entry point.
//
// Running the binary with no command starts the MCP server, so editor
// configs can launch it either as "principal-md" or "principal-md start".
//
// PersistentPreRunE loads config once for every command except those that
// must work with a broken config file (config, guide, version, help).

package cmd

import (
	"fmt"
	"os"
	"slices"

	"github.com/jpl-au/principal-md/internal/config"
	"github.com/jpl-au/principal-md/internal/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "principal-md",
	Short: "MCP server that shows markdown in your editor",
	Long: `principal-md exposes markdown display tools to AI assistants over MCP and
relays each call to the PrincipalMD editor extension's HTTP bridge.

Run with no command to start the MCP server on stdio.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if output != "" && !slices.Contains(validOutputFormats, output) {
			return fmt.Errorf("invalid output format: %s (valid: %v)", output, validOutputFormats)
		}

		name := topLevelCmdName(cmd)
		if noConfigCommands[name] {
			return nil
		}

		cfg, err := config.Load()
		if err != nil {
			return PrintJSONError(fmt.Errorf("load config: %w", err))
		}
		loaded = cfg

		if auditCommands[name] && cfg.Audit() {
			// Best-effort: a missing audit log never blocks a command
			if err := log.Open(); err != nil {
				fmt.Fprintf(os.Stderr, "warning: audit log unavailable: %v\n", err)
			}
		}
		return nil
	},
}

// noConfigCommands skip config loading.
var noConfigCommands = map[string]bool{
	"config":     true,
	"guide":      true,
	"version":    true,
	"help":       true,
	"completion": true,
}

// auditCommands record bridge calls in the audit log.
var auditCommands = map[string]bool{
	"start":          true,
	"check":          true,
	"install-cursor": true,
	"install-claude": true,
}

// topLevelCmdName returns the name of the top-level command (direct child of root).
// The root itself reports "start", since that is what it runs.
func topLevelCmdName(cmd *cobra.Command) string {
	if !cmd.HasParent() {
		return "start"
	}
	for cmd.HasParent() && cmd.Parent().HasParent() {
		cmd = cmd.Parent()
	}
	return cmd.Name()
}

// Execute runs the root command and handles process lifecycle.
// Exit code 1 indicates error.
func Execute() {
	err := rootCmd.Execute()
	log.Close()
	if err != nil {
		os.Exit(1)
	}
}

// RootCmd returns the root command for testing.
func RootCmd() *cobra.Command {
	return rootCmd
}
