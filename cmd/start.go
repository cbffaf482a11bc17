/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// start.go implements "principal-md start", the MCP stdio server.
//
// Unlike other commands that run and exit, start blocks until the MCP client
// closes stdin. It is also the root command's default action.

package cmd

import (
	"github.com/jpl-au/principal-md/internal/mcp"
	"github.com/spf13/cobra"
)

func newStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the MCP server on stdio",
		Long: `Start an MCP (Model Context Protocol) server over stdio.

Tool calls are forwarded to the editor bridge:
  principal-md start               # bridge at 127.0.0.1:3043
  principal-md start --port 4000   # bridge at 127.0.0.1:4000`,
		Args: cobra.NoArgs,
		RunE: runStart,
	}
}

func runStart(_ *cobra.Command, _ []string) error {
	e, err := Endpoint()
	if err != nil {
		return err
	}
	return mcp.Serve(mcp.Options{
		Identity: Identity(),
		Endpoint: e,
		Timeout:  Config().Timeout(),
	})
}

func init() {
	// Assigned here rather than in the rootCmd literal: runStart reads rootCmd's flags.
	rootCmd.RunE = runStart
	rootCmd.AddCommand(newStartCmd())
}
