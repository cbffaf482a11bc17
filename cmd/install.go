/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// install.go implements "install-cursor" and "install-claude", which register
// principal-md in an application's MCP config file.
//
// Existing content is merged, never discarded: only mcpServers.principal-md
// is added or replaced. A config that is not a JSON object is refused unless
// --force is given.

package cmd

import (
	"fmt"
	"os"

	"github.com/jpl-au/principal-md/internal/install"
	"github.com/jpl-au/principal-md/internal/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	flagDryRun  = "dry-run"
	flagForce   = "force"
	flagCommand = "command"
)

// installResult is the JSON shape of an install.
type installResult struct {
	App      string `json:"app"`
	Path     string `json:"path"`
	Changed  bool   `json:"changed"`
	DryRun   bool   `json:"dry_run"`
	Replaced bool   `json:"replaced"`
	Diff     string `json:"diff,omitempty"`
}

func newInstallCmd(name string, target func(home string) install.Target) *cobra.Command {
	app := target("~").Name
	c := &cobra.Command{
		Use:   name,
		Short: fmt.Sprintf("Register principal-md in %s's MCP config", app),
		Long: fmt.Sprintf(`Add principal-md to %s's mcpServers configuration.

Other servers and settings in the file are kept as they are.

  principal-md %s             # write the config
  principal-md %s --dry-run   # show the change without writing
  principal-md %s --port 4000 # point at a bridge on another port`, app, name, name, name),
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runInstall(c, target)
		},
	}
	c.Flags().Bool(flagDryRun, false, "Show the change without writing it")
	c.Flags().Bool(flagForce, false, "Replace a config file that is not a JSON object")
	c.Flags().String(flagCommand, "", "Command the application should run (default: this executable)")
	return c
}

func runInstall(c *cobra.Command, target func(home string) install.Target) error {
	dryRun, _ := c.Flags().GetBool(flagDryRun)
	force, _ := c.Flags().GetBool(flagForce)
	command, _ := c.Flags().GetString(flagCommand)

	e, err := Endpoint()
	if err != nil {
		return PrintJSONError(err)
	}

	if command == "" {
		if command, err = os.Executable(); err != nil {
			return PrintJSONError(fmt.Errorf("locate executable: %w", err))
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return PrintJSONError(fmt.Errorf("locate home directory: %w", err))
	}
	t := target(home)

	res, err := install.Install(t, install.NewEntry(command, e), install.Options{DryRun: dryRun, Force: force})
	if !dryRun {
		log.Event("cli:"+c.Name(), "install").Target(t.Path()).Detail("port", e.Port).Write(err)
	}
	if err != nil {
		return PrintJSONError(err)
	}

	if JSON() {
		r := installResult{
			App:      t.Name,
			Path:     res.Path,
			Changed:  res.Changed(),
			DryRun:   dryRun,
			Replaced: res.Replaced,
		}
		if dryRun && res.Changed() {
			r.Diff = res.Diff().Diff
		}
		return PrintJSON(r)
	}

	switch {
	case dryRun && !res.Changed():
		fmt.Fprintf(Out(), "%s config is already up to date: %s\n", t.Name, res.Path)
	case dryRun:
		fmt.Fprint(Out(), res.Diff().Format(term.IsTerminal(int(os.Stdout.Fd()))))
	case !res.Changed():
		fmt.Fprintf(Out(), "%s config is already up to date: %s\n", t.Name, res.Path)
	default:
		if res.Replaced {
			fmt.Fprintf(Out(), "Replaced unreadable config at %s\n", res.Path)
		}
		fmt.Fprintf(Out(), "Installed MCP server config for %s at %s\n", t.Name, res.Path)
	}
	if !dryRun {
		fmt.Fprintf(Out(), "Make sure the PrincipalMD editor extension is running with its HTTP bridge on port %d.\n", e.Port)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(newInstallCmd("install-cursor", install.Cursor))
	rootCmd.AddCommand(newInstallCmd("install-claude", install.Claude))
}
