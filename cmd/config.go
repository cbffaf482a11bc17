/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// config.go implements "principal-md config" for configuration management.
//
// Config follows a cascade model similar to git: local config
// (.principal-md/config.yaml) takes precedence over global
// (~/.principal-md/config.yaml). The --local flag forces local config even
// if it doesn't exist yet.

package cmd

import (
	"fmt"

	"github.com/jpl-au/principal-md/internal/config"
	"github.com/spf13/cobra"
)

const flagLocal = "local"

func newConfigCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "config [key] [value]",
		Short: "View or set config values",
		Long: `View or set config values.

  principal-md config                   # show config
  principal-md config bridge.port       # show bridge.port value
  principal-md config bridge.port 4000  # set bridge.port

Configuration locations:
  Global: ~/.principal-md/config.yaml
  Local:  .principal-md/config.yaml

Uses local config if it exists, otherwise global.
Writes go to the same place reads come from.
Use --local to use local config instead.`,
		Args: cobra.MaximumNArgs(2),
		RunE: runConfig,
	}
	c.Flags().Bool(flagLocal, false, "Use local config (.principal-md/config.yaml)")
	return c
}

func runConfig(c *cobra.Command, args []string) error {
	forceLocal, _ := c.Flags().GetBool(flagLocal)

	var cfg *config.Config
	var err error
	if forceLocal {
		cfg, err = config.LoadScope(config.ScopeLocal)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return PrintJSONError(fmt.Errorf("config load: %w", err))
	}

	scopeName := "global"
	if cfg.Scope() == config.ScopeLocal {
		scopeName = "local"
	}

	switch len(args) {
	case 0:
		if JSON() {
			return PrintJSON(cfg.All())
		}
		for _, k := range config.ValidKeys() {
			v, _ := cfg.Get(k)
			fmt.Fprintf(Out(), "%s: %s\n", k, v)
		}

	case 1:
		v, err := cfg.Get(args[0])
		if err != nil {
			return PrintJSONError(fmt.Errorf("config get %q: %w", args[0], err))
		}
		if JSON() {
			return PrintJSON(map[string]string{args[0]: v})
		}
		fmt.Fprintln(Out(), v)

	case 2:
		// Write to the same place we read from
		if err := cfg.Set(args[0], args[1]); err != nil {
			return PrintJSONError(fmt.Errorf("config set %q: %w", args[0], err))
		}
		if err := cfg.Save(); err != nil {
			return PrintJSONError(fmt.Errorf("config save: %w", err))
		}
		if JSON() {
			return PrintJSON(map[string]string{"key": args[0], "value": args[1], "scope": scopeName})
		}
		fmt.Fprintf(Out(), "%s = %s (%s)\n", args[0], args[1], scopeName)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(newConfigCmd())
}
