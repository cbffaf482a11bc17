/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// guide.go implements "principal-md guide" for documentation access.
//
// Guides are embedded in the binary via the guide package. Terminal output
// gets glamour rendering; pipe/redirect gets raw markdown.

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/jpl-au/principal-md/guide"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newGuideCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "guide [topic]",
		Short: "Show the principal-md usage guide",
		Long: `Outputs the principal-md guide.

  principal-md guide           # main guide
  principal-md guide tools     # the MCP tools and their arguments
  principal-md guide bridge    # the editor bridge HTTP API`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}

			content, err := guide.Get(name)
			if err != nil {
				available, listErr := guide.List()
				if listErr != nil {
					return listErr
				}
				return PrintJSONError(fmt.Errorf("guide %q not found. Available: %s", name, strings.Join(available, ", ")))
			}

			if term.IsTerminal(int(os.Stdout.Fd())) {
				rendered, err := glamour.Render(content, "dark")
				if err == nil {
					fmt.Fprint(Out(), rendered)
					return nil
				}
			}

			fmt.Fprint(Out(), content)
			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(newGuideCmd())
}
