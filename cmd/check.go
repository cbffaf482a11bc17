/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// check.go implements "principal-md check", a smoke test of the bridge.
//
// It probes /health and, if the bridge answers, sends a short test document
// so the user can see it render in the editor.

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jpl-au/principal-md/internal/bridge"
	"github.com/jpl-au/principal-md/internal/log"
	"github.com/spf13/cobra"
)

const flagHealthOnly = "health-only"

// checkTimeout bounds each request so a hung bridge fails the check.
const checkTimeout = 10 * time.Second

const testDocument = `# Test from principal-md

This is a test message from the principal-md MCP server.

## Features
- Bridge connection working
- Markdown rendering
- MCP server ready`

// checkResult is the JSON shape of a check.
type checkResult struct {
	Bridge    string `json:"bridge"`
	Connected bool   `json:"connected"`
	Shown     bool   `json:"shown"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
}

func newCheckCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "check",
		Short: "Test the connection to the editor bridge",
		Long: `Check that the editor bridge is reachable and can display markdown.

  principal-md check                # health check, then show a test document
  principal-md check --health-only  # health check only`,
		Args: cobra.NoArgs,
		RunE: runCheck,
	}
	c.Flags().Bool(flagHealthOnly, false, "Only run the health check")
	return c
}

func runCheck(c *cobra.Command, _ []string) error {
	healthOnly, _ := c.Flags().GetBool(flagHealthOnly)

	e, err := Endpoint()
	if err != nil {
		return PrintJSONError(err)
	}
	client := bridge.New(e, bridge.WithTimeout(checkTimeout))
	log.SetBridge(e.URL())
	res := checkResult{Bridge: e.URL()}

	ctx := c.Context()

	if !JSON() {
		fmt.Fprintf(Out(), "Testing bridge connection at %s\n\n", e.URL())
		fmt.Fprintln(Out(), "1. Health check...")
	}
	res.Connected = client.CheckHealth(ctx)

	var healthErr error
	if !res.Connected {
		healthErr = errors.New("bridge is not responding")
	}
	log.Event("cli:check", "health").Target(e.URL()).Write(healthErr)

	if !res.Connected {
		err := fmt.Errorf("bridge is not responding at %s; make sure the editor extension is running", e.URL())
		if JSON() {
			res.Error = err.Error()
			_ = PrintJSON(res)
			return err
		}
		fmt.Fprintln(Out(), "   Bridge: not connected")
		return err
	}
	if !JSON() {
		fmt.Fprintln(Out(), "   Bridge: connected")
	}

	if healthOnly {
		return PrintJSON(res)
	}

	if !JSON() {
		fmt.Fprintln(Out(), "\n2. Show markdown...")
	}
	reply, err := showTestDocument(ctx, client)
	if err != nil {
		if JSON() {
			res.Error = err.Error()
			_ = PrintJSON(res)
			return err
		}
		fmt.Fprintf(Out(), "   Error: %v\n", err)
		return err
	}
	res.Shown = true
	res.Message = reply.Message

	if JSON() {
		return PrintJSON(res)
	}
	fmt.Fprintln(Out(), "   Response: success")
	if reply.Message != "" {
		fmt.Fprintf(Out(), "   Message: %s\n", reply.Message)
	}
	fmt.Fprintln(Out(), "\nBridge communication test completed.")
	return nil
}

func showTestDocument(ctx context.Context, client *bridge.Client) (*bridge.Reply, error) {
	title := "Principal MD Test"
	meta, _ := json.Marshal(map[string]string{"source": "principal-md check"})

	id := bridge.NewRequestID()
	b := log.Event("cli:check", "show").RequestID(id).Target(title)
	reply, err := client.ShowMarkdown(ctx, bridge.MarkdownContent{
		Content:  testDocument,
		Title:    &title,
		Metadata: meta,
	}, id)
	b.Write(err)
	return reply, err
}

func init() {
	rootCmd.AddCommand(newCheckCmd())
}
