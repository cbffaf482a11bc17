/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// stub.go implements "principal-md stub", a stand-in bridge for trying the
// MCP server without the editor extension.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jpl-au/principal-md/internal/stub"
	"github.com/spf13/cobra"
)

func newStubCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stub",
		Short: "Run a stand-in bridge that logs requests",
		Long: `Serve the bridge HTTP API without an editor.

Every request is printed to stderr. Useful for testing MCP clients:
  principal-md stub --port 3043     # terminal 1
  principal-md check --port 3043    # terminal 2`,
		Args: cobra.NoArgs,
		RunE: runStub,
	}
}

func runStub(c *cobra.Command, _ []string) error {
	e, err := Endpoint()
	if err != nil {
		return err
	}

	s := stub.New()
	s.OnRequest = func(r stub.Request) {
		fmt.Fprintf(os.Stderr, "%s %s id=%s %s\n", r.Method, r.Path, r.RequestID, r.Body)
	}

	ln, err := net.Listen("tcp", e.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", e.Addr(), err)
	}

	srv := &http.Server{Handler: s, ReadHeaderTimeout: 10 * time.Second}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}()

	fmt.Fprintf(os.Stderr, "stub bridge listening on http://%s\n", ln.Addr())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func init() {
	rootCmd.AddCommand(newStubCmd())
}
