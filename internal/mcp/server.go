// Package mcp implements the Model Context Protocol server that relays
// markdown display requests from AI assistants to the editor bridge.
package mcp

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/jpl-au/principal-md/internal/bridge"
	"github.com/jpl-au/principal-md/internal/config"
	"github.com/jpl-au/principal-md/internal/log"
	"github.com/mark3labs/mcp-go/server"
)

// Options configures Serve.
type Options struct {
	Identity Identity
	Endpoint config.Endpoint
	Timeout  time.Duration // per bridge request; zero means none
}

// NewServer builds the MCP server with the tool set registered.
func NewServer(id Identity, reg *Registry) *server.MCPServer {
	s := server.NewMCPServer(
		id.Name,
		id.Version,
		server.WithToolCapabilities(false),
	)
	reg.register(s)
	return s
}

// Serve runs the MCP server over stdio until the client disconnects.
//
// stdout carries JSON-RPC only; diagnostics go to stderr.
func Serve(o Options) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	client := bridge.New(o.Endpoint, bridge.WithTimeout(o.Timeout))
	s := NewServer(o.Identity, NewRegistry(o.Identity, client))

	log.SetBridge(o.Endpoint.URL())

	slog.Info("MCP server started", "name", o.Identity.Name, "version", o.Identity.Version, "transport", "stdio")
	slog.Info("bridge configured", "url", o.Endpoint.URL())

	err := server.ServeStdio(s)
	if errors.Is(err, context.Canceled) {
		slog.Info("server stopped")
		return nil
	}
	return err
}
