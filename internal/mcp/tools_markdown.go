// tools_markdown.go implements the two tools that relay to the bridge.
//
// Both follow the same shape: decode, make one bridge call, and turn any
// failure into a tool error result so the assistant can read what went wrong.
// Nothing here is retried.

package mcp

import (
	"context"
	"log/slog"

	"github.com/jpl-au/principal-md/internal/bridge"
	"github.com/jpl-au/principal-md/internal/log"
	"github.com/mark3labs/mcp-go/mcp"
)

// Result texts.
const (
	msgShown      = "Markdown content displayed successfully"
	msgOpened     = "File opened successfully"
	prefixShowErr = "Failed to display markdown: "
	prefixOpenErr = "Failed to open file: "
)

// showMarkdown handles showMarkdownContent tool calls.
func (r *Registry) showMarkdown(ctx context.Context, args map[string]any) *mcp.CallToolResult {
	id := bridge.NewRequestID()
	l := log.Event("mcp:"+ToolShowMarkdown, "show").RequestID(id)

	m, err := decodeShowArgs(args)
	if err != nil {
		l.Write(err)
		return mcp.NewToolResultError(prefixShowErr + err.Error())
	}
	if m.Title != nil {
		l.Target(*m.Title)
	}
	l.Detail("content_digest", log.Digest(m.Content)).Detail("bytes", len(m.Content))

	reply, err := r.client.ShowMarkdown(ctx, m, id)
	l.Write(err)
	if err != nil {
		slog.Warn("bridge call failed", "tool", ToolShowMarkdown, "request_id", id, "error", err)
		return mcp.NewToolResultError(prefixShowErr + err.Error())
	}
	return mcp.NewToolResultText(messageOr(reply, msgShown))
}

// openMarkdownFile handles openMarkdownFile tool calls.
func (r *Registry) openMarkdownFile(ctx context.Context, args map[string]any) *mcp.CallToolResult {
	id := bridge.NewRequestID()
	l := log.Event("mcp:"+ToolOpenFile, "open").RequestID(id)

	req, err := decodeOpenArgs(args)
	if err != nil {
		l.Write(err)
		return mcp.NewToolResultError(prefixOpenErr + err.Error())
	}
	l.Target(req.FilePath)
	if req.LineNumber != nil {
		l.Detail("line", *req.LineNumber)
	}

	reply, err := r.client.OpenMarkdownFile(ctx, req, id)
	l.Write(err)
	if err != nil {
		slog.Warn("bridge call failed", "tool", ToolOpenFile, "request_id", id, "error", err)
		return mcp.NewToolResultError(prefixOpenErr + err.Error())
	}
	return mcp.NewToolResultText(messageOr(reply, msgOpened))
}

func messageOr(reply *bridge.Reply, def string) string {
	if reply.Message != "" {
		return reply.Message
	}
	return def
}
