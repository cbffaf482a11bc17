// tools.go declares the fixed tool set and routes calls to it.
//
// The three tools are built once in NewRegistry and never change, so
// tools/list returns identical descriptors for the life of the process.
// Each tool pairs its descriptor with a handler that decodes its own typed
// arguments; there is no shared untyped extraction step.

package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/jpl-au/principal-md/internal/bridge"
	"github.com/jpl-au/principal-md/internal/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Tool names exposed to MCP clients.
const (
	ToolShowMarkdown = "showMarkdownContent"
	ToolOpenFile     = "openMarkdownFile"
	ToolAppInfo      = "getAppInfo"
)

// ErrUnknownTool is returned by Registry.Call for a name it does not declare.
// It is a protocol error, never a soft tool result.
var ErrUnknownTool = errors.New("unknown tool")

// Identity is how the server describes itself to clients and in getAppInfo.
type Identity struct {
	Name    string
	Version string
}

// handlerFunc runs one tool with the raw argument map from the request.
type handlerFunc func(ctx context.Context, args map[string]any) *mcp.CallToolResult

type tool struct {
	def    mcp.Tool
	handle handlerFunc
}

// Registry holds the tool set and the bridge client the tools relay to.
// It has no mutable state; concurrent calls are independent.
type Registry struct {
	id     Identity
	client *bridge.Client
	tools  []tool
}

// NewRegistry builds the tool set for client.
func NewRegistry(id Identity, client *bridge.Client) *Registry {
	r := &Registry{id: id, client: client}
	r.tools = []tool{
		{
			def: mcp.NewTool(ToolShowMarkdown,
				mcp.WithDescription("Display markdown content in VS Code Industrial Markdown view"),
				mcp.WithString("content", mcp.Required(), mcp.Description("Markdown content to display")),
				mcp.WithString("title", mcp.Description("Optional title for the document")),
				mcp.WithObject("metadata", mcp.Description("Optional metadata for the document")),
			),
			handle: r.showMarkdown,
		},
		{
			def: mcp.NewTool(ToolOpenFile,
				mcp.WithDescription("Open a markdown file in VS Code"),
				mcp.WithString("filePath", mcp.Required(), mcp.Description("Path to the markdown file")),
				mcp.WithNumber("lineNumber", mcp.Description("Optional line number to jump to")),
			),
			handle: r.openMarkdownFile,
		},
		{
			def: mcp.NewTool(ToolAppInfo,
				mcp.WithDescription("Get information about the PrincipalMD extension and bridge status"),
			),
			handle: r.appInfo,
		},
	}
	return r
}

// Tools returns the tool descriptors in declaration order.
func (r *Registry) Tools() []mcp.Tool {
	defs := make([]mcp.Tool, len(r.tools))
	for i, t := range r.tools {
		defs[i] = t.def
	}
	return defs
}

// Call runs the named tool. Bridge failures come back as a result with
// IsError set; only an unknown name returns an error.
func (r *Registry) Call(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	for _, t := range r.tools {
		if t.def.Name == name {
			return t.handle(ctx, args), nil
		}
	}
	err := fmt.Errorf("%w: %s", ErrUnknownTool, name)
	log.Event("mcp:"+name, "call").Write(err)
	return nil, err
}

// register adds every tool to s, routing through Call.
func (r *Registry) register(s *server.MCPServer) {
	for _, t := range r.tools {
		s.AddTool(t.def, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return r.Call(ctx, req.Params.Name, req.GetArguments())
		})
	}
}
