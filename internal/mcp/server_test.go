package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/jpl-au/principal-md/internal/bridge"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rpc sends one JSON-RPC message through the server and returns the decoded reply.
func rpc(t *testing.T, s *server.MCPServer, msg string) map[string]any {
	t.Helper()
	resp := s.HandleMessage(context.Background(), json.RawMessage(msg))
	require.NotNil(t, resp)

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func initialize(t *testing.T, s *server.MCPServer) {
	t.Helper()
	out := rpc(t, s, `{"jsonrpc":"2.0","id":0,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"1"}}}`)
	require.Contains(t, out, "result")
}

func TestServer_ListTools(t *testing.T) {
	_, reg := withStub(t)
	s := NewServer(testID, reg)
	initialize(t, s)

	list := func() string {
		out := rpc(t, s, `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)
		require.Contains(t, out, "result")
		data, err := json.Marshal(out["result"])
		require.NoError(t, err)
		return string(data)
	}

	first := list()
	assert.Equal(t, first, list(), "tools/list must be stable")

	var result struct {
		Tools []struct {
			Name        string         `json:"name"`
			InputSchema map[string]any `json:"inputSchema"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal([]byte(first), &result))

	names := map[string]bool{}
	for _, tool := range result.Tools {
		names[tool.Name] = true
		assert.Equal(t, "object", tool.InputSchema["type"])
	}
	assert.Equal(t, map[string]bool{ToolShowMarkdown: true, ToolOpenFile: true, ToolAppInfo: true}, names)
}

func TestServer_CallTool(t *testing.T) {
	s0, reg := withStub(t)
	s0.Respond(bridge.PathShowMarkdown, http.StatusOK, `{"success":true,"message":"Displayed"}`)
	s := NewServer(testID, reg)
	initialize(t, s)

	out := rpc(t, s, `{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"showMarkdownContent","arguments":{"content":"# Hi"}}}`)
	require.Contains(t, out, "result")

	result := out["result"].(map[string]any)
	assert.NotEqual(t, true, result["isError"])
	assert.Equal(t, []any{map[string]any{"type": "text", "text": "Displayed"}}, result["content"])
}

func TestServer_SoftErrorIsResult(t *testing.T) {
	s := NewServer(testID, unreachable(t))
	initialize(t, s)

	out := rpc(t, s, `{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"openMarkdownFile","arguments":{"filePath":"a.md"}}}`)
	require.Contains(t, out, "result")
	assert.NotContains(t, out, "error")
	assert.Equal(t, true, out["result"].(map[string]any)["isError"])
}

func TestServer_UnknownToolIsProtocolError(t *testing.T) {
	s := NewServer(testID, unreachable(t))
	initialize(t, s)

	for range 2 {
		out := rpc(t, s, `{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"nope","arguments":{}}}`)
		assert.Contains(t, out, "error")
		assert.NotContains(t, out, "result")
	}
}
