// tools_info.go implements getAppInfo.
//
// getAppInfo never fails: an unreachable bridge is reported in the payload
// as "disconnected" rather than as a tool error.

package mcp

import (
	"context"

	"github.com/jpl-au/principal-md/internal/log"
	"github.com/mark3labs/mcp-go/mcp"
)

// Bridge status values reported by getAppInfo.
const (
	StatusConnected    = "connected"
	StatusDisconnected = "disconnected"
)

// AppInfo is the JSON body of a getAppInfo result.
type AppInfo struct {
	Name         string `json:"name"`
	Version      string `json:"version"`
	BridgeStatus string `json:"bridgeStatus"`
	BridgeURL    string `json:"bridgeUrl"`
}

func (r *Registry) appInfo(ctx context.Context, _ map[string]any) *mcp.CallToolResult {
	status := StatusDisconnected
	if r.client.CheckHealth(ctx) {
		status = StatusConnected
	}

	log.Event("mcp:"+ToolAppInfo, "info").Detail("bridge_status", status).Write(nil)

	return jsonResult(AppInfo{
		Name:         r.id.Name,
		Version:      r.id.Version,
		BridgeStatus: status,
		BridgeURL:    r.client.Endpoint().URL(),
	})
}
