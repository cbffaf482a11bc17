// Package version provides build version information for principal-md.
// Variables are set at build time via ldflags:
//
//	go build -ldflags="-X github.com/jpl-au/principal-md/internal/version.Version=v0.2.0 \
//	  -X github.com/jpl-au/principal-md/internal/version.GitCommit=abc123 \
//	  -X github.com/jpl-au/principal-md/internal/version.BuildTime=2026-01-15T10:30:00Z"
package version

import (
	"fmt"
	"runtime"
	"strings"
)

// Name identifies the server to MCP clients and in the app info reply.
const Name = "principal-md"

// Build information. Set via ldflags at build time.
var (
	Version   = "0.1.0"   // Version tag advertised to MCP clients
	GitCommit = "unknown" // Short git commit hash
	BuildTime = "unknown" // RFC3339 build timestamp
)

// Info holds structured version information.
type Info struct {
	Name      string `json:"name"`
	BuildTag  string `json:"build_tag"`
	BuildTime string `json:"build_time"`
	GitCommit string `json:"git_commit"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"` // e.g. "darwin arm64"
}

// Get returns the current version information.
func Get() Info {
	return Info{
		Name:      Name,
		BuildTag:  Version,
		BuildTime: BuildTime,
		GitCommit: GitCommit,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s %s", runtime.GOOS, runtime.GOARCH),
	}
}

// String returns a formatted version string suitable for display.
func (i Info) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name:         %s\n", i.Name)
	fmt.Fprintf(&b, "Build Tag:    %s\n", i.BuildTag)
	fmt.Fprintf(&b, "Build Time:   %s\n", i.BuildTime)
	fmt.Fprintf(&b, "Go Version:   %s\n", i.GoVersion)
	fmt.Fprintf(&b, "Platform:     %s\n", i.Platform)
	fmt.Fprintf(&b, "Git Commit:   %s\n", i.GitCommit)
	return b.String()
}

// Short returns just the version string (e.g., "0.1.0").
func Short() string {
	return Version
}
