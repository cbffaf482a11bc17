package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readServers returns the mcpServers.principal-md entry from a config file.
func readServers(t *testing.T, path string) (map[string]any, map[string]any) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	servers, ok := doc["mcpServers"].(map[string]any)
	require.True(t, ok, "mcpServers must be an object: %s", data)
	entry, _ := servers["principal-md"].(map[string]any)
	return servers, entry
}

func TestInstallCursor(t *testing.T) {
	env := newTestEnv(t)

	out := env.run("install-cursor", "--command", "/opt/bin/principal-md")
	env.contains(out, "Installed MCP server config for Cursor")
	env.contains(out, "port 3043")

	_, entry := readServers(t, filepath.Join(env.home, ".cursor", "mcp.json"))
	assert.Equal(t, "/opt/bin/principal-md", entry["command"])
	assert.Equal(t, []any{"start"}, entry["args"])
	assert.Equal(t, map[string]any{
		"VSCODE_MCP_BRIDGE_PORT": "3043",
		"VSCODE_MCP_BRIDGE_HOST": "127.0.0.1",
	}, entry["env"])
}

func TestInstallClaude(t *testing.T) {
	t.Run("keeps other servers", func(t *testing.T) {
		env := newTestEnv(t)
		path := filepath.Join(env.home, ".claude.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"theme":"dark","mcpServers":{"other":{"command":"x"}}}`), 0644))

		env.contains(env.run("install-claude", "--command", "pmd"), path)

		servers, entry := readServers(t, path)
		assert.Equal(t, map[string]any{"command": "x"}, servers["other"])
		assert.Equal(t, "pmd", entry["command"])
	})

	t.Run("uses existing alternate location", func(t *testing.T) {
		env := newTestEnv(t)
		alt := filepath.Join(env.home, ".config", "claude", "config.json")
		require.NoError(t, os.MkdirAll(filepath.Dir(alt), 0755))
		require.NoError(t, os.WriteFile(alt, []byte(`{}`), 0644))

		env.run("install-claude", "--command", "pmd")

		_, entry := readServers(t, alt)
		assert.Equal(t, "pmd", entry["command"])
		assert.NoFileExists(t, filepath.Join(env.home, ".claude.json"))
	})

	t.Run("defaults to the running executable", func(t *testing.T) {
		env := newTestEnv(t)
		env.run("install-claude")

		_, entry := readServers(t, filepath.Join(env.home, ".claude.json"))
		assert.Equal(t, filepath.Base(env.binary), filepath.Base(entry["command"].(string)))
	})
}

func TestInstall_Port(t *testing.T) {
	tests := []struct {
		name   string
		config string // bridge.port in global config, empty for unset
		env    string // VSCODE_MCP_BRIDGE_PORT, empty for unset
		args   []string
		want   string
	}{
		{"default", "", "", nil, "3043"},
		{"config", "6000", "", nil, "6000"},
		{"env beats config", "6000", "5000", nil, "5000"},
		{"flag beats env", "6000", "5000", []string{"--port", "4000"}, "4000"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)
			if tc.config != "" {
				env.run("config", "bridge.port", tc.config)
			}
			if tc.env != "" {
				env.setenv("VSCODE_MCP_BRIDGE_PORT", tc.env)
			}

			args := append([]string{"install-cursor", "--command", "pmd"}, tc.args...)
			env.contains(env.run(args...), "port "+tc.want)

			_, entry := readServers(t, filepath.Join(env.home, ".cursor", "mcp.json"))
			assert.Equal(t, tc.want, entry["env"].(map[string]any)["VSCODE_MCP_BRIDGE_PORT"])
		})
	}
}

func TestInstall_DryRun(t *testing.T) {
	env := newTestEnv(t)

	out := env.run("install-cursor", "--command", "pmd", "--dry-run")
	env.contains(out, "+++ ")
	env.contains(out, `+   "mcpServers": {`)
	env.contains(out, `"principal-md"`)
	assert.NoFileExists(t, filepath.Join(env.home, ".cursor", "mcp.json"))

	env.run("install-cursor", "--command", "pmd")
	env.contains(env.run("install-cursor", "--command", "pmd", "--dry-run"), "already up to date")
}

func TestInstall_JSON(t *testing.T) {
	env := newTestEnv(t)

	out := env.run("install-cursor", "--command", "pmd", "-o", "json")

	var res map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "Cursor", res["app"])
	assert.Equal(t, filepath.Join(env.home, ".cursor", "mcp.json"), res["path"])
	assert.Equal(t, true, res["changed"])
	assert.Equal(t, false, res["dry_run"])
}

func TestInstall_Errors(t *testing.T) {
	t.Run("non-object config needs force", func(t *testing.T) {
		env := newTestEnv(t)
		path := filepath.Join(env.home, ".claude.json")
		require.NoError(t, os.WriteFile(path, []byte(`[1,2,3]`), 0644))

		out, err := env.runErr("install-claude", "--command", "pmd")
		assert.Error(t, err)
		env.contains(out, "--force")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, `[1,2,3]`, string(data))

		env.contains(env.run("install-claude", "--command", "pmd", "--force"), "Replaced")
		_, entry := readServers(t, path)
		assert.Equal(t, "pmd", entry["command"])
	})

	t.Run("invalid port flag", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.runErr("install-cursor", "--port", "0")
		assert.Error(t, err)
	})

	t.Run("invalid port env", func(t *testing.T) {
		env := newTestEnv(t)
		env.setenv("VSCODE_MCP_BRIDGE_PORT", "not-a-port")
		_, err := env.runErr("install-cursor")
		assert.Error(t, err)
	})
}
