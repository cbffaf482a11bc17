package cmd

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	t.Run("connected", func(t *testing.T) {
		s, port := startStub(t)
		env := newTestEnv(t)

		out := env.run("check", "--port", port)
		env.contains(out, "Bridge: connected")
		env.contains(out, `Displayed "Principal MD Test"`)
		env.contains(out, "completed")

		reqs := s.Requests()
		require.Len(t, reqs, 2)
		assert.Equal(t, "/health", reqs[0].Path)
		assert.Equal(t, "/show-markdown", reqs[1].Path)
		assert.NotEmpty(t, reqs[1].RequestID)

		var body map[string]any
		require.NoError(t, json.Unmarshal(reqs[1].Body, &body))
		assert.Equal(t, "Principal MD Test", body["title"])
		assert.Contains(t, body["content"], "# Test from principal-md")

		assert.NoDirExists(t, filepath.Join(env.home, ".principal-md"), "nothing is persisted by default")
	})

	t.Run("health only", func(t *testing.T) {
		s, port := startStub(t)
		env := newTestEnv(t)

		env.run("check", "--port", port, "--health-only")
		assert.Len(t, s.Requests(), 1)
	})

	t.Run("port from env", func(t *testing.T) {
		s, port := startStub(t)
		env := newTestEnv(t)
		env.setenv("VSCODE_MCP_BRIDGE_PORT", port)

		env.run("check", "--health-only")
		assert.Len(t, s.Requests(), 1)
	})

	t.Run("audit enabled", func(t *testing.T) {
		_, port := startStub(t)
		env := newTestEnv(t)
		env.run("config", "log.audit", "true")

		env.run("check", "--port", port)
		assert.FileExists(t, filepath.Join(env.home, ".principal-md", "log", "audit.db"))
	})

	t.Run("json", func(t *testing.T) {
		_, port := startStub(t)
		env := newTestEnv(t)

		out := env.run("check", "--port", port, "-o", "json")

		var res map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &res))
		assert.Equal(t, true, res["connected"])
		assert.Equal(t, true, res["shown"])
		assert.Equal(t, "http://127.0.0.1:"+port, res["bridge"])
	})
}

func TestCheck_Errors(t *testing.T) {
	t.Run("bridge not running", func(t *testing.T) {
		env := newTestEnv(t)

		out, err := env.runErr("check", "--port", closedPort(t))
		assert.Error(t, err)
		env.contains(out, "not connected")
		env.contains(out, "not responding")
	})

	t.Run("bridge rejects content", func(t *testing.T) {
		s, port := startStub(t)
		s.Respond("/show-markdown", http.StatusInternalServerError, `{"error":"boom"}`)
		env := newTestEnv(t)

		out, err := env.runErr("check", "--port", port)
		assert.Error(t, err)
		env.contains(out, "boom")
	})
}
