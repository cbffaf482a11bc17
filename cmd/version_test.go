package cmd

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersion(t *testing.T) {
	env := newTestEnv(t)

	out := env.run("version")
	env.contains(out, "Name:         principal-md")
	env.contains(out, "Build Tag:    0.1.0")

	var info map[string]any
	require.NoError(t, json.Unmarshal([]byte(env.run("version", "-o", "json")), &info))
	assert.Equal(t, "principal-md", info["name"])
	assert.Equal(t, "0.1.0", info["build_tag"])
}

func TestVersion_IgnoresBrokenConfig(t *testing.T) {
	env := newTestEnv(t)
	writeGlobalConfig(t, env, "bridge: [unclosed")

	env.contains(env.run("version"), "principal-md")
}
