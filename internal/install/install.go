// install.go locates and rewrites the config files of supported applications.

package install

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jpl-au/principal-md/internal/config"
	"github.com/jpl-au/principal-md/internal/diff"
)

// ServerKey is the name principal-md is registered under in mcpServers.
const ServerKey = "principal-md"

// Entry is one mcpServers value: how the host application launches us.
type Entry struct {
	Command string            `json:"command"`
	Args    []string          `json:"args"`
	Env     map[string]string `json:"env"`
}

// NewEntry returns an entry that starts command with the bridge address
// passed through the environment.
func NewEntry(command string, e config.Endpoint) Entry {
	return Entry{
		Command: command,
		Args:    []string{"start"},
		Env: map[string]string{
			config.EnvPort: strconv.Itoa(e.Port),
			config.EnvHost: e.Host,
		},
	}
}

// Target is an application whose config we can write.
type Target struct {
	Name string
	// Candidates are checked in order; the first that exists is used,
	// otherwise the first is created.
	Candidates []string
}

// Cursor returns the Cursor target for the given home directory.
func Cursor(home string) Target {
	return Target{
		Name:       "Cursor",
		Candidates: []string{filepath.Join(home, ".cursor", "mcp.json")},
	}
}

// Claude returns the Claude target for the given home directory.
func Claude(home string) Target {
	return Target{
		Name: "Claude",
		Candidates: []string{
			filepath.Join(home, ".claude.json"),
			filepath.Join(home, ".config", "claude", "config.json"),
		},
	}
}

// Path returns the config file this target resolves to.
func (t Target) Path() string {
	for _, p := range t.Candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return t.Candidates[0]
}

// Options controls Install.
type Options struct {
	DryRun bool // compute the change but do not write
	Force  bool // replace a malformed or non-object config instead of failing
}

// Result describes what Install did or would do.
type Result struct {
	Path     string
	Before   string
	After    string
	Replaced bool // the existing file was unusable and was replaced (Force)
}

// Changed reports whether the file content differs.
func (r Result) Changed() bool {
	return r.Before != r.After
}

// Diff returns the change as a labelled diff.
func (r Result) Diff() diff.Result {
	return diff.Compute(r.Before, r.After, r.Path, r.Path+" (updated)")
}

// Install merges entry into the target's config file.
func Install(t Target, entry Entry, opts Options) (Result, error) {
	path := t.Path()
	res := Result{Path: path}

	existing, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return res, fmt.Errorf("reading %s: %w", path, err)
	}
	res.Before = string(existing)

	merged, err := Merge(existing, ServerKey, entry)
	if err != nil {
		if !opts.Force || !(errors.Is(err, ErrMalformed) || errors.Is(err, ErrNotObject)) {
			return res, fmt.Errorf("%s: %w (use --force to replace it)", path, err)
		}
		merged, err = Merge(nil, ServerKey, entry)
		if err != nil {
			return res, err
		}
		res.Replaced = true
	}
	res.After = string(merged)

	if opts.DryRun || !res.Changed() {
		return res, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return res, fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, merged, 0644); err != nil {
		return res, fmt.Errorf("writing %s: %w", path, err)
	}
	return res, nil
}
