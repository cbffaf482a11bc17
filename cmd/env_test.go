// The cmd/ package contains CLI integration tests that exercise the built
// binary end to end: flag parsing, config resolution, the bridge client and
// the MCP server over real stdio.
//
// Each test gets its own HOME and working directory so global config, local
// config and the audit log never leak between tests or into the user's home.

package cmd

import (
	"context"
	"net"
	"net/http/httptest"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jpl-au/principal-md/internal/config"
	"github.com/jpl-au/principal-md/internal/stub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	binaryPath string
	buildOnce  sync.Once
	buildErr   error
)

// buildBinary compiles the principal-md binary once for all tests.
func buildBinary(t *testing.T) string {
	t.Helper()

	buildOnce.Do(func() {
		tmpDir, err := os.MkdirTemp("", "principal-md-test-bin-*")
		if err != nil {
			buildErr = err
			return
		}

		binaryName := "principal-md"
		if os.PathSeparator == '\\' {
			binaryName = "principal-md.exe"
		}
		binaryPath = filepath.Join(tmpDir, binaryName)

		// Find project root (parent of cmd/)
		wd := mustGetwd()
		projectRoot := filepath.Dir(wd)

		cmd := exec.Command("go", "build", "-o", binaryPath, ".")
		cmd.Dir = projectRoot
		if out, err := cmd.CombinedOutput(); err != nil {
			buildErr = &buildError{err: err, output: string(out)}
			return
		}
	})

	if buildErr != nil {
		t.Fatalf("failed to build binary: %v", buildErr)
	}
	return binaryPath
}

type buildError struct {
	err    error
	output string
}

func (e *buildError) Error() string {
	return e.err.Error() + "\n" + e.output
}

func mustGetwd() string {
	dir, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return dir
}

// testEnv holds test environment state.
type testEnv struct {
	t      *testing.T
	dir    string // working directory
	home   string // HOME for the child process
	binary string
	env    []string // extra environment, appended last
}

// newTestEnv creates an isolated working directory and home.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return &testEnv{
		t:      t,
		dir:    t.TempDir(),
		home:   t.TempDir(),
		binary: buildBinary(t),
	}
}

// setenv adds an environment variable for subsequent runs.
func (e *testEnv) setenv(key, value string) {
	e.env = append(e.env, key+"="+value)
}

func (e *testEnv) command(ctx context.Context, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, e.binary, args...)
	cmd.Dir = e.dir

	var environ []string
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, config.EnvHost+"=") || strings.HasPrefix(kv, config.EnvPort+"=") {
			continue
		}
		environ = append(environ, kv)
	}
	environ = append(environ, "HOME="+e.home, "USERPROFILE="+e.home)
	cmd.Env = append(environ, e.env...)
	return cmd
}

// run executes principal-md with the given args and returns combined output.
func (e *testEnv) run(args ...string) string {
	e.t.Helper()
	out, err := e.runErr(args...)
	if err != nil {
		e.t.Fatalf("principal-md %v failed: %v\noutput: %s", args, err, out)
	}
	return out
}

// runErr executes principal-md and returns combined output and any error.
func (e *testEnv) runErr(args ...string) (string, error) {
	e.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	out, err := e.command(ctx, args...).CombinedOutput()
	return string(out), err
}

// runStdin executes principal-md with stdin input and returns stdout and stderr separately.
func (e *testEnv) runStdin(input string, args ...string) (string, string) {
	e.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cmd := e.command(ctx, args...)
	cmd.Stdin = strings.NewReader(input)
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		e.t.Fatalf("principal-md %v failed: %v\nstderr: %s", args, err, stderr.String())
	}
	return stdout.String(), stderr.String()
}

// contains checks if output contains expected string.
func (e *testEnv) contains(output, expected string) {
	e.t.Helper()
	assert.Contains(e.t, output, expected)
}

// equals checks if output equals expected string (trimmed).
func (e *testEnv) equals(output, expected string) {
	e.t.Helper()
	assert.Equal(e.t, strings.TrimSpace(expected), strings.TrimSpace(output))
}

// startStub serves a stub bridge in the test process and returns it with its port.
func startStub(t *testing.T) (*stub.Server, string) {
	t.Helper()
	s := stub.New()
	ts := httptest.NewServer(s)
	t.Cleanup(ts.Close)

	u, err := url.Parse(ts.URL)
	require.NoError(t, err)
	return s, u.Port()
}

// closedPort returns a port with nothing listening on it.
func closedPort(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	_, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	require.NoError(t, ln.Close())
	return port
}
