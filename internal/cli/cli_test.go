package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/deprep/pkg/config"
)

// isolate runs the test in an empty directory with no deprep variables set.
func isolate(t *testing.T) string {
	t.Helper()
	for _, k := range []string{config.EnvRegistry, config.EnvBowerRegistry, config.EnvConcurrency, config.EnvTimeout, config.EnvNPMToken, config.EnvGitHubToken} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

// npmRegistry serves abbreviated documents for the given latest versions and
// 404 for everything else.
func npmRegistry(t *testing.T, latest map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/")
		v, ok := latest[name]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"` + name + `","dist-tags":{"latest":"` + v + `"}}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// run executes the root command and returns stdout and the log output.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, logs bytes.Buffer
	c := New(&logs, LogInfo)
	root := c.RootCommand()
	root.SetOut(&out)
	root.SetErr(&logs)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), logs.String(), err
}

func TestRootCommand(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()

	assert.Equal(t, "deprep", root.Name())
	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{"check", "serve", "config", "completion"} {
		assert.Contains(t, names, want)
	}
}

func TestLogLevelFlags(t *testing.T) {
	tests := []struct {
		name string
		cli  CLI
		want string
	}{
		{"default", CLI{}, LogInfo.String()},
		{"verbose", CLI{verbose: true}, LogDebug.String()},
		{"silent", CLI{silent: true}, LogError.String()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cli.level().String(); got != tt.want {
				t.Errorf("level() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestVerboseAndSilentExclusive(t *testing.T) {
	isolate(t)
	_, _, err := run(t, "config", "--verbose", "--silent")
	require.Error(t, err)
}

func TestConfigCommand(t *testing.T) {
	isolate(t)
	t.Setenv(config.EnvNPMToken, "secret")

	out, _, err := run(t, "config", "--concurrency", "7", "--ignore", "a,b")
	require.NoError(t, err)
	assert.Contains(t, out, "7")
	assert.Contains(t, out, "a, b")
	assert.Contains(t, out, "set")
	assert.NotContains(t, out, "secret")
}

func TestConfigCommand_BowerRegistry(t *testing.T) {
	isolate(t)

	out, _, err := run(t, "config", "--registry", "https://npm.example.com", "--bower-registry", "https://bower.example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "https://npm.example.com")
	assert.Contains(t, out, "https://bower.example.com")
}

func TestConfigCommand_InvalidFlag(t *testing.T) {
	isolate(t)
	_, _, err := run(t, "config", "--registry", "ftp://nope")
	require.Error(t, err)
}

func TestCompletionCommand(t *testing.T) {
	isolate(t)
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		out, _, err := run(t, "completion", shell)
		require.NoError(t, err, shell)
		assert.Contains(t, out, "deprep", shell)
	}
}
