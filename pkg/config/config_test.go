package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/deprep/pkg/errors"
)

// clearEnv unsets every variable Load reads for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvRegistry, EnvBowerRegistry, EnvConcurrency, EnvTimeout, EnvNPMToken, EnvGitHubToken} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_DefaultFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Chdir(dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFile), []byte(`
manager = "bower"
concurrency = 5
timeout = "90s"
ignore = ["typescript", "eslint"]

[server]
addr = ":9090"
`), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "bower", cfg.Manager)
	assert.Equal(t, 5, cfg.Concurrency)
	assert.Equal(t, 90*time.Second, cfg.Timeout)
	assert.Equal(t, []string{"typescript", "eslint"}, cfg.Ignore)
	assert.Equal(t, ":9090", cfg.Server.Addr)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("registry = \"https://npm.example.com\"\nconcurrency = 5\n"), 0o644))

	t.Setenv(EnvConcurrency, "8")
	t.Setenv(EnvTimeout, "30s")
	t.Setenv(EnvNPMToken, "npm-secret")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://npm.example.com", cfg.Registry)
	assert.Equal(t, 8, cfg.Concurrency)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, "npm-secret", cfg.NPMToken)

	rc := cfg.RegistryConfig()
	assert.Equal(t, "https://npm.example.com", rc.Registry)
	assert.Equal(t, "npm-secret", rc.Token)

	opts := cfg.EngineOptions()
	assert.Equal(t, 8, opts.Concurrency)
	assert.Equal(t, 30*time.Second, opts.Timeout)
}

func TestLoad_RegistriesPerManager(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Chdir(dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFile), []byte("registry = \"https://npm.example.com\"\n"), 0o644))
	t.Setenv(EnvBowerRegistry, "https://bower.example.com")

	cfg, err := Load("")
	require.NoError(t, err)

	rc := cfg.RegistryConfig()
	assert.Equal(t, "https://npm.example.com", rc.Registry)
	assert.Equal(t, "https://bower.example.com", rc.BowerRegistry)
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Chdir(dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("GITHUB_TOKEN=gh-from-dotenv\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv(EnvGitHubToken) })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "gh-from-dotenv", cfg.GitHubToken)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Chdir(dir)

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("concurrency = \"lots\""), 0o644))

	tests := []struct {
		name string
		path string
		env  map[string]string
	}{
		{name: "missing explicit file", path: filepath.Join(dir, "nope.toml")},
		{name: "malformed file", path: bad},
		{name: "bad concurrency env", env: map[string]string{EnvConcurrency: "many"}},
		{name: "bad timeout env", env: map[string]string{EnvTimeout: "soon"}},
		{name: "zero concurrency", env: map[string]string{EnvConcurrency: "0"}},
		{name: "registry scheme", env: map[string]string{EnvRegistry: "ftp://registry"}},
		{name: "bower registry scheme", env: map[string]string{EnvBowerRegistry: "ftp://bower"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(tt.path)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig), "got %v", err)
			assert.True(t, errors.Fatal(err))
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default", func(*Config) {}, false},
		{"bower", func(c *Config) { c.Manager = "bower" }, false},
		{"unknown manager", func(c *Config) { c.Manager = "yarn" }, true},
		{"negative concurrency", func(c *Config) { c.Concurrency = -1 }, true},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }, true},
		{"https registry", func(c *Config) { c.Registry = "https://registry.example.com" }, false},
		{"bare host registry", func(c *Config) { c.Registry = "registry.example.com" }, true},
		{"https bower registry", func(c *Config) { c.BowerRegistry = "https://registry.bower.io" }, false},
		{"bare host bower registry", func(c *Config) { c.BowerRegistry = "registry.bower.io" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
