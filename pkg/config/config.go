// Package config loads deprep settings.
//
// Settings are layered, later layers winning:
//
//  1. Built-in defaults ([Default])
//  2. A TOML file: .deprep.toml in the working directory, or an explicit path
//  3. The environment, after loading a .env file if one exists
//  4. Command-line flags, applied by the caller
//
// Example .deprep.toml:
//
//	manager = "npm"
//	registry = "https://registry.npmjs.org"
//	bower_registry = "https://registry.bower.io"
//	concurrency = 20
//	timeout = "2m"
//	ignore = ["typescript"]
//
//	[server]
//	addr = ":8080"
package config

import (
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/deprep/pkg/deps"
	"github.com/matzehuels/deprep/pkg/errors"
)

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = ".deprep.toml"

// Environment variables read by [Load].
const (
	EnvRegistry      = "DEPREP_REGISTRY"
	EnvBowerRegistry = "DEPREP_BOWER_REGISTRY"
	EnvConcurrency   = "DEPREP_CONCURRENCY"
	EnvTimeout       = "DEPREP_TIMEOUT"
	EnvNPMToken      = "NPM_TOKEN"
	EnvGitHubToken   = "GITHUB_TOKEN"
)

var managers = []string{"npm", "bower"}

// Config holds all settings of a check run or server.
type Config struct {
	Manager       string        `toml:"manager"`
	Registry      string        `toml:"registry"`
	BowerRegistry string        `toml:"bower_registry"`
	Concurrency   int           `toml:"concurrency"`
	Timeout       time.Duration `toml:"timeout"`
	Ignore        []string      `toml:"ignore"`
	Server        ServerConfig  `toml:"server"`

	// Secrets come from the environment only.
	NPMToken    string `toml:"-"`
	GitHubToken string `toml:"-"`
}

// ServerConfig configures `deprep serve`.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Manager:     "npm",
		Concurrency: deps.DefaultConcurrency,
		Server:      ServerConfig{Addr: ":8080"},
	}
}

// Load builds the configuration from defaults, the TOML file at path (or
// [DefaultFile] when path is empty and the file exists) and the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if err := cfg.loadFile(path, explicit); err != nil {
		return cfg, err
	}

	_ = godotenv.Load()
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) loadFile(path string, required bool) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !required {
			return nil
		}
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if _, err := toml.DecodeFile(path, c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvRegistry); ok && v != "" {
		c.Registry = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvBowerRegistry); ok && v != "" {
		c.BowerRegistry = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvConcurrency); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", EnvConcurrency)
		}
		c.Concurrency = n
	}
	if v, ok := lookup(EnvTimeout); ok && v != "" {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", EnvTimeout)
		}
		c.Timeout = d
	}
	if v, ok := lookup(EnvNPMToken); ok {
		c.NPMToken = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvGitHubToken); ok {
		c.GitHubToken = strings.TrimSpace(v)
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if !slices.Contains(managers, c.Manager) {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown manager %q (available: %s)", c.Manager, strings.Join(managers, ", "))
	}
	if c.Concurrency <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "concurrency must be positive, got %d", c.Concurrency)
	}
	if c.Timeout < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "timeout must not be negative, got %s", c.Timeout)
	}
	if c.Registry != "" {
		if err := errors.ValidateURL(c.Registry); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "registry")
		}
	}
	if c.BowerRegistry != "" {
		if err := errors.ValidateURL(c.BowerRegistry); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "bower_registry")
		}
	}
	return nil
}

// RegistryConfig returns the resolver settings for every manager. Each
// manager reads only its own registry override.
func (c Config) RegistryConfig() deps.RegistryConfig {
	return deps.RegistryConfig{
		Registry:      c.Registry,
		BowerRegistry: c.BowerRegistry,
		Token:         c.NPMToken,
		GitHubToken:   c.GitHubToken,
	}
}

// EngineOptions returns the engine settings.
func (c Config) EngineOptions() deps.Options {
	return deps.Options{
		Concurrency: c.Concurrency,
		Timeout:     c.Timeout,
	}
}
