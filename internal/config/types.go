package config

import (
	"path/filepath"
	"time"
)

// Config is the top-level host configuration, read from config.yaml in the
// configuration directory and overridable through the environment.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Plugins  PluginsConfig  `yaml:"plugins"`
	Settings SettingsConfig `yaml:"settings"`
	Runtime  RuntimeConfig  `yaml:"runtime"`
	Hooks    HooksConfig    `yaml:"hooks"`
	Watch    WatchConfig    `yaml:"watch"`
	Log      LogConfig      `yaml:"log"`
	MCP      MCPConfig      `yaml:"mcp"`
}

// ServerConfig configures the HTTP route dispatcher.
type ServerConfig struct {
	Host                   string `yaml:"host,omitempty" env:"AGENTPLUG_HOST"`
	Port                   int    `yaml:"port,omitempty" env:"AGENTPLUG_PORT"`
	ShutdownTimeoutSeconds int    `yaml:"shutdownTimeoutSeconds,omitempty" env:"AGENTPLUG_SHUTDOWN_TIMEOUT"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return joinHostPort(s.Host, s.Port)
}

// ShutdownTimeout returns how long a graceful shutdown may take.
func (s ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(s.ShutdownTimeoutSeconds) * time.Second
}

// PluginsConfig lists plugin roots, most specific (user overrides) first.
type PluginsConfig struct {
	Roots []string `yaml:"roots,omitempty" env:"AGENTPLUG_ROOTS" envSeparator:","`
}

// SettingsConfig locates project- and profile-scoped settings records.
type SettingsConfig struct {
	ProjectsDir string `yaml:"projectsDir,omitempty" env:"AGENTPLUG_PROJECTS_DIR"`
	ProfilesDir string `yaml:"profilesDir,omitempty" env:"AGENTPLUG_PROFILES_DIR"`
}

// RuntimeConfig configures how plugin files are executed.
type RuntimeConfig struct {
	// Interpreters maps a file extension (with dot) to the command used to run it.
	Interpreters   map[string]string `yaml:"interpreters,omitempty"`
	TimeoutSeconds int               `yaml:"timeoutSeconds,omitempty" env:"AGENTPLUG_RUNTIME_TIMEOUT"`
}

// Timeout returns the per-invocation timeout.
func (r RuntimeConfig) Timeout() time.Duration {
	return time.Duration(r.TimeoutSeconds) * time.Second
}

// HooksConfig holds the default hook failure policy ("abort" or "continue").
type HooksConfig struct {
	FailurePolicy string `yaml:"failurePolicy,omitempty" env:"AGENTPLUG_HOOK_POLICY"`
}

// WatchConfig controls filesystem-triggered reloads.
type WatchConfig struct {
	Enabled        bool `yaml:"enabled" env:"AGENTPLUG_WATCH"`
	DebounceMillis int  `yaml:"debounceMillis,omitempty" env:"AGENTPLUG_WATCH_DEBOUNCE_MS"`
}

// Debounce returns the debounce interval.
func (w WatchConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceMillis) * time.Millisecond
}

// LogConfig configures pkg/logging.
type LogConfig struct {
	Level  string `yaml:"level,omitempty" env:"AGENTPLUG_LOG_LEVEL"`
	Format string `yaml:"format,omitempty" env:"AGENTPLUG_LOG_FORMAT"`
}

// MCPConfig toggles the MCP management endpoint.
type MCPConfig struct {
	Enabled bool   `yaml:"enabled" env:"AGENTPLUG_MCP"`
	Path    string `yaml:"path,omitempty" env:"AGENTPLUG_MCP_PATH"`
}

// ResolvePaths makes every relative directory absolute against baseDir.
func (c *Config) ResolvePaths(baseDir string) {
	for i, root := range c.Plugins.Roots {
		c.Plugins.Roots[i] = absAgainst(baseDir, root)
	}
	c.Settings.ProjectsDir = absAgainst(baseDir, c.Settings.ProjectsDir)
	c.Settings.ProfilesDir = absAgainst(baseDir, c.Settings.ProfilesDir)
}

func absAgainst(baseDir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Clean(filepath.Join(baseDir, p))
}
