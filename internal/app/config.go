package app

import (
	"agentplug/internal/config"
)

// Config holds the runtime settings that come from the command line rather
// than from config.yaml.
type Config struct {
	// Debug forces debug logging regardless of log.level.
	Debug bool
	// Silent discards all log output.
	Silent bool
	// ConfigPath is the configuration directory. Empty means the default.
	ConfigPath string
	// Version is reported by the MCP surface.
	Version string

	// HostConfig is loaded during NewApplication when nil.
	HostConfig *config.Config
}

// NewConfig creates a new application configuration.
func NewConfig(debug, silent bool, configPath, version string) *Config {
	return &Config{
		Debug:      debug,
		Silent:     silent,
		ConfigPath: configPath,
		Version:    version,
	}
}
