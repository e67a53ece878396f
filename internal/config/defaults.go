package config

import (
	"net"
	"strconv"
)

const (
	// DefaultConfigDir is the configuration directory used when --config-path is not given.
	DefaultConfigDir = ".agentplug"

	DefaultHost                   = "localhost"
	DefaultPort                   = 8095
	DefaultShutdownTimeoutSeconds = 10
	DefaultRuntimeTimeoutSeconds  = 30
	DefaultDebounceMillis         = 500
	DefaultMCPPath                = "/mcp"

	HookPolicyAbort    = "abort"
	HookPolicyContinue = "continue"
)

// GetDefaultConfig returns the configuration used before config.yaml and the
// environment are applied. Roots mirror the usual layout: user overrides in
// usr/plugins shadow the built-in plugins directory.
func GetDefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Host:                   DefaultHost,
			Port:                   DefaultPort,
			ShutdownTimeoutSeconds: DefaultShutdownTimeoutSeconds,
		},
		Plugins: PluginsConfig{
			Roots: []string{"usr/plugins", "plugins"},
		},
		Settings: SettingsConfig{
			ProjectsDir: "usr/projects",
			ProfilesDir: "usr/agents",
		},
		Runtime: RuntimeConfig{
			Interpreters: map[string]string{
				".py": "python3",
				".sh": "sh",
				".js": "node",
			},
			TimeoutSeconds: DefaultRuntimeTimeoutSeconds,
		},
		Hooks: HooksConfig{
			FailurePolicy: HookPolicyAbort,
		},
		Watch: WatchConfig{
			Enabled:        true,
			DebounceMillis: DefaultDebounceMillis,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		MCP: MCPConfig{
			Enabled: true,
			Path:    DefaultMCPPath,
		},
	}
}

func joinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
