// Package config loads the agentplug host configuration.
//
// Configuration is read from a single directory (default .agentplug, or the
// --config-path flag) containing config.yaml. Values are applied in order:
// defaults, config.yaml, then environment variables. A .env file in the
// configuration directory or the working directory is loaded first so its
// variables take part in the environment step.
//
// # Configuration Structure
//
//	server:
//	  host: localhost
//	  port: 8095
//	plugins:
//	  roots:               # most specific first; earlier roots shadow later ones
//	    - usr/plugins
//	    - plugins
//	settings:
//	  projectsDir: usr/projects
//	  profilesDir: usr/agents
//	runtime:
//	  timeoutSeconds: 30
//	  interpreters:
//	    .py: python3
//	hooks:
//	  failurePolicy: abort   # or continue
//	watch:
//	  enabled: true
//	  debounceMillis: 500
//	log:
//	  level: info
//	  format: text           # or json
//	mcp:
//	  enabled: true
//	  path: /mcp
//
// # Environment Overrides
//
// AGENTPLUG_HOST, AGENTPLUG_PORT, AGENTPLUG_ROOTS (comma separated),
// AGENTPLUG_PROJECTS_DIR, AGENTPLUG_PROFILES_DIR, AGENTPLUG_RUNTIME_TIMEOUT,
// AGENTPLUG_HOOK_POLICY, AGENTPLUG_WATCH, AGENTPLUG_WATCH_DEBOUNCE_MS,
// AGENTPLUG_LOG_LEVEL, AGENTPLUG_LOG_FORMAT, AGENTPLUG_MCP, AGENTPLUG_MCP_PATH.
//
// Relative directories are resolved against the working directory by
// Config.ResolvePaths.
package config
