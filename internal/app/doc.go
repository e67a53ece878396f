// Package app bootstraps the plugin host.
//
// NewApplication loads the host configuration through internal/config,
// initializes pkg/logging from it and builds the first catalog snapshot.
// InitializeServices then wires the shared components around that catalog:
//
//   - settings.Resolver for layered plugin settings
//   - webui.Broker for extension discovery
//   - runner.Funcs over runner.Exec for API handlers and hooks
//   - hooks.Dispatcher with the configured failure policy
//   - prompts.Renderer
//   - the MCP management tools, when mcp.enabled is set
//   - the HTTP server
//   - a filesystem watcher, when watch.enabled is set
//
// Application.Run serves until the context is cancelled. The watcher's
// callback rebuilds the catalog and purges cached discovery results, so a
// change on disk is visible to the next request.
package app
