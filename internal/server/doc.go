// Package server exposes the plugin catalog over HTTP.
//
// Routes:
//
//	GET  /plugins/{id}/{path...}          static file from a plugin directory
//	POST /api/plugins/{id}/{handler}      invoke a plugin API handler
//	POST /api/plugins                     get_config, save_config, get_defaults
//	GET  /api/plugins                     list plugins with shadowing info
//	POST /api/plugins/reload              rebuild the catalog snapshot
//	POST /api/load_webui_extensions       discover webui contributions
//	GET  /healthz                         liveness
//	     /mcp                             MCP streamable HTTP (when enabled)
//
// Every failure is answered with a JSON {"error": ...} body whose status is
// derived from the error type. Plugin handler failures are the exception:
// their status and body are passed through unchanged.
package server
