// Package mcpserver exposes plugin management as MCP tools so agents and
// MCP clients can inspect and configure the plugin host.
//
// Tools: list_plugins, list_capabilities, get_plugin_config,
// save_plugin_config, discover_webui_extensions and render_prompt. Every
// tool answers with JSON text; failures are returned as tool errors rather
// than protocol errors.
package mcpserver
