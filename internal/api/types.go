package api

import "encoding/json"

// Management actions accepted by POST /api/plugins.
const (
	ActionGetConfig   = "get_config"
	ActionSaveConfig  = "save_config"
	ActionGetDefaults = "get_defaults"
)

// ScopeContext selects the settings scope a management request targets.
type ScopeContext struct {
	Project string `json:"project,omitempty"`
	Profile string `json:"profile,omitempty"`
}

// ManagementRequest is the body of POST /api/plugins.
type ManagementRequest struct {
	Action       string          `json:"action"`
	PluginID     string          `json:"plugin_id"`
	ScopeContext ScopeContext    `json:"scope_context"`
	Payload      json.RawMessage `json:"payload,omitempty"`
}

// ConfigResponse is returned by get_config, save_config and get_defaults.
// Scope is empty when no record exists at any level and no defaults are declared.
type ConfigResponse struct {
	PluginID string                 `json:"plugin_id"`
	Scope    string                 `json:"scope"`
	Path     string                 `json:"path,omitempty"`
	Config   map[string]interface{} `json:"config"`
}

// WebUIExtensionsRequest is the body of POST /api/load_webui_extensions.
type WebUIExtensionsRequest struct {
	ExtensionPoint string   `json:"extension_point"`
	Filters        []string `json:"filters,omitempty"`
}

// PluginInfo describes one merged plugin for listings.
type PluginInfo struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Description      string   `json:"description,omitempty"`
	Version          string   `json:"version"`
	SettingsSections []string `json:"settings_sections"`
	Root             string   `json:"root"`
	Precedence       int      `json:"precedence"`
	Capabilities     int      `json:"capabilities"`
	Shadows          []string `json:"shadows,omitempty"`
}

// PluginListResponse is returned by GET /api/plugins.
type PluginListResponse struct {
	Version uint64       `json:"version"`
	Plugins []PluginInfo `json:"plugins"`
}

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}
