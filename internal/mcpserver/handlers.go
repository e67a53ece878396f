package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"agentplug/internal/api"
	"agentplug/internal/capability"
	"agentplug/internal/settings"
	"agentplug/pkg/logging"
)

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func scopeFrom(request mcp.CallToolRequest) api.ScopeContext {
	return api.ScopeContext{
		Project: request.GetString("project", ""),
		Profile: request.GetString("profile", ""),
	}
}

func objectArg(request mcp.CallToolRequest, key string) (map[string]interface{}, bool) {
	raw, ok := request.GetArguments()[key]
	if !ok || raw == nil {
		return nil, false
	}
	obj, ok := raw.(map[string]interface{})
	return obj, ok
}

// configArg reads the settings to save. Object arguments have already been
// decoded with float64 numbers, so config_json is the lossless form.
func configArg(request mcp.CallToolRequest) (map[string]interface{}, *mcp.CallToolResult) {
	text := request.GetString("config_json", "")
	_, hasObject := request.GetArguments()["config"]
	switch {
	case text != "" && hasObject:
		return nil, mcp.NewToolResultError("pass either config or config_json, not both")
	case text != "":
		config, err := settings.DecodeObject([]byte(text))
		if err != nil {
			return nil, mcp.NewToolResultError("config_json must be a JSON object")
		}
		return config, nil
	}
	config, ok := objectArg(request, "config")
	if !ok {
		return nil, mcp.NewToolResultError("config argument must be an object")
	}
	return config, nil
}

func (s *Server) handleListPlugins(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap := s.deps.Store.Current()
	return jsonResult(api.PluginListResponse{Version: snap.Version, Plugins: snap.PluginInfos()})
}

func (s *Server) handleListCapabilities(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pluginID, err := request.RequireString("plugin_id")
	if err != nil {
		return mcp.NewToolResultError("plugin_id argument is required"), nil
	}

	snap := s.deps.Store.Current()
	if _, ok := snap.Plugin(pluginID); !ok {
		return mcp.NewToolResultError(api.NewPluginNotFoundError(pluginID).Error()), nil
	}
	entries := snap.Entries(pluginID)
	if entries == nil {
		entries = []capability.Entry{}
	}
	return jsonResult(entries)
}

func (s *Server) handleGetConfig(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pluginID, err := request.RequireString("plugin_id")
	if err != nil {
		return mcp.NewToolResultError("plugin_id argument is required"), nil
	}

	rec, err := s.deps.Settings.Effective(pluginID, scopeFrom(request))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	resp := api.ConfigResponse{PluginID: pluginID, Config: map[string]interface{}{}}
	if rec != nil {
		resp.Scope = string(rec.Scope)
		resp.Path = rec.Path
		resp.Config = rec.Data
	}
	return jsonResult(resp)
}

func (s *Server) handleSaveConfig(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pluginID, err := request.RequireString("plugin_id")
	if err != nil {
		return mcp.NewToolResultError("plugin_id argument is required"), nil
	}
	config, errResult := configArg(request)
	if errResult != nil {
		return errResult, nil
	}

	rec, err := s.deps.Settings.Save(pluginID, scopeFrom(request), config)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	logging.Info("MCP", "Saved %s config for plugin %s", rec.Scope, pluginID)
	return jsonResult(api.ConfigResponse{PluginID: pluginID, Scope: string(rec.Scope), Path: rec.Path, Config: rec.Data})
}

func (s *Server) handleDiscover(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	point, err := request.RequireString("extension_point")
	if err != nil {
		return mcp.NewToolResultError("extension_point argument is required"), nil
	}

	var filters []string
	if raw, ok := request.GetArguments()["filters"].([]interface{}); ok {
		for _, f := range raw {
			if str, ok := f.(string); ok {
				filters = append(filters, str)
			}
		}
	}
	return jsonResult(map[string]interface{}{"extensions": s.deps.Broker.Discover(point, filters)})
}

func (s *Server) handleRenderPrompt(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pluginID, err := request.RequireString("plugin_id")
	if err != nil {
		return mcp.NewToolResultError("plugin_id argument is required"), nil
	}
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name argument is required"), nil
	}
	vars, _ := objectArg(request, "variables")

	out, err := s.deps.Prompts.Render(pluginID, name, vars)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(out), nil
}
