package mcpserver

import (
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"agentplug/internal/catalog"
	"agentplug/internal/prompts"
	"agentplug/internal/settings"
	"agentplug/internal/webui"
)

// ServerName is reported to MCP clients during initialization.
const ServerName = "agentplug"

// Deps are the collaborators behind the tools.
type Deps struct {
	Store    *catalog.Store
	Settings *settings.Resolver
	Broker   *webui.Broker
	Prompts  *prompts.Renderer
}

// Server is the MCP management surface.
type Server struct {
	deps      Deps
	mcpServer *server.MCPServer
}

// New creates the MCP server and registers all tools.
func New(deps Deps, version string) *Server {
	s := &Server{
		deps: deps,
		mcpServer: server.NewMCPServer(
			ServerName,
			version,
			server.WithToolCapabilities(false),
		),
	}
	s.registerTools()
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// HTTPHandler serves the tools over MCP streamable HTTP.
func (s *Server) HTTPHandler() http.Handler {
	return server.NewStreamableHTTPServer(s.mcpServer)
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_plugins",
		mcp.WithDescription("List merged plugins with version, root, precedence and shadowed copies"),
	), s.handleListPlugins)

	s.mcpServer.AddTool(mcp.NewTool("list_capabilities",
		mcp.WithDescription("List the capabilities discovered for one plugin"),
		mcp.WithString("plugin_id",
			mcp.Required(),
			mcp.Description("Plugin identifier"),
		),
	), s.handleListCapabilities)

	s.mcpServer.AddTool(mcp.NewTool("get_plugin_config",
		mcp.WithDescription("Resolve a plugin's configuration for a project and agent profile, falling back to declared defaults"),
		mcp.WithString("plugin_id",
			mcp.Required(),
			mcp.Description("Plugin identifier"),
		),
		mcp.WithString("project",
			mcp.Description("Project name (optional)"),
		),
		mcp.WithString("profile",
			mcp.Description("Agent profile name (optional)"),
		),
	), s.handleGetConfig)

	s.mcpServer.AddTool(mcp.NewTool("save_plugin_config",
		mcp.WithDescription("Save a plugin's configuration at the most specific scope given"),
		mcp.WithString("plugin_id",
			mcp.Required(),
			mcp.Description("Plugin identifier"),
		),
		mcp.WithObject("config",
			mcp.Description("Configuration object to store"),
		),
		mcp.WithString("config_json",
			mcp.Description("Configuration as JSON text; use instead of config to keep integers above 2^53 exact"),
		),
		mcp.WithString("project",
			mcp.Description("Project name (optional)"),
		),
		mcp.WithString("profile",
			mcp.Description("Agent profile name (optional)"),
		),
	), s.handleSaveConfig)

	s.mcpServer.AddTool(mcp.NewTool("discover_webui_extensions",
		mcp.WithDescription("List the frontend fragments contributed to a UI extension point"),
		mcp.WithString("extension_point",
			mcp.Required(),
			mcp.Description("Extension point name, e.g. sidebar-start"),
		),
		mcp.WithArray("filters",
			mcp.Description("File extensions to include, e.g. [\"html\", \"js\"]"),
			mcp.WithStringItems(),
		),
	), s.handleDiscover)

	s.mcpServer.AddTool(mcp.NewTool("render_prompt",
		mcp.WithDescription("Render one of a plugin's prompt templates"),
		mcp.WithString("plugin_id",
			mcp.Required(),
			mcp.Description("Plugin identifier"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Prompt file name, with or without extension"),
		),
		mcp.WithObject("variables",
			mcp.Description("Template variables"),
		),
	), s.handleRenderPrompt)
}
