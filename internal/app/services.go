package app

import (
	"context"
	"fmt"

	"agentplug/internal/catalog"
	"agentplug/internal/config"
	"agentplug/internal/hooks"
	"agentplug/internal/mcpserver"
	"agentplug/internal/prompts"
	"agentplug/internal/registry"
	"agentplug/internal/runner"
	"agentplug/internal/server"
	"agentplug/internal/settings"
	"agentplug/internal/watcher"
	"agentplug/internal/webui"
	"agentplug/pkg/logging"
)

// Services holds every component of a running host. The HTTP server, the
// MCP tools and the CLI all share the same instances.
type Services struct {
	Store      *catalog.Store
	Settings   *settings.Resolver
	Broker     *webui.Broker
	Runner     *runner.Funcs
	Dispatcher *hooks.Dispatcher
	Prompts    *prompts.Renderer

	// MCP is nil when mcp.enabled is false.
	MCP    *mcpserver.Server
	Server *server.Server
	// Watcher is nil when watch.enabled is false.
	Watcher *watcher.Watcher
}

// InitializeServices builds the catalog from the configured roots and wires
// the components around it.
func InitializeServices(cfg *Config) (*Services, error) {
	hostCfg := cfg.HostConfig
	if hostCfg == nil {
		return nil, fmt.Errorf("host configuration not loaded")
	}

	policy, err := hooks.ParsePolicy(hostCfg.Hooks.FailurePolicy)
	if err != nil {
		return nil, fmt.Errorf("invalid hook failure policy: %w", err)
	}

	store := catalog.NewStore(registry.NewRoots(hostCfg.Plugins.Roots...))
	logLoadedSnapshot(store.Current())

	broker, err := webui.NewBroker(store, webui.DefaultCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create webui broker: %w", err)
	}

	funcs := runner.NewFuncs(runner.NewExec(hostCfg.Runtime.Interpreters, hostCfg.Runtime.Timeout()))
	resolver := settings.NewResolver(store, hostCfg.Settings.ProjectsDir, hostCfg.Settings.ProfilesDir)
	renderer := prompts.NewRenderer(store)

	services := &Services{
		Store:      store,
		Settings:   resolver,
		Broker:     broker,
		Runner:     funcs,
		Dispatcher: hooks.NewDispatcher(store, funcs, policy),
		Prompts:    renderer,
	}

	opts := server.Options{
		Addr:            hostCfg.Server.Addr(),
		ShutdownTimeout: hostCfg.Server.ShutdownTimeout(),
		Store:           store,
		Settings:        resolver,
		Broker:          broker,
		Invoker:         funcs,
	}
	if hostCfg.MCP.Enabled {
		services.MCP = mcpserver.New(mcpserver.Deps{
			Store:    store,
			Settings: resolver,
			Broker:   broker,
			Prompts:  renderer,
		}, cfg.Version)
		opts.MCPHandler = services.MCP.HTTPHandler()
		opts.MCPPath = hostCfg.MCP.Path
		if opts.MCPPath == "" {
			opts.MCPPath = config.DefaultMCPPath
		}
	}
	services.Server = server.New(opts)

	if hostCfg.Watch.Enabled {
		services.Watcher = watcher.New(hostCfg.Plugins.Roots, hostCfg.Watch.Debounce(), services.reload)
	}

	return services, nil
}

// reload is the watcher callback: rebuild the catalog and drop cached
// discovery results.
func (s *Services) reload(ctx context.Context) {
	snap, err := s.Store.Reload(ctx)
	if err != nil {
		logging.Error("Bootstrap", err, "Reload after filesystem change failed")
		return
	}
	s.Broker.Purge()
	logLoadedSnapshot(snap)
}

func logLoadedSnapshot(snap *catalog.Snapshot) {
	diags := snap.Registry.Diagnostics()
	if diags.HasErrors() {
		logging.Warn("Bootstrap", "Plugin descriptors with problems: %s", diags.GetSummary())
	}
	for _, err := range snap.ScanErrors() {
		logging.Warn("Bootstrap", "Capability scan: %v", err)
	}
	logging.Info("Bootstrap", "Loaded %d plugins (snapshot v%d)", snap.Registry.Len(), snap.Version)
}
