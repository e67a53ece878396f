package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/sync/errgroup"

	"agentplug/internal/config"
	"agentplug/pkg/logging"
)

// Application bootstraps and runs the plugin host.
//
// Initialization happens in two phases:
//  1. NewApplication loads configuration, sets up logging and builds the
//     first catalog snapshot together with every service around it.
//  2. Run serves HTTP (and MCP, when enabled) and watches the plugin roots
//     until the context is cancelled.
//
// Example usage:
//
//	cfg := app.NewConfig(false, false, "", version)
//	application, err := app.NewApplication(cfg)
//	if err != nil {
//	    return fmt.Errorf("failed to create application: %w", err)
//	}
//	return application.Run(ctx)
type Application struct {
	config   *Config
	services *Services
}

// NewApplication loads the host configuration (unless cfg.HostConfig is
// already set) and initializes all services.
func NewApplication(cfg *Config) (*Application, error) {
	var logOutput io.Writer = os.Stderr
	if cfg.Silent {
		logOutput = io.Discard
	}
	logging.InitForCLI(levelFor(cfg, ""), logOutput)

	if cfg.HostConfig == nil {
		hostCfg, err := config.LoadConfig(cfg.ConfigPath)
		if err != nil {
			logging.Error("Bootstrap", err, "Failed to load configuration from %q", cfg.ConfigPath)
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		if wd, err := os.Getwd(); err == nil {
			hostCfg.ResolvePaths(wd)
		}
		cfg.HostConfig = &hostCfg
	}

	// Re-initialize now that log.level and log.format are known.
	logging.Init(levelFor(cfg, cfg.HostConfig.Log.Level), cfg.HostConfig.Log.Format, logOutput)

	services, err := InitializeServices(cfg)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to initialize services")
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return &Application{
		config:   cfg,
		services: services,
	}, nil
}

// Services exposes the initialized services, mainly for one-shot CLI
// commands that do not start the server.
func (a *Application) Services() *Services {
	return a.services
}

// Run serves until ctx is cancelled or a component fails. The first failure
// cancels the others.
func (a *Application) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.services.Server.Run(gctx)
	})
	if a.services.Watcher != nil {
		g.Go(func() error {
			return a.services.Watcher.Run(gctx)
		})
	} else {
		logging.Info("Bootstrap", "Filesystem watch disabled; use the reload route to pick up plugin changes")
	}

	if err := g.Wait(); err != nil {
		logging.Error("Bootstrap", err, "Host stopped with error")
		return err
	}
	logging.Info("Bootstrap", "Shut down")
	return nil
}

func levelFor(cfg *Config, configured string) logging.LogLevel {
	if cfg.Debug {
		return logging.LevelDebug
	}
	if configured == "" {
		return logging.LevelInfo
	}
	return logging.ParseLevel(configured)
}
