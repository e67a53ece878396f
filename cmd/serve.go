package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"agentplug/internal/app"
)

// serveSilent discards all log output.
var serveSilent bool

// serveCmd starts the plugin host.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the plugin host HTTP server",
	Long: `Starts the plugin host. It serves:

  POST /api/plugins                   settings management (get_config, get_defaults, save_config)
  GET  /api/plugins                   merged plugins with shadowed copies
  POST /api/plugins/reload            rebuild the catalog
  POST /api/load_webui_extensions     web UI contributions for an extension point
  POST /api/plugins/{id}/{handler}    plugin API handlers
  GET  /plugins/{id}/{path...}        static plugin assets
  GET  /healthz                       liveness
  /mcp                                MCP management tools (when mcp.enabled)

With watch.enabled, changes under the plugin roots trigger a reload.

Configuration is read from <config-path>/config.yaml and overridden by
AGENTPLUG_* environment variables. The process stops on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := app.NewConfig(debug, serveSilent, configPath, GetVersion())

	application, err := app.NewApplication(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return application.Run(ctx)
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().BoolVar(&serveSilent, "silent", false, "Disable all log output")
}
