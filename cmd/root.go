package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"agentplug/internal/api"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeNotFound indicates that a plugin, handler, asset or prompt does not exist.
	ExitCodeNotFound = 2
	// ExitCodeInvalidRequest indicates a rejected request such as an invalid
	// scope name or a path that escapes its plugin directory.
	ExitCodeInvalidRequest = 3
	// ExitCodeHookFailed indicates that a hook aborted a dispatch.
	ExitCodeHookFailed = 4
)

// Global flags shared by every subcommand.
var (
	configPath   string
	debug        bool
	outputFormat string
	noColor      bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "agentplug",
	Short: "Discover, inspect and serve agent plugins",
	Long: `agentplug merges plugin directories from several roots, where a plugin in a
more specific root (user overrides) shadows one with the same id in a less
specific root (built-ins). Plugins contribute capabilities by convention:
API handlers, tools, helpers, prompts, agent profiles, web UI fragments and
extension hooks, all discovered from their directory layout.

Use 'agentplug serve' to run the HTTP host, or the other commands to inspect
and exercise the merged catalog from the command line.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// This function is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "agentplug version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
// This provides semantic exit codes for scripting and automation.
func getExitCode(err error) int {
	switch {
	case err == nil:
		return ExitCodeSuccess
	case api.IsNotFound(err):
		return ExitCodeNotFound
	case api.IsClientError(err), api.IsPathTraversal(err):
		return ExitCodeInvalidRequest
	case api.IsHookError(err):
		return ExitCodeHookFailed
	}

	var usage *usageError
	if errors.As(err, &usage) {
		return ExitCodeInvalidRequest
	}
	return ExitCodeError
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config-path", "", "Configuration directory containing config.yaml (default .agentplug)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "Output format: table, json or yaml")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored table output")

	rootCmd.AddCommand(newVersionCmd())
}
