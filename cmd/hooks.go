package cmd

import (
	"github.com/spf13/cobra"

	"agentplug/internal/hooks"
	"agentplug/internal/settings"
)

var (
	hooksContext         string
	hooksContinueOnError bool
)

var hooksCmd = &cobra.Command{
	Use:   "hooks",
	Short: "Work with extension hooks",
}

var hooksRunCmd = &cobra.Command{
	Use:   "run <extension-point>",
	Short: "Dispatch an extension point",
	Long: `Runs every hook registered under extensions/python/<extension-point>/ across
all plugins, ordered by file name. Each hook receives the context object and
may replace it; the final context is printed.

By default the first failing hook aborts the dispatch (exit code 4). With
--continue-on-error, failures are reported and the remaining hooks still run.`,
	Args: cobra.ExactArgs(1),
	RunE: runHooks,
}

func runHooks(cmd *cobra.Command, args []string) error {
	data := hooks.Data{}
	if hooksContext != "" {
		parsed, err := settings.DecodeObject([]byte(hooksContext))
		if err != nil {
			return newUsageError("--context must be a JSON object")
		}
		data = parsed
	}

	formatter, err := newFormatter()
	if err != nil {
		return err
	}
	services, err := loadServices()
	if err != nil {
		return err
	}

	var opts []hooks.Option
	if hooksContinueOnError {
		opts = append(opts, hooks.WithPolicy(hooks.ContinueOnError))
	}

	result, dispatchErr := services.Dispatcher.Dispatch(cmd.Context(), args[0], data, opts...)
	if result != nil {
		if err := formatter.FormatDispatch(cmd.OutOrStdout(), result, data); err != nil {
			return err
		}
	}
	return dispatchErr
}

func init() {
	rootCmd.AddCommand(hooksCmd)
	hooksCmd.AddCommand(hooksRunCmd)

	hooksRunCmd.Flags().StringVar(&hooksContext, "context", "", "JSON object passed to the hooks")
	hooksRunCmd.Flags().BoolVar(&hooksContinueOnError, "continue-on-error", false, "Keep running hooks after a failure")
}
