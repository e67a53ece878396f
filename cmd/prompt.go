package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"agentplug/internal/prompts"
)

var promptVars []string

var promptCmd = &cobra.Command{
	Use:   "prompt <plugin-id> <name>",
	Short: "Render a plugin prompt",
	Long: `Renders prompts/<name> of a plugin as a Go text/template with the sprig
function library. Every variable the template references must be supplied
with --var key=value.`,
	Args: cobra.ExactArgs(2),
	RunE: runPrompt,
}

func runPrompt(cmd *cobra.Command, args []string) error {
	vars, err := prompts.ParseVars(promptVars)
	if err != nil {
		return &usageError{msg: err.Error()}
	}
	services, err := loadServices()
	if err != nil {
		return err
	}

	text, err := services.Prompts.Render(args[0], args[1], vars)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), text)
	return err
}

func init() {
	rootCmd.AddCommand(promptCmd)
	promptCmd.Flags().StringArrayVar(&promptVars, "var", nil, "Template variable as key=value (repeatable)")
}
