package cmd

import (
	"github.com/spf13/cobra"

	"agentplug/internal/registry"
)

var listShadowed bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List merged plugins",
	Long: `Lists every plugin in the merged catalog with its version, winning root and
number of capabilities. With --shadowed, also lists the lower-precedence
copies that were overridden.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	formatter, err := newFormatter()
	if err != nil {
		return err
	}
	services, err := loadServices()
	if err != nil {
		return err
	}

	snap := services.Store.Current()
	var shadowed []registry.Shadowed
	if listShadowed {
		shadowed = snap.Registry.Shadowed()
	}
	return formatter.FormatPlugins(cmd.OutOrStdout(), snap.PluginInfos(), shadowed)
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listShadowed, "shadowed", false, "Also list overridden plugin copies")
}
