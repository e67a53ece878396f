package cmd

import (
	"github.com/spf13/cobra"
)

var discoverFilters []string

var discoverCmd = &cobra.Command{
	Use:   "discover <extension-point>",
	Short: "List web UI contributions for an extension point",
	Long: `Lists the HTML fragments plugins contribute under webui/<extension-point>/,
ordered by plugin precedence and then file name. Fragments that break the
placement contract (one x-data root carrying one x-move-* directive) are
listed with warnings.

--filter restricts the result to file extensions, e.g. --filter html.`,
	Args: cobra.ExactArgs(1),
	RunE: runDiscover,
}

func runDiscover(cmd *cobra.Command, args []string) error {
	formatter, err := newFormatter()
	if err != nil {
		return err
	}
	services, err := loadServices()
	if err != nil {
		return err
	}

	point := args[0]
	return formatter.FormatContributions(cmd.OutOrStdout(), point, services.Broker.Discover(point, discoverFilters))
}

func init() {
	rootCmd.AddCommand(discoverCmd)
	discoverCmd.Flags().StringSliceVar(&discoverFilters, "filter", nil, "File extensions to include (repeatable or comma separated)")
}
