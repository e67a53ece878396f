package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"agentplug/internal/api"
	"agentplug/internal/capability"
)

var capabilitiesKind string

var capabilitiesCmd = &cobra.Command{
	Use:     "capabilities <plugin-id>",
	Aliases: []string{"caps"},
	Short:   "List the capabilities a plugin contributes",
	Long: `Lists the capabilities discovered in a plugin's directory layout, in kind
order: api, tool, helper, python-hook, webui-asset, prompt, agent-profile.`,
	Args: cobra.ExactArgs(1),
	RunE: runCapabilities,
}

func runCapabilities(cmd *cobra.Command, args []string) error {
	kind, err := parseKind(capabilitiesKind)
	if err != nil {
		return err
	}
	formatter, err := newFormatter()
	if err != nil {
		return err
	}
	services, err := loadServices()
	if err != nil {
		return err
	}

	pluginID := args[0]
	snap := services.Store.Current()
	if _, ok := snap.Plugin(pluginID); !ok {
		return api.NewPluginNotFoundError(pluginID)
	}

	entries := snap.Entries(pluginID)
	if kind != "" {
		entries = capability.Filter(entries, kind)
	}
	return formatter.FormatCapabilities(cmd.OutOrStdout(), pluginID, entries)
}

func parseKind(s string) (capability.Kind, error) {
	if s == "" {
		return "", nil
	}
	names := make([]string, 0, len(capability.AllKinds))
	for _, k := range capability.AllKinds {
		if string(k) == s {
			return k, nil
		}
		names = append(names, string(k))
	}
	return "", newUsageError("unknown capability kind %q (one of %s)", s, strings.Join(names, ", "))
}

func init() {
	rootCmd.AddCommand(capabilitiesCmd)
	capabilitiesCmd.Flags().StringVar(&capabilitiesKind, "kind", "", "Only list capabilities of this kind")
}
