package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"agentplug/internal/api"
	"agentplug/internal/settings"
)

var (
	configProject string
	configProfile string
	configFile    string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Read and write plugin settings",
	Long: `Plugin settings are stored as config.json files at several scopes. The most
specific existing record wins as a whole:

  1. <projects>/<project>/.a0proj/agents/<profile>/plugins/<id>/config.json
  2. <projects>/<project>/.a0proj/plugins/<id>/config.json
  3. <profiles>/<profile>/plugins/<id>/config.json
  4. <plugin dir>/config.json

When none exists, the plugin's default_config.yaml applies.`,
}

var configGetCmd = &cobra.Command{
	Use:   "get <plugin-id>",
	Short: "Show the effective settings of a plugin",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <plugin-id> [json]",
	Short: "Save plugin settings at the most specific scope",
	Long: `Saves a JSON object as the plugin's settings record at the most specific scope
selected by --project and --profile. The object is read from the argument,
from --file, or from standard input when neither is given.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runConfigSet,
}

func scopeFromFlags() api.ScopeContext {
	return api.ScopeContext{Project: configProject, Profile: configProfile}
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	formatter, err := newFormatter()
	if err != nil {
		return err
	}
	services, err := loadServices()
	if err != nil {
		return err
	}

	rec, err := services.Settings.Effective(args[0], scopeFromFlags())
	if err != nil {
		return err
	}
	return formatter.FormatConfig(cmd.OutOrStdout(), configResponse(args[0], rec))
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	raw, err := readSettingsInput(cmd, args)
	if err != nil {
		return err
	}
	data, err := settings.DecodeObject(raw)
	if err != nil {
		return newUsageError("settings must be a JSON object")
	}

	formatter, err := newFormatter()
	if err != nil {
		return err
	}
	services, err := loadServices()
	if err != nil {
		return err
	}

	rec, err := services.Settings.Save(args[0], scopeFromFlags(), data)
	if err != nil {
		return err
	}
	return formatter.FormatConfig(cmd.OutOrStdout(), configResponse(args[0], rec))
}

func readSettingsInput(cmd *cobra.Command, args []string) ([]byte, error) {
	switch {
	case len(args) == 2 && configFile != "":
		return nil, newUsageError("pass settings either as an argument or with --file, not both")
	case len(args) == 2:
		return []byte(args[1]), nil
	case configFile != "":
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", configFile, err)
		}
		return data, nil
	default:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
}

func configResponse(pluginID string, rec *settings.Record) api.ConfigResponse {
	if rec == nil {
		return api.ConfigResponse{PluginID: pluginID, Config: map[string]interface{}{}}
	}
	return api.ConfigResponse{
		PluginID: pluginID,
		Scope:    string(rec.Scope),
		Path:     rec.Path,
		Config:   rec.Data,
	}
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configGetCmd, configSetCmd)

	configCmd.PersistentFlags().StringVar(&configProject, "project", "", "Project name")
	configCmd.PersistentFlags().StringVar(&configProfile, "profile", "", "Agent profile name")
	configSetCmd.Flags().StringVarP(&configFile, "file", "f", "", "Read settings from a JSON file")
}
