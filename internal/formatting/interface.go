// Package formatting renders plugin host data for the command line in table,
// JSON or YAML form.
package formatting

import (
	"fmt"
	"io"
	"strings"

	"agentplug/internal/api"
	"agentplug/internal/capability"
	"agentplug/internal/hooks"
	"agentplug/internal/registry"
	"agentplug/internal/webui"
)

// OutputFormat represents the desired output format
type OutputFormat string

const (
	FormatTable OutputFormat = "table" // Rich table output
	FormatJSON  OutputFormat = "json"  // JSON output
	FormatYAML  OutputFormat = "yaml"  // YAML output
)

// Options configures the formatter behavior
type Options struct {
	Format OutputFormat
	Quiet  bool // Suppress decorative elements
	Color  bool // Enable colored output
}

// Formatter renders the results of host operations.
type Formatter interface {
	FormatPlugins(w io.Writer, plugins []api.PluginInfo, shadowed []registry.Shadowed) error
	FormatCapabilities(w io.Writer, pluginID string, entries []capability.Entry) error
	FormatConfig(w io.Writer, cfg api.ConfigResponse) error
	FormatContributions(w io.Writer, point string, contributions []webui.Contribution) error
	FormatDispatch(w io.Writer, result *hooks.DispatchResult, data map[string]interface{}) error
}

// ParseFormat validates a --output value. Empty means table.
func ParseFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (use table, json or yaml)", s)
	}
}

// New creates the formatter for options.Format.
func New(options Options) Formatter {
	switch options.Format {
	case FormatJSON:
		return &structuredFormatter{encode: encodeJSON}
	case FormatYAML:
		return &structuredFormatter{encode: encodeYAML}
	default:
		return &TableFormatter{options: options}
	}
}
