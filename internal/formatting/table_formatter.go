package formatting

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"agentplug/internal/api"
	"agentplug/internal/capability"
	"agentplug/internal/hooks"
	"agentplug/internal/registry"
	"agentplug/internal/webui"
	pkgstrings "agentplug/pkg/strings"
)

// maxValueWidth bounds config values shown in a table cell.
const maxValueWidth = 100

// TableFormatter provides rich table output formatting
type TableFormatter struct {
	options Options
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(options Options) *TableFormatter {
	return &TableFormatter{options: options}
}

// FormatPlugins lists merged plugins and, when given, the copies they shadow.
func (f *TableFormatter) FormatPlugins(w io.Writer, plugins []api.PluginInfo, shadowed []registry.Shadowed) error {
	if len(plugins) == 0 {
		return f.writeEmptyMessage(w, "No plugins found")
	}

	t := f.createTable()
	t.AppendHeader(f.header("ID", "NAME", "DESCRIPTION", "VERSION", "ROOT", "CAPABILITIES", "SETTINGS"))
	for _, p := range plugins {
		t.AppendRow(table.Row{
			f.highlight(p.ID),
			p.Name,
			pkgstrings.TruncateLine(p.Description, pkgstrings.DescriptionWidth),
			p.Version,
			p.Root,
			p.Capabilities,
			strings.Join(p.SettingsSections, ","),
		})
	}
	if err := f.render(w, t); err != nil {
		return err
	}

	if len(shadowed) > 0 {
		st := f.createTable()
		st.SetTitle("Shadowed")
		st.AppendHeader(f.header("ID", "DIR", "SHADOWED BY"))
		for _, s := range shadowed {
			st.AppendRow(table.Row{s.ID, s.Dir, s.By.Dir})
		}
		if err := f.render(w, st); err != nil {
			return err
		}
	}
	return f.writeTotal(w, len(plugins), "plugins")
}

// FormatCapabilities lists a plugin's capability entries.
func (f *TableFormatter) FormatCapabilities(w io.Writer, pluginID string, entries []capability.Entry) error {
	if len(entries) == 0 {
		return f.writeEmptyMessage(w, fmt.Sprintf("Plugin %s has no capabilities", pluginID))
	}

	t := f.createTable()
	t.AppendHeader(f.header("KIND", "EXTENSION POINT", "PATH"))
	for _, e := range entries {
		t.AppendRow(table.Row{string(e.Kind), e.Point, e.Path})
	}
	if err := f.render(w, t); err != nil {
		return err
	}
	return f.writeTotal(w, len(entries), "capabilities")
}

// FormatConfig shows a settings record as key/value rows, sorted by key.
func (f *TableFormatter) FormatConfig(w io.Writer, cfg api.ConfigResponse) error {
	if !f.options.Quiet {
		scope := cfg.Scope
		if scope == "" {
			scope = "none"
		}
		if _, err := fmt.Fprintf(w, "%s %s (scope: %s)\n", f.label("Plugin:"), cfg.PluginID, scope); err != nil {
			return err
		}
		if cfg.Path != "" {
			if _, err := fmt.Fprintf(w, "%s %s\n", f.label("Source:"), cfg.Path); err != nil {
				return err
			}
		}
	}
	if len(cfg.Config) == 0 {
		return f.writeEmptyMessage(w, "No settings")
	}

	keys := make([]string, 0, len(cfg.Config))
	for k := range cfg.Config {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	t := f.createTable()
	t.AppendHeader(f.header("KEY", "VALUE"))
	for _, k := range keys {
		value := cfg.Config[k]
		var valueStr string
		switch value.(type) {
		case map[string]interface{}, []interface{}:
			valueStr = PrettyJSON(value)
		default:
			valueStr = fmt.Sprintf("%v", value)
		}
		t.AppendRow(table.Row{f.highlight(k), pkgstrings.TruncateLine(valueStr, maxValueWidth)})
	}
	return f.render(w, t)
}

// FormatContributions lists the webui fragments for an extension point.
func (f *TableFormatter) FormatContributions(w io.Writer, point string, contributions []webui.Contribution) error {
	if len(contributions) == 0 {
		return f.writeEmptyMessage(w, fmt.Sprintf("No contributions to %s", point))
	}

	t := f.createTable()
	t.AppendHeader(f.header("PLUGIN", "PATH", "URL", "WARNINGS"))
	for _, c := range contributions {
		warnings := strings.Join(c.Warnings, "; ")
		if warnings != "" && f.options.Color {
			warnings = text.FgYellow.Sprint(warnings)
		}
		t.AppendRow(table.Row{c.PluginID, c.Path, c.URL, warnings})
	}
	if err := f.render(w, t); err != nil {
		return err
	}
	return f.writeTotal(w, len(contributions), "contributions")
}

// FormatDispatch summarizes a hook dispatch and prints the final context.
func (f *TableFormatter) FormatDispatch(w io.Writer, result *hooks.DispatchResult, data map[string]interface{}) error {
	if len(result.Invoked) == 0 {
		if err := f.writeEmptyMessage(w, fmt.Sprintf("No hooks registered for %s", result.Point)); err != nil {
			return err
		}
	} else {
		t := f.createTable()
		t.AppendHeader(f.header("#", "HOOK"))
		for i, name := range result.Invoked {
			t.AppendRow(table.Row{i + 1, name})
		}
		if err := f.render(w, t); err != nil {
			return err
		}
	}

	for _, failure := range result.Failures {
		msg := failure.Error()
		if f.options.Color {
			msg = text.FgRed.Sprint(msg)
		}
		if _, err := fmt.Fprintf(w, "%s %s\n", f.label("Failed:"), msg); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "%s\n%s\n", f.label("Context:"), PrettyJSON(data)); err != nil {
		return err
	}
	if f.options.Quiet {
		return nil
	}
	_, err := fmt.Fprintf(w, "%s %s in %s\n", f.label("Dispatch:"), result.ID, result.Duration.Round(time.Millisecond))
	return err
}

// createTable creates a new table with standard styling
func (f *TableFormatter) createTable() table.Writer {
	t := table.NewWriter()
	if f.options.Color {
		t.SetStyle(table.StyleRounded)
	} else {
		t.SetStyle(table.StyleLight)
	}
	return t
}

func (f *TableFormatter) render(w io.Writer, t table.Writer) error {
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func (f *TableFormatter) header(names ...string) table.Row {
	row := make(table.Row, 0, len(names))
	for _, n := range names {
		if f.options.Color {
			row = append(row, text.FgHiCyan.Sprint(n))
		} else {
			row = append(row, n)
		}
	}
	return row
}

func (f *TableFormatter) highlight(s string) string {
	if f.options.Color {
		return text.FgHiCyan.Sprint(s)
	}
	return s
}

func (f *TableFormatter) label(s string) string {
	if f.options.Color {
		return text.FgHiBlue.Sprint(s)
	}
	return s
}

// writeEmptyMessage formats empty result messages
func (f *TableFormatter) writeEmptyMessage(w io.Writer, message string) error {
	if f.options.Color {
		message = text.FgYellow.Sprint(message)
	}
	_, err := fmt.Fprintln(w, message)
	return err
}

func (f *TableFormatter) writeTotal(w io.Writer, n int, noun string) error {
	if f.options.Quiet {
		return nil
	}
	_, err := fmt.Fprintf(w, "%s %d %s\n", f.label("Total:"), n, noun)
	return err
}
