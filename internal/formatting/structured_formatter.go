package formatting

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"agentplug/internal/api"
	"agentplug/internal/capability"
	"agentplug/internal/hooks"
	"agentplug/internal/registry"
	"agentplug/internal/webui"
)

// structuredFormatter emits machine-readable output. Both encodings follow
// the json struct tags, so JSON and YAML output use the same field names.
type structuredFormatter struct {
	encode func(w io.Writer, v interface{}) error
}

func (f *structuredFormatter) FormatPlugins(w io.Writer, plugins []api.PluginInfo, shadowed []registry.Shadowed) error {
	if plugins == nil {
		plugins = []api.PluginInfo{}
	}
	return f.encode(w, pluginsView{Plugins: plugins, Shadowed: shadowedViews(shadowed)})
}

func (f *structuredFormatter) FormatCapabilities(w io.Writer, pluginID string, entries []capability.Entry) error {
	if entries == nil {
		entries = []capability.Entry{}
	}
	return f.encode(w, map[string]interface{}{
		"plugin_id":    pluginID,
		"capabilities": entries,
	})
}

func (f *structuredFormatter) FormatConfig(w io.Writer, cfg api.ConfigResponse) error {
	return f.encode(w, cfg)
}

func (f *structuredFormatter) FormatContributions(w io.Writer, point string, contributions []webui.Contribution) error {
	if contributions == nil {
		contributions = []webui.Contribution{}
	}
	return f.encode(w, map[string]interface{}{
		"extension_point": point,
		"extensions":      contributions,
	})
}

func (f *structuredFormatter) FormatDispatch(w io.Writer, result *hooks.DispatchResult, data map[string]interface{}) error {
	return f.encode(w, newDispatchView(result, data))
}

func encodeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// encodeYAML goes through JSON first so json tags and omitempty apply.
func encodeYAML(w io.Writer, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var generic interface{}
	if err := dec.Decode(&generic); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(yamlNumbers(generic)); err != nil {
		return err
	}
	return enc.Close()
}

// yamlNumbers replaces json.Number values with the narrowest Go number that
// holds them exactly; yaml would otherwise emit them as quoted strings.
func yamlNumbers(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		for k, e := range t {
			t[k] = yamlNumbers(e)
		}
	case []interface{}:
		for i, e := range t {
			t[i] = yamlNumbers(e)
		}
	case json.Number:
		if i, err := strconv.ParseInt(string(t), 10, 64); err == nil {
			return i
		}
		if u, err := strconv.ParseUint(string(t), 10, 64); err == nil {
			return u
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return string(t)
	}
	return v
}
