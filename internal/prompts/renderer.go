package prompts

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"agentplug/internal/catalog"
	"agentplug/pkg/logging"
)

// SnapshotSource provides the active catalog snapshot.
type SnapshotSource interface {
	Current() *catalog.Snapshot
}

// Renderer renders plugin prompts from the active snapshot.
type Renderer struct {
	source SnapshotSource
}

// NewRenderer creates a Renderer.
func NewRenderer(source SnapshotSource) *Renderer {
	return &Renderer{source: source}
}

// Render resolves prompt name of pluginID and executes it with vars. The
// name may be given with or without its extension.
func (r *Renderer) Render(pluginID, name string, vars map[string]interface{}) (string, error) {
	entry, err := r.source.Current().Prompt(pluginID, name)
	if err != nil {
		return "", err
	}

	text, err := os.ReadFile(entry.Resolved)
	if err != nil {
		return "", fmt.Errorf("read prompt %s/%s: %w", pluginID, entry.Path, err)
	}

	out, err := Execute(entry.Name(), string(text), vars)
	if err != nil {
		return "", fmt.Errorf("render prompt %s/%s: %w", pluginID, entry.Path, err)
	}
	logging.Debug("Prompts", "Rendered %s/%s (%d bytes)", pluginID, entry.Path, len(out))
	return out, nil
}

// Execute renders a template text with the sprig functions.
func Execute(name, text string, vars map[string]interface{}) (string, error) {
	tmpl, err := template.New(name).
		Funcs(sprig.TxtFuncMap()).
		Option("missingkey=error").
		Parse(text)
	if err != nil {
		return "", err
	}
	if vars == nil {
		vars = map[string]interface{}{}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ParseVars turns "key=value" pairs into a variables map.
func ParseVars(pairs []string) (map[string]interface{}, error) {
	vars := make(map[string]interface{}, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid variable %q, expected key=value", pair)
		}
		vars[key] = value
	}
	return vars, nil
}
