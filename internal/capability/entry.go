package capability

import (
	"path"
	"strings"
)

// Kind classifies a capability entry.
type Kind string

const (
	KindAPI          Kind = "api"
	KindTool         Kind = "tool"
	KindHelper       Kind = "helper"
	KindPythonHook   Kind = "python-hook"
	KindWebUIAsset   Kind = "webui-asset"
	KindPrompt       Kind = "prompt"
	KindAgentProfile Kind = "agent-profile"
)

// AllKinds lists every kind in display order.
var AllKinds = []Kind{KindAPI, KindTool, KindHelper, KindPythonHook, KindWebUIAsset, KindPrompt, KindAgentProfile}

// Entry is one discovered capability.
type Entry struct {
	PluginID string `json:"plugin_id"`
	Kind     Kind   `json:"kind"`
	// Path is slash separated and relative to the plugin directory.
	Path string `json:"path"`
	// Point is the extension point for hooks and webui contributions.
	Point string `json:"point,omitempty"`
	// Resolved is the absolute filesystem path.
	Resolved string `json:"-"`
	// PluginDir is the directory of the contributing plugin.
	PluginDir string `json:"-"`
}

// Name is the base name of the entry's file or directory.
func (e Entry) Name() string {
	return path.Base(e.Path)
}

// Stem is the base name without its extension. API handlers are addressed by stem.
func (e Entry) Stem() string {
	name := e.Name()
	return strings.TrimSuffix(name, path.Ext(name))
}

// Ext is the lower-cased file extension without the leading dot.
func (e Entry) Ext() string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(e.Path), "."))
}

// Filter returns the entries of the given kind, preserving order.
func Filter(entries []Entry, kind Kind) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// CountByKind tallies entries per kind.
func CountByKind(entries []Entry) map[Kind]int {
	counts := make(map[Kind]int, len(AllKinds))
	for _, e := range entries {
		counts[e.Kind]++
	}
	return counts
}
