package catalog

import (
	"sort"
	"time"

	"agentplug/internal/api"
	"agentplug/internal/capability"
	"agentplug/internal/registry"
	"agentplug/pkg/logging"
)

// Snapshot is one consistent view of plugins and capabilities. It is never
// mutated after Build returns.
type Snapshot struct {
	Version  uint64
	BuiltAt  time.Time
	Registry *registry.Registry

	entries    map[string][]capability.Entry
	points     map[capability.Kind]map[string][]capability.Entry
	scanErrors []error
}

// Build merges roots, scans every registered plugin and indexes the result.
func Build(roots []registry.Root, version uint64) *Snapshot {
	reg := registry.Merge(roots)
	entries, scanErrors := capability.ScanAll(reg)

	snap := &Snapshot{
		Version:    version,
		BuiltAt:    time.Now(),
		Registry:   reg,
		entries:    entries,
		points:     make(map[capability.Kind]map[string][]capability.Entry),
		scanErrors: scanErrors,
	}

	for _, list := range entries {
		for _, e := range list {
			if e.Kind != capability.KindPythonHook && e.Kind != capability.KindWebUIAsset {
				continue
			}
			if e.Point == "" {
				continue
			}
			byPoint, ok := snap.points[e.Kind]
			if !ok {
				byPoint = make(map[string][]capability.Entry)
				snap.points[e.Kind] = byPoint
			}
			byPoint[e.Point] = append(byPoint[e.Point], e)
		}
	}
	for _, byPoint := range snap.points {
		for _, list := range byPoint {
			snap.sortContributions(list)
		}
	}

	logging.Info("Catalog", "Built snapshot v%d: %d plugins", version, reg.Len())
	return snap
}

// sortContributions orders by (plugin precedence, file name, plugin id).
func (s *Snapshot) sortContributions(list []capability.Entry) {
	rank := func(id string) int {
		if m, ok := s.Registry.Get(id); ok {
			return m.Precedence()
		}
		return int(^uint(0) >> 1)
	}
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if ra, rb := rank(a.PluginID), rank(b.PluginID); ra != rb {
			return ra < rb
		}
		if a.Name() != b.Name() {
			return a.Name() < b.Name()
		}
		return a.PluginID < b.PluginID
	})
}

// Plugin returns the registered manifest for id.
func (s *Snapshot) Plugin(id string) (*registry.Manifest, bool) {
	return s.Registry.Get(id)
}

// Plugins returns all manifests sorted by id.
func (s *Snapshot) Plugins() []*registry.Manifest {
	return s.Registry.List()
}

// Entries returns the capabilities of one plugin.
func (s *Snapshot) Entries(pluginID string) []capability.Entry {
	return append([]capability.Entry(nil), s.entries[pluginID]...)
}

// ExtensionPoint returns the ordered contributions of the given kind at point.
// The result is a copy and never nil.
func (s *Snapshot) ExtensionPoint(kind capability.Kind, point string) []capability.Entry {
	list := s.points[kind][point]
	out := make([]capability.Entry, len(list))
	copy(out, list)
	return out
}

// Points lists the extension point names that have contributions of kind.
func (s *Snapshot) Points(kind capability.Kind) []string {
	names := make([]string, 0, len(s.points[kind]))
	for name := range s.points[kind] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Handler resolves an API handler by plugin id and file stem.
func (s *Snapshot) Handler(pluginID, name string) (capability.Entry, error) {
	if _, ok := s.Plugin(pluginID); !ok {
		return capability.Entry{}, api.NewPluginNotFoundError(pluginID)
	}
	for _, e := range s.entries[pluginID] {
		if e.Kind == capability.KindAPI && e.Stem() == name {
			return e, nil
		}
	}
	return capability.Entry{}, api.NewHandlerNotFoundError(pluginID, name)
}

// Prompt resolves a prompt file by exact file name, falling back to its stem.
func (s *Snapshot) Prompt(pluginID, name string) (capability.Entry, error) {
	if _, ok := s.Plugin(pluginID); !ok {
		return capability.Entry{}, api.NewPluginNotFoundError(pluginID)
	}
	prompts := capability.Filter(s.entries[pluginID], capability.KindPrompt)
	for _, e := range prompts {
		if e.Name() == name {
			return e, nil
		}
	}
	for _, e := range prompts {
		if e.Stem() == name {
			return e, nil
		}
	}
	return capability.Entry{}, api.NewPromptNotFoundError(pluginID, name)
}

// ScanErrors returns the non-fatal scan failures of this build.
func (s *Snapshot) ScanErrors() []error {
	return append([]error(nil), s.scanErrors...)
}

// PluginInfos summarizes every plugin for listings.
func (s *Snapshot) PluginInfos() []api.PluginInfo {
	manifests := s.Plugins()
	infos := make([]api.PluginInfo, 0, len(manifests))
	for _, m := range manifests {
		info := api.PluginInfo{
			ID:               m.ID,
			Name:             m.Name,
			Description:      m.Description,
			Version:          m.Version,
			SettingsSections: append([]string{}, m.SettingsSections...),
			Root:             m.Root.Dir,
			Precedence:       m.Precedence(),
			Capabilities:     len(s.entries[m.ID]),
		}
		for _, sh := range s.Registry.ShadowedBy(m.ID) {
			info.Shadows = append(info.Shadows, sh.Dir)
		}
		infos = append(infos, info)
	}
	return infos
}
