package registry

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"agentplug/internal/api"
	"agentplug/pkg/logging"
)

// Shadowed records a plugin hidden by a higher-precedence plugin with the same id.
type Shadowed struct {
	ID  string
	Dir string
	// Root is where the shadowed copy lives.
	Root Root
	// By is the root whose plugin won.
	By Root
}

// Registry is the merged, read-only view of all plugin roots.
type Registry struct {
	roots       []Root
	plugins     map[string]*Manifest
	ids         []string
	shadowed    []Shadowed
	diagnostics *Diagnostics
}

// Merge walks roots in precedence order and registers each plugin id the first
// time it is seen. Later copies are shadowed. Candidates whose descriptor is
// missing or invalid are excluded with a diagnostic and do not claim their id.
// The result depends only on root order and filesystem contents.
func Merge(roots []Root) *Registry {
	reg := &Registry{
		roots:       append([]Root(nil), roots...),
		plugins:     make(map[string]*Manifest),
		diagnostics: NewDiagnostics(),
	}

	sorted := append([]Root(nil), roots...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Rank < sorted[j].Rank })

	for _, root := range sorted {
		reg.mergeRoot(root)
	}

	reg.ids = make([]string, 0, len(reg.plugins))
	for id := range reg.plugins {
		reg.ids = append(reg.ids, id)
	}
	sort.Strings(reg.ids)

	sort.SliceStable(reg.shadowed, func(i, j int) bool {
		if reg.shadowed[i].ID != reg.shadowed[j].ID {
			return reg.shadowed[i].ID < reg.shadowed[j].ID
		}
		return reg.shadowed[i].Root.Rank < reg.shadowed[j].Root.Rank
	})

	if reg.diagnostics.HasErrors() {
		logging.Warn("Registry", "Some plugins were excluded:\n%s", reg.diagnostics.GetSummary())
	}
	logging.Info("Registry", "Merged %d plugins from %d roots (%d shadowed)", len(reg.ids), len(roots), len(reg.shadowed))
	return reg
}

func (r *Registry) mergeRoot(root Root) {
	entries, err := os.ReadDir(root.Dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Debug("Registry", "Plugin root %s does not exist, skipping", root.Dir)
			return
		}
		logging.Error("Registry", err, "Failed to read plugin root %s", root.Dir)
		return
	}

	// ReadDir is sorted by name; keep it explicit so merge order never depends on the OS.
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, ent := range entries {
		name := ent.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		dir := filepath.Join(root.Dir, name)
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			continue
		}

		if winner, claimed := r.plugins[name]; claimed {
			r.shadowed = append(r.shadowed, Shadowed{ID: name, Dir: dir, Root: root, By: winner.Root})
			logging.Debug("Registry", "Plugin %s in %s is shadowed by %s", name, root.Dir, winner.Root.Dir)
			continue
		}

		manifest, err := LoadManifest(root, dir)
		if err != nil {
			var manifestErr *api.ManifestError
			if errors.As(err, &manifestErr) {
				r.diagnostics.Add(manifestErr)
			}
			continue
		}

		r.plugins[manifest.ID] = manifest
		logging.Debug("Registry", "Registered plugin %s (version %s) from %s", manifest.ID, manifest.Version, root.Dir)
	}
}

// Get returns the registered manifest for id.
func (r *Registry) Get(id string) (*Manifest, bool) {
	m, ok := r.plugins[id]
	return m, ok
}

// List returns all manifests sorted by identifier.
func (r *Registry) List() []*Manifest {
	out := make([]*Manifest, 0, len(r.ids))
	for _, id := range r.ids {
		out = append(out, r.plugins[id])
	}
	return out
}

// IDs returns the registered identifiers, sorted.
func (r *Registry) IDs() []string {
	return append([]string(nil), r.ids...)
}

// Len returns the number of registered plugins.
func (r *Registry) Len() int {
	return len(r.ids)
}

// Roots returns the roots the registry was built from.
func (r *Registry) Roots() []Root {
	return append([]Root(nil), r.roots...)
}

// Shadowed returns every shadowed copy, sorted by id then rank.
func (r *Registry) Shadowed() []Shadowed {
	return append([]Shadowed(nil), r.shadowed...)
}

// ShadowedBy returns the copies of id hidden by the registered plugin.
func (r *Registry) ShadowedBy(id string) []Shadowed {
	var out []Shadowed
	for _, s := range r.shadowed {
		if s.ID == id {
			out = append(out, s)
		}
	}
	return out
}

// Diagnostics returns the manifest errors collected during the merge.
func (r *Registry) Diagnostics() *Diagnostics {
	return r.diagnostics
}
