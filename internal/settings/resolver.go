package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"agentplug/internal/api"
	"agentplug/internal/registry"
	"agentplug/pkg/logging"
)

// PluginLookup finds the registered plugin for an id.
type PluginLookup interface {
	Lookup(id string) (*registry.Manifest, bool)
}

// Record is a resolved configuration record.
type Record struct {
	PluginID string
	Scope    Scope
	Path     string
	Data     map[string]interface{}
}

// Resolver reads and writes configuration records.
type Resolver struct {
	plugins     PluginLookup
	projectsDir string
	profilesDir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewResolver creates a resolver rooted at the given projects and profiles directories.
func NewResolver(plugins PluginLookup, projectsDir, profilesDir string) *Resolver {
	return &Resolver{
		plugins:     plugins,
		projectsDir: projectsDir,
		profilesDir: profilesDir,
		locks:       make(map[string]*sync.Mutex),
	}
}

func (r *Resolver) plugin(pluginID string, sc api.ScopeContext) (*registry.Manifest, error) {
	if err := validateScope(pluginID, sc); err != nil {
		return nil, err
	}
	m, ok := r.plugins.Lookup(pluginID)
	if !ok {
		return nil, api.NewPluginNotFoundError(pluginID)
	}
	return m, nil
}

// Resolve returns the most specific existing record, or nil when no level
// has one. Malformed records are logged and skipped.
func (r *Resolver) Resolve(pluginID string, sc api.ScopeContext) (*Record, error) {
	m, err := r.plugin(pluginID, sc)
	if err != nil {
		return nil, err
	}

	for _, lvl := range r.levels(pluginID, m.Dir, sc) {
		data, err := readRecord(lvl.path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			cfgErr := &api.ConfigError{PluginID: pluginID, Scope: string(lvl.scope), Path: lvl.path, Err: err}
			logging.Warn("Settings", "%v", cfgErr)
			continue
		}
		logging.Debug("Settings", "Resolved %s config for plugin %s from %s", lvl.scope, pluginID, lvl.path)
		return &Record{PluginID: pluginID, Scope: lvl.scope, Path: lvl.path, Data: data}, nil
	}
	return nil, nil
}

// Defaults returns the plugin's declared defaults, or nil when it declares none.
func (r *Resolver) Defaults(pluginID string) (*Record, error) {
	m, err := r.plugin(pluginID, api.ScopeContext{})
	if err != nil {
		return nil, err
	}

	path := filepath.Join(m.Dir, DefaultsFile)
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read defaults of plugin %s: %w", pluginID, err)
	}

	data := make(map[string]interface{})
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, &api.ConfigError{PluginID: pluginID, Scope: string(ScopeDefault), Path: path, Err: err}
	}
	return &Record{PluginID: pluginID, Scope: ScopeDefault, Path: path, Data: data}, nil
}

// Effective resolves a record and falls back to declared defaults. It returns
// nil when neither exists.
func (r *Resolver) Effective(pluginID string, sc api.ScopeContext) (*Record, error) {
	rec, err := r.Resolve(pluginID, sc)
	if err != nil || rec != nil {
		return rec, err
	}
	rec, err = r.Defaults(pluginID)
	if err != nil {
		var cfgErr *api.ConfigError
		if errors.As(err, &cfgErr) {
			logging.Warn("Settings", "%v", cfgErr)
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

// Save writes data to the most specific level the context allows. The write
// is atomic: readers see either the previous record or the new one.
func (r *Resolver) Save(pluginID string, sc api.ScopeContext, data map[string]interface{}) (*Record, error) {
	m, err := r.plugin(pluginID, sc)
	if err != nil {
		return nil, err
	}
	if data == nil {
		data = map[string]interface{}{}
	}

	target := r.levels(pluginID, m.Dir, sc)[0]

	lock := r.lockFor(target.path)
	lock.Lock()
	defer lock.Unlock()

	if err := writeRecord(target.path, data); err != nil {
		return nil, fmt.Errorf("save %s config for plugin %s: %w", target.scope, pluginID, err)
	}
	logging.Info("Settings", "Saved %s config for plugin %s to %s", target.scope, pluginID, target.path)
	return &Record{PluginID: pluginID, Scope: target.scope, Path: target.path, Data: data}, nil
}

func (r *Resolver) lockFor(path string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[path]
	if !ok {
		l = &sync.Mutex{}
		r.locks[path] = l
	}
	return l
}

func readRecord(path string) (map[string]interface{}, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	data, err := DecodeObject(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid record: %w", err)
	}
	return data, nil
}

func writeRecord(path string, data map[string]interface{}) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+RecordFile+"-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(append(raw, '\n')); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
