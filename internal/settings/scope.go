package settings

import (
	"path/filepath"

	"agentplug/internal/api"
	"agentplug/internal/config"
)

// Scope names the level a record was resolved from.
type Scope string

const (
	ScopeProjectProfile Scope = "project+profile"
	ScopeProject        Scope = "project"
	ScopeProfile        Scope = "profile"
	ScopeGlobal         Scope = "global"
	// ScopeDefault marks data taken from the plugin's declared defaults.
	ScopeDefault Scope = "default"
)

const (
	// RecordFile is the file name of a configuration record at every level.
	RecordFile = "config.json"
	// DefaultsFile holds a plugin's declared defaults.
	DefaultsFile = "default_config.yaml"

	projectMetaDir = ".a0proj"
)

type level struct {
	scope Scope
	path  string
}

// levels lists the candidate record paths for a plugin, most specific first.
func (r *Resolver) levels(pluginID, pluginDir string, sc api.ScopeContext) []level {
	var out []level
	if sc.Project != "" && sc.Profile != "" {
		out = append(out, level{ScopeProjectProfile, filepath.Join(r.projectsDir, sc.Project, projectMetaDir, "agents", sc.Profile, "plugins", pluginID, RecordFile)})
	}
	if sc.Project != "" {
		out = append(out, level{ScopeProject, filepath.Join(r.projectsDir, sc.Project, projectMetaDir, "plugins", pluginID, RecordFile)})
	}
	if sc.Profile != "" {
		out = append(out, level{ScopeProfile, filepath.Join(r.profilesDir, sc.Profile, "plugins", pluginID, RecordFile)})
	}
	out = append(out, level{ScopeGlobal, filepath.Join(pluginDir, RecordFile)})
	return out
}

func validateScope(pluginID string, sc api.ScopeContext) error {
	var errs config.ValidationErrors
	errs.PathSegment("plugin_id", pluginID)
	if sc.Project != "" {
		errs.PathSegment("project", sc.Project)
	}
	if sc.Profile != "" {
		errs.PathSegment("profile", sc.Profile)
	}
	if errs.HasErrors() {
		return api.NewClientError("invalid scope: %v", errs)
	}
	return nil
}
