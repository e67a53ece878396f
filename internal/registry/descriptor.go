package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"agentplug/internal/api"
	"agentplug/internal/config"

	"gopkg.in/yaml.v3"
)

// DescriptorFile is the required per-plugin descriptor.
const DescriptorFile = "plugin.yaml"

// Settings section tags a descriptor may declare.
const (
	SectionAgent     = "agent"
	SectionExternal  = "external"
	SectionMCP       = "mcp"
	SectionDeveloper = "developer"
	SectionBackup    = "backup"
)

var allowedSections = []string{SectionAgent, SectionExternal, SectionMCP, SectionDeveloper, SectionBackup}

const maxDescriptionLen = 2000

// Descriptor is the on-disk shape of plugin.yaml.
type Descriptor struct {
	Name             string   `yaml:"name"`
	Description      string   `yaml:"description"`
	Version          string   `yaml:"version"`
	SettingsSections []string `yaml:"settings_sections"`
}

// Manifest is a registered plugin. It is immutable once loaded.
type Manifest struct {
	// ID is the plugin identifier, taken from the plugin directory name.
	ID               string
	Name             string
	Description      string
	Version          string
	SettingsSections []string
	// Root is the plugin root the manifest was loaded from.
	Root Root
	// Dir is the absolute plugin directory.
	Dir string
}

// Precedence is the rank of the manifest's root; lower wins.
func (m *Manifest) Precedence() int {
	return m.Root.Rank
}

// HasSection reports whether the plugin declared the given settings section.
func (m *Manifest) HasSection(section string) bool {
	for _, s := range m.SettingsSections {
		if s == section {
			return true
		}
	}
	return false
}

// LoadManifest reads and validates the descriptor of the plugin in dir.
// Failures are returned as *api.ManifestError.
func LoadManifest(root Root, dir string) (*Manifest, error) {
	descriptorPath := filepath.Join(dir, DescriptorFile)
	data, err := os.ReadFile(descriptorPath)
	if err != nil {
		reason := "io"
		if errors.Is(err, os.ErrNotExist) {
			reason = "missing"
		}
		return nil, &api.ManifestError{Dir: dir, Root: root.Dir, Reason: reason, Err: err}
	}

	var desc Descriptor
	if err := yaml.Unmarshal(data, &desc); err != nil {
		return nil, &api.ManifestError{Dir: dir, Root: root.Dir, Reason: "parse", Err: err}
	}

	id := filepath.Base(dir)
	if err := validateDescriptor(id, desc); err != nil {
		return nil, &api.ManifestError{Dir: dir, Root: root.Dir, Reason: "validation", Err: err}
	}

	sections := make([]string, len(desc.SettingsSections))
	copy(sections, desc.SettingsSections)

	return &Manifest{
		ID:               id,
		Name:             desc.Name,
		Description:      desc.Description,
		Version:          desc.Version,
		SettingsSections: sections,
		Root:             root,
		Dir:              dir,
	}, nil
}

func validateDescriptor(id string, desc Descriptor) error {
	var errs config.ValidationErrors
	errs.PathSegment("id", id).
		Required("name", desc.Name).
		MaxLength("description", desc.Description, maxDescriptionLen)
	for i, section := range desc.SettingsSections {
		errs.OneOf(fmt.Sprintf("settings_sections[%d]", i), section, allowedSections)
	}
	return errs.Err()
}
