// Package plugins builds plugin directory trees on disk for tests.
package plugins

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Plugin describes a plugin directory to create under a root.
type Plugin struct {
	ID       string
	Name     string
	Version  string
	Sections []string
	// Files maps slash-separated paths relative to the plugin dir to contents.
	Files map[string]string
	// NoDescriptor skips writing plugin.yaml.
	NoDescriptor bool
	// RawDescriptor replaces the generated plugin.yaml verbatim.
	RawDescriptor string
}

// Descriptor renders a plugin.yaml document.
func Descriptor(name, version string, sections ...string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "name: %q\n", name)
	fmt.Fprintf(&b, "description: %q\n", name+" plugin")
	fmt.Fprintf(&b, "version: %q\n", version)
	if len(sections) > 0 {
		fmt.Fprintf(&b, "settings_sections: [%s]\n", strings.Join(sections, ", "))
	}
	return b.String()
}

// Write creates p under root and returns the plugin directory.
func Write(t testing.TB, root string, p Plugin) string {
	t.Helper()
	dir := filepath.Join(root, p.ID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("create plugin dir: %v", err)
	}

	switch {
	case p.RawDescriptor != "":
		WriteFile(t, filepath.Join(dir, "plugin.yaml"), p.RawDescriptor)
	case !p.NoDescriptor:
		name := p.Name
		if name == "" {
			name = p.ID
		}
		version := p.Version
		if version == "" {
			version = "1"
		}
		WriteFile(t, filepath.Join(dir, "plugin.yaml"), Descriptor(name, version, p.Sections...))
	}

	for rel, content := range p.Files {
		WriteFile(t, filepath.Join(dir, filepath.FromSlash(rel)), content)
	}
	return dir
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("create dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// Roots creates n empty plugin roots in a fresh temp dir, highest precedence first.
func Roots(t testing.TB, names ...string) []string {
	t.Helper()
	base := t.TempDir()
	dirs := make([]string, 0, len(names))
	for _, name := range names {
		dir := filepath.Join(base, filepath.FromSlash(name))
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("create root %s: %v", dir, err)
		}
		dirs = append(dirs, dir)
	}
	return dirs
}
