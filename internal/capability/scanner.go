package capability

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"agentplug/internal/registry"
	"agentplug/pkg/logging"
)

// Reserved subdirectory names.
const (
	DirAPI        = "api"
	DirTools      = "tools"
	DirHelpers    = "helpers"
	DirPrompts    = "prompts"
	DirAgents     = "agents"
	DirExtensions = "extensions"
	DirWebUI      = "webui"

	extPython = "python"
	extWebUI  = "webui"
)

var fileDirs = []struct {
	dir  string
	kind Kind
}{
	{DirAPI, KindAPI},
	{DirTools, KindTool},
	{DirHelpers, KindHelper},
	{DirPrompts, KindPrompt},
}

func ignored(name string) bool {
	return strings.HasPrefix(name, ".") || name == "__init__.py" || name == "__pycache__"
}

// Scan enumerates the capabilities of one plugin. Missing reserved
// directories contribute nothing; any other read failure is returned.
func Scan(m *registry.Manifest) ([]Entry, error) {
	s := &scan{manifest: m}

	for _, fd := range fileDirs {
		s.files(fd.dir, fd.kind, "")
	}
	s.subdirs(DirAgents, KindAgentProfile)
	s.points(path.Join(DirExtensions, extPython), KindPythonHook)
	s.points(path.Join(DirExtensions, extWebUI), KindWebUIAsset)
	s.opaque(DirWebUI, KindWebUIAsset)

	sortEntries(s.entries)
	if len(s.errs) > 0 {
		return s.entries, fmt.Errorf("scan plugin %s: %w", m.ID, errors.Join(s.errs...))
	}
	return s.entries, nil
}

// ScanAll scans every registered plugin. A plugin that fails to scan keeps
// whatever entries were readable; the failure is logged and returned.
func ScanAll(reg *registry.Registry) (map[string][]Entry, []error) {
	out := make(map[string][]Entry, reg.Len())
	var errs []error
	for _, m := range reg.List() {
		entries, err := Scan(m)
		if err != nil {
			logging.Warn("Scanner", "Partial scan of plugin %s: %v", m.ID, err)
			errs = append(errs, err)
		}
		out[m.ID] = entries
	}
	logging.Debug("Scanner", "Scanned %d plugins", len(out))
	return out, errs
}

type scan struct {
	manifest *registry.Manifest
	entries  []Entry
	errs     []error
}

func (s *scan) readDir(rel string) []os.DirEntry {
	entries, err := os.ReadDir(filepath.Join(s.manifest.Dir, filepath.FromSlash(rel)))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) && !isNotDir(err) {
			s.errs = append(s.errs, err)
		}
		return nil
	}
	return entries
}

func (s *scan) add(kind Kind, rel, point string) {
	s.entries = append(s.entries, Entry{
		PluginID:  s.manifest.ID,
		Kind:      kind,
		Path:      rel,
		Point:     point,
		Resolved:  filepath.Join(s.manifest.Dir, filepath.FromSlash(rel)),
		PluginDir: s.manifest.Dir,
	})
}

func (s *scan) isDir(ent os.DirEntry, rel string) bool {
	if ent.Type()&os.ModeSymlink == 0 {
		return ent.IsDir()
	}
	info, err := os.Stat(filepath.Join(s.manifest.Dir, filepath.FromSlash(rel)))
	return err == nil && info.IsDir()
}

func (s *scan) files(dir string, kind Kind, point string) {
	for _, ent := range s.readDir(dir) {
		rel := path.Join(dir, ent.Name())
		if ignored(ent.Name()) || s.isDir(ent, rel) {
			continue
		}
		s.add(kind, rel, point)
	}
}

func (s *scan) subdirs(dir string, kind Kind) {
	for _, ent := range s.readDir(dir) {
		rel := path.Join(dir, ent.Name())
		if ignored(ent.Name()) || !s.isDir(ent, rel) {
			continue
		}
		s.add(kind, rel, "")
	}
}

// points treats each subdirectory of dir as an extension point.
func (s *scan) points(dir string, kind Kind) {
	for _, ent := range s.readDir(dir) {
		rel := path.Join(dir, ent.Name())
		if ignored(ent.Name()) || !s.isDir(ent, rel) {
			continue
		}
		s.files(rel, kind, ent.Name())
	}
}

func (s *scan) opaque(dir string, kind Kind) {
	info, err := os.Stat(filepath.Join(s.manifest.Dir, dir))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.errs = append(s.errs, err)
		}
		return
	}
	if info.IsDir() {
		s.add(kind, dir, "")
	}
}

func isNotDir(err error) bool {
	var pathErr *os.PathError
	if !errors.As(err, &pathErr) {
		return false
	}
	info, statErr := os.Stat(pathErr.Path)
	return statErr == nil && !info.IsDir()
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Kind != b.Kind {
			return kindOrder(a.Kind) < kindOrder(b.Kind)
		}
		if a.Point != b.Point {
			return a.Point < b.Point
		}
		return a.Path < b.Path
	})
}

func kindOrder(k Kind) int {
	for i, known := range AllKinds {
		if known == k {
			return i
		}
	}
	return len(AllKinds)
}
