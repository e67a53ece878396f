package webui

import (
	"fmt"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"agentplug/internal/capability"
	"agentplug/internal/catalog"
	"agentplug/pkg/logging"
)

// DefaultCacheSize bounds the number of cached discovery results.
const DefaultCacheSize = 256

// Contribution is one fragment contributed to an extension point.
type Contribution struct {
	PluginID string `json:"plugin_id"`
	// Path is relative to the plugin directory.
	Path string `json:"path"`
	// URL is where the static route serves the file.
	URL      string   `json:"url"`
	Warnings []string `json:"warnings,omitempty"`
}

// SnapshotSource provides the active catalog snapshot.
type SnapshotSource interface {
	Current() *catalog.Snapshot
}

// Broker discovers webui contributions. Results are cached per snapshot
// version, so a reload is visible to the next call.
type Broker struct {
	source SnapshotSource
	cache  *lru.Cache[string, []Contribution]
}

// NewBroker creates a broker with an LRU cache of cacheSize results.
func NewBroker(source SnapshotSource, cacheSize int) (*Broker, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, []Contribution](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create discovery cache: %w", err)
	}
	return &Broker{source: source, cache: cache}, nil
}

// Discover returns the contributions at point, optionally restricted to the
// given file extensions ("html" and ".HTML" are equivalent). The result is
// never nil.
func (b *Broker) Discover(point string, filters []string) []Contribution {
	snap := b.source.Current()
	exts := normalizeFilters(filters)
	key := fmt.Sprintf("%d|%s|%s", snap.Version, point, strings.Join(exts, ","))

	if cached, ok := b.cache.Get(key); ok {
		return append([]Contribution{}, cached...)
	}

	entries := snap.ExtensionPoint(capability.KindWebUIAsset, point)
	out := make([]Contribution, 0, len(entries))
	for _, e := range entries {
		if !matches(e, exts) {
			continue
		}
		c := Contribution{
			PluginID: e.PluginID,
			Path:     e.Path,
			URL:      "/plugins/" + e.PluginID + "/" + e.Path,
		}
		if e.Ext() == "html" {
			c.Warnings = CheckHTMLFile(e.Resolved)
			for _, w := range c.Warnings {
				logging.Warn("WebUI", "Contribution %s/%s: %s", e.PluginID, e.Path, w)
			}
		}
		out = append(out, c)
	}

	b.cache.Add(key, out)
	logging.Debug("WebUI", "Discovered %d contributions at %s (snapshot v%d)", len(out), point, snap.Version)
	return append([]Contribution{}, out...)
}

// Purge drops every cached result.
func (b *Broker) Purge() {
	b.cache.Purge()
}

func normalizeFilters(filters []string) []string {
	seen := make(map[string]bool, len(filters))
	out := make([]string, 0, len(filters))
	for _, f := range filters {
		f = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(f), "."))
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

func matches(e capability.Entry, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	ext := e.Ext()
	for _, want := range exts {
		if ext == want {
			return true
		}
	}
	return false
}
