package webui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agentplug/internal/catalog"
	"agentplug/internal/registry"
	"agentplug/internal/testing/fixtures/plugins"
)

const goodFragment = `<div x-data="{open:false}" x-move-to-end=""><span>hi</span></div>`

func newBroker(t *testing.T, store *catalog.Store) *Broker {
	t.Helper()
	b, err := NewBroker(store, 0)
	require.NoError(t, err)
	return b
}

func TestDiscover_OrderAndFilters(t *testing.T) {
	dirs := plugins.Roots(t, "usr/plugins", "plugins")
	plugins.Write(t, dirs[1], plugins.Plugin{ID: "alpha", Files: map[string]string{
		"extensions/webui/sidebar-start/10-panel.html": goodFragment,
		"extensions/webui/sidebar-start/20-panel.JS":   "console.log(1)",
	}})
	plugins.Write(t, dirs[0], plugins.Plugin{ID: "zeta", Files: map[string]string{
		"extensions/webui/sidebar-start/99-late.html": goodFragment,
	}})
	b := newBroker(t, catalog.NewStore(registry.NewRoots(dirs...)))

	all := b.Discover("sidebar-start", nil)
	require.Len(t, all, 3)
	assert.Equal(t, "zeta", all[0].PluginID)
	assert.Equal(t, "extensions/webui/sidebar-start/10-panel.html", all[1].Path)
	assert.Equal(t, "/plugins/alpha/extensions/webui/sidebar-start/10-panel.html", all[1].URL)
	assert.Empty(t, all[1].Warnings)

	js := b.Discover("sidebar-start", []string{".js"})
	require.Len(t, js, 1)
	assert.Equal(t, "alpha", js[0].PluginID)

	html := b.Discover("sidebar-start", []string{"HTML"})
	assert.Len(t, html, 2)
}

func TestDiscover_EmptyPointIsEmptyList(t *testing.T) {
	b := newBroker(t, catalog.NewStore(registry.NewRoots(t.TempDir())))

	got := b.Discover("nowhere", []string{"html"})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestDiscover_InvalidFragmentStillReturnedWithWarnings(t *testing.T) {
	dirs := plugins.Roots(t, "plugins")
	plugins.Write(t, dirs[0], plugins.Plugin{ID: "p", Files: map[string]string{
		"extensions/webui/chat-input/bad.html": `<div></div><p></p>`,
	}})
	b := newBroker(t, catalog.NewStore(registry.NewRoots(dirs...)))

	got := b.Discover("chat-input", nil)
	require.Len(t, got, 1)
	require.NotEmpty(t, got[0].Warnings)
	assert.Contains(t, got[0].Warnings[0], "exactly one root element")
}

func TestDiscover_ReloadInvalidatesCache(t *testing.T) {
	dirs := plugins.Roots(t, "plugins")
	plugins.Write(t, dirs[0], plugins.Plugin{ID: "p", Files: map[string]string{
		"extensions/webui/x/a.js": "",
	}})
	store := catalog.NewStore(registry.NewRoots(dirs...))
	b := newBroker(t, store)
	require.Len(t, b.Discover("x", nil), 1)

	plugins.Write(t, dirs[0], plugins.Plugin{ID: "q", Files: map[string]string{
		"extensions/webui/x/b.js": "",
	}})
	// Same snapshot, same cached answer.
	require.Len(t, b.Discover("x", nil), 1)

	_, err := store.Reload(t.Context())
	require.NoError(t, err)
	assert.Len(t, b.Discover("x", nil), 2)
}

func TestCheckHTML(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		want     []string
	}{
		{name: "valid move-to-end", fragment: goodFragment},
		{name: "valid move-after with target", fragment: `<section x-data x-move-after="#chat-input"></section>`},
		{name: "surrounding whitespace", fragment: "\n  " + goodFragment + "\n"},
		{name: "missing x-data", fragment: `<div x-move-to-start></div>`, want: []string{"missing x-data"}},
		{name: "no directive", fragment: `<div x-data></div>`, want: []string{"no placement directive"}},
		{name: "two directives", fragment: `<div x-data x-move-to-start x-move-to-end></div>`, want: []string{"2 placement directives"}},
		{name: "target required", fragment: `<div x-data x-move-before=""></div>`, want: []string{"x-move-before requires a target"}},
		{name: "two roots", fragment: `<div x-data x-move-to-end></div><style></style>`, want: []string{"found 2"}},
		{name: "stray text", fragment: `hello <div x-data x-move-to-end></div>`, want: []string{"text outside"}},
		{name: "empty", fragment: ``, want: []string{"found 0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckHTML(strings.NewReader(tt.fragment))
			require.Len(t, got, len(tt.want), "warnings: %v", got)
			for i, w := range tt.want {
				assert.Contains(t, got[i], w)
			}
		})
	}
}
