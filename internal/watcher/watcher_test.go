package watcher

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"

	"agentplug/internal/testing/fixtures/plugins"
)

func TestRelevant(t *testing.T) {
	tests := []struct {
		event fsnotify.Event
		want  bool
	}{
		{fsnotify.Event{Name: "/r/foo/plugin.yaml", Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: "/r/foo/api/save.py", Op: fsnotify.Create}, true},
		{fsnotify.Event{Name: "/r/foo", Op: fsnotify.Remove}, true},
		{fsnotify.Event{Name: "/r/foo/config.json", Op: fsnotify.Write}, false},
		{fsnotify.Event{Name: "/r/foo/.config.json-123", Op: fsnotify.Create}, false},
		{fsnotify.Event{Name: "/r/foo/api/save.py", Op: fsnotify.Chmod}, false},
		{fsnotify.Event{Name: "/r/foo/helpers/__pycache__", Op: fsnotify.Create}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Relevant(tt.event), "%s %s", tt.event.Op, tt.event.Name)
	}
}

func waitFor(t *testing.T, ch <-chan struct{}) bool {
	t.Helper()
	select {
	case <-ch:
		return true
	case <-time.After(5 * time.Second):
		return false
	}
}

func TestWatcher_DebouncedReloadOnNewPlugin(t *testing.T) {
	dirs := plugins.Roots(t, "plugins")
	plugins.Write(t, dirs[0], plugins.Plugin{ID: "existing", Files: map[string]string{
		"extensions/python/system_prompt/_10.py": "",
	}})

	changed := make(chan struct{}, 10)
	w := New(dirs, 50*time.Millisecond, func(context.Context) { changed <- struct{}{} })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register its directories.
	time.Sleep(100 * time.Millisecond)

	plugins.Write(t, dirs[0], plugins.Plugin{ID: "newcomer", Files: map[string]string{"api/a.py": ""}})
	assert.True(t, waitFor(t, changed), "expected a reload after adding a plugin")

	plugins.WriteFile(t, filepath.Join(dirs[0], "existing", "extensions", "python", "system_prompt", "_20.py"), "")
	assert.True(t, waitFor(t, changed), "expected a reload after adding a hook")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcher_MissingRootIsSkipped(t *testing.T) {
	w := New([]string{filepath.Join(t.TempDir(), "absent")}, 0, func(context.Context) {})
	assert.Equal(t, DefaultDebounce, w.debounce)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.NoError(t, w.Run(ctx))
}
