package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"agentplug/pkg/logging"
)

// DefaultDebounce is used when no debounce interval is configured.
const DefaultDebounce = 500 * time.Millisecond

// reservedDirs are the plugin subdirectories whose contents are capabilities.
var reservedDirs = []string{"api", "tools", "helpers", "prompts", "agents", "webui", "extensions"}

// ignoredFiles never trigger a reload.
var ignoredFiles = map[string]bool{
	"config.json": true,
	"__pycache__": true,
}

// ChangeFunc is called once per debounced burst of changes.
type ChangeFunc func(ctx context.Context)

// Watcher watches plugin roots.
type Watcher struct {
	roots    []string
	debounce time.Duration
	onChange ChangeFunc

	mu      sync.Mutex
	watched map[string]bool
}

// New creates a watcher for roots.
func New(roots []string, debounce time.Duration, onChange ChangeFunc) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		roots:    append([]string(nil), roots...),
		debounce: debounce,
		onChange: onChange,
		watched:  make(map[string]bool),
	}
}

// Run watches until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	w.addTree(fsw)
	logging.Info("Watcher", "Watching %d plugin roots (debounce %s)", len(w.roots), w.debounce)

	fire := make(chan struct{}, 1)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			logging.Info("Watcher", "Stopped watching plugin roots")
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !Relevant(event) {
				continue
			}
			logging.Debug("Watcher", "Change detected: %s %s", event.Op, event.Name)
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logging.Error("Watcher", err, "Filesystem watcher error")

		case <-fire:
			// New plugin or extension point directories need their own watches.
			w.addTree(fsw)
			w.onChange(ctx)
		}
	}
}

// Relevant reports whether an fsnotify event can change the catalog.
func Relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") || ignoredFiles[name] {
		return false
	}
	return true
}

// addTree registers watches for every directory that can hold capabilities.
func (w *Watcher) addTree(fsw *fsnotify.Watcher) {
	for _, root := range w.roots {
		if !w.add(fsw, root) {
			continue
		}
		for _, plugin := range subdirs(root) {
			w.add(fsw, plugin)
			for _, reserved := range reservedDirs {
				dir := filepath.Join(plugin, reserved)
				if !w.add(fsw, dir) {
					continue
				}
				if reserved != "extensions" {
					continue
				}
				for _, kind := range subdirs(dir) {
					w.add(fsw, kind)
					for _, point := range subdirs(kind) {
						w.add(fsw, point)
					}
				}
			}
		}
	}
}

func (w *Watcher) add(fsw *fsnotify.Watcher, dir string) bool {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return false
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := fsw.Add(dir); err != nil {
		logging.Warn("Watcher", "Failed to watch %s: %v", dir, err)
		return false
	}
	if !w.watched[dir] {
		w.watched[dir] = true
		logging.Debug("Watcher", "Watching directory: %s", dir)
	}
	return true
}

func subdirs(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, ent := range entries {
		if strings.HasPrefix(ent.Name(), ".") {
			continue
		}
		path := filepath.Join(dir, ent.Name())
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			out = append(out, path)
		}
	}
	return out
}
