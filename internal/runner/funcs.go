package runner

import (
	"context"
	"fmt"
	"sync"

	"agentplug/internal/capability"
)

type funcKey struct {
	pluginID string
	path     string
}

// Funcs is a registry of in-process handlers and hooks with an optional
// fallback for files that have no registered function.
type Funcs struct {
	mu       sync.RWMutex
	handlers map[funcKey]HandlerFunc
	hooks    map[funcKey]HookFunc
	fallback Runner
}

// NewFuncs creates an empty registry. fallback may be nil.
func NewFuncs(fallback Runner) *Funcs {
	return &Funcs{
		handlers: make(map[funcKey]HandlerFunc),
		hooks:    make(map[funcKey]HookFunc),
		fallback: fallback,
	}
}

// RegisterHandler binds fn to the api file at path (relative to the plugin dir).
func (f *Funcs) RegisterHandler(pluginID, path string, fn HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[funcKey{pluginID, path}] = fn
}

// RegisterHook binds fn to the hook file at path (relative to the plugin dir).
func (f *Funcs) RegisterHook(pluginID, path string, fn HookFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hooks[funcKey{pluginID, path}] = fn
}

// Invoke implements Invoker.
func (f *Funcs) Invoke(ctx context.Context, entry capability.Entry, body []byte) ([]byte, error) {
	f.mu.RLock()
	fn, ok := f.handlers[funcKey{entry.PluginID, entry.Path}]
	f.mu.RUnlock()
	if ok {
		return fn(ctx, body)
	}
	if f.fallback == nil {
		return nil, fmt.Errorf("no runner for handler %s/%s", entry.PluginID, entry.Path)
	}
	return f.fallback.Invoke(ctx, entry, body)
}

// RunHook implements HookRunner.
func (f *Funcs) RunHook(ctx context.Context, entry capability.Entry, point string, data map[string]interface{}) error {
	f.mu.RLock()
	fn, ok := f.hooks[funcKey{entry.PluginID, entry.Path}]
	f.mu.RUnlock()
	if ok {
		return fn(ctx, point, data)
	}
	if f.fallback == nil {
		return fmt.Errorf("no runner for hook %s/%s", entry.PluginID, entry.Path)
	}
	return f.fallback.RunHook(ctx, entry, point, data)
}
