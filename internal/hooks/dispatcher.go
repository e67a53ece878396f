package hooks

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"agentplug/internal/api"
	"agentplug/internal/capability"
	"agentplug/internal/catalog"
	"agentplug/internal/runner"
	"agentplug/pkg/logging"
)

// Data is the mutable context shared by the hooks of one dispatch.
type Data = map[string]interface{}

// Policy decides what a hook failure does to the rest of the dispatch.
type Policy int

const (
	AbortOnError Policy = iota
	ContinueOnError
)

func (p Policy) String() string {
	if p == ContinueOnError {
		return "continue"
	}
	return "abort"
}

// ParsePolicy accepts "abort" or "continue".
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "abort":
		return AbortOnError, nil
	case "continue":
		return ContinueOnError, nil
	default:
		return AbortOnError, fmt.Errorf("unknown hook failure policy %q", s)
	}
}

// Option customizes a single dispatch.
type Option func(*options)

type options struct {
	policy Policy
}

// WithPolicy overrides the dispatcher's default failure policy.
func WithPolicy(p Policy) Option {
	return func(o *options) { o.policy = p }
}

// SnapshotSource provides the active catalog snapshot.
type SnapshotSource interface {
	Current() *catalog.Snapshot
}

// DispatchResult reports what a dispatch did.
type DispatchResult struct {
	ID      string
	Point   string
	Version uint64
	// Invoked lists "plugin/path" for every hook that ran, in order.
	Invoked []string
	// Failures holds the hook errors that were skipped under ContinueOnError.
	Failures []*api.HookError
	Duration time.Duration
}

// Dispatcher runs hooks for extension points.
type Dispatcher struct {
	source SnapshotSource
	runner runner.HookRunner
	policy Policy
}

// NewDispatcher creates a dispatcher with a default failure policy.
func NewDispatcher(source SnapshotSource, hookRunner runner.HookRunner, policy Policy) *Dispatcher {
	return &Dispatcher{source: source, runner: hookRunner, policy: policy}
}

// Dispatch runs every hook at point against data. A point with no hooks is a
// no-op. Cancelling ctx stops the dispatch before the next hook.
func (d *Dispatcher) Dispatch(ctx context.Context, point string, data Data, opts ...Option) (*DispatchResult, error) {
	o := options{policy: d.policy}
	for _, opt := range opts {
		opt(&o)
	}
	if data == nil {
		data = Data{}
	}

	snap := d.source.Current()
	entries := snap.ExtensionPoint(capability.KindPythonHook, point)
	result := &DispatchResult{
		ID:      uuid.New().String(),
		Point:   point,
		Version: snap.Version,
		Invoked: make([]string, 0, len(entries)),
	}
	start := time.Now()
	defer func() { result.Duration = time.Since(start) }()

	logging.Debug("Hooks", "Dispatch %s: %d hooks at %s (policy %s)", result.ID, len(entries), point, o.policy)

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		err := d.runner.RunHook(ctx, entry, point, data)
		result.Invoked = append(result.Invoked, entry.PluginID+"/"+entry.Path)
		if err == nil {
			continue
		}

		hookErr := &api.HookError{Point: point, PluginID: entry.PluginID, Path: entry.Path, Err: err}
		if o.policy == AbortOnError {
			logging.Error("Hooks", hookErr, "Dispatch %s aborted", result.ID)
			return result, hookErr
		}
		logging.Warn("Hooks", "Dispatch %s: skipping failed hook: %v", result.ID, hookErr)
		result.Failures = append(result.Failures, hookErr)
	}

	return result, nil
}
