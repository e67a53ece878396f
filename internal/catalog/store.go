package catalog

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"agentplug/internal/registry"
	"agentplug/pkg/logging"
)

const reloadKey = "reload"

// Store owns the active snapshot.
type Store struct {
	roots   []registry.Root
	current atomic.Pointer[Snapshot]
	version atomic.Uint64
	build   func([]registry.Root, uint64) *Snapshot

	// reloads coalesces concurrent Reload calls into one rebuild.
	reloads singleflight.Group
	// requested counts Reload calls; covered is the highest request a
	// finished rebuild started after.
	requested atomic.Uint64
	covered   atomic.Uint64
}

// NewStore builds the first snapshot from roots.
func NewStore(roots []registry.Root) *Store {
	s := &Store{roots: append([]registry.Root(nil), roots...), build: Build}
	s.current.Store(s.build(s.roots, s.version.Add(1)))
	return s
}

// Current returns the active snapshot.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Roots returns the plugin roots in precedence order.
func (s *Store) Roots() []registry.Root {
	return append([]registry.Root(nil), s.roots...)
}

// Reload rebuilds the snapshot and swaps it in. A caller joins a running
// rebuild only if that rebuild started after the call; otherwise it waits
// for the next one, so the result always reflects the plugin roots as they
// were when Reload was called.
func (s *Store) Reload(ctx context.Context) (*Snapshot, error) {
	gen := s.requested.Add(1)
	for s.covered.Load() < gen {
		ch := s.reloads.DoChan(reloadKey, func() (interface{}, error) {
			start := s.requested.Load()
			snap := s.build(s.roots, s.version.Add(1))
			s.current.Store(snap)
			s.covered.Store(start)
			logging.Info("Catalog", "Swapped in snapshot v%d", snap.Version)
			return nil, nil
		})

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case res := <-ch:
			if res.Err != nil {
				return nil, res.Err
			}
		}
	}
	return s.Current(), nil
}

// Lookup resolves a plugin in the active snapshot.
func (s *Store) Lookup(id string) (*registry.Manifest, bool) {
	return s.Current().Plugin(id)
}
