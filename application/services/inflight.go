package services

import (
	"sync"

	pkgerrors "gironomall-backend/pkg/errors"
)

// InflightGuard enforces at-most-one in-flight generation per target. The
// reconciler is not reentrant-safe against concurrent mutation of the same
// sibling groups, so every generation flow acquires its target key for the
// duration of the round.
type InflightGuard struct {
	mu   sync.Mutex
	busy map[string]struct{}
}

// NewInflightGuard creates an InflightGuard.
func NewInflightGuard() *InflightGuard {
	return &InflightGuard{busy: make(map[string]struct{})}
}

// Acquire marks a target busy. A second acquisition of the same key fails
// with a conflict until Release is called.
func (g *InflightGuard) Acquire(key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.busy[key]; ok {
		return pkgerrors.NewConflictError("a generation is already in flight for this target")
	}
	g.busy[key] = struct{}{}
	return nil
}

// Release frees a target. Releasing an unheld key is a no-op.
func (g *InflightGuard) Release(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.busy, key)
}

// WorkspaceKey builds the guard key for workspace-level generation.
func WorkspaceKey(workspaceID string) string {
	return "workspace:" + workspaceID
}

// NodeKey builds the guard key for node-scoped generation.
func NodeKey(nodeID string) string {
	return "node:" + nodeID
}
