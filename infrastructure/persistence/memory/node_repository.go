package memory

import (
	"context"
	"sync"

	"gironomall-backend/domain/entities"
	"gironomall-backend/domain/valueobjects"
	pkgerrors "gironomall-backend/pkg/errors"
)

// NodeRepository is an in-memory ports.NodeRepository holding the flat node
// set keyed by id.
type NodeRepository struct {
	mu    sync.RWMutex
	nodes map[valueobjects.NodeID]entities.Node
}

// NewNodeRepository creates an empty in-memory node repository.
func NewNodeRepository() *NodeRepository {
	return &NodeRepository{
		nodes: make(map[valueobjects.NodeID]entities.Node),
	}
}

// Save persists a node (create or update).
func (r *NodeRepository) Save(ctx context.Context, node entities.Node) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nodes[node.Base().ID] = node.Clone()
	return nil
}

// SaveBatch persists multiple nodes.
func (r *NodeRepository) SaveBatch(ctx context.Context, nodes []entities.Node) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, node := range nodes {
		r.nodes[node.Base().ID] = node.Clone()
	}
	return nil
}

// GetByID retrieves a node by its ID.
func (r *NodeRepository) GetByID(ctx context.Context, id valueobjects.NodeID) (entities.Node, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	node, ok := r.nodes[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("node")
	}
	return node.Clone(), nil
}

// ListByWorkspace retrieves the full flat node set of one workspace.
func (r *NodeRepository) ListByWorkspace(ctx context.Context, workspaceID valueobjects.WorkspaceID) ([]entities.Node, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]entities.Node, 0)
	for _, node := range r.nodes {
		if node.Base().WorkspaceID.Equals(workspaceID) {
			result = append(result, node.Clone())
		}
	}
	return result, nil
}

// ListSiblings retrieves the sibling group for a workspace and parent; a
// zero parentID selects the root-level group.
func (r *NodeRepository) ListSiblings(ctx context.Context, workspaceID valueobjects.WorkspaceID, parentID valueobjects.NodeID) ([]entities.Node, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]entities.Node, 0)
	for _, node := range r.nodes {
		base := node.Base()
		if base.WorkspaceID.Equals(workspaceID) && base.ParentID.Equals(parentID) {
			result = append(result, node.Clone())
		}
	}
	return result, nil
}

// DeleteBatch removes multiple nodes from one workspace. Absent ids and
// ids owned by another workspace are skipped.
func (r *NodeRepository) DeleteBatch(ctx context.Context, workspaceID valueobjects.WorkspaceID, ids []valueobjects.NodeID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		if node, ok := r.nodes[id]; ok && node.Base().WorkspaceID.Equals(workspaceID) {
			delete(r.nodes, id)
		}
	}
	return nil
}

// DeleteByWorkspace removes every node owned by a workspace.
func (r *NodeRepository) DeleteByWorkspace(ctx context.Context, workspaceID valueobjects.WorkspaceID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, node := range r.nodes {
		if node.Base().WorkspaceID.Equals(workspaceID) {
			delete(r.nodes, id)
		}
	}
	return nil
}
