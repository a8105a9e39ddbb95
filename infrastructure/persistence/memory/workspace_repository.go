// Package memory provides in-memory repository implementations used in
// development and tests. Entities are cloned on the way in and out so
// callers can never mutate stored state through a shared pointer.
package memory

import (
	"context"
	"sort"
	"sync"

	"gironomall-backend/domain/entities"
	"gironomall-backend/domain/valueobjects"
	pkgerrors "gironomall-backend/pkg/errors"
)

// WorkspaceRepository is an in-memory ports.WorkspaceRepository.
type WorkspaceRepository struct {
	mu         sync.RWMutex
	workspaces map[valueobjects.WorkspaceID]*entities.Workspace
}

// NewWorkspaceRepository creates an empty in-memory workspace repository.
func NewWorkspaceRepository() *WorkspaceRepository {
	return &WorkspaceRepository{
		workspaces: make(map[valueobjects.WorkspaceID]*entities.Workspace),
	}
}

// Save persists a workspace (create or update).
func (r *WorkspaceRepository) Save(ctx context.Context, workspace *entities.Workspace) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.workspaces[workspace.ID] = workspace.Clone()
	return nil
}

// GetByID retrieves a workspace by its ID.
func (r *WorkspaceRepository) GetByID(ctx context.Context, id valueobjects.WorkspaceID) (*entities.Workspace, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	workspace, ok := r.workspaces[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("workspace")
	}
	return workspace.Clone(), nil
}

// List retrieves all workspaces sorted by creation time.
func (r *WorkspaceRepository) List(ctx context.Context) ([]*entities.Workspace, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*entities.Workspace, 0, len(r.workspaces))
	for _, workspace := range r.workspaces {
		result = append(result, workspace.Clone())
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// Delete removes a workspace. Deleting an absent workspace is a no-op.
func (r *WorkspaceRepository) Delete(ctx context.Context, id valueobjects.WorkspaceID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.workspaces, id)
	return nil
}
