package ports

import (
	"context"

	"gironomall-backend/domain/entities"
	"gironomall-backend/domain/events"
	"gironomall-backend/domain/valueobjects"
)

// WorkspaceRepository defines the interface for workspace persistence.
// This is a port in hexagonal architecture; the domain never touches the
// implementation.
type WorkspaceRepository interface {
	// Save persists a workspace (create or update).
	Save(ctx context.Context, workspace *entities.Workspace) error

	// GetByID retrieves a workspace by its ID.
	GetByID(ctx context.Context, id valueobjects.WorkspaceID) (*entities.Workspace, error)

	// List retrieves all workspaces.
	List(ctx context.Context) ([]*entities.Workspace, error)

	// Delete removes a workspace. Deleting its nodes is the caller's job.
	Delete(ctx context.Context, id valueobjects.WorkspaceID) error
}

// NodeRepository defines the interface for node persistence.
type NodeRepository interface {
	// Save persists a node (create or update).
	Save(ctx context.Context, node entities.Node) error

	// SaveBatch persists multiple nodes.
	SaveBatch(ctx context.Context, nodes []entities.Node) error

	// GetByID retrieves a node by its ID.
	GetByID(ctx context.Context, id valueobjects.NodeID) (entities.Node, error)

	// ListByWorkspace retrieves the full flat node set of one workspace.
	ListByWorkspace(ctx context.Context, workspaceID valueobjects.WorkspaceID) ([]entities.Node, error)

	// ListSiblings retrieves the sibling group for a workspace and parent;
	// a zero parentID selects the root-level group.
	ListSiblings(ctx context.Context, workspaceID valueobjects.WorkspaceID, parentID valueobjects.NodeID) ([]entities.Node, error)

	// DeleteBatch removes multiple nodes from one workspace.
	DeleteBatch(ctx context.Context, workspaceID valueobjects.WorkspaceID, ids []valueobjects.NodeID) error

	// DeleteByWorkspace removes every node owned by a workspace.
	DeleteByWorkspace(ctx context.Context, workspaceID valueobjects.WorkspaceID) error
}

// EventPublisher defines the interface for publishing domain events.
type EventPublisher interface {
	// Publish sends a single event.
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events.
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}
