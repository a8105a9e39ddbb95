package events

import (
	"time"

	"gironomall-backend/domain/valueobjects"
)

// Source identifies this service on the event bus.
const Source = "gironomall.backend"

// DomainEvent is the base interface for all domain events. Events describe
// something that has already happened; publishing failures are logged and
// never fail the originating operation.
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
}

// BaseEvent provides common event fields.
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }

// NodeCreated is raised when a node is added to a workspace.
type NodeCreated struct {
	BaseEvent
	NodeID      valueobjects.NodeID      `json:"node_id"`
	WorkspaceID valueobjects.WorkspaceID `json:"workspace_id"`
	Kind        string                   `json:"kind"`
	Origin      string                   `json:"origin"`
}

// NewNodeCreated creates a NodeCreated event.
func NewNodeCreated(nodeID valueobjects.NodeID, workspaceID valueobjects.WorkspaceID, kind, origin string, timestamp time.Time) NodeCreated {
	return NodeCreated{
		BaseEvent: BaseEvent{
			AggregateID: nodeID.String(),
			EventType:   "node.created",
			Timestamp:   timestamp,
		},
		NodeID:      nodeID,
		WorkspaceID: workspaceID,
		Kind:        kind,
		Origin:      origin,
	}
}

// NodeDeleted is raised when a node and its descendant closure are removed.
type NodeDeleted struct {
	BaseEvent
	NodeID      valueobjects.NodeID      `json:"node_id"`
	WorkspaceID valueobjects.WorkspaceID `json:"workspace_id"`
	DeletedIDs  []string                 `json:"deleted_ids"`
}

// NewNodeDeleted creates a NodeDeleted event covering the whole closure.
func NewNodeDeleted(nodeID valueobjects.NodeID, workspaceID valueobjects.WorkspaceID, deletedIDs []string, timestamp time.Time) NodeDeleted {
	return NodeDeleted{
		BaseEvent: BaseEvent{
			AggregateID: nodeID.String(),
			EventType:   "node.deleted",
			Timestamp:   timestamp,
		},
		NodeID:      nodeID,
		WorkspaceID: workspaceID,
		DeletedIDs:  deletedIDs,
	}
}

// WorkspaceDeleted is raised when a workspace and all its nodes are removed.
type WorkspaceDeleted struct {
	BaseEvent
	WorkspaceID valueobjects.WorkspaceID `json:"workspace_id"`
	NodeCount   int                      `json:"node_count"`
}

// NewWorkspaceDeleted creates a WorkspaceDeleted event.
func NewWorkspaceDeleted(workspaceID valueobjects.WorkspaceID, nodeCount int, timestamp time.Time) WorkspaceDeleted {
	return WorkspaceDeleted{
		BaseEvent: BaseEvent{
			AggregateID: workspaceID.String(),
			EventType:   "workspace.deleted",
			Timestamp:   timestamp,
		},
		WorkspaceID: workspaceID,
		NodeCount:   nodeCount,
	}
}

// WorkspaceImported is raised when an interchange payload is imported as a
// fresh workspace.
type WorkspaceImported struct {
	BaseEvent
	WorkspaceID valueobjects.WorkspaceID `json:"workspace_id"`
	NodeCount   int                      `json:"node_count"`
}

// NewWorkspaceImported creates a WorkspaceImported event.
func NewWorkspaceImported(workspaceID valueobjects.WorkspaceID, nodeCount int, timestamp time.Time) WorkspaceImported {
	return WorkspaceImported{
		BaseEvent: BaseEvent{
			AggregateID: workspaceID.String(),
			EventType:   "workspace.imported",
			Timestamp:   timestamp,
		},
		WorkspaceID: workspaceID,
		NodeCount:   nodeCount,
	}
}

// FollowupsGenerated is raised after LLM follow-up questions are reconciled
// into the tree.
type FollowupsGenerated struct {
	BaseEvent
	WorkspaceID valueobjects.WorkspaceID `json:"workspace_id"`
	NewNodeIDs  []string                 `json:"new_node_ids"`
}

// NewFollowupsGenerated creates a FollowupsGenerated event.
func NewFollowupsGenerated(workspaceID valueobjects.WorkspaceID, newNodeIDs []string, timestamp time.Time) FollowupsGenerated {
	return FollowupsGenerated{
		BaseEvent: BaseEvent{
			AggregateID: workspaceID.String(),
			EventType:   "workspace.followups_generated",
			Timestamp:   timestamp,
		},
		WorkspaceID: workspaceID,
		NewNodeIDs:  newNodeIDs,
	}
}
