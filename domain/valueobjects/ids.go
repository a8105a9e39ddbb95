package valueobjects

import (
	"errors"

	"github.com/google/uuid"
)

// WorkspaceID is a value object representing a unique workspace identifier.
type WorkspaceID struct {
	value string
}

// NewWorkspaceID creates a new random WorkspaceID.
func NewWorkspaceID() WorkspaceID {
	return WorkspaceID{value: uuid.New().String()}
}

// NewWorkspaceIDFromString creates a WorkspaceID from an existing string.
func NewWorkspaceIDFromString(id string) (WorkspaceID, error) {
	if id == "" {
		return WorkspaceID{}, errors.New("workspace ID cannot be empty")
	}
	return WorkspaceID{value: id}, nil
}

// String returns the string representation of the WorkspaceID.
func (id WorkspaceID) String() string {
	return id.value
}

// Equals checks if two WorkspaceIDs are equal.
func (id WorkspaceID) Equals(other WorkspaceID) bool {
	return id.value == other.value
}

// IsZero checks if the WorkspaceID is the zero value.
func (id WorkspaceID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler.
func (id WorkspaceID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.value + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *WorkspaceID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return errors.New("WorkspaceID must be a string")
	}
	id.value = string(data[1 : len(data)-1])
	return nil
}

// NodeID is a value object representing a unique node identifier.
// The zero value stands for "no node"; a node whose ParentID is zero
// sits at root level.
type NodeID struct {
	value string
}

// NewNodeID creates a new random NodeID.
func NewNodeID() NodeID {
	return NodeID{value: uuid.New().String()}
}

// NewNodeIDFromString creates a NodeID from an existing string.
func NewNodeIDFromString(id string) (NodeID, error) {
	if id == "" {
		return NodeID{}, errors.New("node ID cannot be empty")
	}
	return NodeID{value: id}, nil
}

// String returns the string representation of the NodeID.
func (id NodeID) String() string {
	return id.value
}

// Equals checks if two NodeIDs are equal.
func (id NodeID) Equals(other NodeID) bool {
	return id.value == other.value
}

// IsZero checks if the NodeID is the zero value.
func (id NodeID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler. The zero value serializes as null
// so that a root-level parent reference round-trips.
func (id NodeID) MarshalJSON() ([]byte, error) {
	if id.value == "" {
		return []byte("null"), nil
	}
	return []byte(`"` + id.value + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *NodeID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return errors.New("NodeID must be a string")
	}
	id.value = string(data[1 : len(data)-1])
	return nil
}
