package entities

import (
	"time"

	"gironomall-backend/domain/valueobjects"
	pkgerrors "gironomall-backend/pkg/errors"
)

// NodeKind discriminates the node variants.
type NodeKind string

const (
	KindHeading  NodeKind = "heading"
	KindNote     NodeKind = "note"
	KindQuestion NodeKind = "question"
)

// Origin records who authored a node.
type Origin string

const (
	OriginUser Origin = "user"
	OriginLLM  Origin = "llm"
)

// NodeBase carries the fields shared by every node variant. Order is unique
// within a (workspace, parent) sibling group but not necessarily contiguous;
// a zero ParentID means root level.
type NodeBase struct {
	ID          valueobjects.NodeID      `json:"id"`
	WorkspaceID valueobjects.WorkspaceID `json:"workspaceId"`
	ParentID    valueobjects.NodeID      `json:"parentId"`
	Order       int                      `json:"order"`
	Origin      Origin                   `json:"origin"`
	CreatedAt   time.Time                `json:"createdAt"`
	UpdatedAt   time.Time                `json:"updatedAt"`
}

// Node is the closed union of outline entry variants. Variant-exclusive
// fields live on the concrete types; callers switch on Kind() or the
// concrete type for exhaustive handling.
type Node interface {
	Kind() NodeKind
	Base() *NodeBase
	Clone() Node
}

// HeadingNode is a section heading.
type HeadingNode struct {
	NodeBase
	Title string `json:"title"`
}

// NoteNode is a free-text remark.
type NoteNode struct {
	NodeBase
	Text string `json:"text"`
}

// QuestionNode is a question with its answer and an LLM-produced
// condensation of the pair. ReconstructedText stays empty until generated.
type QuestionNode struct {
	NodeBase
	Question          string `json:"question"`
	Answer            string `json:"answer"`
	ReconstructedText string `json:"reconstructedText"`
}

func (n *HeadingNode) Kind() NodeKind   { return KindHeading }
func (n *HeadingNode) Base() *NodeBase  { return &n.NodeBase }
func (n *NoteNode) Kind() NodeKind      { return KindNote }
func (n *NoteNode) Base() *NodeBase     { return &n.NodeBase }
func (n *QuestionNode) Kind() NodeKind  { return KindQuestion }
func (n *QuestionNode) Base() *NodeBase { return &n.NodeBase }

// Clone returns a copy that callers may mutate freely.
func (n *HeadingNode) Clone() Node {
	clone := *n
	return &clone
}

func (n *NoteNode) Clone() Node {
	clone := *n
	return &clone
}

func (n *QuestionNode) Clone() Node {
	clone := *n
	return &clone
}

// newNodeBase builds the shared fields for a freshly created node.
func newNodeBase(workspaceID valueobjects.WorkspaceID, parentID valueobjects.NodeID, order int, origin Origin) (NodeBase, error) {
	if workspaceID.IsZero() {
		return NodeBase{}, pkgerrors.NewValidationError("workspaceId cannot be empty")
	}
	if origin != OriginUser && origin != OriginLLM {
		return NodeBase{}, pkgerrors.NewValidationError("origin must be user or llm")
	}

	now := time.Now()
	return NodeBase{
		ID:          valueobjects.NewNodeID(),
		WorkspaceID: workspaceID,
		ParentID:    parentID,
		Order:       order,
		Origin:      origin,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// NewHeadingNode creates a heading node. An empty title is allowed; the
// user fills it in after creation.
func NewHeadingNode(workspaceID valueobjects.WorkspaceID, parentID valueobjects.NodeID, order int, origin Origin, title string) (*HeadingNode, error) {
	base, err := newNodeBase(workspaceID, parentID, order, origin)
	if err != nil {
		return nil, err
	}
	return &HeadingNode{NodeBase: base, Title: title}, nil
}

// NewNoteNode creates a note node.
func NewNoteNode(workspaceID valueobjects.WorkspaceID, parentID valueobjects.NodeID, order int, origin Origin, text string) (*NoteNode, error) {
	base, err := newNodeBase(workspaceID, parentID, order, origin)
	if err != nil {
		return nil, err
	}
	return &NoteNode{NodeBase: base, Text: text}, nil
}

// NewQuestionNode creates a question node.
func NewQuestionNode(workspaceID valueobjects.WorkspaceID, parentID valueobjects.NodeID, order int, origin Origin, question, answer, reconstructedText string) (*QuestionNode, error) {
	base, err := newNodeBase(workspaceID, parentID, order, origin)
	if err != nil {
		return nil, err
	}
	return &QuestionNode{
		NodeBase:          base,
		Question:          question,
		Answer:            answer,
		ReconstructedText: reconstructedText,
	}, nil
}

// NodeUpdate carries the mutable text fields of any variant; nil means
// unchanged. Fields that do not belong to the node's variant are rejected.
type NodeUpdate struct {
	Title             *string
	Text              *string
	Question          *string
	Answer            *string
	ReconstructedText *string
}

// ApplyUpdate mutates the node's variant payload in place and bumps
// UpdatedAt. Structural fields (parent, order) are changed through reorder
// operations, never here.
func ApplyUpdate(node Node, update NodeUpdate) error {
	switch n := node.(type) {
	case *HeadingNode:
		if update.Text != nil || update.Question != nil || update.Answer != nil || update.ReconstructedText != nil {
			return pkgerrors.NewValidationError("heading nodes only carry a title")
		}
		if update.Title != nil {
			n.Title = *update.Title
		}
	case *NoteNode:
		if update.Title != nil || update.Question != nil || update.Answer != nil || update.ReconstructedText != nil {
			return pkgerrors.NewValidationError("note nodes only carry text")
		}
		if update.Text != nil {
			n.Text = *update.Text
		}
	case *QuestionNode:
		if update.Title != nil || update.Text != nil {
			return pkgerrors.NewValidationError("question nodes carry question, answer and reconstructedText")
		}
		if update.Question != nil {
			n.Question = *update.Question
		}
		if update.Answer != nil {
			n.Answer = *update.Answer
		}
		if update.ReconstructedText != nil {
			n.ReconstructedText = *update.ReconstructedText
		}
	default:
		return pkgerrors.NewValidationError("unknown node kind")
	}

	node.Base().UpdatedAt = time.Now()
	return nil
}
