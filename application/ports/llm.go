package ports

import "context"

// ProposedNode is one entry of the nested tree an initial-generation call
// returns. Exactly one payload field is meaningful for a given type.
type ProposedNode struct {
	Type     string         `json:"type"`
	Title    string         `json:"title,omitempty"`
	Question string         `json:"question,omitempty"`
	Text     string         `json:"text,omitempty"`
	Children []ProposedNode `json:"children,omitempty"`
}

// InitialTreeResult is the validated result of initial-tree generation:
// 5 to 10 guideline strings plus the proposed outline.
type InitialTreeResult struct {
	Guidelines []string       `json:"guidelines"`
	Tree       []ProposedNode `json:"tree"`
}

// FollowupProposal is one model-proposed question. ParentID is free-form:
// null, the literal string "null", a bare node id, or a bracketed "[id]",
// possibly dangling or from another workspace. The reconciler sorts it out.
type FollowupProposal struct {
	Question string  `json:"question"`
	ParentID *string `json:"parentId"`
}

// FollowupContext carries everything the model needs to propose follow-up
// questions for a workspace.
type FollowupContext struct {
	Theme          string
	Description    string
	GuidelineText  string
	OutlineWithIDs string
	Count          int
	OriginNodeID   string
}

// LLMClient is the external language-model collaborator. Implementations
// validate the model output structurally; transport and parse failures are
// returned as upstream errors and surfaced to the caller unchanged.
type LLMClient interface {
	// GenerateInitialTree asks for discussion guidelines and an initial
	// outline for a fresh theme.
	GenerateInitialTree(ctx context.Context, theme, description string) (*InitialTreeResult, error)

	// GenerateFollowups asks for new questions given the current outline.
	GenerateFollowups(ctx context.Context, in FollowupContext) ([]FollowupProposal, error)

	// ReconstructAnswer condenses a question/answer pair into one line.
	ReconstructAnswer(ctx context.Context, question, answer string) (string, error)
}
