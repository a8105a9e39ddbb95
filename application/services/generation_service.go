package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"gironomall-backend/application/ports"
	"gironomall-backend/domain/entities"
	"gironomall-backend/domain/events"
	"gironomall-backend/domain/markdown"
	"gironomall-backend/domain/valueobjects"
	pkgerrors "gironomall-backend/pkg/errors"
)

// GenerationService drives the LLM-backed flows: initial tree generation,
// follow-up question generation and answer reconstruction. Upstream
// transport or parse failures are surfaced to the caller unchanged.
type GenerationService struct {
	workspaces ports.WorkspaceRepository
	nodes      ports.NodeRepository
	llm        ports.LLMClient
	publisher  ports.EventPublisher
	guard      *InflightGuard
	logger     *zap.Logger
}

// NewGenerationService creates a GenerationService.
func NewGenerationService(
	workspaces ports.WorkspaceRepository,
	nodes ports.NodeRepository,
	llm ports.LLMClient,
	publisher ports.EventPublisher,
	guard *InflightGuard,
	logger *zap.Logger,
) *GenerationService {
	return &GenerationService{
		workspaces: workspaces,
		nodes:      nodes,
		llm:        llm,
		publisher:  publisher,
		guard:      guard,
		logger:     logger,
	}
}

// InitialTreeOutcome reports what initial generation produced.
type InitialTreeOutcome struct {
	Workspace *entities.Workspace
	Nodes     []entities.Node
}

// FollowupOutcome reports what a follow-up round produced. CreatedIDs is
// also the caller's highlight set; ExpandIDs names the ancestors to
// force-expand so the new questions are visible.
type FollowupOutcome struct {
	CreatedIDs   []string
	ExpandIDs    []string
	HighlightIDs []string
}

// GenerateInitialTree asks the model for discussion guidelines and a
// starting outline for a fresh workspace, stores the guidelines on the
// workspace and materializes the outline as nodes.
func (s *GenerationService) GenerateInitialTree(ctx context.Context, workspaceID valueobjects.WorkspaceID) (*InitialTreeOutcome, error) {
	key := WorkspaceKey(workspaceID.String())
	if err := s.guard.Acquire(key); err != nil {
		return nil, err
	}
	defer s.guard.Release(key)

	workspace, err := s.workspaces.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	result, err := s.llm.GenerateInitialTree(ctx, workspace.Theme, workspace.Description)
	if err != nil {
		return nil, err
	}

	guidelineText := markdown.FormatGuidelinesToText(result.Guidelines)
	if err := workspace.Apply(entities.WorkspaceUpdate{GuidelineText: &guidelineText}); err != nil {
		return nil, err
	}
	if err := s.workspaces.Save(ctx, workspace); err != nil {
		return nil, err
	}

	created, err := materializeProposals(workspaceID, valueobjects.NodeID{}, result.Tree)
	if err != nil {
		return nil, err
	}
	if len(created) > 0 {
		if err := s.nodes.SaveBatch(ctx, created); err != nil {
			return nil, err
		}
	}

	return &InitialTreeOutcome{Workspace: workspace, Nodes: created}, nil
}

// materializeProposals converts a nested proposal tree into flat nodes.
// Sibling order equals the child's index in its proposal list.
func materializeProposals(workspaceID valueobjects.WorkspaceID, parentID valueobjects.NodeID, proposals []ports.ProposedNode) ([]entities.Node, error) {
	var created []entities.Node
	for i, p := range proposals {
		var (
			node entities.Node
			err  error
		)
		switch entities.NodeKind(p.Type) {
		case entities.KindHeading:
			node, err = entities.NewHeadingNode(workspaceID, parentID, i, entities.OriginLLM, p.Title)
		case entities.KindNote:
			node, err = entities.NewNoteNode(workspaceID, parentID, i, entities.OriginLLM, p.Text)
		case entities.KindQuestion:
			node, err = entities.NewQuestionNode(workspaceID, parentID, i, entities.OriginLLM, p.Question, "", "")
		default:
			return nil, pkgerrors.NewUpstreamError("model proposed an unknown node type: "+p.Type, nil)
		}
		if err != nil {
			return nil, err
		}
		created = append(created, node)

		children, err := materializeProposals(workspaceID, node.Base().ID, p.Children)
		if err != nil {
			return nil, err
		}
		created = append(created, children...)
	}
	return created, nil
}

// GenerateFollowups runs one follow-up round: render the id-annotated
// outline, ask the model for new questions, reconcile them into the tree
// and persist the result. originNodeID may be zero for workspace-level
// generation.
func (s *GenerationService) GenerateFollowups(ctx context.Context, workspaceID valueobjects.WorkspaceID, originNodeID valueobjects.NodeID) (*FollowupOutcome, error) {
	key := WorkspaceKey(workspaceID.String())
	if !originNodeID.IsZero() {
		key = NodeKey(originNodeID.String())
	}
	if err := s.guard.Acquire(key); err != nil {
		return nil, err
	}
	defer s.guard.Release(key)

	workspace, err := s.workspaces.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	all, err := s.nodes.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	proposals, err := s.llm.GenerateFollowups(ctx, ports.FollowupContext{
		Theme:          workspace.Theme,
		Description:    workspace.Description,
		GuidelineText:  workspace.GuidelineText,
		OutlineWithIDs: markdown.RenderWorkspaceForLLM(workspace, all),
		Count:          workspace.Config.FollowupCount,
		OriginNodeID:   originNodeID.String(),
	})
	if err != nil {
		return nil, err
	}

	nodesByID := make(map[valueobjects.NodeID]entities.Node, len(all))
	for _, n := range all {
		nodesByID[n.Base().ID] = n
	}

	result, err := ReconcileFollowups(workspace, nodesByID, originNodeID, proposals, time.Now())
	if err != nil {
		return nil, err
	}

	if len(result.Nodes) > 0 {
		if err := s.nodes.SaveBatch(ctx, result.Nodes); err != nil {
			return nil, err
		}
	}

	outcome := &FollowupOutcome{
		CreatedIDs:   idsToStrings(result.CreatedIDs),
		ExpandIDs:    idsToStrings(result.ExpandIDs),
		HighlightIDs: idsToStrings(result.HighlightIDs),
	}

	event := events.NewFollowupsGenerated(workspaceID, outcome.CreatedIDs, time.Now())
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish workspace.followups_generated event",
			zap.String("workspace_id", workspaceID.String()),
			zap.Error(err))
	}

	return outcome, nil
}

// Reconstruct condenses a question's answer pair into one line and stores
// it on the node.
func (s *GenerationService) Reconstruct(ctx context.Context, nodeID valueobjects.NodeID) (string, error) {
	key := NodeKey(nodeID.String())
	if err := s.guard.Acquire(key); err != nil {
		return "", err
	}
	defer s.guard.Release(key)

	node, err := s.nodes.GetByID(ctx, nodeID)
	if err != nil {
		return "", err
	}

	question, ok := node.(*entities.QuestionNode)
	if !ok {
		return "", pkgerrors.NewValidationError("only question nodes can be reconstructed")
	}

	reconstructed, err := s.llm.ReconstructAnswer(ctx, question.Question, question.Answer)
	if err != nil {
		return "", err
	}

	if err := entities.ApplyUpdate(question, entities.NodeUpdate{ReconstructedText: &reconstructed}); err != nil {
		return "", err
	}
	if err := s.nodes.Save(ctx, question); err != nil {
		return "", err
	}

	return reconstructed, nil
}

func idsToStrings(ids []valueobjects.NodeID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
