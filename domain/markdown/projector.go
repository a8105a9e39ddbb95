// Package markdown renders a workspace tree into its two textual
// projections: a clean outline for humans and an ID-annotated outline used
// as LLM context.
package markdown

import (
	"fmt"
	"strings"

	"gironomall-backend/domain/entities"
	"gironomall-backend/domain/tree"
)

// MaxAnswerChars bounds how much of a question's answer reaches the LLM
// context. Enough signal to avoid duplicate questions without blowing up
// the prompt.
const MaxAnswerChars = 200

// RenderWorkspace renders the human-facing outline: a title line for the
// theme, a quoted description when present, then the tree as a 2-space
// indented bullet list in depth-first pre-order.
func RenderWorkspace(workspace *entities.Workspace, nodes []entities.Node) string {
	return render(workspace, nodes, false)
}

// RenderWorkspaceForLLM renders the same outline with every line prefixed
// by the node's bracketed identifier, and question answers truncated to
// MaxAnswerChars with an ellipsis marker.
func RenderWorkspaceForLLM(workspace *entities.Workspace, nodes []entities.Node) string {
	return render(workspace, nodes, true)
}

func render(workspace *entities.Workspace, nodes []entities.Node, forLLM bool) string {
	var lines []string

	lines = append(lines, "# "+workspace.Theme)
	if workspace.Description != "" {
		lines = append(lines, "> "+workspace.Description)
	}
	lines = append(lines, "")

	roots := tree.Build(nodes)
	tree.Walk(roots, func(node *tree.TreeNode, depth int) {
		indent := strings.Repeat("  ", depth)
		text := nodeLine(node.Node, forLLM)
		if forLLM {
			lines = append(lines, fmt.Sprintf("%s- [%s] %s", indent, node.Base().ID, text))
		} else {
			lines = append(lines, fmt.Sprintf("%s- %s", indent, text))
		}
	})

	return strings.Join(lines, "\n")
}

// nodeLine picks the display text for a node. Questions prefer the
// reconstructed condensation, then "question: answer", then the bare
// question.
func nodeLine(node entities.Node, truncateAnswer bool) string {
	switch n := node.(type) {
	case *entities.HeadingNode:
		return n.Title
	case *entities.NoteNode:
		return n.Text
	case *entities.QuestionNode:
		answer := n.Answer
		if truncateAnswer {
			answer = truncate(answer, MaxAnswerChars)
		}
		switch {
		case n.ReconstructedText != "":
			return n.ReconstructedText
		case answer != "":
			return n.Question + ": " + answer
		default:
			return n.Question
		}
	default:
		return ""
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// FormatGuidelinesToText joins guideline strings into the plain text stored
// on the workspace.
func FormatGuidelinesToText(guidelines []string) string {
	return strings.Join(guidelines, "\n")
}
