package openrouter

import (
	"fmt"
	"strings"

	"gironomall-backend/application/ports"
)

func buildInitialTreePrompt(theme, description string) (system, user string) {
	system = "You are a facilitator who turns a discussion theme into a concrete, answerable outline. Produce specific questions the user can actually answer."

	var b strings.Builder
	fmt.Fprintf(&b, "Theme: \"\"\"%s\"\"\"\n", theme)
	if description != "" {
		fmt.Fprintf(&b, "Additional context: \"\"\"%s\"\"\"\n", description)
	}
	b.WriteString(`
Requirements:
- Produce 5 to 10 short discussion guidelines (angles for exploring this theme)
- Based on those guidelines, build an initial tree: mostly headings, each heading carrying 1 to 3 questions
- Questions must be specific and answerable, never yes/no
- One issue per question
- Cover assumptions, constraints, concrete examples, evaluation criteria, alternatives, risks and next actions where relevant
- Output JSON only, no code fences or commentary

Output shape:
{
  "guidelines": ["angle 1", "angle 2", ...],
  "tree": [
    { "type": "heading", "title": "Heading", "children": [
      { "type": "question", "question": "Question" }
    ]}
  ]
}`)

	return system, b.String()
}

func buildFollowupPrompt(in ports.FollowupContext) (system, user string) {
	system = "You are an expert at generating questions that deepen a discussion."

	var b strings.Builder
	fmt.Fprintf(&b, "Theme: \"\"\"%s\"\"\"\n", in.Theme)
	if in.Description != "" {
		fmt.Fprintf(&b, "Additional context: \"\"\"%s\"\"\"\n", in.Description)
	}
	fmt.Fprintf(&b, "Question guidelines: \"\"\"%s\"\"\"\n", in.GuidelineText)
	fmt.Fprintf(&b, "\nCurrent workspace (with ids):\n%s\n", in.OutlineWithIDs)
	fmt.Fprintf(&b, `
Requirements:
- Generate %d new questions
- Do not rephrase existing questions or content
- One issue per question, never yes/no
- parentId must be one of the [xxxx] ids shown above (use null if no fitting parent exists)
- Cover assumptions, constraints, concrete examples, evaluation criteria, alternatives, risks and next actions where relevant
- Output JSON only

Output shape:
{
  "newQuestions": [
    { "question": "New question", "parentId": "[node id] or null" }
  ]
}`, in.Count)

	return system, b.String()
}

func buildReconstructPrompt(question, answer string) (system, user string) {
	system = "You are an expert at condensing text."

	user = fmt.Sprintf(`Question: """%s"""
Answer: """%s"""

Instructions:
- Write one sentence that captures the substance of the answer
- Use the form "{key point}: {content}"
- Output JSON only

Output shape:
{ "reconstructedText": "key point: content" }`, question, answer)

	return system, user
}
