// Package openrouter implements the LLM collaborator port against the
// OpenRouter chat-completions API. Every call pins the output shape with a
// strict JSON schema response format and validates the parsed result before
// returning it; transport, HTTP and parse failures all surface as upstream
// errors the application layer passes through unchanged.
package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"gironomall-backend/application/ports"
	pkgerrors "gironomall-backend/pkg/errors"
)

const defaultTimeout = 120 * time.Second

// Client is an OpenRouter-backed ports.LLMClient.
type Client struct {
	httpClient *http.Client
	apiKey     string
	model      string
	baseURL    string
	logger     *zap.Logger
}

// NewClient creates an OpenRouter client.
func NewClient(apiKey, model, baseURL string, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		apiKey:     apiKey,
		model:      model,
		baseURL:    baseURL,
		logger:     logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type jsonSchemaSpec struct {
	Name   string                 `json:"name"`
	Strict bool                   `json:"strict"`
	Schema map[string]interface{} `json:"schema"`
}

type responseFormat struct {
	Type       string         `json:"type"`
	JSONSchema jsonSchemaSpec `json:"json_schema"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Stream         bool            `json:"stream"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// call runs one chat completion and returns the raw message content.
func (c *Client) call(ctx context.Context, messages []chatMessage, schemaName string, schema map[string]interface{}) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   false,
		ResponseFormat: &responseFormat{
			Type: "json_schema",
			JSONSchema: jsonSchemaSpec{
				Name:   schemaName,
				Strict: true,
				Schema: schema,
			},
		},
	})
	if err != nil {
		return "", pkgerrors.NewInternalError("failed to encode LLM request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", pkgerrors.NewInternalError("failed to build LLM request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", pkgerrors.NewUpstreamError("LLM request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", pkgerrors.NewUpstreamError("failed to read LLM response", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		message := fmt.Sprintf("LLM request failed with status %d", resp.StatusCode)
		if err := json.Unmarshal(raw, &apiErr); err == nil && apiErr.Error.Message != "" {
			message = apiErr.Error.Message
		}
		c.logger.Warn("OpenRouter call failed",
			zap.Int("status", resp.StatusCode),
			zap.String("message", message),
		)
		return "", pkgerrors.NewUpstreamError(message, nil)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", pkgerrors.NewUpstreamError("failed to decode LLM response", err)
	}
	if len(parsed.Choices) == 0 {
		return "", pkgerrors.NewUpstreamError("LLM response contained no choices", nil)
	}

	return parsed.Choices[0].Message.Content, nil
}

// GenerateInitialTree implements ports.LLMClient.
func (c *Client) GenerateInitialTree(ctx context.Context, theme, description string) (*ports.InitialTreeResult, error) {
	system, user := buildInitialTreePrompt(theme, description)
	content, err := c.call(ctx, []chatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}, "initialGenerate", initialTreeSchema())
	if err != nil {
		return nil, err
	}

	var result ports.InitialTreeResult
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, pkgerrors.NewUpstreamError("failed to parse initial tree output", err)
	}
	if err := validateInitialTree(&result); err != nil {
		return nil, err
	}

	return &result, nil
}

// followupOutput is the wire shape of a follow-up generation result.
type followupOutput struct {
	NewQuestions []ports.FollowupProposal `json:"newQuestions"`
}

// GenerateFollowups implements ports.LLMClient.
func (c *Client) GenerateFollowups(ctx context.Context, in ports.FollowupContext) ([]ports.FollowupProposal, error) {
	system, user := buildFollowupPrompt(in)
	content, err := c.call(ctx, []chatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}, "followupGenerate", followupSchema())
	if err != nil {
		return nil, err
	}

	var result followupOutput
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, pkgerrors.NewUpstreamError("failed to parse follow-up output", err)
	}
	for _, q := range result.NewQuestions {
		if q.Question == "" {
			return nil, pkgerrors.NewUpstreamError("model proposed an empty question", nil)
		}
	}

	return result.NewQuestions, nil
}

// reconstructOutput is the wire shape of a reconstruction result.
type reconstructOutput struct {
	ReconstructedText string `json:"reconstructedText"`
}

// ReconstructAnswer implements ports.LLMClient.
func (c *Client) ReconstructAnswer(ctx context.Context, question, answer string) (string, error) {
	system, user := buildReconstructPrompt(question, answer)
	content, err := c.call(ctx, []chatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}, "reconstruct", reconstructSchema())
	if err != nil {
		return "", err
	}

	var result reconstructOutput
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return "", pkgerrors.NewUpstreamError("failed to parse reconstruction output", err)
	}
	if result.ReconstructedText == "" {
		return "", pkgerrors.NewUpstreamError("model returned an empty reconstruction", nil)
	}

	return result.ReconstructedText, nil
}

// validateInitialTree enforces the structural contract of initial
// generation: 5 to 10 guidelines and a well-typed proposal tree.
func validateInitialTree(result *ports.InitialTreeResult) error {
	if len(result.Guidelines) < 5 || len(result.Guidelines) > 10 {
		return pkgerrors.NewUpstreamError(
			fmt.Sprintf("model returned %d guidelines, expected 5 to 10", len(result.Guidelines)), nil)
	}
	return validateProposals(result.Tree)
}

func validateProposals(proposals []ports.ProposedNode) error {
	for _, p := range proposals {
		switch p.Type {
		case "heading":
			if p.Title == "" {
				return pkgerrors.NewUpstreamError("model proposed a heading without a title", nil)
			}
		case "note":
			if p.Text == "" {
				return pkgerrors.NewUpstreamError("model proposed a note without text", nil)
			}
		case "question":
			if p.Question == "" {
				return pkgerrors.NewUpstreamError("model proposed a question without text", nil)
			}
		default:
			return pkgerrors.NewUpstreamError("model proposed an unknown node type: "+p.Type, nil)
		}
		if err := validateProposals(p.Children); err != nil {
			return err
		}
	}
	return nil
}
