// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"text/template"

	"github.com/pdiddy/newsroom-engine/internal/httputil"
	"github.com/pdiddy/newsroom-engine/pkg/types"
)

// researchPromptTmpl is the prompt template sent to the Claude API for each
// research query. It instructs the model to answer with structured JSON so
// the executor can capture content, sources, and images verbatim.
var researchPromptTmpl = template.Must(template.New("research").Parse(`You are a news research system. Research the following query and report your findings.

Respond with a JSON object containing:
- content: a factual summary of findings for the query (2-4 paragraphs)
- sources: an array of {"title", "url"} objects citing where the findings come from
- images: an array of {"url", "alt"} objects for relevant illustrations (may be empty)

Do not include any text outside the JSON object.

Example response:
{"content": "The industry saw...", "sources": [{"title": "Market Report 2026", "url": "https://example.com/report"}], "images": []}

Query:
{{.Query}}
`))

// claudeAPIURL is the Claude API endpoint. Package-level var for test substitution.
var claudeAPIURL = "https://api.anthropic.com/v1/messages"

// ClaudeBackend calls the Claude Messages API to answer research queries.
type ClaudeBackend struct {
	APIKey string
	Client *http.Client
}

// claudeRequest is the request body for the Claude Messages API.
type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	Messages  []claudeMessage `json:"messages"`
}

// claudeMessage is a single message in the Claude API conversation.
type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// claudeResponse is the response body from the Claude Messages API.
type claudeResponse struct {
	Content []claudeContent `json:"content"`
}

// claudeContent is a content block in the Claude API response.
type claudeContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Name identifies the backend in logs and prompt log entries.
func (c *ClaudeBackend) Name() string { return "claude" }

// Generate sends the research prompt for one query and parses the JSON
// findings from the response text.
func (c *ClaudeBackend) Generate(ctx context.Context, query string, cfg types.GenerationConfig) (Response, error) {
	prompt, err := renderPrompt(query)
	if err != nil {
		return Response{}, fmt.Errorf("rendering prompt: %w", err)
	}

	reqBody := claudeRequest{
		Model:     cfg.Model,
		MaxTokens: 4096,
		Messages: []claudeMessage{
			{Role: "user", Content: prompt},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return Response{}, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, claudeAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return Response{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")
	if cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cfg.UserAgent)
	}

	client := c.Client
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, cfg.MaxRetries)
	if err != nil {
		return Response{}, fmt.Errorf("calling Claude API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return Response{}, fmt.Errorf("Claude API returned %d: %s", resp.StatusCode, string(body))
	}

	var cResp claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return Response{}, fmt.Errorf("decoding Claude response: %w", err)
	}

	if len(cResp.Content) == 0 {
		return Response{}, fmt.Errorf("Claude API returned empty content")
	}

	for _, block := range cResp.Content {
		if block.Type != "text" {
			continue
		}
		var out Response
		if err := json.Unmarshal([]byte(block.Text), &out); err != nil {
			return Response{}, fmt.Errorf("parsing research response JSON: %w", err)
		}
		return out, nil
	}

	return Response{}, fmt.Errorf("no text content in Claude API response")
}

// renderPrompt executes the research prompt template with the given query.
func renderPrompt(query string) (string, error) {
	var buf bytes.Buffer
	if err := researchPromptTmpl.Execute(&buf, struct{ Query string }{Query: query}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
