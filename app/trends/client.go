package trends

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"
)

// Client talks to the Grok chat-completions endpoint. It serves two calls:
// live-search trend fetches and plain completions for draft generation.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	userAgent  string
}

func NewClient(baseURL, apiKey, model, userAgent string) *Client {
	return &Client{
		httpClient: &http.Client{
			// Model calls with live search can be slow
			Timeout: 120 * time.Second,
		},
		baseURL:   baseURL,
		apiKey:    apiKey,
		model:     model,
		userAgent: userAgent,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type searchSource struct {
	Type string `json:"type"`
}

type searchParameters struct {
	Mode     string         `json:"mode"`
	Sources  []searchSource `json:"sources,omitempty"`
	FromDate string         `json:"from_date,omitempty"`
}

type chatRequest struct {
	Model            string            `json:"model"`
	Messages         []chatMessage     `json:"messages"`
	MaxTokens        int               `json:"max_tokens,omitempty"`
	SearchParameters *searchParameters `json:"search_parameters,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// FetchTrending asks the feed for trending candidate items in a category.
// The search window is clamped to the category's recency ceiling so the feed
// does not return items the recency policy would discard anyway.
func (c *Client) FetchTrending(ctx context.Context, category Category, keywords []string, limit int) ([]rawCandidate, error) {
	now := time.Now().UTC()
	req := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: searchSystemPrompt},
			{Role: "user", Content: buildSearchPrompt(category, keywords, MaxAge(category), limit)},
		},
		MaxTokens: 4096,
		SearchParameters: &searchParameters{
			Mode:     "on",
			Sources:  []searchSource{{Type: "x"}},
			FromDate: now.Add(-MaxAge(category)).Format("2006-01-02"),
		},
	}

	content, err := c.complete(ctx, req)
	if err != nil {
		return nil, err
	}

	var candidates []rawCandidate
	if err := json.Unmarshal([]byte(content), &candidates); err != nil {
		extracted := extractJSONArray(content)
		if err := json.Unmarshal([]byte(extracted), &candidates); err != nil {
			return nil, fmt.Errorf("failed to parse feed response JSON: %w", err)
		}
	}

	return candidates, nil
}

// Complete sends a single system/user prompt pair and returns the raw
// completion text.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	req := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		MaxTokens: 8192,
	}
	return c.complete(ctx, req)
}

func (c *Client) complete(ctx context.Context, reqBody chatRequest) (string, error) {
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call completion endpoint: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion endpoint returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse completion response: %w", err)
	}

	if parsed.Error != nil {
		return "", fmt.Errorf("completion endpoint error: %s - %s", parsed.Error.Type, parsed.Error.Message)
	}

	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("completion endpoint returned empty response")
	}

	return parsed.Choices[0].Message.Content, nil
}

var (
	fencedArrayPattern  = regexp.MustCompile(`(?s)` + "```" + `(?:json)?\s*\n?(\[.*?\])\s*\n?` + "```")
	bareArrayPattern    = regexp.MustCompile(`(?s)(\[.*\])`)
	fencedObjectPattern = regexp.MustCompile(`(?s)` + "```" + `(?:json)?\s*\n?(\{.*?\})\s*\n?` + "```")
	bareObjectPattern   = regexp.MustCompile(`(?s)(\{.*\})`)
)

// extractJSONArray pulls a JSON array out of model output that may wrap it in
// a markdown code fence or surrounding prose.
func extractJSONArray(text string) string {
	if m := fencedArrayPattern.FindStringSubmatch(text); len(m) > 1 {
		return m[1]
	}
	if m := bareArrayPattern.FindStringSubmatch(text); len(m) > 1 {
		return m[1]
	}
	return text
}

// extractJSONObject is the object-shaped counterpart of extractJSONArray.
func extractJSONObject(text string) string {
	if m := fencedObjectPattern.FindStringSubmatch(text); len(m) > 1 {
		return m[1]
	}
	if m := bareObjectPattern.FindStringSubmatch(text); len(m) > 1 {
		return m[1]
	}
	return text
}
