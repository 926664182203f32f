// Package blog talks to the blog platform's admin API to publish drafts as
// posts.
package blog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/trendcomb/trendcomb/app/database"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	userAgent  string
}

func NewClient(baseURL, apiKey, userAgent string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
		userAgent:  userAgent,
	}
}

type postRequest struct {
	Title           string                      `json:"title"`
	Content         string                      `json:"content"`
	Excerpt         string                      `json:"excerpt,omitempty"`
	MetaTitle       string                      `json:"meta_title,omitempty"`
	MetaDescription string                      `json:"meta_description,omitempty"`
	Tags            []string                    `json:"tags,omitempty"`
	Category        string                      `json:"category,omitempty"`
	Images          []database.RecommendedImage `json:"images,omitempty"`
	SourceURL       string                      `json:"source_url,omitempty"`
}

type postResponse struct {
	ID string `json:"id"`
}

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// CreatePost publishes a story's draft and returns the created post ID.
func (c *Client) CreatePost(ctx context.Context, story *database.Story) (string, error) {
	if story.DraftTitle == "" || story.DraftBody == "" {
		return "", fmt.Errorf("story %s has no draft to publish", story.ID)
	}

	payload := postRequest{
		Title:           story.DraftTitle,
		Content:         story.DraftBody,
		Excerpt:         story.DraftExcerpt,
		MetaTitle:       story.DraftMetaTitle,
		MetaDescription: story.DraftMetaDescription,
		Tags:            story.SuggestedTags,
		Category:        story.Category,
		Images:          story.RecommendedImages,
		SourceURL:       story.PrimaryLink,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode post payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/posts", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call blog API: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read blog API response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp apiError
		if json.Unmarshal(data, &errResp) == nil && errResp.Message != "" {
			return "", fmt.Errorf("blog API error (%d): %s", resp.StatusCode, errResp.Message)
		}
		return "", fmt.Errorf("blog API returned status %d", resp.StatusCode)
	}

	var created postResponse
	if err := json.Unmarshal(data, &created); err != nil {
		return "", fmt.Errorf("failed to parse blog API response: %w", err)
	}
	if created.ID == "" {
		return "", fmt.Errorf("blog API response missing post id")
	}

	return created.ID, nil
}
