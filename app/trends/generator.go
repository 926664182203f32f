package trends

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/trendcomb/trendcomb/app/database"
)

// Completer is the external completion endpoint surface the generator needs.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

var _ Completer = (*Client)(nil)

// Geographic tags appended to every tag fallback set.
var geographicTags = []string{"India", "Global"}

const maxRecommendedImages = 5

// Generator produces blog drafts for stored stories via the completion
// endpoint and persists them atomically.
type Generator struct {
	completer Completer
	stories   database.StoryRepository
	audit     database.AuditRepository
}

func NewGenerator(completer Completer, stories database.StoryRepository, audit database.AuditRepository) *Generator {
	return &Generator{
		completer: completer,
		stories:   stories,
		audit:     audit,
	}
}

// draftResponse is the fixed schema requested from the model. Only title and
// content are required; everything else has a deterministic fallback.
type draftResponse struct {
	Title             string             `json:"title"`
	Content           string             `json:"content"`
	Excerpt           string             `json:"excerpt"`
	MetaTitle         string             `json:"metaTitle"`
	MetaDescription   string             `json:"metaDescription"`
	Tags              []string           `json:"tags"`
	SuggestedCategory string             `json:"suggestedCategory"`
	RecommendedImages []RecommendedImage `json:"recommendedImages"`
}

// Run generates a draft for the story. If the story already carries a
// complete draft it is returned unchanged with no model call.
func (g *Generator) Run(ctx context.Context, story *database.Story, actor string) (*Draft, error) {
	if story.DraftTitle != "" && story.DraftBody != "" {
		return draftFromStory(story), nil
	}

	// Generating a draft moves the story to draft_created, so the move must be
	// legal from its current status before any model call.
	if err := ValidateTransition(Status(story.Status), StatusDraftCreated); err != nil {
		return nil, err
	}

	prompt := buildDraftPrompt(story.Title, story.Summary, story.Category,
		story.EngagementScore, story.PrimaryLink, story.AuthorHandles, story.MediaURLs)

	text, err := g.completer.Complete(ctx, draftSystemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("draft completion failed: %w", err)
	}

	resp, err := parseDraftResponse(text)
	if err != nil {
		return nil, err
	}

	draft := assembleDraft(story, resp)

	err = g.stories.UpdateStoryDraft(story.ID, database.DraftFields{
		Title:             draft.Title,
		Body:              draft.Body,
		Excerpt:           draft.Excerpt,
		MetaTitle:         draft.MetaTitle,
		MetaDescription:   draft.MetaDescription,
		Tags:              draft.SuggestedTags,
		RecommendedImages: toDatabaseImages(draft.RecommendedImages),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist draft: %w", err)
	}

	g.audit.Append("draft_generated", actor, story.ID, map[string]any{
		"category":    story.Category,
		"draft_title": draft.Title,
	})

	return draft, nil
}

// parseDraftResponse decodes the model output, trying the raw text first and
// then a fenced JSON block. Missing title or content is fatal.
func parseDraftResponse(text string) (*draftResponse, error) {
	var resp draftResponse
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		extracted := extractJSONObject(text)
		if err := json.Unmarshal([]byte(extracted), &resp); err != nil {
			return nil, fmt.Errorf("failed to parse draft response JSON: %w", err)
		}
	}

	if strings.TrimSpace(resp.Title) == "" || strings.TrimSpace(resp.Content) == "" {
		return nil, fmt.Errorf("draft response missing required title or content")
	}

	return &resp, nil
}

// assembleDraft fills the optional fields from deterministic fallbacks and
// appends the source attribution when the model left it out.
func assembleDraft(story *database.Story, resp *draftResponse) *Draft {
	draft := &Draft{
		Title:             strings.TrimSpace(resp.Title),
		Body:              strings.TrimSpace(resp.Content),
		Excerpt:           strings.TrimSpace(resp.Excerpt),
		MetaTitle:         strings.TrimSpace(resp.MetaTitle),
		MetaDescription:   strings.TrimSpace(resp.MetaDescription),
		SuggestedTags:     compactStrings(resp.Tags),
		SuggestedCategory: strings.TrimSpace(resp.SuggestedCategory),
	}

	if draft.Excerpt == "" {
		draft.Excerpt = story.Summary
	}
	if draft.MetaTitle == "" {
		draft.MetaTitle = draft.Title
	}
	draft.MetaTitle = truncate(draft.MetaTitle, 60)
	if draft.MetaDescription == "" {
		draft.MetaDescription = draft.Excerpt
	}
	draft.MetaDescription = truncate(draft.MetaDescription, 160)

	if len(draft.SuggestedTags) == 0 {
		draft.SuggestedTags = fallbackTags(Category(story.Category))
	}
	if draft.SuggestedCategory == "" {
		draft.SuggestedCategory = story.Category
	}

	if story.PrimaryLink != "" && !strings.Contains(draft.Body, story.PrimaryLink) {
		draft.Body += fmt.Sprintf("\n<p>Source: <a href=%q target=\"_blank\" rel=\"noopener\">%s</a></p>",
			story.PrimaryLink, story.PrimaryLink)
	}

	draft.RecommendedImages = mergeImages(resp.RecommendedImages, story)

	return draft
}

// fallbackTags derives tags from the category keyword set plus the fixed
// geographic tags.
func fallbackTags(category Category) []string {
	caser := cases.Title(language.English)

	var tags []string
	for _, kw := range category.Keywords() {
		tags = append(tags, caser.String(kw))
	}
	return append(tags, geographicTags...)
}

// mergeImages combines the model's suggestions with the story's own media
// URLs, deduplicating by URL and capping the result.
func mergeImages(suggested []RecommendedImage, story *database.Story) []RecommendedImage {
	seen := make(map[string]bool)
	var merged []RecommendedImage

	add := func(img RecommendedImage) {
		if img.URL == "" || seen[img.URL] || len(merged) >= maxRecommendedImages {
			return
		}
		seen[img.URL] = true
		merged = append(merged, img)
	}

	for _, img := range suggested {
		add(img)
	}
	for _, u := range story.MediaURLs {
		add(RecommendedImage{URL: u, Description: story.Title, Source: "source post"})
	}

	return merged
}

func draftFromStory(story *database.Story) *Draft {
	return &Draft{
		Title:             story.DraftTitle,
		Body:              story.DraftBody,
		Excerpt:           story.DraftExcerpt,
		MetaTitle:         story.DraftMetaTitle,
		MetaDescription:   story.DraftMetaDescription,
		SuggestedTags:     story.SuggestedTags,
		SuggestedCategory: story.Category,
		RecommendedImages: fromDatabaseImages(story.RecommendedImages),
	}
}

func toDatabaseImages(images []RecommendedImage) []database.RecommendedImage {
	out := make([]database.RecommendedImage, len(images))
	for i, img := range images {
		out[i] = database.RecommendedImage(img)
	}
	return out
}

func fromDatabaseImages(images []database.RecommendedImage) []RecommendedImage {
	out := make([]RecommendedImage, len(images))
	for i, img := range images {
		out[i] = RecommendedImage(img)
	}
	return out
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimSpace(string(runes[:max-3])) + "..."
}
