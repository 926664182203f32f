package trends

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/trendcomb/trendcomb/app/database"
)

type fakeCompleter struct {
	response string
	err      error
	calls    int
}

func (c *fakeCompleter) Complete(_ context.Context, _, _ string) (string, error) {
	c.calls++
	return c.response, c.err
}

type draftStoryRepo struct {
	database.StoryRepository

	drafts map[string]database.DraftFields
	err    error
}

func (r *draftStoryRepo) UpdateStoryDraft(id string, draft database.DraftFields) error {
	if r.err != nil {
		return r.err
	}
	if r.drafts == nil {
		r.drafts = make(map[string]database.DraftFields)
	}
	r.drafts[id] = draft
	return nil
}

func testStory() *database.Story {
	return &database.Story{
		ID:              "story-1",
		Title:           "Big Model Release",
		Summary:         "A new model shipped overnight.",
		Category:        string(CategoryTrending),
		PrimaryLink:     "https://twitter.com/i/web/status/183456709182736458",
		EngagementScore: 4200,
		MediaURLs:       []string{"https://pbs.example-cdn.net/media/one.jpg"},
		Status:          string(StatusNew),
	}
}

func TestGenerator_Run_PersistsDraft(t *testing.T) {
	completer := &fakeCompleter{response: `{
		"title": "Big Model Release Explained",
		"content": "<p>Details about the release.</p>",
		"excerpt": "What shipped and why it matters.",
		"metaTitle": "Big Model Release Explained",
		"metaDescription": "A breakdown of the release.",
		"tags": ["AI", "Models"],
		"suggestedCategory": "Trending Stories",
		"recommendedImages": []
	}`}
	repo := &draftStoryRepo{}
	audit := &fakeAuditRepo{}

	gen := NewGenerator(completer, repo, audit)
	draft, err := gen.Run(context.Background(), testStory(), "tester")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if draft.Title != "Big Model Release Explained" {
		t.Errorf("Unexpected draft title: %q", draft.Title)
	}

	persisted, ok := repo.drafts["story-1"]
	if !ok {
		t.Fatal("Expected draft to be persisted")
	}
	if persisted.Title != draft.Title {
		t.Errorf("Persisted title %q does not match draft %q", persisted.Title, draft.Title)
	}

	if len(audit.actions) != 1 || audit.actions[0] != "draft_generated" {
		t.Errorf("Expected draft_generated audit entry, got %v", audit.actions)
	}
}

func TestGenerator_Run_IdempotentWhenDraftExists(t *testing.T) {
	completer := &fakeCompleter{response: `{"title": "x", "content": "y"}`}
	repo := &draftStoryRepo{}

	story := testStory()
	story.DraftTitle = "Existing Draft"
	story.DraftBody = "<p>Already written.</p>"

	gen := NewGenerator(completer, repo, &fakeAuditRepo{})
	draft, err := gen.Run(context.Background(), story, "tester")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if draft.Title != "Existing Draft" {
		t.Errorf("Expected existing draft returned, got %q", draft.Title)
	}
	if completer.calls != 0 {
		t.Errorf("Expected no model call for existing draft, got %d", completer.calls)
	}
	if len(repo.drafts) != 0 {
		t.Error("Expected no persistence for existing draft")
	}
}

func TestGenerator_Run_ArchivedStoryRejected(t *testing.T) {
	completer := &fakeCompleter{response: `{"title": "x", "content": "y"}`}
	repo := &draftStoryRepo{}

	story := testStory()
	story.Status = string(StatusArchived)

	gen := NewGenerator(completer, repo, &fakeAuditRepo{})
	_, err := gen.Run(context.Background(), story, "tester")
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Expected ErrInvalidTransition for archived story, got %v", err)
	}
	if completer.calls != 0 {
		t.Errorf("Expected no model call for archived story, got %d", completer.calls)
	}
	if len(repo.drafts) != 0 {
		t.Error("Expected nothing persisted for archived story")
	}
}

func TestGenerator_Run_PublishedStoryWithoutDraftRejected(t *testing.T) {
	completer := &fakeCompleter{response: `{"title": "x", "content": "y"}`}
	repo := &draftStoryRepo{}

	story := testStory()
	story.Status = string(StatusPublished)

	gen := NewGenerator(completer, repo, &fakeAuditRepo{})
	if _, err := gen.Run(context.Background(), story, "tester"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Expected ErrInvalidTransition, got %v", err)
	}
	if len(repo.drafts) != 0 {
		t.Error("Expected nothing persisted")
	}
}

func TestGenerator_Run_FencedJSONResponse(t *testing.T) {
	completer := &fakeCompleter{response: "Here is the draft you asked for:\n```json\n" +
		`{"title": "Fenced Title", "content": "<p>Fenced body.</p>"}` + "\n```\nLet me know if you need edits."}
	repo := &draftStoryRepo{}

	gen := NewGenerator(completer, repo, &fakeAuditRepo{})
	draft, err := gen.Run(context.Background(), testStory(), "tester")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if draft.Title != "Fenced Title" {
		t.Errorf("Expected fenced JSON parsed, got title %q", draft.Title)
	}
}

func TestGenerator_Run_MissingContentFails(t *testing.T) {
	completer := &fakeCompleter{response: `{"title": "Only a title"}`}
	repo := &draftStoryRepo{}

	gen := NewGenerator(completer, repo, &fakeAuditRepo{})
	if _, err := gen.Run(context.Background(), testStory(), "tester"); err == nil {
		t.Error("Expected error for response without content")
	}
	if len(repo.drafts) != 0 {
		t.Error("Expected nothing persisted on parse failure")
	}
}

func TestGenerator_Run_CompleterErrorPropagates(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("rate limited")}
	gen := NewGenerator(completer, &draftStoryRepo{}, &fakeAuditRepo{})

	if _, err := gen.Run(context.Background(), testStory(), "tester"); err == nil {
		t.Error("Expected completion error to propagate")
	}
}

func TestAssembleDraft_Fallbacks(t *testing.T) {
	story := testStory()
	story.PrimaryLink = ""

	longTitle := strings.Repeat("Very Long Title ", 10)
	resp := &draftResponse{
		Title:   longTitle,
		Content: "<p>Body.</p>",
	}

	draft := assembleDraft(story, resp)

	if draft.Excerpt != story.Summary {
		t.Errorf("Expected excerpt fallback to summary, got %q", draft.Excerpt)
	}
	if len([]rune(draft.MetaTitle)) > 60 {
		t.Errorf("Expected meta title capped at 60 runes, got %d", len([]rune(draft.MetaTitle)))
	}
	if !strings.HasSuffix(draft.MetaTitle, "...") {
		t.Errorf("Expected truncated meta title to end with ellipsis, got %q", draft.MetaTitle)
	}
	if draft.MetaDescription != story.Summary {
		t.Errorf("Expected meta description fallback to excerpt, got %q", draft.MetaDescription)
	}
	if draft.SuggestedCategory != story.Category {
		t.Errorf("Expected suggested category fallback, got %q", draft.SuggestedCategory)
	}

	tags := draft.SuggestedTags
	if len(tags) < 3 {
		t.Fatalf("Expected keyword tags plus geographic tags, got %v", tags)
	}
	if tags[len(tags)-2] != "India" || tags[len(tags)-1] != "Global" {
		t.Errorf("Expected geographic tags appended, got %v", tags)
	}
}

func TestAssembleDraft_AttributionAppended(t *testing.T) {
	story := testStory()
	resp := &draftResponse{Title: "T", Content: "<p>No link here.</p>"}

	draft := assembleDraft(story, resp)
	if !strings.Contains(draft.Body, story.PrimaryLink) {
		t.Error("Expected source attribution appended to body")
	}
	if !strings.Contains(draft.Body, "<p>Source:") {
		t.Errorf("Expected attribution markup, got %q", draft.Body)
	}
}

func TestAssembleDraft_AttributionNotDuplicated(t *testing.T) {
	story := testStory()
	body := `<p>Covered <a href="` + story.PrimaryLink + `">here</a>.</p>`
	resp := &draftResponse{Title: "T", Content: body}

	draft := assembleDraft(story, resp)
	if strings.Count(draft.Body, story.PrimaryLink) != 1 {
		t.Errorf("Expected link to appear once, got body %q", draft.Body)
	}
}

func TestMergeImages_DedupAndCap(t *testing.T) {
	story := testStory()
	story.MediaURLs = []string{
		"https://img.test-host.net/a.jpg",
		"https://img.test-host.net/b.jpg",
	}

	suggested := []RecommendedImage{
		{URL: "https://img.test-host.net/a.jpg", Description: "model pick", Source: "model"},
		{URL: "https://img.test-host.net/c.jpg", Description: "chart", Source: "model"},
		{URL: "https://img.test-host.net/d.jpg", Description: "photo", Source: "model"},
		{URL: "https://img.test-host.net/e.jpg", Description: "photo", Source: "model"},
		{URL: "https://img.test-host.net/f.jpg", Description: "photo", Source: "model"},
		{URL: "", Description: "no url", Source: "model"},
	}

	merged := mergeImages(suggested, story)

	if len(merged) != 5 {
		t.Fatalf("Expected cap of 5 images, got %d", len(merged))
	}
	if merged[0].Description != "model pick" {
		t.Errorf("Expected model suggestion to win the duplicate URL, got %+v", merged[0])
	}
	for _, img := range merged {
		if img.URL == "" {
			t.Error("Expected empty-URL images dropped")
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 60); got != "short" {
		t.Errorf("Expected short string unchanged, got %q", got)
	}

	long := strings.Repeat("ab", 100)
	got := truncate(long, 60)
	if len([]rune(got)) > 60 {
		t.Errorf("Expected at most 60 runes, got %d", len([]rune(got)))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("Expected ellipsis suffix, got %q", got)
	}
}
