package trends

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/trendcomb/trendcomb/app/database"
)

// FeedSource is the external trending feed surface the orchestrator needs.
type FeedSource interface {
	FetchTrending(ctx context.Context, category Category, keywords []string, limit int) ([]rawCandidate, error)
}

var _ FeedSource = (*Client)(nil)

// DraftGenerator is the draft-generation surface used for inline auto-drafts.
type DraftGenerator interface {
	Run(ctx context.Context, story *database.Story, actor string) (*Draft, error)
}

var _ DraftGenerator = (*Generator)(nil)

// Fetcher orchestrates one category fetch: feed call, validation cascade,
// persistence, and optional inline auto-draft generation.
type Fetcher struct {
	source    FeedSource
	stories   database.StoryRepository
	audit     database.AuditRepository
	generator DraftGenerator
	configs   *ConfigCache
}

func NewFetcher(source FeedSource, stories database.StoryRepository,
	audit database.AuditRepository, generator DraftGenerator, configs *ConfigCache) *Fetcher {
	return &Fetcher{
		source:    source,
		stories:   stories,
		audit:     audit,
		generator: generator,
		configs:   configs,
	}
}

// Run fetches and processes one category. Candidates are handled strictly in
// response order and sequentially: dedup reads must observe the writes of
// earlier candidates in the same batch. One candidate's failure never aborts
// the rest of the batch.
func (f *Fetcher) Run(ctx context.Context, category Category, opts FetchOptions) (*FetchResult, error) {
	config := f.configs.GetConfig(category)

	raws, err := f.source.FetchTrending(ctx, category, config.Keywords, config.MaxItems)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch trending items for %s: %w", category, err)
	}

	now := time.Now().UTC()
	result := &FetchResult{
		Category: category,
		Fetched:  len(raws),
	}

	for _, raw := range raws {
		f.processCandidate(ctx, category, normalizeCandidate(raw, now), now, opts, result)
	}

	f.audit.Append("trends_fetch", opts.Actor, string(category), map[string]any{
		"fetched":          result.Fetched,
		"stored":           result.Stored,
		"skipped":          result.Skipped,
		"drafts_generated": result.DraftsGenerated,
	})

	slog.Info("Category fetch completed",
		"category", category,
		"fetched", result.Fetched,
		"stored", result.Stored,
		"skipped", result.Skipped,
		"drafts", result.DraftsGenerated)

	return result, nil
}

// processCandidate runs the validation cascade for one candidate. Check order
// matters: recency and ID validity are cheap local checks that short-circuit
// before the dedup store read.
func (f *Fetcher) processCandidate(ctx context.Context, category Category, item CandidateItem,
	now time.Time, opts FetchOptions, result *FetchResult) {

	skip := func(reason string) {
		result.Skipped++
		result.SkippedItems = append(result.SkippedItems, SkippedItem{
			Title:  item.Title,
			Reason: reason,
		})
	}

	if item.Title == "" || item.Summary == "" {
		slog.Warn("Candidate missing required fields", "category", category, "title", item.Title)
		skip(SkipReasonError)
		return
	}

	if !IsAcceptable(category, item.FirstSeenAt, now) {
		skip(SkipReasonTooOld)
		return
	}

	if len(item.SourcePostIDs) == 0 {
		skip(SkipReasonBadIDs)
		return
	}
	for _, id := range item.SourcePostIDs {
		if !IsValidPostID(id) {
			skip(SkipReasonBadIDs)
			return
		}
	}

	isDuplicate, _, err := f.stories.CheckDuplicate(item.SourcePostIDs[0])
	if err != nil {
		slog.Error("Duplicate check failed", "category", category, "title", item.Title, "error", err)
		skip(SkipReasonError)
		return
	}
	if isDuplicate {
		skip(SkipReasonDuplicate)
		return
	}

	story := database.Story{
		Title:           item.Title,
		Summary:         item.Summary,
		Category:        string(category),
		SourcePostIDs:   item.SourcePostIDs,
		PrimaryLink:     ResolvePrimaryLink(item.SourceURL, item.SourcePostIDs),
		EngagementScore: item.EngagementScore,
		AuthorHandles:   item.AuthorHandles,
		MediaURLs:       item.MediaURLs,
		FirstSeenAt:     item.FirstSeenAt,
		FetchedAt:       now,
		Status:          string(StatusNew),
	}

	created, err := f.stories.CreateStory(story)
	if err != nil {
		slog.Error("Failed to store candidate", "category", category, "title", item.Title, "error", err)
		skip(SkipReasonError)
		return
	}

	stored := StoredItem{
		ID:              created.ID,
		Title:           created.Title,
		EngagementScore: created.EngagementScore,
	}
	result.Stored++

	f.audit.Append("story_created", opts.Actor, created.ID, map[string]any{
		"category": created.Category,
		"title":    created.Title,
	})

	if opts.AutoGenerateDrafts && created.EngagementScore >= opts.EngagementThreshold {
		// Auto-draft failures are swallowed: the story stays stored and the
		// fetch keeps going.
		if _, err := f.generator.Run(ctx, created, opts.Actor); err != nil {
			slog.Warn("Auto-draft generation failed", "story_id", created.ID, "error", err)
		} else {
			result.DraftsGenerated++
			stored.DraftGenerated = true
		}
	}

	result.StoredItems = append(result.StoredItems, stored)
}
