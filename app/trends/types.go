package trends

import "time"

// CandidateItem is the validated intermediate form of one feed response item.
// Raw response payloads are never forwarded into storage directly; see
// parser.go for the normalization rules.
type CandidateItem struct {
	Title           string
	Summary         string
	SourcePostIDs   []string
	SourceURL       string
	EngagementScore float64
	AuthorHandles   []string
	MediaURLs       []string
	FirstSeenAt     time.Time
}

// RecommendedImage is one image suggestion attached to a generated draft.
type RecommendedImage struct {
	URL         string `json:"url"`
	Description string `json:"description"`
	Source      string `json:"source"`
}

// Draft holds the generated draft fields. Title and Body are always set on a
// valid draft; the rest are filled from the model response or deterministic
// fallbacks.
type Draft struct {
	Title             string
	Body              string
	Excerpt           string
	MetaTitle         string
	MetaDescription   string
	SuggestedTags     []string
	SuggestedCategory string
	RecommendedImages []RecommendedImage
}

// FetchOptions control one orchestrated category fetch.
type FetchOptions struct {
	AutoGenerateDrafts  bool
	EngagementThreshold float64
	Actor               string
}

// Skip reasons recorded for rejected candidates.
const (
	SkipReasonTooOld    = "too old"
	SkipReasonBadIDs    = "invalid tweet IDs"
	SkipReasonDuplicate = "duplicate"
	SkipReasonError     = "error"
)

type StoredItem struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	EngagementScore float64 `json:"engagement_score"`
	DraftGenerated  bool    `json:"draft_generated"`
}

type SkippedItem struct {
	Title  string `json:"title"`
	Reason string `json:"reason"`
}

// FetchResult summarizes one category fetch.
type FetchResult struct {
	Category        Category      `json:"category"`
	Fetched         int           `json:"fetched"`
	Stored          int           `json:"stored"`
	Skipped         int           `json:"skipped"`
	DraftsGenerated int           `json:"drafts_generated"`
	StoredItems     []StoredItem  `json:"stored_items"`
	SkippedItems    []SkippedItem `json:"skipped_items"`
}
