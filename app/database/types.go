package database

import (
	"time"
)

// Story is the central curated-item record tracked through the lifecycle.
type Story struct {
	ID              string
	Title           string
	Summary         string
	Category        string
	SourcePostIDs   []string
	PrimaryLink     string
	EngagementScore float64
	AuthorHandles   []string
	MediaURLs       []string
	FirstSeenAt     time.Time
	FetchedAt       time.Time
	Status          string

	// Draft fields: either all unset, or at least title+body set together.
	DraftTitle           string
	DraftBody            string
	DraftExcerpt         string
	DraftMetaTitle       string
	DraftMetaDescription string
	SuggestedTags        []string
	RecommendedImages    []RecommendedImage

	PublishedPostID string

	ArchivedAt  *time.Time
	ArchivedBy  string
	RestoredAt  *time.Time
	RestoredBy  string
	PublishedAt *time.Time
	PublishedBy string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RecommendedImage is stored as part of the stories.recommended_images JSONB
// column.
type RecommendedImage struct {
	URL         string `json:"url"`
	Description string `json:"description"`
	Source      string `json:"source"`
}

// DraftFields carries one complete generated draft. All fields are written in
// a single transaction together with status=draft_created; partial drafts are
// never persisted.
type DraftFields struct {
	Title             string
	Body              string
	Excerpt           string
	MetaTitle         string
	MetaDescription   string
	Tags              []string
	RecommendedImages []RecommendedImage
}

// StoryFilter selects stories for listing. Zero values mean "no filter".
type StoryFilter struct {
	Status   string
	Category string
	Limit    int
	Offset   int
}

type StoryStats struct {
	Total      int            `json:"total"`
	ByStatus   map[string]int `json:"by_status"`
	ByCategory map[string]int `json:"by_category"`
}

// CategoryState tracks per-category fetch scheduling in the database.
type CategoryState struct {
	Name            string
	Enabled         bool
	RefreshInterval int // seconds
	LastFetchedAt   *time.Time
	NextFetchAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// AutoDraftSettings is the process-wide auto-draft configuration document,
// re-read at the start of every scheduled invocation.
type AutoDraftSettings struct {
	Enabled             bool     `json:"enabled"`
	EngagementThreshold float64  `json:"engagement_threshold"`
	Categories          []string `json:"categories"`
	UpdatedBy           string   `json:"updated_by,omitempty"`
}

type AuditEntry struct {
	ID        string
	Action    string
	Actor     string
	TargetID  string
	Metadata  map[string]any
	CreatedAt time.Time
}
