package database

import (
	"errors"
	"time"
)

var (
	ErrStoryNotFound   = errors.New("story not found")
	ErrDraftIncomplete = errors.New("draft title and body are required")
)

type StoryRepository interface {
	CreateStory(story Story) (*Story, error)
	GetStory(id string) (*Story, error)
	ListStories(filter StoryFilter) ([]Story, int, error)
	GetStoryStats() (*StoryStats, error)

	// CheckDuplicate reports whether any stored story's source_post_ids
	// contains the given ID. Callers pass the candidate's first entry only.
	CheckDuplicate(sourcePostID string) (bool, *string, error)

	// UpdateStoryStatus writes the new status, updated_at, and the
	// transition's actor/timestamp stamp in one statement.
	UpdateStoryStatus(id string, status string, actor string, stamp string) error

	// UpdateStoryDraft writes all draft fields plus status=draft_created
	// atomically.
	UpdateStoryDraft(id string, draft DraftFields) error

	// SetPublishedPost records the external blog post ID and moves the story
	// to published with its stamp.
	SetPublishedPost(id string, postID string, actor string) error
}

type CategoryRepository interface {
	UpsertCategory(name string, enabled bool, refreshInterval int) error
	GetCategory(name string) (*CategoryState, error)
	GetCategoryCount() (int, error)
	UpdateFetchState(name string, lastFetched, nextFetch time.Time) error
}

type SettingsRepository interface {
	GetAutoDraftSettings() (*AutoDraftSettings, error)
	UpdateAutoDraftSettings(settings AutoDraftSettings, actor string) error
}

// AuditRepository is fire-and-forget from the caller's perspective: Append
// logs failures instead of returning them.
type AuditRepository interface {
	Append(action, actor, targetID string, metadata map[string]any)
}
