package api

import (
	"context"

	"github.com/trendcomb/trendcomb/app/database"
	"github.com/trendcomb/trendcomb/app/trends"
)

type DraftGeneratorInterface interface {
	Run(ctx context.Context, story *database.Story, actor string) (*trends.Draft, error)
}

var _ DraftGeneratorInterface = (*trends.Generator)(nil)

type FetcherInterface interface {
	Run(ctx context.Context, category trends.Category, opts trends.FetchOptions) (*trends.FetchResult, error)
}

var _ FetcherInterface = (*trends.Fetcher)(nil)

type PublisherInterface interface {
	CreatePost(ctx context.Context, story *database.Story) (string, error)
}

type Handler struct {
	storyRepo    database.StoryRepository
	categoryRepo database.CategoryRepository
	settingsRepo database.SettingsRepository
	auditRepo    database.AuditRepository
	generator    DraftGeneratorInterface
	fetcher      FetcherInterface
	publisher    PublisherInterface
	configCache  *trends.ConfigCache
	version      string
}

type statusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
	Actor  string `json:"actor"`
}

type publishRequest struct {
	Actor string `json:"actor"`
}

type draftRequest struct {
	Actor string `json:"actor"`
}

type fetchRequest struct {
	AutoGenerateDrafts  bool    `json:"auto_generate_drafts"`
	EngagementThreshold float64 `json:"engagement_threshold"`
	Actor               string  `json:"actor"`
}
