package tasks

import (
	"context"
	"log/slog"
	"time"

	"github.com/trendcomb/trendcomb/app/database"
	"github.com/trendcomb/trendcomb/app/trends"
)

var _ TaskInterface = (*FetchCategoryTask)(nil)

// FetchCategoryTask runs one scheduled fetch for a category and advances its
// fetch state on success.
type FetchCategoryTask struct {
	Task
	config       *trends.Config
	fetcher      *trends.Fetcher
	categoryRepo database.CategoryRepository
	opts         trends.FetchOptions
}

func NewFetchCategoryTask(category trends.Category, config *trends.Config,
	fetcher *trends.Fetcher, categoryRepo database.CategoryRepository,
	opts trends.FetchOptions) *FetchCategoryTask {
	return &FetchCategoryTask{
		Task:         NewTask(TaskTypeFetchCategory, string(category)),
		config:       config,
		fetcher:      fetcher,
		categoryRepo: categoryRepo,
		opts:         opts,
	}
}

func (t *FetchCategoryTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	category, err := trends.ParseCategory(t.CategoryName)
	if err != nil {
		return err
	}

	result, err := t.fetcher.Run(ctx, category, t.opts)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	nextFetch := now.Add(t.config.GetRefreshInterval())
	if err := t.categoryRepo.UpdateFetchState(t.CategoryName, now, nextFetch); err != nil {
		slog.Warn("Failed to update category fetch state", "category", t.CategoryName, "error", err)
	}

	slog.Info("Task completed", "type", string(t.Type), "category", t.CategoryName, "fetched", result.Fetched, "stored", result.Stored, "skipped", result.Skipped, "drafts_generated", result.DraftsGenerated, "duration", t.GetDuration().String())

	return nil
}
