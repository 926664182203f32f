package tasks

import (
	"context"
	"log/slog"

	"github.com/trendcomb/trendcomb/app/database"
	"github.com/trendcomb/trendcomb/app/trends"
)

var _ TaskInterface = (*SyncCategoryConfigTask)(nil)

// SyncCategoryConfigTask upserts one category's configuration into the
// database so the scheduler can track its fetch state.
type SyncCategoryConfigTask struct {
	Task
	config       *trends.Config
	categoryRepo database.CategoryRepository
}

func NewSyncCategoryConfigTask(category trends.Category, config *trends.Config,
	categoryRepo database.CategoryRepository) *SyncCategoryConfigTask {
	return &SyncCategoryConfigTask{
		Task:         NewTask(TaskTypeSyncCategoryConfig, string(category)),
		config:       config,
		categoryRepo: categoryRepo,
	}
}

func (t *SyncCategoryConfigTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	err := t.categoryRepo.UpsertCategory(t.CategoryName, t.config.Enabled, t.config.RefreshInterval)
	if err != nil {
		return err
	}

	slog.Debug("Category configuration synced", "category", t.CategoryName, "enabled", t.config.Enabled, "refresh_interval", t.config.RefreshInterval)

	return nil
}
