package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/trendcomb/trendcomb/app/cfg"
	"github.com/trendcomb/trendcomb/app/database"
	"github.com/trendcomb/trendcomb/app/trends"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type Scheduler struct {
	configCache  *trends.ConfigCache
	categoryRepo database.CategoryRepository
	settingsRepo database.SettingsRepository
	fetcher      *trends.Fetcher
	interval     time.Duration
	workerCount  int
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	taskQueue    chan TaskInterface
}

func NewScheduler(configCache *trends.ConfigCache, categoryRepo database.CategoryRepository,
	settingsRepo database.SettingsRepository, fetcher *trends.Fetcher) TaskSchedulerInterface {
	ctx, cancel := context.WithCancel(context.Background())
	c := cfg.Get()

	return &Scheduler{
		configCache:  configCache,
		categoryRepo: categoryRepo,
		settingsRepo: settingsRepo,
		fetcher:      fetcher,
		interval:     time.Duration(c.SchedulerInterval) * time.Second,
		workerCount:  c.WorkerCount,
		ctx:          ctx,
		cancel:       cancel,
		taskQueue:    make(chan TaskInterface, 100),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueStartupTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueTasks()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

func (s *Scheduler) enqueueStartupTasks() {
	configs := s.configCache.GetConfigs()
	slog.Debug("Syncing category configurations", "count", len(configs))

	for category, config := range configs {
		syncTask := NewSyncCategoryConfigTask(category, config, s.categoryRepo)
		if err := s.EnqueueTask(syncTask); err != nil {
			slog.Warn("Failed to enqueue SyncCategoryConfigTask", "category", category, "error", err)
		}
	}
}

// enqueueTasks schedules fetch tasks for categories that are due. Auto-draft
// configuration is re-read from the database each tick so edits take effect
// on the very next run.
func (s *Scheduler) enqueueTasks() {
	configs := s.configCache.GetEnabledConfigs()
	if len(configs) == 0 {
		slog.Debug("No enabled category configurations found")
		return
	}

	settings, err := s.settingsRepo.GetAutoDraftSettings()
	if err != nil {
		slog.Warn("Failed to read auto-draft settings, drafts disabled for this run", "error", err)
		settings = &database.AutoDraftSettings{}
	}

	now := time.Now().UTC()

	for category, config := range configs {
		state, err := s.categoryRepo.GetCategory(string(category))
		if err != nil {
			slog.Warn("Failed to get category from database, skipping", "category", category, "error", err)
			continue
		}
		if state == nil {
			slog.Warn("Category not synced to database yet, skipping", "category", category)
			continue
		}

		if state.NextFetchAt != nil && state.NextFetchAt.After(now) {
			slog.Debug("Category not due for fetch yet", "category", category, "next_fetch_at", state.NextFetchAt)
			continue
		}

		opts := autoDraftOptions(settings, category)
		fetchTask := NewFetchCategoryTask(category, config, s.fetcher, s.categoryRepo, opts)
		if err := s.EnqueueTask(fetchTask); err != nil {
			slog.Warn("Failed to enqueue FetchCategoryTask", "category", category, "error", err)
		}
	}
}

// autoDraftOptions applies the persisted auto-draft configuration to one
// scheduled fetch. An empty category list means auto-draft applies everywhere.
func autoDraftOptions(settings *database.AutoDraftSettings, category trends.Category) trends.FetchOptions {
	opts := trends.FetchOptions{Actor: "system"}

	if !settings.Enabled {
		return opts
	}
	if len(settings.Categories) > 0 {
		found := false
		for _, name := range settings.Categories {
			if name == string(category) {
				found = true
				break
			}
		}
		if !found {
			return opts
		}
	}

	opts.AutoGenerateDrafts = true
	opts.EngagementThreshold = settings.EngagementThreshold
	return opts
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)

	if err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

		if task.CanRetry() {
			task.IncrementRetryCount()
			retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
			if retryDelay > 30*time.Second {
				retryDelay = 30 * time.Second
			}

			slog.Warn("Task retry scheduled", "type", string(task.GetType()), "category", task.GetCategoryName(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

			// The retry goroutine joins the WaitGroup so Stop cannot close the
			// queue while a re-enqueue is still pending.
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()

				select {
				case <-s.ctx.Done():
					slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
					return
				case <-time.After(retryDelay):
				}

				if retryErr := s.EnqueueTask(task); retryErr != nil {
					slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
				}
			}()
		} else {
			slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		}
	}
}
