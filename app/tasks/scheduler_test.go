package tasks

import (
	"context"
	"errors"
	"testing"
	"time"
)

type failingTask struct {
	Task
	attempts int
}

func (t *failingTask) Execute(_ context.Context) error {
	t.attempts++
	return errors.New("boom")
}

func newTestScheduler() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		ctx:       ctx,
		cancel:    cancel,
		taskQueue: make(chan TaskInterface, 10),
	}
}

func TestScheduler_StopWaitsForPendingRetry(t *testing.T) {
	s := newTestScheduler()

	task := &failingTask{Task: NewTask(TaskTypeFetchCategory, "Trending Stories")}
	s.executeTask(0, task)

	if task.attempts != 1 {
		t.Fatalf("Expected 1 execution attempt, got %d", task.attempts)
	}
	if task.GetRetryCount() != 1 {
		t.Fatalf("Expected retry count 1, got %d", task.GetRetryCount())
	}

	// Stop must join the scheduled retry goroutine before closing the queue;
	// a panic here fails the test.
	s.Stop()
}

func TestScheduler_FailedTaskIsReEnqueued(t *testing.T) {
	s := newTestScheduler()
	defer s.Stop()

	task := &failingTask{Task: NewTask(TaskTypeSyncCategoryConfig, "Breaking News")}
	s.executeTask(0, task)

	select {
	case requeued := <-s.taskQueue:
		if requeued.GetID() != task.GetID() {
			t.Errorf("Expected the failed task re-enqueued, got %s", requeued.GetID())
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Expected task to be re-enqueued after the retry delay")
	}
}

func TestScheduler_ExhaustedTaskNotRetried(t *testing.T) {
	s := newTestScheduler()

	task := &failingTask{Task: NewTask(TaskTypeFetchCategory, "Trending Stories")}
	task.RetryCount = DefaultMaxRetries

	s.executeTask(0, task)
	s.Stop()

	select {
	case requeued := <-s.taskQueue:
		if requeued != nil {
			t.Errorf("Expected no retry for exhausted task, got %s", requeued.GetID())
		}
	default:
	}
}
