package tasks

// TaskSchedulerInterface is consumed by the main application and API layer to
// manage background task processing.
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}
