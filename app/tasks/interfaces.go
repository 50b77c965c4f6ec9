package tasks

// TaskSchedulerInterface is what the rest of the application needs from the
// background scheduler: lifecycle control and a way to enqueue ad-hoc tasks.
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}
