package tasks

// TaskSchedulerInterface is the background cache warmer as seen by main.
//
//	scheduler := NewScheduler(processor, interval, workerCount)
//	scheduler.Start()
//	defer scheduler.Stop()
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}
