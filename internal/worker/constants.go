package worker

// Log messages for worker pool operations
const (
	LogMsgWorkerJobFailed   = "Worker job failed"
	LogMsgWorkerJobPanicked = "Worker job panicked"
)

// Test pool configuration values used in pool_test.go
const (
	TestWorkerCount = 2
	TestQueueSize   = 10
)
