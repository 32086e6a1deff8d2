package datasmith

// Progress checkpoints for the task lifecycle. Collection progress moves
// between ProgressCollecting and ProgressCollected as sources complete.
const (
	ProgressCreated      = 0
	ProgressAnalyzing    = 10
	ProgressAnalyzed     = 20
	ProgressStrategizing = 30
	ProgressStrategized  = 40
	ProgressCollecting   = 50
	ProgressCollected    = 70
	ProgressProcessing   = 80
	ProgressExporting    = 90
	ProgressDone         = 100
)

// JobStatus is the terminal outcome of a job.
type JobStatus string

// Terminal job outcomes.
const (
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
	JobCancelled JobStatus = "cancelled"
)

// TaskState is a snapshot of the orchestrator's current task. A single
// mutable instance exists per active task; starting a new task discards the
// previous state.
type TaskState struct {
	TaskID   string `json:"task_id"`
	Status   string `json:"status"`
	Progress int    `json:"progress"`
	Task     *Task  `json:"task,omitempty"`
}

// Active reports whether the snapshot refers to a live task.
func (s TaskState) Active() bool {
	return s.TaskID != ""
}

// JobResult is the outcome of running a task. Every failure path still
// produces a JobResult with Status and Error set; the orchestrator never
// surfaces failures as errors to its caller.
type JobResult struct {
	TaskID      string    `json:"task_id"`
	Status      JobStatus `json:"status"`
	DatasetPath string    `json:"dataset_path,omitempty"`
	DataFile    string    `json:"data_file,omitempty"`
	MediaFiles  []string  `json:"media_files,omitempty"`
	RecordCount int       `json:"record_count,omitempty"`
	Columns     []string  `json:"columns,omitempty"`
	Error       string    `json:"error,omitempty"`
}

// CancelResult acknowledges a cancellation request.
type CancelResult struct {
	TaskID         string `json:"task_id,omitempty"`
	Status         string `json:"status"`
	PreviousStatus string `json:"previous_status,omitempty"`
	Message        string `json:"message,omitempty"`
}
