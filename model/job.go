package model

const (
	JobStatusPending = "pending"
	JobStatusRunning = "running"
	JobStatusDone    = "done"
	JobStatusFailed  = "failed"
)

const (
	// JobTypeMirror rewrites the JSON snapshot mirror from the primary
	// store after a mutation.
	JobTypeMirror = "MIRROR"
)

type Job struct {
	ID     int
	Type   string
	Status string
	// Reason is the mutation that triggered the job, for logging.
	Reason string
}

type JobList []Job

func (j JobList) Len() int {
	return len(j)
}
