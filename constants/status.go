package constants

// JobStatus is the outcome of a single batch ingestion job.
type JobStatus string

const (
	JobStatusProcessed JobStatus = "PROCESSED"
	JobStatusRejected  JobStatus = "REJECTED" // decode or validation failure
	JobStatusFailed    JobStatus = "FAILED"   // I/O or store failure
)
