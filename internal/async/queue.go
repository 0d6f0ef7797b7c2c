package async

import (
	"errors"
	"time"
)

// ErrQueueClosed is returned by Enqueue after Shutdown has begun.
var ErrQueueClosed = errors.New("queue is shutting down")

// Job is one receipt file waiting to be ingested.
type Job struct {
	Path        string
	SubmittedAt time.Time
	TraceID     string
}
