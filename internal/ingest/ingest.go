package ingest

import (
	"context"

	"github.com/joseph-ayodele/receipt-processor/constants"
)

// FileResult is the per-file ingest outcome.
type FileResult struct {
	Path      string
	ReceiptID string
	Status    constants.JobStatus
	Err       string
}

// DirStats summarizes a directory ingest.
type DirStats struct {
	Scanned   uint32
	Matched   uint32
	Succeeded uint32
	Rejected  uint32
	Failed    uint32
}

// Submitter accepts a raw receipt document and returns its id.
type Submitter interface {
	Submit(ctx context.Context, data []byte) (string, error)
}

// Tally folds per-file outcomes into stats.
func (s *DirStats) Tally(results []FileResult) {
	for _, r := range results {
		switch r.Status {
		case constants.JobStatusProcessed:
			s.Succeeded++
		case constants.JobStatusRejected:
			s.Rejected++
		case constants.JobStatusFailed:
			s.Failed++
		}
	}
}
