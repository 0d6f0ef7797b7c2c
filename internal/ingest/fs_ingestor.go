package ingest

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/joseph-ayodele/receipt-processor/constants"
	"github.com/joseph-ayodele/receipt-processor/internal/common"
)

// FSIngestor reads receipt documents from the local filesystem and submits
// them for processing.
type FSIngestor struct {
	svc      Submitter
	maxBytes int64
	logger   *zap.Logger
}

func NewFSIngestor(svc Submitter, maxBytes int64, logger *zap.Logger) *FSIngestor {
	if maxBytes <= 0 {
		maxBytes = 1 << 20
	}
	return &FSIngestor{svc: svc, maxBytes: maxBytes, logger: logger}
}

// IngestPath submits a single file. Decode and validation failures are
// REJECTED; I/O and store failures are FAILED.
func (i *FSIngestor) IngestPath(ctx context.Context, path string) FileResult {
	out := FileResult{Path: path}

	data, err := i.read(path)
	if err != nil {
		i.logger.Warn("failed to read receipt file", zap.String("path", path), zap.Error(err))
		out.Status, out.Err = constants.JobStatusFailed, err.Error()
		return out
	}

	id, err := i.svc.Submit(ctx, data)
	switch {
	case err == nil:
		out.Status, out.ReceiptID = constants.JobStatusProcessed, id
	case common.IsInvalidReceipt(err):
		i.logger.Info("receipt file rejected", zap.String("path", path), zap.Error(err))
		out.Status, out.Err = constants.JobStatusRejected, err.Error()
	default:
		i.logger.Error("receipt file failed", zap.String("path", path), zap.Error(err))
		out.Status, out.Err = constants.JobStatusFailed, err.Error()
	}
	return out
}

func (i *FSIngestor) read(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, i.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if int64(len(data)) > i.maxBytes {
		return nil, fmt.Errorf("file exceeds %d bytes", i.maxBytes)
	}
	return data, nil
}
