package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/joseph-ayodele/receipt-processor/constants"
	"github.com/joseph-ayodele/receipt-processor/internal/receipts"
	"github.com/joseph-ayodele/receipt-processor/internal/repository"
)

const goodReceipt = `{
  "retailer": "Walgreens",
  "purchaseDate": "2022-01-02",
  "purchaseTime": "08:13",
  "total": "2.65",
  "items": [
    {"shortDescription": "Pepsi - 12-oz", "price": "1.25"},
    {"shortDescription": "Dasani", "price": "1.40"}
  ]
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func newIngestor(t *testing.T) *FSIngestor {
	logger := zaptest.NewLogger(t)
	svc := receipts.NewService(repository.NewMemoryRepository(logger), logger)
	return NewFSIngestor(svc, 0, logger)
}

func TestScanDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", goodReceipt)
	writeFile(t, dir, "nested/b.JSON", goodReceipt)
	writeFile(t, dir, "notes.txt", "hello")
	writeFile(t, dir, ".hidden.json", goodReceipt)
	writeFile(t, dir, ".cache/c.json", goodReceipt)

	paths, stats, err := ScanDirectory(dir, true)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.json"),
		filepath.Join(dir, "nested", "b.JSON"),
	}, paths)
	assert.Equal(t, uint32(2), stats.Matched)
	assert.Equal(t, uint32(4), stats.Scanned)

	paths, _, err = ScanDirectory(dir, false)
	require.NoError(t, err)
	assert.Len(t, paths, 4)
}

func TestScanDirectory_Errors(t *testing.T) {
	_, _, err := ScanDirectory("  ", false)
	assert.Error(t, err)

	_, _, err = ScanDirectory(filepath.Join(t.TempDir(), "missing"), false)
	assert.Error(t, err)
}

func TestIngestPath(t *testing.T) {
	dir := t.TempDir()
	ing := newIngestor(t)
	ctx := context.Background()

	ok := ing.IngestPath(ctx, writeFile(t, dir, "ok.json", goodReceipt))
	assert.Equal(t, constants.JobStatusProcessed, ok.Status)
	assert.NotEmpty(t, ok.ReceiptID)
	assert.Empty(t, ok.Err)

	bad := ing.IngestPath(ctx, writeFile(t, dir, "bad.json", `{"retailer": "Walgreens"}`))
	assert.Equal(t, constants.JobStatusRejected, bad.Status)
	assert.Empty(t, bad.ReceiptID)

	garbage := ing.IngestPath(ctx, writeFile(t, dir, "garbage.json", `not json`))
	assert.Equal(t, constants.JobStatusRejected, garbage.Status)

	missing := ing.IngestPath(ctx, filepath.Join(dir, "missing.json"))
	assert.Equal(t, constants.JobStatusFailed, missing.Status)
	assert.NotEmpty(t, missing.Err)
}

type submitFunc func(context.Context, []byte) (string, error)

func (f submitFunc) Submit(ctx context.Context, b []byte) (string, error) { return f(ctx, b) }

func TestIngestPath_SizeLimitAndStoreFailure(t *testing.T) {
	dir := t.TempDir()
	logger := zaptest.NewLogger(t)

	small := NewFSIngestor(submitFunc(func(context.Context, []byte) (string, error) {
		return "id", nil
	}), 8, logger)
	res := small.IngestPath(context.Background(), writeFile(t, dir, "big.json", goodReceipt))
	assert.Equal(t, constants.JobStatusFailed, res.Status)

	broken := NewFSIngestor(submitFunc(func(context.Context, []byte) (string, error) {
		return "", errors.New("store down")
	}), 0, logger)
	res = broken.IngestPath(context.Background(), writeFile(t, dir, "ok.json", goodReceipt))
	assert.Equal(t, constants.JobStatusFailed, res.Status)
}

func TestDirStatsTally(t *testing.T) {
	var s DirStats
	s.Tally([]FileResult{
		{Status: constants.JobStatusProcessed},
		{Status: constants.JobStatusProcessed},
		{Status: constants.JobStatusRejected},
		{Status: constants.JobStatusFailed},
	})
	assert.Equal(t, DirStats{Succeeded: 2, Rejected: 1, Failed: 1}, s)
}

func TestStartWatcher(t *testing.T) {
	dir := t.TempDir()
	existing := writeFile(t, dir, "existing.json", goodReceipt)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, _, err := StartWatcher(ctx, WatchConfig{
		Roots:       []string{dir},
		InitialScan: true,
		Debounce:    20 * time.Millisecond,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	select {
	case p := <-events:
		assert.Equal(t, existing, p)
	case <-time.After(5 * time.Second):
		t.Fatal("initial scan did not emit existing file")
	}

	created := writeFile(t, dir, "new.json", goodReceipt)
	writeFile(t, dir, "ignored.txt", "x")

	select {
	case p := <-events:
		assert.Equal(t, created, p)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not emit new file")
	}

	cancel()
	for range events {
	}
}

func TestStartWatcher_NoRoots(t *testing.T) {
	_, _, err := StartWatcher(context.Background(), WatchConfig{}, zaptest.NewLogger(t))
	assert.Error(t, err)
}
