package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/joseph-ayodele/receipt-processor/internal/async"
	"github.com/joseph-ayodele/receipt-processor/internal/common"
	"github.com/joseph-ayodele/receipt-processor/internal/export"
	"github.com/joseph-ayodele/receipt-processor/internal/ingest"
	"github.com/joseph-ayodele/receipt-processor/internal/logging"
	"github.com/joseph-ayodele/receipt-processor/internal/receipts"
	"github.com/joseph-ayodele/receipt-processor/internal/repository"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	os.Exit(run())
}

func run() int {
	var (
		dir        = flag.String("dir", "", "directory to process receipts from (required)")
		out        = flag.String("out", "", "output XLSX file path (optional, defaults to parent directory)")
		workers    = flag.Int("workers", 4, "number of concurrent workers")
		skipHidden = flag.Bool("skip-hidden", true, "skip hidden files and directories")
		watch      = flag.Bool("watch", false, "keep watching -dir for new receipt files until interrupted")
		timeout    = flag.Duration("timeout", 30*time.Second, "per-file processing timeout")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		return 1
	}
	if *out == "" {
		*out = filepath.Join(filepath.Dir(filepath.Clean(*dir)), "receipts.xlsx")
	}

	cfg := common.LoadConfig()
	logger := logging.Must(cfg.Logging)
	defer func() { _ = logger.Sync() }()

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", zap.Error(err))
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := repository.Open(ctx, cfg.Store, logger)
	if err != nil {
		logger.Error("failed to open receipt store", zap.Error(err))
		return 1
	}
	defer func() { _ = store.Close() }()

	svc := receipts.NewService(store, logger)
	ingestor := ingest.NewFSIngestor(svc, cfg.HTTP.MaxBodyBytes, logger)
	queue := async.NewProcessorQueue(ingestor, logger,
		async.WithWorkers(*workers),
		async.WithProcessTimeout(*timeout))

	enqueue := func(path string) {
		if err := queue.Enqueue(ctx, async.Job{Path: path, TraceID: uuid.NewString()}); err != nil {
			logger.Warn("failed to enqueue file", zap.String("path", path), zap.Error(err))
		}
	}

	var stats ingest.DirStats
	if *watch {
		logger.Info("watching for receipts", zap.String("dir", *dir))
		events, _, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
			Roots:       []string{*dir},
			InitialScan: true,
			SkipHidden:  *skipHidden,
			Debounce:    250 * time.Millisecond,
		}, logger)
		if err != nil {
			logger.Error("failed to start watcher", zap.Error(err))
			return 1
		}
		for path := range events {
			stats.Scanned++
			stats.Matched++
			enqueue(path)
		}
	} else {
		logger.Info("starting ingestion", zap.String("dir", *dir), zap.Int("workers", *workers))
		var paths []string
		paths, stats, err = ingest.ScanDirectory(*dir, *skipHidden)
		if err != nil {
			logger.Error("failed to scan directory", zap.Error(err))
			return 1
		}
		for _, path := range paths {
			enqueue(path)
		}
	}

	drainCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	queue.Shutdown(drainCtx)
	cancel()

	stats.Tally(queue.Results())
	logger.Info("ingestion complete",
		zap.Uint32("scanned", stats.Scanned),
		zap.Uint32("matched", stats.Matched),
		zap.Uint32("succeeded", stats.Succeeded),
		zap.Uint32("rejected", stats.Rejected),
		zap.Uint32("failed", stats.Failed))

	logger.Info("exporting to XLSX", zap.String("output", *out))
	if err := export.NewService(svc, logger).WriteFile(context.Background(), *out); err != nil {
		logger.Error("failed to export receipts", zap.Error(err))
		return 1
	}

	fmt.Printf("Batch processing complete!\n")
	fmt.Printf("- Files scanned: %d\n", stats.Scanned)
	fmt.Printf("- Files matched: %d\n", stats.Matched)
	fmt.Printf("- Succeeded: %d\n", stats.Succeeded)
	fmt.Printf("- Rejected: %d\n", stats.Rejected)
	fmt.Printf("- Failed: %d\n", stats.Failed)
	fmt.Printf("- Output: %s\n", *out)
	return 0
}
