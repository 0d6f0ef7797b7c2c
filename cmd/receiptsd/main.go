package main

import (
	"context"
	"errors"
	"net"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"

	"github.com/joseph-ayodele/receipt-processor/internal/common"
	"github.com/joseph-ayodele/receipt-processor/internal/export"
	"github.com/joseph-ayodele/receipt-processor/internal/logging"
	"github.com/joseph-ayodele/receipt-processor/internal/receipts"
	"github.com/joseph-ayodele/receipt-processor/internal/repository"
	"github.com/joseph-ayodele/receipt-processor/internal/server"
)

func main() {
	os.Exit(run())
}

// run owns every deferred cleanup; main only turns its result into an exit code.
func run() int {
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
		logger.Error("failed to open receipt store", zap.String("backend", cfg.Store.Backend), zap.Error(err))
		return 1
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close receipt store", zap.Error(err))
		}
	}()

	svc := receipts.NewService(store, logger)
	exporter := export.NewService(svc, logger)

	router := server.NewRouter(logger, server.RouterDependencies{
		Health:   svc,
		Receipts: server.NewReceiptHandlers(svc, cfg.HTTP.MaxBodyBytes, logger),
		Export:   server.NewExportHandler(exporter, logger),
	})
	httpServer := server.NewHTTPServer(cfg.HTTP, router, logger)

	errCh := make(chan error, 2)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	var (
		grpcServer *grpc.Server
		hs         *health.Server
	)
	if cfg.GRPC.Addr != "" {
		lis, err := net.Listen("tcp", cfg.GRPC.Addr)
		if err != nil {
			logger.Error("failed to listen on address", zap.String("addr", cfg.GRPC.Addr), zap.Error(err))
			return 1
		}
		grpcServer, hs = server.NewGRPCServer(cfg.GRPC, svc, logger)
		logger.Info("gRPC serving", zap.String("addr", lis.Addr().String()), zap.Bool("reflection", cfg.GRPC.Reflection))
		go func() {
			if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				errCh <- err
			}
		}()
	}

	code := 0
	select {
	case <-ctx.Done():
		logger.Info("shutting down...")
	case err := <-errCh:
		logger.Error("server failed", zap.Error(err))
		code = 1
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if grpcServer != nil {
		hs.Shutdown()
		stopped := make(chan struct{})
		go func() { grpcServer.GracefulStop(); close(stopped) }()
		select {
		case <-stopped:
		case <-shutdownCtx.Done():
			grpcServer.Stop()
		}
	}
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown failed", zap.Error(err))
		code = 1
	}
	logger.Info("stopped")
	return code
}
