package server

import (
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/joseph-ayodele/receipt-processor/internal/common"
	"github.com/joseph-ayodele/receipt-processor/internal/receipts"
)

// NewGRPCServer builds a gRPC server exposing the receipt service and the
// standard health service. The returned health server lets callers flip
// serving status during shutdown.
func NewGRPCServer(cfg common.GRPCConfig, svc *receipts.Service, logger *zap.Logger) (*grpc.Server, *health.Server) {
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			RecoverUnary(logger),
			RequestIDUnary(),
			LoggingUnary(logger),
		),
	)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ReceiptProcessorService, healthpb.HealthCheckResponse_SERVING)

	if cfg.Reflection {
		reflection.Register(grpcServer)
	}

	RegisterReceiptProcessorServer(grpcServer, NewReceiptsService(svc, logger))
	return grpcServer, hs
}
