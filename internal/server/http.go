package server

import (
	"context"
	"errors"
	"net"
	"net/http"

	"go.uber.org/zap"

	"github.com/joseph-ayodele/receipt-processor/internal/common"
)

// HTTPServer owns the listener lifecycle of the HTTP transport.
type HTTPServer struct {
	srv    *http.Server
	logger *zap.Logger
}

func NewHTTPServer(cfg common.HTTPConfig, handler http.Handler, logger *zap.Logger) *HTTPServer {
	return &HTTPServer{
		srv: &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			ErrorLog:          zap.NewStdLog(logger),
		},
		logger: logger,
	}
}

// Serve blocks until the server stops. A graceful Shutdown returns nil.
func (s *HTTPServer) Serve(lis net.Listener) error {
	s.logger.Info("HTTP serving", zap.String("addr", lis.Addr().String()))
	if err := s.srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ListenAndServe listens on the configured address and serves.
func (s *HTTPServer) ListenAndServe() error {
	lis, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	return s.Serve(lis)
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.logger.Info("HTTP shutting down")
	return s.srv.Shutdown(ctx)
}
