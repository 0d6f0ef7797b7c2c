package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/joseph-ayodele/receipt-processor/internal/common"
)

// HealthService reports whether the backing store is usable.
type HealthService interface {
	Ping(ctx context.Context) error
}

// RouterDependencies collects handler dependencies.
type RouterDependencies struct {
	Health   HealthService
	Receipts *ReceiptHandlers
	Export   *ExportHandler
}

// NewRouter wires the HTTP routes exposed by the service.
func NewRouter(logger *zap.Logger, deps RouterDependencies) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		payload := map[string]any{"status": "ok"}
		if deps.Health != nil {
			if err := deps.Health.Ping(ctx); err != nil {
				logger.Error("health probe failed", zap.Error(err))
				status = http.StatusServiceUnavailable
				payload["status"] = "degraded"
			}
		}
		respondJSON(w, status, payload)
	})

	if deps.Receipts != nil {
		mux.HandleFunc("POST /receipts/process", deps.Receipts.handleProcess)
		mux.HandleFunc("GET /receipts/{id}/points", deps.Receipts.handlePoints)
		mux.HandleFunc("GET /receipts/{id}/breakdown", deps.Receipts.handleBreakdown)
	}
	if deps.Export != nil {
		mux.HandleFunc("GET /receipts/export", deps.Export.handleExport)
	}

	return requestIDMiddleware(loggingMiddleware(logger, mux))
}

// requestIDMiddleware propagates X-Request-ID, generating one when absent.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(common.RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(common.RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(common.WithRequestID(r.Context(), id)))
	})
}

func loggingMiddleware(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request completed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", common.RequestIDFromContext(r.Context())),
		)
	})
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// respondText writes msg as-is, with no trailing newline.
func respondText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}

type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
