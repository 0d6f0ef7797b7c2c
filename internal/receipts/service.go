// Package receipts is the processing facade shared by every transport:
// decode, validate, store and score.
package receipts

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/joseph-ayodele/receipt-processor/constants"
	"github.com/joseph-ayodele/receipt-processor/internal/common"
	"github.com/joseph-ayodele/receipt-processor/internal/entity"
	"github.com/joseph-ayodele/receipt-processor/internal/points"
	"github.com/joseph-ayodele/receipt-processor/internal/repository"
)

// Service handles receipt business logic.
type Service struct {
	receiptRepo repository.ReceiptRepository
	logger      *zap.Logger
}

// NewService creates a new receipt service.
func NewService(receiptRepo repository.ReceiptRepository, logger *zap.Logger) *Service {
	return &Service{
		receiptRepo: receiptRepo,
		logger:      logger,
	}
}

// ScoredReceipt is a stored receipt together with its points.
type ScoredReceipt struct {
	ID        string
	Receipt   entity.Receipt
	Points    int64
	CreatedAt time.Time
}

// Submit decodes raw JSON and processes it.
func (s *Service) Submit(ctx context.Context, data []byte) (string, error) {
	r, err := DecodeReceipt(data)
	if err != nil {
		s.logger.Info("receipt rejected at decode",
			zap.String("request_id", common.RequestIDFromContext(ctx)),
			zap.Error(err))
		return "", common.NewAppError(common.CodeInvalidReceipt, constants.MsgInvalidReceipt, err)
	}
	return s.ProcessReceipt(ctx, r)
}

// ProcessReceipt validates r and stores it under a new id.
func (s *Service) ProcessReceipt(ctx context.Context, r entity.Receipt) (string, error) {
	if err := ValidateReceipt(r); err != nil {
		var ve common.ValidationErrors
		if errors.As(err, &ve) {
			s.logger.Info("receipt rejected at validation",
				zap.String("request_id", common.RequestIDFromContext(ctx)),
				zap.Int("violations", len(ve)),
				zap.Strings("messages", ve.Messages()))
		}
		return "", common.NewAppError(common.CodeInvalidReceipt, constants.MsgInvalidReceipt, err)
	}

	id, err := s.receiptRepo.Put(ctx, r)
	if err != nil {
		s.logger.Error("failed to store receipt", zap.Error(err))
		return "", common.WrapError(err, "store receipt")
	}

	s.logger.Info("receipt processed",
		zap.String("request_id", common.RequestIDFromContext(ctx)),
		zap.String("receipt_id", id),
		zap.Int("items", len(r.Items)))
	return id, nil
}

// CalculatePoints returns the score of the receipt stored under id.
func (s *Service) CalculatePoints(ctx context.Context, id string) (int64, error) {
	r, err := s.lookup(ctx, id)
	if err != nil {
		return 0, err
	}
	return points.Calculate(r), nil
}

// ExplainPoints returns the per-rule score of the receipt stored under id.
func (s *Service) ExplainPoints(ctx context.Context, id string) (points.Breakdown, error) {
	r, err := s.lookup(ctx, id)
	if err != nil {
		return points.Breakdown{}, err
	}
	return points.Explain(r), nil
}

// ListScored returns every stored receipt with its points, in insertion order.
func (s *Service) ListScored(ctx context.Context) ([]ScoredReceipt, error) {
	recs, err := s.receiptRepo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list receipts", zap.Error(err))
		return nil, common.WrapError(err, "list receipts")
	}
	out := make([]ScoredReceipt, 0, len(recs))
	for _, rec := range recs {
		out = append(out, ScoredReceipt{
			ID:        rec.ID,
			Receipt:   rec.Receipt,
			Points:    points.Calculate(rec.Receipt),
			CreatedAt: rec.CreatedAt,
		})
	}
	return out, nil
}

// Ping reports whether the store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.receiptRepo.Ping(ctx)
}

func (s *Service) lookup(ctx context.Context, id string) (entity.Receipt, error) {
	r, err := s.receiptRepo.Get(ctx, id)
	if errors.Is(err, common.ErrNotFound) {
		s.logger.Info("receipt not found", zap.String("receipt_id", id))
		return entity.Receipt{}, common.NewAppError(common.CodeReceiptNotFound, constants.MsgReceiptNotFound, err)
	}
	if err != nil {
		s.logger.Error("failed to load receipt", zap.String("receipt_id", id), zap.Error(err))
		return entity.Receipt{}, common.WrapError(err, "load receipt")
	}
	return r, nil
}
