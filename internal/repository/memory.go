package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/joseph-ayodele/receipt-processor/internal/common"
	"github.com/joseph-ayodele/receipt-processor/internal/entity"
)

type memoryRepository struct {
	mu     sync.RWMutex
	byID   map[string]entity.StoredReceipt
	order  []string
	logger *zap.Logger
}

// NewMemoryRepository returns a map-backed store.
func NewMemoryRepository(logger *zap.Logger) ReceiptRepository {
	return &memoryRepository{
		byID:   make(map[string]entity.StoredReceipt),
		logger: logger,
	}
}

func (m *memoryRepository) Put(ctx context.Context, r entity.Receipt) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	rec := entity.StoredReceipt{
		ID:        uuid.NewString(),
		Receipt:   r.Clone(),
		CreatedAt: time.Now().UTC(),
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byID[rec.ID]; exists {
		return "", fmt.Errorf("receipt id collision: %s", rec.ID)
	}
	m.byID[rec.ID] = rec
	m.order = append(m.order, rec.ID)

	m.logger.Debug("receipt stored", zap.String("receipt_id", rec.ID), zap.Int("items", len(r.Items)))
	return rec.ID, nil
}

func (m *memoryRepository) Get(ctx context.Context, id string) (entity.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return entity.Receipt{}, err
	}
	m.mu.RLock()
	rec, ok := m.byID[id]
	m.mu.RUnlock()
	if !ok {
		return entity.Receipt{}, fmt.Errorf("receipt %q: %w", id, common.ErrNotFound)
	}
	return rec.Receipt.Clone(), nil
}

func (m *memoryRepository) List(ctx context.Context) ([]entity.StoredReceipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]entity.StoredReceipt, 0, len(m.order))
	for _, id := range m.order {
		rec := m.byID[id]
		rec.Receipt = rec.Receipt.Clone()
		out = append(out, rec)
	}
	return out, nil
}

func (m *memoryRepository) Ping(ctx context.Context) error { return ctx.Err() }

func (m *memoryRepository) Close() error { return nil }
