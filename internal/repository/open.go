package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/joseph-ayodele/receipt-processor/internal/common"
)

// Open builds the store selected by cfg.Backend.
func Open(ctx context.Context, cfg common.StoreConfig, logger *zap.Logger) (ReceiptRepository, error) {
	switch cfg.Backend {
	case "", common.StoreBackendMemory:
		logger.Info("using in-memory receipt store")
		return NewMemoryRepository(logger), nil
	case common.StoreBackendSQLite:
		return OpenSQLite(ctx, cfg.SQLiteDSN, logger)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
