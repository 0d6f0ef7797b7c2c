package repository

import (
	"context"

	"github.com/joseph-ayodele/receipt-processor/internal/entity"
)

// ReceiptRepository stores accepted receipts for the lifetime of the process.
// Implementations are safe for concurrent use.
type ReceiptRepository interface {
	// Put stores r under a freshly generated id and returns the id.
	Put(ctx context.Context, r entity.Receipt) (string, error)
	// Get returns the receipt stored under id, or an error matching common.ErrNotFound.
	Get(ctx context.Context, id string) (entity.Receipt, error)
	// List returns every stored receipt in insertion order.
	List(ctx context.Context) ([]entity.StoredReceipt, error)
	Ping(ctx context.Context) error
	Close() error
}
