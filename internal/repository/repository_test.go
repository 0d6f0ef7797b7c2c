package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/joseph-ayodele/receipt-processor/internal/common"
	"github.com/joseph-ayodele/receipt-processor/internal/entity"
)

func sampleReceipt() entity.Receipt {
	return entity.Receipt{
		Retailer:     "Target",
		PurchaseDate: entity.MustParseDate("2022-01-01"),
		PurchaseTime: entity.MustParseClock("13:01"),
		Total:        "6.49",
		Items:        []entity.Item{{ShortDescription: "Mountain Dew 12PK", Price: "6.49"}},
	}
}

// backends runs fn against every store implementation.
func backends(t *testing.T, fn func(t *testing.T, repo ReceiptRepository)) {
	t.Run("memory", func(t *testing.T) {
		fn(t, NewMemoryRepository(zaptest.NewLogger(t)))
	})
	t.Run("sqlite", func(t *testing.T) {
		repo, err := OpenSQLite(context.Background(), "file::memory:", zaptest.NewLogger(t))
		require.NoError(t, err)
		t.Cleanup(func() { _ = repo.Close() })
		fn(t, repo)
	})
}

func TestPutGet_RoundTrip(t *testing.T) {
	backends(t, func(t *testing.T, repo ReceiptRepository) {
		ctx := context.Background()
		in := sampleReceipt()

		id, err := repo.Put(ctx, in)
		require.NoError(t, err)
		_, err = uuid.Parse(id)
		require.NoError(t, err)

		out, err := repo.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, in, out)
	})
}

func TestGet_Unknown(t *testing.T) {
	backends(t, func(t *testing.T, repo ReceiptRepository) {
		_, err := repo.Get(context.Background(), uuid.NewString())
		require.Error(t, err)
		assert.True(t, errors.Is(err, common.ErrNotFound))
	})
}

func TestPut_IdenticalContentGetsDistinctIDs(t *testing.T) {
	backends(t, func(t *testing.T, repo ReceiptRepository) {
		ctx := context.Background()
		a, err := repo.Put(ctx, sampleReceipt())
		require.NoError(t, err)
		b, err := repo.Put(ctx, sampleReceipt())
		require.NoError(t, err)
		assert.NotEqual(t, a, b)

		ra, err := repo.Get(ctx, a)
		require.NoError(t, err)
		rb, err := repo.Get(ctx, b)
		require.NoError(t, err)
		assert.Equal(t, ra, rb)
	})
}

func TestList_InsertionOrder(t *testing.T) {
	backends(t, func(t *testing.T, repo ReceiptRepository) {
		ctx := context.Background()
		var ids []string
		for _, retailer := range []string{"A", "B", "C"} {
			r := sampleReceipt()
			r.Retailer = retailer
			id, err := repo.Put(ctx, r)
			require.NoError(t, err)
			ids = append(ids, id)
		}

		recs, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, recs, 3)
		for i, rec := range recs {
			assert.Equal(t, ids[i], rec.ID)
			assert.False(t, rec.CreatedAt.IsZero())
		}
		assert.Equal(t, "C", recs[2].Receipt.Retailer)
		assert.NoError(t, repo.Ping(ctx))
	})
}

func TestPut_ConcurrentWriters(t *testing.T) {
	backends(t, func(t *testing.T, repo ReceiptRepository) {
		ctx := context.Background()
		const n = 50

		var (
			wg  sync.WaitGroup
			mu  sync.Mutex
			ids = make(map[string]struct{}, n)
		)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				id, err := repo.Put(ctx, sampleReceipt())
				assert.NoError(t, err)
				mu.Lock()
				ids[id] = struct{}{}
				mu.Unlock()
			}()
		}
		wg.Wait()

		assert.Len(t, ids, n)
		recs, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, recs, n)
	})
}

func TestMemory_StoredReceiptIsIsolated(t *testing.T) {
	repo := NewMemoryRepository(zaptest.NewLogger(t))
	ctx := context.Background()

	in := sampleReceipt()
	id, err := repo.Put(ctx, in)
	require.NoError(t, err)
	in.Items[0].Price = "0.01"

	out, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "6.49", out.Items[0].Price)

	out.Items[0].Price = "9.99"
	again, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "6.49", again.Items[0].Price)
}

func TestOpen_SelectsBackend(t *testing.T) {
	logger := zaptest.NewLogger(t)
	ctx := context.Background()

	mem, err := Open(ctx, common.StoreConfig{Backend: common.StoreBackendMemory}, logger)
	require.NoError(t, err)
	assert.IsType(t, &memoryRepository{}, mem)

	sq, err := Open(ctx, common.StoreConfig{Backend: common.StoreBackendSQLite, SQLiteDSN: ":memory:"}, logger)
	require.NoError(t, err)
	defer sq.Close()
	assert.IsType(t, &sqliteRepository{}, sq)

	_, err = Open(ctx, common.StoreConfig{Backend: "postgres"}, logger)
	assert.Error(t, err)
}
