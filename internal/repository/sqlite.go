package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/joseph-ayodele/receipt-processor/db/migrations"
	"github.com/joseph-ayodele/receipt-processor/internal/common"
	"github.com/joseph-ayodele/receipt-processor/internal/entity"
)

const receiptsTable = "receipts"

type sqliteRepository struct {
	db     *sql.DB
	drv    *entsql.Driver
	logger *zap.Logger
}

// OpenSQLite opens an in-memory SQLite database, applies the embedded
// migrations and returns a store over it. The pool is pinned to a single
// connection: every new connection to :memory: is a fresh, empty database.
func OpenSQLite(ctx context.Context, dsn string, logger *zap.Logger) (ReceiptRepository, error) {
	logger.Info("opening sqlite store", zap.String("dsn", dsn))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		logger.Error("failed to open sqlite", zap.Error(err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := migrate(ctx, db, logger); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info("sqlite store ready")
	return &sqliteRepository{
		db:     db,
		drv:    entsql.OpenDB(dialect.SQLite, db),
		logger: logger,
	}, nil
}

func migrate(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(gooseLogger{logger.Sugar()})
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		logger.Error("failed to apply migrations", zap.Error(err))
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (s *sqliteRepository) Put(ctx context.Context, r entity.Receipt) (string, error) {
	payload, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("encode receipt: %w", err)
	}
	id := uuid.NewString()
	createdAt := time.Now().UTC().Format(time.RFC3339Nano)

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(receiptsTable).
		Columns("id", "payload", "created_at").
		Values(id, string(payload), createdAt).
		Query()
	if err := s.drv.Exec(ctx, query, args, nil); err != nil {
		s.logger.Error("failed to insert receipt", zap.String("receipt_id", id), zap.Error(err))
		return "", fmt.Errorf("insert receipt: %w", err)
	}

	s.logger.Debug("receipt stored", zap.String("receipt_id", id), zap.Int("items", len(r.Items)))
	return id, nil
}

func (s *sqliteRepository) Get(ctx context.Context, id string) (entity.Receipt, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("id", "payload", "created_at").
		From(entsql.Table(receiptsTable)).
		Where(entsql.EQ("id", id)).
		Query()

	recs, err := s.query(ctx, query, args)
	if err != nil {
		return entity.Receipt{}, err
	}
	if len(recs) == 0 {
		return entity.Receipt{}, fmt.Errorf("receipt %q: %w", id, common.ErrNotFound)
	}
	return recs[0].Receipt, nil
}

func (s *sqliteRepository) List(ctx context.Context) ([]entity.StoredReceipt, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("id", "payload", "created_at").
		From(entsql.Table(receiptsTable)).
		OrderBy("seq").
		Query()
	return s.query(ctx, query, args)
}

func (s *sqliteRepository) query(ctx context.Context, query string, args []any) ([]entity.StoredReceipt, error) {
	var rows entsql.Rows
	if err := s.drv.Query(ctx, query, args, &rows); err != nil {
		s.logger.Error("failed to query receipts", zap.Error(err))
		return nil, fmt.Errorf("query receipts: %w", err)
	}
	defer rows.Close()

	var out []entity.StoredReceipt
	for rows.Next() {
		var (
			rec       entity.StoredReceipt
			payload   string
			createdAt string
		)
		if err := rows.Scan(&rec.ID, &payload, &createdAt); err != nil {
			return nil, fmt.Errorf("scan receipt: %w", err)
		}
		if err := json.Unmarshal([]byte(payload), &rec.Receipt); err != nil {
			return nil, fmt.Errorf("decode stored receipt %s: %w", rec.ID, err)
		}
		ts, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("decode created_at for %s: %w", rec.ID, err)
		}
		rec.CreatedAt = ts
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *sqliteRepository) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqliteRepository) Close() error {
	s.logger.Info("closing sqlite store")
	err := s.drv.Close()
	if errors.Is(err, sql.ErrConnDone) {
		return nil
	}
	return err
}

// gooseLogger routes goose output through zap.
type gooseLogger struct {
	*zap.SugaredLogger
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.Infof(format, v...)
}
