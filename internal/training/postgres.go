package training

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atestado-tools/atestado-reader/internal/common"
)

// PostgresConfig configures the shared-database history backend.
type PostgresConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
}

const postgresDDL = `
CREATE TABLE IF NOT EXISTS training_example (
	id         UUID PRIMARY KEY,
	raw_text   TEXT NOT NULL,
	corrected  JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);`

// PostgresStore keeps the history in Postgres so several operators can
// append corrections against the same history. Insert-only.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewPostgresStore creates a pgx pool, pings it and ensures the history
// table exists.
func NewPostgresStore(ctx context.Context, cfg PostgresConfig, logger *slog.Logger) (*PostgresStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("training.postgres.connect", "dsn", cfg.DSN)

	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		pc.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		pc.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	pc.ConnConfig.RuntimeParams["application_name"] = "atestado-reader"

	dialCtx := ctx
	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	pool, err := pgxpool.NewWithConfig(dialCtx, pc)
	if err != nil {
		return nil, fmt.Errorf("connect: %w: %w", common.ErrStorage, err)
	}
	if err := pool.Ping(dialCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w: %w", common.ErrStorage, err)
	}
	if _, err := pool.Exec(ctx, postgresDDL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w: %w", common.ErrStorage, err)
	}
	logger.Info("training.postgres.ready")
	return &PostgresStore{pool: pool, logger: logger}, nil
}

func (s *PostgresStore) Record(ctx context.Context, ex Example) error {
	if err := CheckExample(ex); err != nil {
		return err
	}
	stamp(&ex)

	corrected, err := json.Marshal(ex.Corrected)
	if err != nil {
		return fmt.Errorf("encode corrected map: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO training_example (id, raw_text, corrected, created_at) VALUES ($1, $2, $3, $4)`,
		ex.ID, ex.RawText, corrected, ex.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert entry: %w: %w", common.ErrStorage, err)
	}
	s.logger.Info("training.record.ok", "id", ex.ID, "text_len", len(ex.RawText))
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Example, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, raw_text, corrected, created_at FROM training_example ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query history: %w: %w", common.ErrStorage, err)
	}
	defer rows.Close()

	var out []Example
	for rows.Next() {
		var (
			ex        Example
			id        uuid.UUID
			corrected []byte
		)
		if err := rows.Scan(&id, &ex.RawText, &corrected, &ex.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		ex.ID = id
		if err := json.Unmarshal(corrected, &ex.Corrected); err != nil {
			return nil, fmt.Errorf("decode corrected map: %w", err)
		}
		out = append(out, ex)
	}
	return out, rows.Err()
}

func (s *PostgresStore) ImportBatch(ctx context.Context, examples []Example) (BatchResult, error) {
	res, err := importBatch(ctx, s.Record, examples)
	s.logger.Info("training.import.done", "stored", res.Stored, "rejected", len(res.Rejections))
	return res, err
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
