package training

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/atestado-tools/atestado-reader/internal/common"
)

const sqliteDDL = `
CREATE TABLE IF NOT EXISTS training_example (
	id         TEXT PRIMARY KEY,
	raw_text   TEXT NOT NULL,
	corrected  TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);`

// SQLiteStore keeps the history in a local SQLite database. The table is
// insert-only; serialization of concurrent appends is left to the database.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens (or creates) the database at path and ensures the
// history table exists.
func NewSQLiteStore(ctx context.Context, path string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w: %w", common.ErrStorage, err)
	}
	// modernc sqlite serializes writes through a single connection
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, sqliteDDL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w: %w", common.ErrStorage, err)
	}
	logger.Info("training.sqlite.open", "path", path)
	return &SQLiteStore{db: db, logger: logger}, nil
}

func (s *SQLiteStore) Record(ctx context.Context, ex Example) error {
	if err := CheckExample(ex); err != nil {
		return err
	}
	stamp(&ex)

	corrected, err := json.Marshal(ex.Corrected)
	if err != nil {
		return fmt.Errorf("encode corrected map: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO training_example (id, raw_text, corrected, created_at) VALUES (?, ?, ?, ?)`,
		ex.ID.String(), ex.RawText, string(corrected), ex.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert entry: %w: %w", common.ErrStorage, err)
	}
	s.logger.Info("training.record.ok", "id", ex.ID, "text_len", len(ex.RawText))
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]Example, error) {
	// rowid follows insertion order; created_at text is not safe to sort
	// (RFC3339Nano drops trailing fractional zeros)
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, raw_text, corrected, created_at FROM training_example ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query history: %w: %w", common.ErrStorage, err)
	}
	defer rows.Close()

	var out []Example
	for rows.Next() {
		var (
			id, rawText, corrected, createdAt string
		)
		if err := rows.Scan(&id, &rawText, &corrected, &createdAt); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		ex := Example{RawText: rawText}
		if u, err := uuid.Parse(id); err == nil {
			ex.ID = u
		}
		if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			ex.CreatedAt = t
		}
		if err := json.Unmarshal([]byte(corrected), &ex.Corrected); err != nil {
			return nil, fmt.Errorf("decode corrected map: %w", err)
		}
		out = append(out, ex)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) ImportBatch(ctx context.Context, examples []Example) (BatchResult, error) {
	res, err := importBatch(ctx, s.Record, examples)
	s.logger.Info("training.import.done", "stored", res.Stored, "rejected", len(res.Rejections))
	return res, err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
