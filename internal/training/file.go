package training

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/atestado-tools/atestado-reader/internal/common"
)

// FileStore keeps the history as a JSONL file, one entry per line. Appends
// are serialized by a mutex and written with O_APPEND so concurrent
// corrections never interleave within an entry.
type FileStore struct {
	path   string
	logger *slog.Logger

	mu   sync.Mutex
	file *os.File
}

// NewFileStore opens (or creates) the history file at path.
func NewFileStore(path string, logger *slog.Logger) (*FileStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open history file: %w: %w", common.ErrStorage, err)
	}
	logger.Info("training.file.open", "path", path)
	return &FileStore{path: path, logger: logger, file: f}, nil
}

func (s *FileStore) Record(ctx context.Context, ex Example) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := CheckExample(ex); err != nil {
		return err
	}
	stamp(&ex)

	line, err := json.Marshal(ex)
	if err != nil {
		return fmt.Errorf("encode entry: %w", err)
	}
	line = append(line, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.file.Write(line); err != nil {
		return fmt.Errorf("append entry: %w: %w", common.ErrStorage, err)
	}
	if err := s.file.Sync(); err != nil {
		return fmt.Errorf("sync history: %w: %w", common.ErrStorage, err)
	}
	s.logger.Info("training.record.ok", "id", ex.ID, "text_len", len(ex.RawText))
	return nil
}

func (s *FileStore) List(ctx context.Context) ([]Example, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open history file: %w: %w", common.ErrStorage, err)
	}
	defer f.Close()

	var out []Example
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		if len(sc.Bytes()) == 0 {
			continue
		}
		var ex Example
		if err := json.Unmarshal(sc.Bytes(), &ex); err != nil {
			// a torn or hand-edited line should not hide the rest
			s.logger.Warn("training.list.bad_line", "line", lineNo, "error", err)
			continue
		}
		out = append(out, ex)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan history: %w", err)
	}
	return out, nil
}

func (s *FileStore) ImportBatch(ctx context.Context, examples []Example) (BatchResult, error) {
	res, err := importBatch(ctx, s.Record, examples)
	s.logger.Info("training.import.done", "stored", res.Stored, "rejected", len(res.Rejections))
	return res, err
}

func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}
