// Package training persists human-reviewed corrections as an append-only
// history. Entries are never updated or deleted; the history serves offline
// inspection, regression testing and future retraining, not the live
// extraction path.
package training

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Example is one labeled correction: the raw OCR text paired with the
// human-corrected field map. Corrected uses the history keys "CID",
// "Médico", "Data de Emissão", "Dias de Repouso".
type Example struct {
	ID        uuid.UUID         `json:"id"`
	RawText   string            `json:"text"`
	Corrected map[string]string `json:"corrected"`
	CreatedAt time.Time         `json:"created_at"`
}

// Rejection reports one malformed entry skipped during a batch import.
type Rejection struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// BatchResult summarizes a batch import: how many entries were stored and
// which were individually rejected.
type BatchResult struct {
	Stored     int         `json:"stored"`
	Rejections []Rejection `json:"rejections"`
}

// Store is the append-only corrections history. Record must be safe under
// concurrent writers; there is no update or delete.
type Store interface {
	// Record validates and durably appends one example.
	Record(ctx context.Context, ex Example) error

	// List returns all examples in insertion order.
	List(ctx context.Context) ([]Example, error)

	// ImportBatch appends each well-formed entry and reports malformed
	// ones individually; a bad entry never aborts the batch.
	ImportBatch(ctx context.Context, examples []Example) (BatchResult, error)

	Close() error
}

// stamp fills ID and CreatedAt when the caller left them zero.
func stamp(ex *Example) {
	if ex.ID == uuid.Nil {
		ex.ID = uuid.New()
	}
	if ex.CreatedAt.IsZero() {
		ex.CreatedAt = time.Now().UTC()
	}
}

// ImportJSON decodes a JSON array of history entries and appends each
// decodable, well-formed one through store. Entries that fail to decode
// (type-mismatched values included) or fail shape validation are rejected
// individually by array position; only a non-array payload or a storage
// failure aborts the import.
func ImportJSON(ctx context.Context, store Store, data []byte) (BatchResult, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return BatchResult{}, fmt.Errorf("decode batch: %w", err)
	}

	var res BatchResult
	for i, raw := range entries {
		var ex Example
		if err := json.Unmarshal(raw, &ex); err != nil {
			res.Rejections = append(res.Rejections, Rejection{Index: i, Reason: fmt.Sprintf("decode entry: %v", err)})
			continue
		}
		if err := CheckExample(ex); err != nil {
			res.Rejections = append(res.Rejections, Rejection{Index: i, Reason: err.Error()})
			continue
		}
		if err := store.Record(ctx, ex); err != nil {
			return res, err
		}
		res.Stored++
	}
	return res, nil
}

// importBatch is the shared per-entry validate-then-append loop.
func importBatch(ctx context.Context, record func(context.Context, Example) error, examples []Example) (BatchResult, error) {
	var res BatchResult
	for i, ex := range examples {
		if err := CheckExample(ex); err != nil {
			res.Rejections = append(res.Rejections, Rejection{Index: i, Reason: err.Error()})
			continue
		}
		if err := record(ctx, ex); err != nil {
			return res, err
		}
		res.Stored++
	}
	return res, nil
}
