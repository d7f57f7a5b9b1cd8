// Package export writes extracted records to an XLSX workbook, one row per
// certificate, in the column layout reviewers already use.
package export

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/atestado-tools/atestado-reader/constants"
	"github.com/atestado-tools/atestado-reader/internal/extract"
)

// DefaultSheet is the worksheet records are appended to.
const DefaultSheet = "Atestados"

var headers = []string{
	"CID",
	"Médico",
	"Data de Emissão",
	"Dias de Repouso",
	"Origem",
	"Confiança",
	"Revisar",
}

// Service appends extracted records to a workbook on disk or renders one
// in memory.
type Service struct {
	Sheet  string
	logger *slog.Logger
}

func NewService(sheet string, logger *slog.Logger) *Service {
	if sheet == "" {
		sheet = DefaultSheet
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{Sheet: sheet, logger: logger}
}

// AppendRecords opens (or creates) the workbook at path, ensures the header
// row, appends one row per record and saves the file.
func (s *Service) AppendRecords(path string, recs []extract.Record) error {
	start := time.Now()

	f, created, err := s.openWorkbook(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			s.logger.Warn("export.close_error", "error", cerr)
		}
	}()

	rows, err := f.GetRows(s.Sheet)
	if err != nil {
		return fmt.Errorf("read sheet: %w", err)
	}
	next := len(rows) + 1

	for _, rec := range recs {
		if err := s.writeRow(f, next, rec); err != nil {
			return err
		}
		next++
	}

	s.widenColumns(f)
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("xlsx save: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"path", path,
		"created", created,
		"rows", len(recs),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// WorkbookBytes renders records into a fresh workbook and returns the XLSX
// bytes, for callers that stream the export instead of writing a file.
func (s *Service) WorkbookBytes(recs []extract.Record) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := s.ensureSheet(f); err != nil {
		return nil, err
	}
	for i, rec := range recs {
		if err := s.writeRow(f, i+2, rec); err != nil {
			return nil, err
		}
	}
	s.widenColumns(f)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *Service) openWorkbook(path string) (*excelize.File, bool, error) {
	if _, err := os.Stat(path); err == nil {
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, false, fmt.Errorf("open workbook: %w", err)
		}
		if err := s.ensureSheet(f); err != nil {
			_ = f.Close()
			return nil, false, err
		}
		return f, false, nil
	}
	f := excelize.NewFile()
	if err := s.ensureSheet(f); err != nil {
		_ = f.Close()
		return nil, false, err
	}
	return f, true, nil
}

// ensureSheet creates the sheet if missing and (re)writes the header row.
func (s *Service) ensureSheet(f *excelize.File) error {
	index, err := f.GetSheetIndex(s.Sheet)
	if err != nil {
		return fmt.Errorf("sheet index: %w", err)
	}
	if index == -1 {
		if index, err = f.NewSheet(s.Sheet); err != nil {
			return fmt.Errorf("new sheet: %w", err)
		}
	}
	f.SetActiveSheet(index)

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(s.Sheet, cell, h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	return nil
}

func (s *Service) writeRow(f *excelize.File, row int, rec extract.Record) error {
	write := func(col int, v any) error {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		return f.SetCellValue(s.Sheet, cell, v)
	}

	display := rec.DisplayMap()
	cols := []any{
		display["CID"],
		display["Médico"],
		display["Data de Emissão"],
		display["Dias de Repouso"],
		provenanceSummary(rec),
		confidenceSummary(rec),
		rec.NeedsReview,
	}
	for i, v := range cols {
		if err := write(i+1, v); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}
	}
	return nil
}

func (s *Service) widenColumns(f *excelize.File) {
	_ = f.SetColWidth(s.Sheet, "A", "A", 12) // CID
	_ = f.SetColWidth(s.Sheet, "B", "B", 30) // doctor
	_ = f.SetColWidth(s.Sheet, "C", "C", 16) // date
	_ = f.SetColWidth(s.Sheet, "D", "D", 22) // rest days
	_ = f.SetColWidth(s.Sheet, "E", "F", 14) // provenance / confidence
	_ = f.SetColWidth(s.Sheet, "G", "G", 10) // review flag
}

// provenanceSummary lists each resolved field's tier, e.g.
// "CID:heuristic Médico:regex".
func provenanceSummary(rec extract.Record) string {
	out := ""
	for _, fld := range constants.AllFields {
		fr := rec.Field(fld)
		if !fr.Resolved() {
			continue
		}
		if out != "" {
			out += " "
		}
		out += fmt.Sprintf("%s:%s", fld, fr.Tier)
	}
	return out
}

func confidenceSummary(rec extract.Record) string {
	var sum float32
	n := 0
	for _, fld := range constants.AllFields {
		fr := rec.Field(fld)
		if fr.Resolved() {
			sum += fr.Confidence
			n++
		}
	}
	if n == 0 {
		return ""
	}
	return fmt.Sprintf("%.2f", sum/float32(n))
}
