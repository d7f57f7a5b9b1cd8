package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/atestado-tools/atestado-reader/internal/export"
	"github.com/atestado-tools/atestado-reader/internal/extract"
)

var (
	extractText    string
	extractExport  string
	extractWriteWB bool
)

var extractCmd = &cobra.Command{
	Use:   "extract [ocr-text-file...]",
	Short: "Extract structured fields from OCR text",
	Long: `Extract reads OCR text from the given files (or --text, or stdin when no
argument is passed), runs the tiered extraction pipeline and prints each
resulting record as JSON. With --export the records are appended to the
configured XLSX workbook; with --workbook-stdout a fresh workbook is
written to stdout instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()

		texts, err := gatherTexts(extractText, args)
		if err != nil {
			return err
		}

		pipeline := buildPipeline(cfg, logger)
		records := make([]extract.Record, 0, len(texts))
		for _, t := range texts {
			rec := pipeline.Run(ctx, t)
			records = append(records, rec)
			if err := printRecord(cmd.OutOrStdout(), rec); err != nil {
				return err
			}
		}

		svc := export.NewService(cfg.Export.Sheet, logger)
		if extractWriteWB {
			buf, err := svc.WorkbookBytes(records)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(buf)
			return err
		}
		if extractExport != "" {
			return svc.AppendRecords(extractExport, records)
		}
		return nil
	},
}

func init() {
	extractCmd.Flags().StringVar(&extractText, "text", "", "OCR text passed inline instead of a file")
	extractCmd.Flags().StringVar(&extractExport, "export", "", "append records to this XLSX workbook")
	extractCmd.Flags().BoolVar(&extractWriteWB, "workbook-stdout", false, "write a fresh XLSX workbook to stdout")
}

func gatherTexts(inline string, args []string) ([]string, error) {
	if inline != "" && len(args) > 0 {
		return nil, fmt.Errorf("--text cannot be combined with file arguments")
	}
	if inline != "" {
		return []string{inline}, nil
	}
	if len(args) == 0 {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return []string{string(raw)}, nil
	}
	texts := make([]string, 0, len(args))
	for _, path := range args {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		texts = append(texts, string(raw))
	}
	return texts, nil
}

func printRecord(w io.Writer, rec extract.Record) error {
	out := map[string]any{
		"id":           rec.ID,
		"fields":       rec.DisplayMap(),
		"needs_review": rec.NeedsReview,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
