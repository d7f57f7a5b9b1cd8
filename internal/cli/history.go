package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/atestado-tools/atestado-reader/internal/training"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the append-only corrections history",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print all history entries as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()

		store, err := buildStore(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer store.Close()

		examples, err := store.List(ctx)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(examples)
	},
}

var historyImportCmd = &cobra.Command{
	Use:   "import <examples.json>",
	Short: "Batch-import corrections from a JSON file",
	Long: `Import reads a JSON array of {"text": ..., "corrected": {...}} entries and
appends each well-formed one to the history. Malformed entries are reported
individually and skipped; they never abort the batch.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()

		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}

		store, err := buildStore(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer store.Close()

		res, err := training.ImportJSON(ctx, store, raw)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "stored %d entries, rejected %d\n", res.Stored, len(res.Rejections))
		for _, rej := range res.Rejections {
			fmt.Fprintf(cmd.OutOrStdout(), "  entry %d: %s\n", rej.Index, rej.Reason)
		}
		return nil
	},
}

var historyTemplatePath string

var historyTemplateCmd = &cobra.Command{
	Use:   "template",
	Short: "Write a batch-import JSON template",
	RunE: func(cmd *cobra.Command, args []string) error {
		tpl, err := training.Template()
		if err != nil {
			return err
		}
		if historyTemplatePath == "" {
			_, err = cmd.OutOrStdout().Write(append(tpl, '\n'))
			return err
		}
		if err := os.WriteFile(historyTemplatePath, tpl, 0o644); err != nil {
			return fmt.Errorf("write template: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "template written to %s\n", historyTemplatePath)
		return nil
	},
}

var (
	addText string
	addFile string
	addCID  string
	addDoc  string
	addDate string
	addDays string
)

var historyAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record one corrected example",
	Long: `Add runs extraction over the given OCR text, overrides the fields you pass
(--cid, --medico, --data, --dias) and appends the corrected result to the
history. Fields left unset keep the pipeline's output.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()

		text := addText
		if text == "" && addFile != "" {
			raw, err := os.ReadFile(addFile)
			if err != nil {
				return fmt.Errorf("read %s: %w", addFile, err)
			}
			text = string(raw)
		}
		if text == "" {
			return fmt.Errorf("either --text or --file is required")
		}

		pipeline := buildPipeline(cfg, logger)
		rec := pipeline.Run(ctx, text)

		corrected := rec.DisplayMap()
		for key, override := range map[string]string{
			"CID":             addCID,
			"Médico":          addDoc,
			"Data de Emissão": addDate,
			"Dias de Repouso": addDays,
		} {
			if override != "" {
				corrected[key] = override
			}
		}

		store, err := buildStore(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Record(ctx, training.Example{RawText: text, Corrected: corrected}); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "correction recorded")
		return nil
	},
}

var historySimilarCmd = &cobra.Command{
	Use:   "similar <ocr-text-file>",
	Short: "Find the most similar history entry for a text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()

		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}

		store, err := buildStore(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer store.Close()

		examples, err := store.List(ctx)
		if err != nil {
			return err
		}
		ex, sim, ok := training.FindSimilar(examples, string(raw))
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "no sufficiently similar entry found")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "best match %s (similarity %.0f%%)\n", ex.ID, sim*100)
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(ex.Corrected)
	},
}

func init() {
	historyTemplateCmd.Flags().StringVarP(&historyTemplatePath, "out", "o", "", "write the template to this file instead of stdout")

	historyAddCmd.Flags().StringVar(&addText, "text", "", "OCR text passed inline")
	historyAddCmd.Flags().StringVar(&addFile, "file", "", "file containing the OCR text")
	historyAddCmd.Flags().StringVar(&addCID, "cid", "", "corrected CID")
	historyAddCmd.Flags().StringVar(&addDoc, "medico", "", "corrected physician name")
	historyAddCmd.Flags().StringVar(&addDate, "data", "", "corrected issue date (DD/MM/YYYY)")
	historyAddCmd.Flags().StringVar(&addDays, "dias", "", "corrected rest days")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyImportCmd)
	historyCmd.AddCommand(historyTemplateCmd)
	historyCmd.AddCommand(historyAddCmd)
	historyCmd.AddCommand(historySimilarCmd)
}
