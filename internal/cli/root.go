// Package cli implements the atestado command line: extraction, corrections
// history management and spreadsheet export.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/atestado-tools/atestado-reader/internal/common"
)

var (
	cfg     *common.Config
	logger  *slog.Logger
	envFile string
)

var rootCmd = &cobra.Command{
	Use:   "atestado",
	Short: "Extracts structured fields from medical leave certificate OCR text",
	Long: `atestado reads the OCR text of a medical leave certificate (atestado),
extracts CID, physician, issue date and rest days through a tiered
model/heuristic/regex pipeline, validates them against domain rules,
collects human corrections in an append-only history and exports results
to an XLSX spreadsheet.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if envFile != "" {
			if err := godotenv.Load(envFile); err != nil {
				return fmt.Errorf("load env file %s: %w", envFile, err)
			}
		} else {
			// best effort: a local .env is optional
			_ = godotenv.Load()
		}
		cfg = common.LoadConfig()
		if err := cfg.Validate(); err != nil {
			return err
		}
		logger = common.NewLogger(cfg.LogLevel)
		slog.SetDefault(logger)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "path to an env file (default: ./.env if present)")
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(historyCmd)
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
