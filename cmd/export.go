package cmd

import (
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lectern-app/lectern/internal/export"
	"github.com/lectern-app/lectern/internal/storage"
)

func newExportCmd() *cobra.Command {
	var dataDir string
	var format string
	var userID string

	cmd := &cobra.Command{
		Use:   "export <output-file>",
		Short: "Export persisted lectures to a dataset file",
		Long: `Dumps the lecture corpus to a flat dataset file for offline analysis.
Supported formats: parquet, jsonl, yaml.`,
		Example: `  # All lectures of one user as parquet
  lectern export lectures.parquet --user alice

  # JSONL dump
  lectern export lectures.jsonl --format jsonl --user alice`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storage.OpenLectureStore(filepath.Join(dataDir, "lectures.db"))
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			lectures, err := store.ListByUser(cmd.Context(), userID)
			if err != nil {
				return err
			}

			if err := export.Write(lectures, args[0], format); err != nil {
				return err
			}

			slog.Info("Exported lectures", "count", len(lectures), "path", args[0], "format", format)
			return nil
		},
	}

	cmd.Flags().StringVar(&dataDir, "data-dir", "data", "Directory for the lecture database and stored images")
	cmd.Flags().StringVar(&format, "format", "parquet", "Output format: parquet, jsonl, or yaml")
	cmd.Flags().StringVar(&userID, "user", "", "User whose lectures to export")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
