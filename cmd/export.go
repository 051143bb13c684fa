package main

import (
	"encoding/json"
	"fmt"
	"io"

	"musespark-backend/internal/model"
	"musespark-backend/internal/service"
	"musespark-backend/internal/storage"

	"github.com/spf13/cobra"
)

func newExportCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print saved inspirations",
		Long: `Print every saved inspiration from the configured storage.
--format markdown renders each note as a brief, --format json dumps the raw collection.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := storage.New(cfg.Storage)
			if err != nil {
				return fmt.Errorf("init storage: %w", err)
			}
			defer store.Close()

			items, err := service.LoadInspirations(store)
			if err != nil {
				return fmt.Errorf("failed to load inspirations: %w", err)
			}
			return writeExport(cmd.OutOrStdout(), items, format)
		},
	}
	cmd.Flags().StringVar(&format, "format", "markdown", "output format: markdown or json")
	return cmd
}

func writeExport(w io.Writer, items []model.SavedInspiration, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	case "markdown", "md":
		if len(items) == 0 {
			_, err := fmt.Fprintln(w, "No saved inspirations")
			return err
		}
		for i, item := range items {
			if i > 0 {
				if _, err := fmt.Fprint(w, "\n---\n\n"); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintf(w, "<!-- %s, saved %s -->\n%s", item.ID, item.Date, item.Note.Markdown()); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func newBackupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Snapshot the configured storage",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := storage.New(cfg.Storage)
			if err != nil {
				return fmt.Errorf("init storage: %w", err)
			}
			defer store.Close()

			if err := store.Backup(); err != nil {
				return fmt.Errorf("backup: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Backup complete")
			return nil
		},
	}
}
