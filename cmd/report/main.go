// Command report renders a validation summary from a HydratedTranscript
// artifact produced by the align command.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Encryptabit/AMS-sub006/internal/model"
	"github.com/Encryptabit/AMS-sub006/internal/report"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var chapterId string

	cmd := &cobra.Command{
		Use:   "report <hydrated-transcript.json>",
		Short: "Summarize a hydrated transcript's alignment quality",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadHydrated(args[0])
			if err != nil {
				return err
			}
			r := report.BuildReport(chapterId, t)
			return report.RenderText(cmd.OutOrStdout(), r)
		},
	}
	cmd.Flags().StringVar(&chapterId, "chapter-id", "", "Chapter identifier to print in the report header")
	cmd.AddCommand(jsonCmd())
	return cmd
}

func jsonCmd() *cobra.Command {
	var chapterId string

	cmd := &cobra.Command{
		Use:   "json <hydrated-transcript.json>",
		Short: "Emit the report as JSON instead of a text table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadHydrated(args[0])
			if err != nil {
				return err
			}
			r := report.BuildReport(chapterId, t)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(r)
		},
	}
	cmd.Flags().StringVar(&chapterId, "chapter-id", "", "Chapter identifier to embed in the report")
	return cmd
}

func loadHydrated(path string) (*model.HydratedTranscript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var t model.HydratedTranscript
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &t, nil
}
