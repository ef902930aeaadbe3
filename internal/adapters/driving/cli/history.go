package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/labelsync/internal/core/domain"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history <database>",
	Short: "List recent export and import runs",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of runs to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	return withSession(cmd, args[0], func(s *Session, _ domain.AppSettings) error {
		if s.History == nil {
			return errors.New("history service not configured")
		}
		runs, err := s.History.Recent(context.Background(), historyLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			cmd.Println("No runs recorded.")
			return nil
		}

		for _, run := range runs {
			status := successStyle.Render("ok")
			if !run.Succeeded() {
				status = errorStyle.Render("failed: " + run.Err)
			}
			kind := string(run.Kind)
			if run.Label != "" {
				kind += " " + run.Label
			}
			cmd.Printf("%s  %-18s %-12s %5d ok %5d rejected  %s\n",
				mutedStyle.Render(run.StartedAt.Local().Format("2006-01-02 15:04:05")),
				kind, run.Collection, run.Processed, run.Rejected, status)
		}
		return nil
	})
}
