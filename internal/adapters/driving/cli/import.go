package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/labelsync/internal/adapters/driving/watch"
	"github.com/custodia-labs/labelsync/internal/core/domain"
	"github.com/custodia-labs/labelsync/internal/core/ports/driving"
)

var importWatch bool

var importCmd = &cobra.Command{
	Use:   "import <database> <collection> <emotion|all> <filename>",
	Short: "Merge classifier results into record annotations",
	Long: `Reads classification_<filename>_<emotion>/predictions_<emotion>.csv from
the results directory and sets annotations.<emotion> on each record to true
for YES and false for NO. Rows that cannot be applied are appended to
failures_<emotion> in the quarantine directory.

Emotions: joy, love, surprise, anger, sadness, fear, or "all".`,
	Args:      cobra.MatchAll(cobra.ExactArgs(4), validateEmotionArg),
	ValidArgs: emotionChoices(),
	RunE:      runImport,
}

func init() {
	importCmd.Flags().BoolVarP(&importWatch, "watch", "w", false,
		"Wait for result files to appear and import each as it settles")
	rootCmd.AddCommand(importCmd)
}

func emotionChoices() []string {
	choices := []string{domain.LabelAll}
	for _, label := range domain.Labels() {
		choices = append(choices, label.String())
	}
	return choices
}

func validateEmotionArg(_ *cobra.Command, args []string) error {
	if !slices.Contains(emotionChoices(), args[2]) {
		return fmt.Errorf("%w: %q (choose from %v)", domain.ErrUnknownLabel, args[2], emotionChoices())
	}
	return nil
}

// selectLabels expands an emotion argument into labels.
func selectLabels(emotion string) ([]domain.Label, error) {
	if emotion == domain.LabelAll {
		return domain.Labels(), nil
	}
	label, err := domain.ParseLabel(emotion)
	if err != nil {
		return nil, err
	}
	return []domain.Label{label}, nil
}

func runImport(cmd *cobra.Command, args []string) error {
	database, collection, emotion, filename := args[0], args[1], args[2], args[3]
	labels, err := selectLabels(emotion)
	if err != nil {
		return err
	}

	return withSession(cmd, database, func(s *Session, settings domain.AppSettings) error {
		if s.Reconciler == nil {
			return errors.New("reconcile service not configured")
		}
		ctx := context.Background()

		if importWatch {
			cmd.Printf("Waiting for results of %s...\n", filename)
			debounce := time.Duration(settings.Watch.DebounceMS) * time.Millisecond
			w := watch.New(settings.Results.Dir, filename, debounce)
			return w.Run(ctx, labels, func(label domain.Label) error {
				res, err := s.Reconciler.ReconcileLabel(ctx, collection, label, filename)
				printLabelResult(cmd, *res, err)
				return err
			})
		}

		if emotion == domain.LabelAll {
			results, err := s.Reconciler.ReconcileAll(ctx, collection, filename)
			failed := 0
			for _, res := range results {
				printLabelResult(cmd, res, res.Err)
				if res.Err != nil {
					failed++
				}
			}
			if err != nil {
				cmd.Println(mutedStyle.Render(fmt.Sprintf("%d of %d labels failed", failed, len(results))))
				return &ReportedError{Err: fmt.Errorf("import incomplete: %w", err)}
			}
			return nil
		}

		res, err := s.Reconciler.ReconcileLabel(ctx, collection, labels[0], filename)
		printLabelResult(cmd, *res, err)
		if err != nil {
			return &ReportedError{Err: err}
		}
		return nil
	})
}

func printLabelResult(cmd *cobra.Command, res driving.LabelResult, err error) {
	if err != nil {
		cmd.Printf("%-8s %s\n", res.Label, errorStyle.Render(err.Error()))
		return
	}
	line := fmt.Sprintf("%-8s %s %d merged", res.Label, res.Path, res.Merged)
	if res.Rejected > 0 {
		cmd.Printf("%s, %s\n", line, warningStyle.Render(fmt.Sprintf("%d quarantined", res.Rejected)))
		return
	}
	cmd.Println(successStyle.Render(line))
}
