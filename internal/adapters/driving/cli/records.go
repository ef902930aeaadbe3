package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/labelsync/internal/core/domain"
)

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Load and inspect records",
}

var recordsLoadCmd = &cobra.Command{
	Use:   "load <database> <collection> <file.jsonl>",
	Short: "Load records from a JSON lines file",
	Long: `Inserts one record per line of a JSON lines file. Each line must be an
object with a "text" field; other fields are ignored. Use "-" to read
from standard input.`,
	Args: cobra.ExactArgs(3),
	RunE: runRecordsLoad,
}

var recordsShowCmd = &cobra.Command{
	Use:   "show <database> <collection> <id>",
	Short: "Show a record and its annotations",
	Args:  cobra.ExactArgs(3),
	RunE:  runRecordsShow,
}

func init() {
	recordsCmd.AddCommand(recordsLoadCmd)
	recordsCmd.AddCommand(recordsShowCmd)
	rootCmd.AddCommand(recordsCmd)
}

func runRecordsLoad(cmd *cobra.Command, args []string) error {
	database, collection, path := args[0], args[1], args[2]

	in := cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		in = f
	}

	return withSession(cmd, database, func(s *Session, _ domain.AppSettings) error {
		if s.Records == nil {
			return errors.New("record service not configured")
		}
		n, err := s.Records.Load(context.Background(), collection, in)
		cmd.Printf("Loaded %d records into %s\n", n, collection)
		if err != nil {
			return fmt.Errorf("load stopped: %w", err)
		}
		return nil
	})
}

func runRecordsShow(cmd *cobra.Command, args []string) error {
	database, collection := args[0], args[1]
	id, err := strconv.ParseInt(args[2], 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %q", domain.ErrInvalidID, args[2])
	}

	return withSession(cmd, database, func(s *Session, _ domain.AppSettings) error {
		if s.Records == nil {
			return errors.New("record service not configured")
		}
		rec, err := s.Records.Get(context.Background(), collection, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("record %d not found in %s", id, collection)
			}
			return err
		}

		cmd.Println(titleStyle.Render(fmt.Sprintf("Record %s", rec.IDString())))
		cmd.Printf("  Collection: %s\n", rec.Collection)
		cmd.Printf("  Text:       %s\n", rec.Text)
		cmd.Println("  Annotations:")
		annotated := false
		for _, label := range domain.Labels() {
			value, ok := rec.Annotations[label.String()]
			if !ok {
				continue
			}
			annotated = true
			cmd.Printf("    %-8s %t\n", label, value)
		}
		if !annotated {
			cmd.Println(mutedStyle.Render("    (none)"))
		}
		return nil
	})
}
