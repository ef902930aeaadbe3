package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/labelsync/internal/core/domain"
	"github.com/custodia-labs/labelsync/internal/core/ports/driving"
)

// identifierMessage is printed when the identifier is not one character.
const identifierMessage = "Identifier can only have the length of 1! Please try again."

var exportCmd = &cobra.Command{
	Use:   "export <database> <collection> <identifier> <startpoint> <endpoint> <new_filename>",
	Short: "Export a range of records for classification",
	Long: `Writes records [startpoint, endpoint) of a collection to
<new_filename>_<startpoint>_<endpoint>.csv with an "id;text" header.

Each id is prefixed with the one-character identifier so that lists from
different sources can be told apart. An endpoint past the end of the
collection is clamped; the file name keeps the requested bounds.`,
	Args: cobra.ExactArgs(6),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	database, collection, identifier := args[0], args[1], args[2]

	if err := domain.ValidateIdentifier(identifier); err != nil {
		if !domain.IdentifierLengthValid(identifier) {
			cmd.Println(identifierMessage)
			return &ReportedError{Err: err}
		}
		return err
	}
	start, err := parseBound("startpoint", args[3])
	if err != nil {
		return err
	}
	end, err := parseBound("endpoint", args[4])
	if err != nil {
		return err
	}

	return withSession(cmd, database, func(s *Session, settings domain.AppSettings) error {
		if s.Exporter == nil {
			return errors.New("export service not configured")
		}
		res, err := s.Exporter.Export(context.Background(), driving.ExportRequest{
			Collection: collection,
			Identifier: identifier,
			Start:      start,
			End:        end,
			BaseName:   args[5],
			Dir:        settings.Export.Dir,
		})
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		cmd.Printf("%s %d records to %s\n",
			successStyle.Render("Exported"), res.Written, titleStyle.Render(res.Path))
		return nil
	})
}

func parseBound(name, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", name, value)
	}
	return n, nil
}
