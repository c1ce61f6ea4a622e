package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/covenant/covenant-terminal/internal/cli"
	"github.com/covenant/covenant-terminal/pkg/files"
)

var (
	exportToFile    string
	exportClipboard bool
)

// copyToClipboard is replaced in tests
var copyToClipboard = clipboard.WriteAll

// NewExportCommand creates the export command
func NewExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <plan|form> <id>",
		Short: "Export a plan or form as JSON",
		Long: `Export a saved plan or form in the portable JSON format.

By default the JSON is written to stdout. Use --file to write it into
.covenant/exports (a bare name) or to a path, and --clipboard to copy it.

Examples:
  # Print a plan
  covenant export plan plan-42

  # Save a form export under .covenant/exports
  covenant export form form-7 --file sign-up

  # Copy a plan to the clipboard
  covenant export plan plan-42 --clipboard`,
		Args: cobra.ExactArgs(2),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.NewCommandContext().ValidateProject(); err != nil {
				return err
			}
			if err := cli.ValidateDocumentKind(args[0]); err != nil {
				return err
			}
			return cli.ValidateDocumentID(args[1])
		},
		RunE: runExport,
	}

	cmd.Flags().StringVarP(&exportToFile, "file", "f", "", "Write to an export file instead of stdout")
	cmd.Flags().BoolVarP(&exportClipboard, "clipboard", "c", false, "Copy the JSON to the clipboard")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	kind, id := strings.ToLower(args[0]), args[1]

	ctx := cli.NewCommandContext()
	defer ctx.Close()
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	s := newSession(kind, client, ctx.OpenLogger())
	defer s.Close()
	if err := s.Open(context.Background(), id); err != nil {
		return fmt.Errorf("failed to load %s %s: %s", kind, id, cli.ErrorMessage(err))
	}
	data, err := s.Export()
	if err != nil {
		return fmt.Errorf("failed to export %s: %w", kind, err)
	}

	if exportClipboard {
		if err := copyToClipboard(string(data)); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		cli.PrintSuccess("Copied %s '%s' to the clipboard", kind, documentName(s))
	}

	if exportToFile != "" {
		path, err := files.WriteExport(exportToFile, data)
		if err != nil {
			return err
		}
		cli.PrintSuccess("%s '%s' exported to: %s", strings.ToUpper(kind[:1])+kind[1:], documentName(s), path)
	}

	if !exportClipboard && exportToFile == "" {
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	}
	return nil
}
