package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/covenant/covenant-terminal/internal/cli"
	"github.com/covenant/covenant-terminal/pkg/lifecycle"
)

var (
	importInto   string
	importFolder string
)

// NewImportCommand creates the import command
func NewImportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <plan|form> <file>",
		Short: "Import a plan or form from an export file and save it",
		Long: `Import a plan or form export and save it to the remote store.

The file is a path or the name of an export in .covenant/exports. The
document is saved as a new one unless --into names an existing document
to replace. When the name is already taken you are asked before the
existing document is overridden (--yes answers for you).

Examples:
  # Create a plan from an export
  covenant import plan plan-advent

  # Replace an existing form, keeping its id
  covenant import form ./sign-up.json --into form-7

  # Import a form into a folder
  covenant import form sign-up --folder folder-3`,
		Args: cobra.ExactArgs(2),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.NewCommandContext().ValidateProject(); err != nil {
				return err
			}
			if err := cli.ValidateDocumentKind(args[0]); err != nil {
				return err
			}
			if importInto != "" {
				return cli.ValidateDocumentID(importInto)
			}
			return nil
		},
		RunE: runImport,
	}

	cmd.Flags().StringVar(&importInto, "into", "", "Existing document to replace")
	cmd.Flags().StringVar(&importFolder, "folder", "", "Folder for an imported form")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	kind, name := strings.ToLower(args[0]), args[1]
	if importFolder != "" && kind != "form" {
		return fmt.Errorf("--folder only applies to forms")
	}

	data, err := readImportFile(name)
	if err != nil {
		return err
	}

	ctx := cli.NewCommandContext()
	defer ctx.Close()
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	bg := context.Background()
	s := newSession(kind, client, ctx.OpenLogger())
	defer s.Close()
	if importInto != "" {
		if err := s.Open(bg, importInto); err != nil {
			return fmt.Errorf("failed to load %s %s: %s", kind, importInto, cli.ErrorMessage(err))
		}
	}
	if err := s.Import(data); err != nil {
		return fmt.Errorf("invalid %s export %s: %w", kind, name, err)
	}
	if fs, ok := s.(formSession); ok && importFolder != "" {
		if err := fs.form.SetProperty("folder", importFolder); err != nil {
			return err
		}
	}

	if s.Phase() == lifecycle.Clean {
		cli.PrintInfo("%s '%s' is unchanged", kind, documentName(s))
		return nil
	}
	if err := saveWithConfirm(bg, s, kind); err != nil {
		return fmt.Errorf("failed to save %s: %s", kind, cli.ErrorMessage(err))
	}

	cli.PrintSuccess("Saved %s '%s' as %s", kind, documentName(s), documentID(s))
	return nil
}
