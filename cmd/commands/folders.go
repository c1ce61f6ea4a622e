package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/covenant/covenant-terminal/internal/cli"
	"github.com/covenant/covenant-terminal/pkg/lifecycle"
	"github.com/covenant/covenant-terminal/pkg/models"
)

// FoldersResult represents the output structure for the folders command
type FoldersResult struct {
	Folders []models.Folder `json:"folders" yaml:"folders"`
	Count   int             `json:"count" yaml:"count"`
}

// NewFoldersCommand creates the folders command
func NewFoldersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "folders",
		Short: "List form folders",
		Long: `List the folders forms are filed under.

Examples:
  # List folders
  covenant folders

  # List folders as JSON
  covenant folders -o json

  # Create a folder
  covenant folders create "Youth Ministry"`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.NewCommandContext().ValidateProject(); err != nil {
				return err
			}
			if format, _ := cmd.Flags().GetString("output"); format != "" {
				return cli.ValidateOutputFormat(format)
			}
			return nil
		},
		RunE: runFolders,
	}

	cmd.AddCommand(newFolderCreateCommand())

	return cmd
}

func newFolderCreateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a form folder",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.NewCommandContext().ValidateProject(); err != nil {
				return err
			}
			return cli.ValidateFolderName(args[0])
		},
		RunE: runFolderCreate,
	}
}

func runFolders(cmd *cobra.Command, args []string) error {
	ctx := cli.NewCommandContext()
	defer ctx.Close()
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	picker := lifecycle.NewFolderPicker(client.Folders())
	if err := picker.Refresh(context.Background()); err != nil {
		return fmt.Errorf("failed to list folders: %w", err)
	}
	list := picker.Folders()

	format, _ := cmd.Flags().GetString("output")
	if len(list) == 0 && (format == "" || format == cli.FormatText) {
		cli.PrintInfo("No folders yet. Create one with 'covenant folders create <name>'")
		return nil
	}
	return cli.OutputResults(cmd.OutOrStdout(), format, FoldersResult{Folders: list, Count: len(list)})
}

// WriteText lists the folders as an ID/NAME table.
func (r FoldersResult) WriteText(w io.Writer) error {
	table := cli.NewTable(w, "ID", "NAME")
	for _, f := range r.Folders {
		table.Row(f.ID, cli.Clip(f.Name, 60))
	}
	return table.Flush()
}

func runFolderCreate(cmd *cobra.Command, args []string) error {
	ctx := cli.NewCommandContext()
	defer ctx.Close()
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	picker := lifecycle.NewFolderPicker(client.Folders())
	if err := picker.Refresh(context.Background()); err != nil {
		return fmt.Errorf("failed to list folders: %w", err)
	}
	f, err := picker.Create(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to create folder: %w", err)
	}

	cli.PrintSuccess("Created folder '%s' (%s)", f.Name, f.ID)
	return nil
}
