package commands

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/covenant/covenant-terminal/internal/cli"
	"github.com/covenant/covenant-terminal/pkg/files"
	"github.com/covenant/covenant-terminal/pkg/tui"
)

var (
	planID  string
	planNew bool
	formID  string
	formNew bool
)

// NewPlanCommand creates the plan command
func NewPlanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Open the reading plan builder",
		Long: `Open the reading plan builder in the terminal.

Without flags the builder starts on a blank plan.

Examples:
  # Start a new plan
  covenant plan --new

  # Edit an existing plan
  covenant plan --id plan-42`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if planID != "" {
				return cli.ValidateDocumentID(planID)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunTUI(tui.StartPlan, planID)
		},
	}

	cmd.Flags().StringVar(&planID, "id", "", "Plan to load")
	cmd.Flags().BoolVar(&planNew, "new", false, "Start a blank plan")
	cmd.MarkFlagsMutuallyExclusive("id", "new")

	return cmd
}

// NewFormCommand creates the form command
func NewFormCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "form",
		Short: "Open the form builder",
		Long: `Open the form builder in the terminal.

Without flags the builder starts on a blank form.

Examples:
  # Start a new form
  covenant form --new

  # Edit an existing form
  covenant form --load form-7`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if formID != "" {
				return cli.ValidateDocumentID(formID)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunTUI(tui.StartForm, formID)
		},
	}

	cmd.Flags().StringVar(&formID, "load", "", "Form to load")
	cmd.Flags().BoolVar(&formNew, "new", false, "Start a blank form")
	cmd.MarkFlagsMutuallyExclusive("load", "new")

	return cmd
}

// RunTUI launches the builders against the configured remote store.
func RunTUI(start tui.Start, id string) error {
	ctx := cli.NewCommandContext()
	if err := ctx.ValidateProject(); err != nil {
		return err
	}
	defer ctx.Close()

	settings, err := ctx.LoadSettings()
	if err != nil {
		return err
	}
	client, err := ctx.Client()
	if err != nil {
		return err
	}
	logger := ctx.OpenLogger()

	app := tui.NewApp(tui.Options{
		Plans:      client.Plans(),
		Forms:      client.Forms(),
		Folders:    client.Folders(),
		Signal:     files.DefaultFlagStore(),
		Builder:    settings.Builder,
		UI:         settings.UI,
		Logger:     logger,
		Start:      start,
		DocumentID: id,
	})
	logger.Info("starting builders", "start", start, "id", id)

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to start the terminal user interface: %w", err)
	}
	return nil
}
