package main

import (
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"github.com/covenant/covenant-terminal/cmd/commands"
	"github.com/covenant/covenant-terminal/internal/cli"
	"github.com/covenant/covenant-terminal/pkg/files"
	"github.com/covenant/covenant-terminal/pkg/tui"
)

// Version is set during build with -ldflags
var version = "dev"

var (
	quiet        bool
	noColor      bool
	yes          bool
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "covenant",
	Short: "Terminal builders for reading plans and forms",
	Long:  `Covenant lays out reading plans and sign-up forms in the terminal and saves them to your church's Covenant backend.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cli.SetGlobalFlags(quiet, noColor, yes)
		tui.Version = version
	},
	Run: func(cmd *cobra.Command, args []string) {
		if _, err := os.Stat(files.CovenantDir); os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Error: No %s directory found in the current directory.\n", files.CovenantDir)
			fmt.Fprintf(os.Stderr, "Please run 'covenant init' first to initialize a new project.\n")
			os.Exit(1)
		}

		if err := commands.RunTUI(tui.StartHome, ""); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			fmt.Fprintf(os.Stderr, "This could be due to terminal compatibility issues. Try running in a different terminal.\n")
			os.Exit(1)
		}
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new Covenant project",
	Long:  `Creates the .covenant folder structure and default settings in the current directory`,
	Run: func(cmd *cobra.Command, args []string) {
		cwd, err := os.Getwd()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: Failed to determine current directory: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Initializing Covenant project in %s...\n", cwd)

		if err := files.InitProjectStructure(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: Failed to initialize project structure: %v\n", err)
			fmt.Fprintf(os.Stderr, "Make sure you have write permissions in the current directory.\n")
			os.Exit(1)
		}

		cli.PrintSuccess("Created %s folder structure", files.CovenantDir)
		cli.PrintInfo("Point api.base_url in %s/%s at your Covenant API", files.CovenantDir, files.SettingsFile)
		fmt.Println("\nRun 'covenant' to start the builders.")
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of Covenant",
	Long:  `Display the current version of the Covenant terminal builders`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Covenant version %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress informational output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&yes, "yes", "y", false, "Answer yes to confirmations")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "Output format (text, json, yaml)")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(commands.NewPlanCommand())
	rootCmd.AddCommand(commands.NewFormCommand())
	rootCmd.AddCommand(commands.NewExportCommand())
	rootCmd.AddCommand(commands.NewImportCommand())
	rootCmd.AddCommand(commands.NewFoldersCommand())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: Command execution failed: %v\n", err)
		os.Exit(1)
	}
}
