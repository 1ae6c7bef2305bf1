package commands

import (
	"github.com/spf13/cobra"
)

var (
	// addr is the introspection server's listen address for `run` and
	// its target address for `status`.
	addr string

	// outputFormat controls how `status` prints what it finds.
	outputFormat string
)

// rootCmd is the base command for the actorkitd CLI.
var rootCmd = &cobra.Command{
	Use:   "actorkitd",
	Short: "actorkit example pipeline runner and status client",
	Long: `actorkitd runs actorkit's example Producer/Processor/Consumer
pipeline task plus its introspection server, and can also query a
running instance's health and task roster.`,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&addr, "addr", "localhost:8080",
		"introspection server address",
	)
	rootCmd.PersistentFlags().StringVar(
		&outputFormat, "format", "text",
		"output format: text, json",
	)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statusCmd)
}
