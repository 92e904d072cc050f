package cmd

import (
	"github.com/spf13/cobra"
)

// playCmd is what the bare mathsquiz command runs.
var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start the quiz",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runApp(cmd)
	},
}
