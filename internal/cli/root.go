package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tend",
	Short: "Engagement engine for reflections, practices, and check-ins",
	Long:  "Tend turns timestamped activity into streaks, achievements, session continuity, and personalization signals. Single Go binary.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
}
