package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "issuebadge",
	Short: "issuebadge serves GitHub issue and pull request status badges",
	Long: `issuebadge is an HTTP service that renders small status badges for a single
GitHub issue or pull request: its state, milestone, title, author, labels,
comment count, age, or time of last update. It can also host the OAuth
acceptor routes that complete a GitHub authorization-code exchange.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
