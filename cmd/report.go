package cmd

import "github.com/spf13/cobra"

// reportCmd is the explicit form of the root command
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the license report of every registered service",
	Args:  cobra.NoArgs,
	RunE:  generateReport,
}

func init() {
	RootCmd.AddCommand(reportCmd)
}
