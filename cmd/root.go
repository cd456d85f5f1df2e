package cmd

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:   "stockvue",
	Short: "Stock watchlist and price prediction backend",
}

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(migrateCmd)
}

func Execute() error {
	return rootCmd.Execute()
}
