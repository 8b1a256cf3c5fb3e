package main

import (
	"os"

	"github.com/spf13/cobra"

	"mtreview/cmd/review"
)

var rootCmd = &cobra.Command{
	Use:          "mtreview",
	Short:        "machine translation review platform",
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(review.StartCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
