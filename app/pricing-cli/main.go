package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hotelPricing/app/pricing-cli/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "pricing-cli",
		Short:        "Hotel pricing maintenance tool",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		commands.MigrateCmd(),
		commands.SeedCmd(),
		commands.TrainCmd(),
		commands.ForecastCmd(),
		commands.RecommendCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
