package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"hotelPricing/internal/seed"
)

func SeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the demo hotels, room types and pricing rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.close()

			sum, err := seed.Run(cmd.Context(), e.db)
			if err != nil {
				return err
			}
			if sum.Skipped {
				fmt.Fprintln(cmd.OutOrStdout(), "Hotels already present, nothing seeded.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d hotels, %d room types, %d rules.\n", sum.Hotels, sum.RoomTypes, sum.Rules)
			return nil
		},
	}
}
