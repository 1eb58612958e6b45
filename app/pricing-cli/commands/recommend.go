package commands

import (
	"fmt"
	"io"
	"os"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"hotelPricing/business/pricing"
	"hotelPricing/domain"
)

func RecommendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Generate price recommendations for a hotel",
		RunE: func(cmd *cobra.Command, args []string) error {
			hotelID, _ := cmd.Flags().GetUint("hotel")
			roomTypeID, _ := cmd.Flags().GetUint("room-type")
			days, _ := cmd.Flags().GetInt("days")
			save, _ := cmd.Flags().GetBool("save")
			export, _ := cmd.Flags().GetString("export")
			start, err := startFlag(cmd)
			if err != nil {
				return err
			}

			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.close()
			svc, err := e.services()
			if err != nil {
				return err
			}

			req := domain.RecommendationRequest{
				HotelID:    hotelID,
				StartDate:  start,
				Days:       days,
				RoomTypeID: roomTypeID,
			}

			var recs domain.HotelRecommendations
			if save {
				var saved int
				recs, saved, err = svc.Pricing.Save(cmd.Context(), req)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved %d pricing rows.\n", saved)
			} else {
				recs, err = svc.Pricing.Generate(cmd.Context(), req)
				if err != nil {
					return err
				}
			}

			if export != "" {
				if err := writeWorkbookFile(export, recs); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Workbook written to %s\n", export)
				return nil
			}
			return printRecommendations(cmd.OutOrStdout(), recs)
		},
	}

	cmd.Flags().Uint("hotel", 0, "hotel id")
	cmd.Flags().Uint("room-type", 0, "room type id, all active room types when omitted")
	cmd.Flags().String("start", "", "first date (YYYY-MM-DD), today when omitted")
	cmd.Flags().Int("days", 30, "number of days")
	cmd.Flags().Bool("save", false, "persist the suggestions, keeping manual overrides")
	cmd.Flags().String("export", "", "write an xlsx workbook to this path instead of printing")
	_ = cmd.MarkFlagRequired("hotel")
	return cmd
}

func writeWorkbookFile(path string, recs domain.HotelRecommendations) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := pricing.WriteWorkbook(f, recs); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func printRecommendations(out io.Writer, recs domain.HotelRecommendations) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tROOM TYPE\tDEMAND\tMULT\tSUGGESTED\tFINAL\tMARGIN %\tOVERRIDE")
	for _, id := range sortedIDs(recs.Recommendations) {
		for _, p := range recs.Recommendations[id].Prices {
			fmt.Fprintf(w, "%s\t%s\t%.3f\t%.2f\t%.2f\t%.2f\t%.1f\t%t\n",
				p.Date, p.RoomTypeName, p.DemandProbability, p.PriceMultiplier,
				p.SuggestedPrice, p.FinalPrice, p.ContributionMarginPercentage, p.IsOverride)
		}
	}
	return w.Flush()
}

func sortedIDs(m map[uint]domain.RoomTypeRecommendations) []uint {
	ids := make([]uint, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
