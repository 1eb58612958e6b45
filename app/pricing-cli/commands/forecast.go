package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"hotelPricing/domain"
)

func TrainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train demand models for a hotel",
		RunE: func(cmd *cobra.Command, args []string) error {
			hotelID, _ := cmd.Flags().GetUint("hotel")
			roomTypeID, _ := cmd.Flags().GetUint("room-type")
			model, _ := cmd.Flags().GetString("model")

			modelType := domain.ModelType(model)
			switch modelType {
			case domain.ModelSeasonal, domain.ModelRegression, domain.ModelCombined:
			default:
				return fmt.Errorf("unknown model %q, expected seasonal, regression or combined", model)
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

			results, err := svc.Forecast.Train(cmd.Context(), domain.TrainRequest{
				HotelID:    hotelID,
				RoomTypeID: roomTypeID,
				ModelType:  modelType,
			})
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ROOM TYPE\tMODEL\tVERSION\tHISTORY\tPOINTS")
			for _, r := range results {
				fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%d\n", r.RoomTypeID, r.ModelType, r.ModelVersion, r.HistorySource, r.HistoryPoints)
			}
			return w.Flush()
		},
	}

	cmd.Flags().Uint("hotel", 0, "hotel id")
	cmd.Flags().Uint("room-type", 0, "room type id, all active room types when omitted")
	cmd.Flags().String("model", string(domain.ModelCombined), "seasonal, regression or combined")
	_ = cmd.MarkFlagRequired("hotel")
	return cmd
}

func ForecastCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Print the demand forecast of a room type",
		RunE: func(cmd *cobra.Command, args []string) error {
			hotelID, _ := cmd.Flags().GetUint("hotel")
			roomTypeID, _ := cmd.Flags().GetUint("room-type")
			days, _ := cmd.Flags().GetInt("days")
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

			fc, err := svc.Forecast.Forecast(cmd.Context(), domain.ForecastRequest{
				HotelID:    hotelID,
				RoomTypeID: roomTypeID,
				StartDate:  start,
				Days:       days,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s (model v%d)\n", fc.RoomTypeName, fc.ModelVersion)
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tDEMAND\tSEASONAL\tREGRESSION")
			for _, p := range fc.Forecast {
				fmt.Fprintf(w, "%s\t%.3f\t%.3f\t%.3f\n", p.Date, p.DemandProbability, p.SeasonalComponent, p.RegressionComponent)
			}
			return w.Flush()
		},
	}

	cmd.Flags().Uint("hotel", 0, "hotel id")
	cmd.Flags().Uint("room-type", 0, "room type id")
	cmd.Flags().String("start", "", "first date (YYYY-MM-DD), today when omitted")
	cmd.Flags().Int("days", 30, "number of days")
	_ = cmd.MarkFlagRequired("hotel")
	_ = cmd.MarkFlagRequired("room-type")
	return cmd
}

func startFlag(cmd *cobra.Command) (domain.Date, error) {
	s, _ := cmd.Flags().GetString("start")
	if s == "" {
		return domain.Today(), nil
	}
	return domain.ParseDate(s)
}
