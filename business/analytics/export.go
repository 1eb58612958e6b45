package analytics

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"hotelPricing/domain"
)

const exportSheet = "Analytics"

var exportHeader = []interface{}{
	"date",
	"room_type_id",
	"room_type_name",
	"base_price",
	"variable_cost",
	"inventory",
	"suggested_price",
	"final_price",
	"is_override",
	"forecasted_demand",
	"forecasted_occupancy",
	"occupied_rooms",
	"revenue",
	"total_variable_cost",
	"contribution",
	"contribution_margin",
}

// Export writes the rows of ExportRows to w as a single-sheet xlsx workbook.
func (s *analyticsService) Export(ctx context.Context, q domain.AnalyticsRange, w io.Writer) error {
	data, err := s.ExportRows(ctx, q)
	if err != nil {
		return err
	}
	return WriteWorkbook(w, data)
}

func WriteWorkbook(w io.Writer, data domain.AnalyticsExport) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), exportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := exportHeader
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, r := range data.Rows {
		row := []interface{}{
			r.Date.String(),
			r.RoomTypeID,
			r.RoomTypeName,
			r.BasePrice,
			r.VariableCost,
			r.Inventory,
			r.SuggestedPrice,
			r.FinalPrice,
			r.IsOverride,
			r.ForecastedDemand,
			r.ForecastedOccupancy,
			r.OccupiedRooms,
			r.Revenue,
			r.TotalVariableCost,
			r.Contribution,
			r.ContributionMargin,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
