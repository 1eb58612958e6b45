package pricing

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"hotelPricing/domain"
)

const maxSheetName = 31

var sheetNameReplacer = strings.NewReplacer(":", "_", "\\", "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_")

var exportHeader = []interface{}{
	"date",
	"demand_probability",
	"price_multiplier",
	"suggested_price",
	"final_price",
	"is_override",
	"override_notes",
	"contribution_margin",
	"contribution_margin_percentage",
	"expected_bookings",
	"expected_revenue",
	"expected_contribution",
}

// Export generates recommendations and writes them to w as an xlsx workbook.
func (s *Service) Export(ctx context.Context, req domain.RecommendationRequest, w io.Writer) error {
	recs, err := s.Generate(ctx, req)
	if err != nil {
		return err
	}
	return WriteWorkbook(w, recs)
}

// WriteWorkbook renders one sheet per room type, one row per date.
func WriteWorkbook(w io.Writer, recs domain.HotelRecommendations) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	defaultSheet := f.GetSheetName(f.GetActiveSheetIndex())

	for i, id := range sortedRoomTypeIDs(recs.Recommendations) {
		rt := recs.Recommendations[id]
		sheet := sheetName(rt)
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, sheet); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("create sheet %q: %w", sheet, err)
		}

		header := exportHeader
		if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}

		for j, p := range rt.Prices {
			row := []interface{}{
				p.Date.String(),
				p.DemandProbability,
				p.PriceMultiplier,
				p.SuggestedPrice,
				p.FinalPrice,
				p.IsOverride,
				p.OverrideNotes,
				p.ContributionMargin,
				p.ContributionMarginPercentage,
				p.ExpectedBookings,
				p.ExpectedRevenue,
				p.ExpectedContribution,
			}
			cell, err := excelize.CoordinatesToCellName(1, j+2)
			if err != nil {
				return fmt.Errorf("cell name: %w", err)
			}
			if err := f.SetSheetRow(sheet, cell, &row); err != nil {
				return fmt.Errorf("write row %d: %w", j+2, err)
			}
		}
	}

	if sheets := f.GetSheetList(); len(sheets) > 0 {
		if idx, err := f.GetSheetIndex(sheets[0]); err == nil {
			f.SetActiveSheet(idx)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// sheetName keeps names unique across room types and within Excel's limit.
func sheetName(rt domain.RoomTypeRecommendations) string {
	name := sheetNameReplacer.Replace(fmt.Sprintf("%d %s", rt.RoomTypeID, rt.RoomTypeName))
	if r := []rune(name); len(r) > maxSheetName {
		name = string(r[:maxSheetName])
	}
	return name
}
