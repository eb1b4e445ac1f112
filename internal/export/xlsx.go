package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/railops/rakeprep/internal/types"
)

// SheetName is the worksheet written by WriteXLSX.
const SheetName = "Shipments"

// WriteXLSX writes shipments to a new workbook at path.
//
// The header row is the canonical column set, so the workbook can be fed
// back into the pipeline. Wagon counts and costs are stored as numbers and
// ETAs as RFC 3339 text.
func WriteXLSX(path string, shipments []types.Shipment) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]any, 0, len(types.Columns))
	for _, col := range types.Columns {
		header = append(header, col)
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, s := range shipments {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}

		row := []any{
			s.RakeID,
			s.Cargo,
			s.LoadingPoint,
			s.Destination,
			s.WagonCount,
			FormatETA(s.ETA),
			s.CurrentCost,
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	return nil
}
