package excel

import (
	"fmt"
	"io"

	"address-heatmap/internal/models"

	"github.com/xuri/excelize/v2"
)

const summarySheet = "Summary"

// WriteSummary writes the per-pincode summary as an xlsx workbook to w.
func WriteSummary(w io.Writer, rows []models.PincodeSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(summarySheet)
	if err != nil {
		return err
	}

	// Use Stream Writer for performance
	sw, err := f.NewStreamWriter(summarySheet)
	if err != nil {
		return err
	}

	headers := []interface{}{
		"Pincode", "City", "State", "Customer Count", "Percentage",
	}
	if err := sw.SetRow("A1", headers); err != nil {
		return err
	}

	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{
			r.Pincode, r.City, r.State, r.Count, formatPercentage(r.Percentage),
		}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}

	if err := sw.Flush(); err != nil {
		return err
	}

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	return f.Write(w)
}

func formatPercentage(pct float64) string {
	if pct < 1 {
		return "<1%"
	}
	return fmt.Sprintf("%.1f%%", pct)
}
