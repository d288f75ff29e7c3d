package cli

import (
	"fmt"

	"subtrack/internal/models"

	"github.com/xuri/excelize/v2"
)

// ExportXLSX writes the subscription table to an Excel workbook.
func ExportXLSX(path string, subs []models.SubscriptionView) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	headers := []string{"ID", "Name", "Cost", "Billing Cycle", "Start Date", "Renewal Date", "Monthly Cost", "Annual Cost"}
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("building header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, sub := range subs {
		values := []interface{}{
			sub.ID,
			sub.Name,
			sub.Cost,
			sub.BillingCycle,
			sub.StartDate,
			sub.RenewalDate,
			optionalCell(sub.MonthlyCost),
			optionalCell(sub.AnnualCost),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("building cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("writing row %d: %w", i+1, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

func optionalCell(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}
