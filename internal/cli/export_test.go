package cli

import (
	"path/filepath"
	"testing"

	"subtrack/internal/models"

	"github.com/xuri/excelize/v2"
)

func TestExportXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subs.xlsx")
	subs := []models.SubscriptionView{
		{
			ID: 1, Name: "Video", Cost: 9.99, BillingCycle: "monthly",
			StartDate: "2025-01-15", RenewalDate: "2025-09-15",
			MonthlyCost: f(9.99), AnnualCost: f(119.88),
		},
		{
			ID: 2, Name: "Music", Cost: 120, BillingCycle: "annually",
			StartDate: "2024-03-01", RenewalDate: "2026-03-01",
			MonthlyCost: nil, AnnualCost: f(120),
		},
	}

	if err := ExportXLSX(path, subs); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	header, err := f.GetCellValue("Sheet1", "B1")
	if err != nil || header != "Name" {
		t.Fatalf("unexpected header cell %q (err %v)", header, err)
	}
	name, err := f.GetCellValue("Sheet1", "B2")
	if err != nil || name != "Video" {
		t.Fatalf("unexpected name cell %q (err %v)", name, err)
	}
	// A nil monthly cost exports as an empty cell
	monthly, err := f.GetCellValue("Sheet1", "G3")
	if err != nil || monthly != "" {
		t.Fatalf("expected empty cell for nil monthly cost, got %q (err %v)", monthly, err)
	}
}
