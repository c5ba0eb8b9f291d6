package service

import (
	"fmt"
	"strings"

	"github.com/bitfantasy/ppv-engine/internal/ppv/entity"
	"github.com/xuri/excelize/v2"
)

// ExportService renders a PO analysis as an xlsx workbook for analysts.
type ExportService struct{}

func NewExportService() *ExportService {
	return &ExportService{}
}

var exportHeaders = []string{
	"PO", "Item", "Material", "Supplier",
	"PO Price (EUR)", "Posted Price (EUR)", "A2A Price (EUR)",
	"PPV Posted %", "PPV A2A %",
	"FX (EUR)", "Conditions (EUR)", "UoM (EUR)", "Residual (EUR)",
	"Net Qty", "Net Spend (EUR)",
	"Root Causes", "Market Context",
}

// BuildWorkbook writes one row per analyzed item plus a summary block.
// Returns the file and its suggested filename.
func (s *ExportService) BuildWorkbook(analysis *entity.POAnalysis) (*excelize.File, string, error) {
	f := excelize.NewFile()
	sheet := "PPV"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for i, h := range exportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	row := 2
	for i := range analysis.Results {
		r := &analysis.Results[i]
		context := ""
		if r.ExternalContext != nil {
			context = r.ExternalContext.Sentence
			if r.ExternalContext.SourceLink != "" {
				context += " (" + r.ExternalContext.SourceLink + ")"
			}
		}
		values := []interface{}{
			r.PurchaseOrder, r.PurchaseOrderItem, r.Material, r.Supplier,
			r.POUnitPriceEUR, r.PostedUnitPriceEUR, r.A2AUnitPriceEUR,
			r.PpvPostedPct, r.PpvA2APct,
			r.Contributions.FX, r.Contributions.Conditions, r.Contributions.UoM, r.Contributions.Residual,
			r.NetQuantity, r.NetSpendEUR,
			strings.Join(r.RootCauses, "; "), context,
		}
		for j, v := range values {
			col, _ := excelize.ColumnNumberToName(j + 1)
			f.SetCellValue(sheet, fmt.Sprintf("%s%d", col, row), v)
		}
		row++
	}

	for i := range analysis.Failures {
		fail := &analysis.Failures[i]
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), analysis.PurchaseOrder)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), fail.PurchaseOrderItem)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), "SKIPPED: "+fail.Kind)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), fail.Reason)
		row++
	}

	if analysis.Summary != nil {
		row++
		sm := analysis.Summary
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Summary")
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), boldStyle)
		rows := [][2]interface{}{
			{"Items", sm.ItemCount},
			{"Failed", sm.FailedCount},
			{"Flagged", sm.FlaggedCount},
			{"Total Spend (EUR)", sm.TotalSpendEUR},
			{"Weighted PPV %", sm.WeightedPpvPct},
			{"Potential Savings (EUR)", sm.PotentialSavingsEUR},
		}
		for _, kv := range rows {
			row++
			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), kv[0])
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), kv[1])
		}
	}

	name := fmt.Sprintf("ppv_%s.xlsx", analysis.PurchaseOrder)
	return f, name, nil
}
