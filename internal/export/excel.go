package export

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/Milokay/sp500-pipeline/internal/analysis"
	"github.com/Milokay/sp500-pipeline/internal/valuation"
)

// Sheet names in the generated workbook.
const (
	sheetDashboard     = "Dashboard"
	sheetStrongBuys    = "Strong Buys"
	sheetSectorSummary = "Sector Summary"
	sheetDataQuality   = "Data Quality"
	sheetAssumptions   = "Assumptions"
)

// ExcelWriter renders an analysis run into a multi-sheet .xlsx workbook.
type ExcelWriter struct {
	path string
	cfg  valuation.Config
}

// NewExcelWriter creates a writer targeting the given output path.
func NewExcelWriter(path string, cfg valuation.Config) *ExcelWriter {
	return &ExcelWriter{path: path, cfg: cfg}
}

// Write builds the workbook and saves it to disk.
func (w *ExcelWriter) Write(_ context.Context, run *analysis.Run) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"1F4E79"}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	if err := w.writeDashboard(f, sheetDashboard, dashboardSorted(run.Rows), headerStyle); err != nil {
		return err
	}
	if err := w.writeDashboard(f, sheetStrongBuys, run.BuyRows(0), headerStyle); err != nil {
		return err
	}
	if err := writeSheet(f, sheetSectorSummary, sectorSummaryHeaders, sectorSummaryRows(run.Rows), headerStyle); err != nil {
		return err
	}
	quality := make([][]any, 0, len(run.Rows))
	for _, r := range run.Rows {
		quality = append(quality, dataQualityRow(r))
	}
	if err := writeSheet(f, sheetDataQuality, dataQualityHeaders, quality, headerStyle); err != nil {
		return err
	}
	if err := writeSheet(f, sheetAssumptions, assumptionsHeaders, assumptionsRows(w.cfg, run.GeneratedAt), headerStyle); err != nil {
		return err
	}

	// The default sheet is replaced by our own tabs.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("removing default sheet: %w", err)
	}
	if idx, err := f.GetSheetIndex(sheetDashboard); err == nil {
		f.SetActiveSheet(idx)
	}

	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("saving workbook to %s: %w", w.path, err)
	}
	return nil
}

func (w *ExcelWriter) writeDashboard(f *excelize.File, sheet string, rows []analysis.Row, headerStyle int) error {
	cells := make([][]any, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, dashboardRow(r))
	}
	if err := writeSheet(f, sheet, dashboardHeaders, cells, headerStyle); err != nil {
		return err
	}
	// Keep ticker and header row visible while scrolling.
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze: true, XSplit: 1, YSplit: 1, TopLeftCell: "B2", ActivePane: "bottomRight",
	}); err != nil {
		return fmt.Errorf("freezing panes on %s: %w", sheet, err)
	}
	return nil
}

// writeSheet creates a sheet with a styled header row and the given data rows.
func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]any, headerStyle int) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("creating sheet %s: %w", sheet, err)
	}

	headerRow := make([]any, len(headers))
	for i, h := range headers {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return fmt.Errorf("writing %s header: %w", sheet, err)
	}
	endCell, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return fmt.Errorf("resolving %s header range: %w", sheet, err)
	}
	if err := f.SetCellStyle(sheet, "A1", endCell, headerStyle); err != nil {
		return fmt.Errorf("styling %s header: %w", sheet, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("resolving %s row %d: %w", sheet, i+2, err)
		}
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}
