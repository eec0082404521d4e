package export

import (
	"context"
	"fmt"

	sheets "google.golang.org/api/sheets/v4"

	"github.com/Milokay/sp500-pipeline/internal/analysis"
	"github.com/Milokay/sp500-pipeline/internal/signal"
)

// historyHeaders defines the HISTORY sheet columns. One row is appended per
// analysis run, giving a time series of market breadth.
var historyHeaders = []any{
	"Date", "Tickers", "Failures",
	"Strong Buy", "Buy", "Hold", "Sell", "Strong Sell",
	"Avg Upside %", "High Conf", "Medium Conf", "Low Conf",
}

// buildHistoryRow summarizes one run into a single HISTORY data row.
func buildHistoryRow(run *analysis.Run) []any {
	counts := run.SignalCounts()
	high, medium, low := run.ConfidenceCounts()

	var upsideSum float64
	var upsideCount int
	for _, r := range run.Rows {
		if r.Valuation.UpsidePct != nil {
			upsideSum += *r.Valuation.UpsidePct
			upsideCount++
		}
	}
	avgUpside := any(nil)
	if upsideCount > 0 {
		avgUpside = upsideSum / float64(upsideCount)
	}

	return []any{
		run.GeneratedAt.UTC().Format("02.01.2006"),
		len(run.Rows),
		len(run.Failures),
		counts[signal.StrongBuy],
		counts[signal.Buy],
		counts[signal.Hold],
		counts[signal.Sell],
		counts[signal.StrongSell],
		avgUpside,
		high, medium, low,
	}
}

// AppendHistory ensures the HISTORY sheet exists, writes the header row if the
// sheet is new or empty, then appends one summary row for the run.
func (w *SheetsWriter) AppendHistory(ctx context.Context, run *analysis.Run) error {
	meta, err := w.ensureSheets(ctx, tabHistory)
	if err != nil {
		return fmt.Errorf("ensuring HISTORY sheet: %w", err)
	}
	histMeta := meta[tabHistory]

	existing, err := w.svc.Spreadsheets.Values.Get(
		w.spreadsheetID, tabHistory+"!A1:A1",
	).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("reading HISTORY header: %w", err)
	}

	if len(existing.Values) == 0 {
		_, err = w.svc.Spreadsheets.Values.Update(
			w.spreadsheetID,
			tabHistory+"!A1",
			&sheets.ValueRange{Values: [][]any{historyHeaders}},
		).ValueInputOption("USER_ENTERED").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("writing HISTORY header: %w", err)
		}
	}

	_, err = w.svc.Spreadsheets.Values.Append(
		w.spreadsheetID,
		tabHistory+"!A:L",
		&sheets.ValueRange{Values: [][]any{buildHistoryRow(run)}},
	).ValueInputOption("USER_ENTERED").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("appending HISTORY row: %w", err)
	}

	if err := w.applyHistoryFormatting(ctx, histMeta); err != nil {
		return fmt.Errorf("formatting HISTORY sheet: %w", err)
	}

	return nil
}

// applyHistoryFormatting applies visual formatting to the HISTORY sheet:
// bold frozen header, date format in column A, percent format on the
// average-upside column.
func (w *SheetsWriter) applyHistoryFormatting(ctx context.Context, hist sheetMeta) error {
	totalCols := int64(len(historyHeaders))

	var reqs []*sheets.Request

	reqs = append(reqs, cellFormatReq(hist.id, 0, 1, 0, totalCols,
		&sheets.CellFormat{
			TextFormat:          &sheets.TextFormat{Bold: true, FontSize: 10},
			HorizontalAlignment: "CENTER",
		},
		"userEnteredFormat(textFormat,horizontalAlignment)"))

	reqs = append(reqs, &sheets.Request{
		UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
			Properties: &sheets.SheetProperties{
				SheetId:        hist.id,
				GridProperties: &sheets.GridProperties{FrozenRowCount: 1},
			},
			Fields: "gridProperties.frozenRowCount",
		},
	})

	// Date column A: d.m.yyyy
	reqs = append(reqs, cellFormatReq(hist.id, 1, 10000, 0, 1,
		&sheets.CellFormat{NumberFormat: &sheets.NumberFormat{Type: "DATE", Pattern: "d.m.yyyy"}},
		"userEnteredFormat.numberFormat"))

	// Column I (avg upside): percent with one decimal
	reqs = append(reqs, cellFormatReq(hist.id, 1, 10000, 8, 9,
		&sheets.CellFormat{NumberFormat: &sheets.NumberFormat{Type: "NUMBER", Pattern: "0.0%"}},
		"userEnteredFormat.numberFormat"))

	for _, bid := range hist.bandingIDs {
		reqs = append(reqs, &sheets.Request{
			DeleteBanding: &sheets.DeleteBandingRequest{BandedRangeId: bid},
		})
	}

	_, err := w.svc.Spreadsheets.BatchUpdate(
		w.spreadsheetID,
		&sheets.BatchUpdateSpreadsheetRequest{Requests: reqs},
	).Context(ctx).Do()
	return err
}
