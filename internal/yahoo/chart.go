package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/Milokay/sp500-pipeline/internal/domain"
)

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *apiError `json:"error"`
	} `json:"chart"`
}

// PriceHistory fetches up to four years of daily closes, oldest first.
// Four years covers the longest lookback window (3-year performance) plus
// slack for market holidays. Days with a null close are skipped.
func (c *Client) PriceHistory(ctx context.Context, ticker string) ([]domain.PriceBar, error) {
	path := fmt.Sprintf("/v8/finance/chart/%s?range=4y&interval=1d", url.PathEscape(ticker))

	var resp chartResponse
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("fetching price history for %s: %w", ticker, err)
	}
	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("chart API error for %s: %s", ticker, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("no chart result for %s", ticker)
	}

	result := resp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no quote data for %s", ticker)
	}
	closes := result.Indicators.Quote[0].Close

	var bars []domain.PriceBar
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		bars = append(bars, domain.PriceBar{
			Date:  time.Unix(ts, 0).UTC(),
			Close: *closes[i],
		})
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("empty price history for %s", ticker)
	}
	return bars, nil
}
