package analysis

import (
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/Milokay/sp500-pipeline/internal/signal"
	"github.com/Milokay/sp500-pipeline/internal/valuation"
)

// cleanSignal strips the low-confidence suffix for grouping.
func cleanSignal(s string) string {
	return strings.TrimSuffix(s, " (Low Confidence)")
}

// SignalCounts tallies rows per signal, ignoring confidence suffixes.
func (r *Run) SignalCounts() map[string]int {
	counts := make(map[string]int)
	for _, row := range r.Rows {
		counts[cleanSignal(row.Signal.Signal)]++
	}
	return counts
}

// BuyRows returns buy-side rows ordered by conviction, then upside. n <= 0
// returns all of them.
func (r *Run) BuyRows(n int) []Row {
	buys := lo.Filter(r.Rows, func(row Row, _ int) bool {
		s := cleanSignal(row.Signal.Signal)
		return s == signal.StrongBuy || s == signal.Buy
	})

	sort.SliceStable(buys, func(i, j int) bool {
		if buys[i].Signal.Conviction != buys[j].Signal.Conviction {
			return buys[i].Signal.Conviction > buys[j].Signal.Conviction
		}
		return lo.FromPtr(buys[i].Valuation.UpsidePct) > lo.FromPtr(buys[j].Valuation.UpsidePct)
	})

	if n > 0 && len(buys) > n {
		buys = buys[:n]
	}
	return buys
}

// ConfidenceCounts tallies rows per valuation confidence tier.
func (r *Run) ConfidenceCounts() (high, medium, low int) {
	for _, row := range r.Rows {
		switch row.Valuation.Confidence {
		case valuation.ConfidenceHigh:
			high++
		case valuation.ConfidenceMedium:
			medium++
		default:
			low++
		}
	}
	return high, medium, low
}
