package signal

import (
	"fmt"
	"math"
	"strings"

	"github.com/Milokay/sp500-pipeline/internal/relative"
	"github.com/Milokay/sp500-pipeline/internal/technicals"
	"github.com/Milokay/sp500-pipeline/internal/valuation"
)

// Trading signals, strongest buy to strongest sell.
const (
	StrongBuy  = "STRONG BUY"
	Buy        = "BUY"
	Hold       = "HOLD"
	Sell       = "SELL"
	StrongSell = "STRONG SELL"

	lowConfidenceSuffix = " (Low Confidence)"
)

// Signal is the combined verdict for one ticker.
type Signal struct {
	Signal     string   `json:"signal"`
	Conviction int      `json:"conviction"`
	Rationale  string   `json:"rationale"`

	// EntryPrice and ExitPrice are the Bollinger band edges; TargetPrice is
	// the intrinsic value. Nil when the underlying inputs are unavailable.
	EntryPrice  *float64 `json:"entryPrice"`
	ExitPrice   *float64 `json:"exitPrice"`
	TargetPrice *float64 `json:"targetPrice"`
}

// Generate folds the cash-flow valuation, the peer comparison, and the
// technical picture into one actionable signal. The valuation picks the
// direction, the band position picks the timing, and RSI extremes upgrade
// an already-aligned call.
func Generate(val valuation.Result, rel relative.Result, tech technicals.Indicators) Signal {
	sig := matrixLookup(val.Status, tech.BandPosition)

	if tech.RSI < 30 && sig == Buy {
		sig = StrongBuy
	} else if tech.RSI > 70 && sig == Sell {
		sig = StrongSell
	}

	if val.Confidence == valuation.ConfidenceLow {
		sig += lowConfidenceSuffix
	}

	return Signal{
		Signal:      sig,
		Conviction:  conviction(sig, val, rel, tech),
		Rationale:   rationale(sig, val, rel, tech),
		EntryPrice:  tech.LowerBand,
		ExitPrice:   tech.UpperBand,
		TargetPrice: val.IntrinsicValue,
	}
}

// matrixLookup crosses valuation status with band position. A missing band
// position reads as between-bands, so the valuation alone drives the call.
func matrixLookup(status valuation.Status, bandPosition string) string {
	belowLower := bandPosition == technicals.PositionBelowLower
	aboveUpper := bandPosition == technicals.PositionAboveUpper

	switch status {
	case valuation.StatusUndervalued:
		switch {
		case belowLower:
			return StrongBuy
		case aboveUpper:
			return Hold
		default:
			return Buy
		}
	case valuation.StatusFairValue:
		switch {
		case belowLower:
			return Buy
		case aboveUpper:
			return Sell
		default:
			return Hold
		}
	case valuation.StatusOvervalued:
		switch {
		case belowLower:
			return Hold
		case aboveUpper:
			return StrongSell
		default:
			return Sell
		}
	default:
		return Hold
	}
}

func conviction(sig string, val valuation.Result, rel relative.Result, tech technicals.Indicators) int {
	score := 3

	switch val.Status {
	case valuation.StatusUndervalued:
		score++
	case valuation.StatusOvervalued:
		score--
	}

	if tech.PercentB != nil {
		if *tech.PercentB < 0.2 {
			score++
		} else if *tech.PercentB > 0.8 {
			score--
		}
	}

	buyish := strings.HasPrefix(sig, Buy) || strings.HasPrefix(sig, StrongBuy)
	sellish := strings.HasPrefix(sig, Sell) || strings.HasPrefix(sig, StrongSell)
	if buyish && tech.RSI < 30 {
		score++
	} else if sellish && tech.RSI > 70 {
		score++
	}

	switch rel.Status {
	case relative.StatusCheap:
		score++
	case relative.StatusExpensive:
		score--
	}

	return min(5, max(1, score))
}

func rationale(sig string, val valuation.Result, rel relative.Result, tech technicals.Indicators) string {
	parts := []string{strings.TrimSuffix(sig, lowConfidenceSuffix) + ":"}

	switch {
	case val.IntrinsicValue != nil && tech.CurrentPrice != nil && val.UpsidePct != nil:
		direction := "above"
		if *val.UpsidePct > 0 {
			direction = "below"
		}
		parts = append(parts, fmt.Sprintf("Trading %.0f%% %s intrinsic value ($%.2f vs $%.2f).",
			math.Abs(*val.UpsidePct)*100, direction, *tech.CurrentPrice, *val.IntrinsicValue))
	case val.Status != valuation.StatusInsufficientData:
		parts = append(parts, fmt.Sprintf("Valuation: %s.", val.Status))
	}

	if tech.LowerBand != nil && tech.UpperBand != nil {
		switch tech.BandPosition {
		case technicals.PositionBelowLower:
			parts = append(parts, fmt.Sprintf("Price near lower Bollinger Band ($%.2f).", *tech.LowerBand))
		case technicals.PositionAboveUpper:
			parts = append(parts, fmt.Sprintf("Price near upper Bollinger Band ($%.2f).", *tech.UpperBand))
		default:
			parts = append(parts, fmt.Sprintf("Price between Bollinger Bands ($%.2f-$%.2f).", *tech.LowerBand, *tech.UpperBand))
		}
	}

	switch {
	case tech.RSI < 30:
		parts = append(parts, fmt.Sprintf("RSI oversold at %.0f.", tech.RSI))
	case tech.RSI > 70:
		parts = append(parts, fmt.Sprintf("RSI overbought at %.0f.", tech.RSI))
	default:
		parts = append(parts, fmt.Sprintf("RSI at %.0f.", tech.RSI))
	}

	switch {
	case rel.Status == relative.StatusCheap && rel.SectorPercentile != nil:
		parts = append(parts, fmt.Sprintf("Cheap vs sector peers (%.0fth percentile %s).",
			*rel.SectorPercentile*100, rel.MultipleName))
	case rel.Status == relative.StatusExpensive && rel.SectorPercentile != nil:
		parts = append(parts, fmt.Sprintf("Expensive vs sector peers (%.0fth percentile %s).",
			*rel.SectorPercentile*100, rel.MultipleName))
	case rel.Status == relative.StatusInLine:
		parts = append(parts, "In-line with sector peers.")
	}

	return strings.Join(parts, " ")
}
