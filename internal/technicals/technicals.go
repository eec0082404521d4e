package technicals

import (
	"math"

	"github.com/Milokay/sp500-pipeline/internal/domain"
)

const (
	bollingerWindow = 20
	bollingerStdDev = 2.0
	rsiPeriod       = 14

	// Trading-day lookbacks for simple price returns.
	days1M = 21
	days6M = 126
	days1Y = 252
	days3Y = 756
)

// Band positions relative to the Bollinger envelope.
const (
	PositionAboveUpper = "Above Upper"
	PositionUpperHalf  = "Upper Half"
	PositionLowerHalf  = "Lower Half"
	PositionBelowLower = "Below Lower"
	PositionNA         = "N/A"
)

// Indicators is the per-ticker technical snapshot. Pointer fields are nil
// when the price history is too short for the metric.
type Indicators struct {
	CurrentPrice *float64 `json:"currentPrice"`
	SMA20        *float64 `json:"sma20"`
	UpperBand    *float64 `json:"upperBand"`
	LowerBand    *float64 `json:"lowerBand"`
	PercentB     *float64 `json:"percentB"`
	Bandwidth    *float64 `json:"bandwidth"`
	PriceVsUpper *float64 `json:"priceVsUpper"`
	PriceVsLower *float64 `json:"priceVsLower"`
	BandPosition string   `json:"bandPosition"`

	RSI float64 `json:"rsi"`

	Return1M  *float64 `json:"return1m"`
	Return6M  *float64 `json:"return6m"`
	Return1Y  *float64 `json:"return1y"`
	Return3Y  *float64 `json:"return3y"`
	StdDev52W *float64 `json:"stdDev52w"`
	Sharpe52W *float64 `json:"sharpe52w"`
}

// Compute derives all technical indicators from daily closes, oldest first.
// riskFreeRate feeds the Sharpe ratio.
func Compute(bars []domain.PriceBar, riskFreeRate float64) Indicators {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}

	ind := bollinger(closes)
	ind.RSI = rsi(closes, rsiPeriod)
	performance(closes, riskFreeRate, &ind)
	return ind
}

// bollinger computes the 20-day band set from the trailing window. With a
// zero-width band, %B defaults to the midpoint.
func bollinger(closes []float64) Indicators {
	ind := Indicators{BandPosition: PositionNA}
	if len(closes) < bollingerWindow {
		return ind
	}

	window := closes[len(closes)-bollingerWindow:]
	sma := mean(window)
	std := sampleStdDev(window, sma)

	upper := sma + bollingerStdDev*std
	lower := sma - bollingerStdDev*std
	price := closes[len(closes)-1]

	percentB := 0.5
	if upper != lower {
		percentB = (price - lower) / (upper - lower)
	}

	ind.CurrentPrice = ptr(domain.Round2(price))
	ind.SMA20 = ptr(domain.Round2(sma))
	ind.UpperBand = ptr(domain.Round2(upper))
	ind.LowerBand = ptr(domain.Round2(lower))
	ind.PercentB = ptr(domain.Round4(percentB))
	ind.Bandwidth = ptr(domain.Round4((upper - lower) / sma))
	ind.PriceVsUpper = ptr(domain.Round4((price - upper) / upper))
	ind.PriceVsLower = ptr(domain.Round4((price - lower) / lower))

	switch {
	case percentB > 1:
		ind.BandPosition = PositionAboveUpper
	case percentB >= 0.5:
		ind.BandPosition = PositionUpperHalf
	case percentB >= 0:
		ind.BandPosition = PositionLowerHalf
	default:
		ind.BandPosition = PositionBelowLower
	}
	return ind
}

// rsi computes Wilder's RSI: a simple average seeds the first period, then
// exponential smoothing carries forward. Short histories return the neutral
// 50 so a new listing never reads as a momentum signal.
func rsi(closes []float64, period int) float64 {
	if len(closes) < period+1 {
		return 50.0
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			avgGain += delta
		} else {
			avgLoss += -delta
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	for i := period + 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if delta > 0 {
			gain = delta
		} else {
			loss = -delta
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgLoss == 0 {
		return 100.0
	}
	if avgGain == 0 {
		return 0.0
	}
	rs := avgGain / avgLoss
	return domain.Round2(100 - 100/(1+rs))
}

// performance fills simple returns over fixed lookbacks plus the annualized
// 52-week volatility and Sharpe ratio. 253 closes yield 252 daily returns.
func performance(closes []float64, riskFreeRate float64, ind *Indicators) {
	n := len(closes)
	if n == 0 {
		return
	}
	price := closes[n-1]

	simpleReturn := func(tradingDays int) *float64 {
		if n <= tradingDays {
			return nil
		}
		past := closes[n-(tradingDays+1)]
		if past <= 0 {
			return nil
		}
		return ptr(domain.Round4((price - past) / past))
	}
	ind.Return1M = simpleReturn(days1M)
	ind.Return6M = simpleReturn(days6M)
	ind.Return1Y = simpleReturn(days1Y)
	ind.Return3Y = simpleReturn(days3Y)

	if n < days1Y+1 {
		return
	}
	window := closes[n-(days1Y+1):]
	returns := make([]float64, 0, days1Y)
	for i := 1; i < len(window); i++ {
		if window[i-1] != 0 {
			returns = append(returns, window[i]/window[i-1]-1)
		}
	}
	if len(returns) <= 1 {
		return
	}

	m := mean(returns)
	annualized := sampleStdDev(returns, m) * math.Sqrt(float64(days1Y))
	ind.StdDev52W = ptr(domain.Round4(annualized))

	if ind.Return1Y != nil && annualized > 0 {
		ind.Sharpe52W = ptr(domain.Round2((*ind.Return1Y - riskFreeRate) / annualized))
	}
}

func mean(vals []float64) float64 {
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// sampleStdDev uses the n-1 denominator.
func sampleStdDev(vals []float64, mean float64) float64 {
	if len(vals) < 2 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(vals)-1))
}

func ptr(v float64) *float64 { return &v }
