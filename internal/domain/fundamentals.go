package domain

import "time"

// FundamentalsRecord holds the raw fundamental fields fetched for one ticker.
// Every numeric field is a pointer because the provider frequently omits
// fields; absence is meaningful and distinct from zero. Values are untrusted
// until they pass through valuation.Sanitize.
type FundamentalsRecord struct {
	Ticker   string `json:"ticker"`
	Sector   string `json:"sector"`
	Industry string `json:"industry"`

	CurrentPrice      *float64 `json:"currentPrice"`
	MarketCap         *float64 `json:"marketCap"`
	SharesOutstanding *float64 `json:"sharesOutstanding"`
	Beta              *float64 `json:"beta"`

	TrailingEPS    *float64 `json:"trailingEps"`
	ForwardPE      *float64 `json:"forwardPe"`
	EBITDA         *float64 `json:"ebitda"`
	EBITDAMargin   *float64 `json:"ebitdaMargin"`
	TotalRevenue   *float64 `json:"totalRevenue"`
	RevenueGrowth  *float64 `json:"revenueGrowth"`
	ReturnOnEquity *float64 `json:"returnOnEquity"`

	// FreeCashFlow holds up to three trailing annual figures, most recent first.
	FreeCashFlow []float64 `json:"freeCashFlow"`

	TotalDebt       *float64 `json:"totalDebt"`
	TotalCash       *float64 `json:"totalCash"`
	InterestExpense *float64 `json:"interestExpense"`

	EVToEBITDA  *float64 `json:"evToEbitda"`
	EVToRevenue *float64 `json:"evToRevenue"`
	PriceToBook *float64 `json:"priceToBook"`

	AnalystTargetPrice *float64 `json:"analystTargetPrice"`
	AnalystCount       *int     `json:"analystCount"`

	FetchedAt time.Time `json:"fetchedAt"`
}

// Constituent is one row of the index universe.
type Constituent struct {
	Ticker      string `json:"ticker"`
	CompanyName string `json:"companyName"`
	Sector      string `json:"sector"`
	SubIndustry string `json:"subIndustry"`
}

// PriceBar is a single daily close. Only the close is needed downstream.
type PriceBar struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}
