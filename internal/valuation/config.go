package valuation

import "errors"

// Config carries every bound, threshold, and per-sector/per-industry table the
// engine consults. It is constructed once, validated, and never mutated during
// a run; tests substitute alternate configs to probe individual fallback tiers.
// Lookup tables use map absence to mean "no entry" (absence is not zero).
type Config struct {
	// Discount rate inputs.
	RiskFreeRate       float64
	EquityRiskPremium  float64
	TerminalGrowthRate float64
	DefaultWACC        float64
	TaxRate            float64
	BetaFloor          float64
	BetaCap            float64
	CostOfDebtFloor    float64
	CostOfDebtCap      float64
	DebtSpreadFallback float64 // cost of debt when interest/debt unavailable: Rf + spread
	WACCFloor          float64
	WACCCap            float64
	IndustryWACCFloors map[string]float64

	// Projection.
	ProjectionYears  int
	GrowthRateFloor  float64
	GrowthRateCap    float64
	SectorGrowthCaps map[string]float64
	ProxyFCFMargin   float64 // assumed FCF margin for revenue/market-cap proxies
	ProxyMinGrowth   float64

	// Exit multiple chain.
	SectorExitMultiples        map[string]float64
	IndustryExitMultiples      map[string]float64
	IndustryExitMultipleFloors map[string]float64
	DefaultExitMultiple        float64
	ExitMultipleFloor          float64
	ExitMultipleCap            float64
	MaxImpliedGrowth           float64

	// EV/Revenue fallback chain.
	SectorRevenueMultiples   map[string]float64
	IndustryRevenueMultiples map[string]float64
	DefaultRevenueMultiple   float64
	RevenueMultipleFloor     float64
	RevenueMultipleCap       float64

	// Gordon growth guard.
	MinWACCGrowthSpread float64

	// Blending. Exit-multiple weight per confidence tier; the perpetual-growth
	// weight is the complement. The analyst anchor, when eligible, takes
	// AnalystAnchorWeight and scales the other two proportionally.
	BlendExitWeights    map[Confidence]float64
	AnalystAnchorWeight float64

	// Governor.
	IVFloor                   float64
	IVCapMultiplier           float64
	MinEBITDAMargin           float64
	MinAnalystsForTarget      int
	AnalystTargetMaxDeviation float64
	AnalystTargetCapMultiple  float64
	MarginOfSafety            float64
	SellDownside              float64

	// Input validation windows.
	PriceToBookMin float64
	PriceToBookMax float64
	EVToEBITDAMin  float64
	EVToEBITDAMax  float64

	// Special-case classifier.
	AssetLightROEThreshold float64
	AssetLightPBThreshold  float64
	AssetLightTickers      map[string]bool
	BankFairPBFloor        float64
	BankFairPBCap          float64
	BankFairPBFallback     float64
	REITFairPB             float64
	REITCheapPB            float64
	REITExpensivePB        float64
}

// Validate checks the contract bounds the engine divides by or clamps with.
// A config that fails here is a programming error, not a data-quality issue.
func (c Config) Validate() error {
	switch {
	case c.ProjectionYears <= 0:
		return errors.New("valuation config: projection years must be positive")
	case c.WACCFloor <= 0 || c.WACCCap <= c.WACCFloor:
		return errors.New("valuation config: WACC bounds missing or inverted")
	case c.ExitMultipleFloor <= 0 || c.ExitMultipleCap <= c.ExitMultipleFloor:
		return errors.New("valuation config: exit multiple bounds missing or inverted")
	case c.BetaFloor <= 0 || c.BetaCap < c.BetaFloor:
		return errors.New("valuation config: beta bounds missing or inverted")
	case c.IVCapMultiplier <= 0:
		return errors.New("valuation config: IV cap multiplier must be positive")
	case c.MinWACCGrowthSpread <= 0:
		return errors.New("valuation config: minimum WACC-growth spread must be positive")
	case c.WACCFloor <= c.MaxImpliedGrowth:
		return errors.New("valuation config: WACC floor must exceed implied growth ceiling")
	case len(c.BlendExitWeights) == 0:
		return errors.New("valuation config: blend weights missing")
	}
	for tier, w := range c.BlendExitWeights {
		if w < 0 || w > 1 {
			return errors.New("valuation config: blend weight for " + string(tier) + " outside [0,1]")
		}
	}
	return nil
}

// DefaultConfig returns the standing policy values.
func DefaultConfig() Config {
	return Config{
		RiskFreeRate:       0.043,
		EquityRiskPremium:  0.055,
		TerminalGrowthRate: 0.025,
		DefaultWACC:        0.10,
		TaxRate:            0.21,
		BetaFloor:          0.5,
		BetaCap:            2.5,
		CostOfDebtFloor:    0.01,
		CostOfDebtCap:      0.15,
		DebtSpreadFallback: 0.015,
		WACCFloor:          0.06,
		WACCCap:            0.20,
		IndustryWACCFloors: map[string]float64{
			"Biotechnology": 0.12,
			"Drug Manufacturers - Specialty & Generic": 0.10,
			"Airlines":           0.14,
			"Travel Services":    0.12,
			"Oil & Gas E&P":      0.11,
			"Oil & Gas Midstream": 0.09,
		},

		ProjectionYears: 5,
		GrowthRateFloor: -0.05,
		GrowthRateCap:   0.25,
		SectorGrowthCaps: map[string]float64{
			"Utilities":          0.10,
			"Energy":             0.10,
			"Consumer Staples":   0.12,
			"Consumer Defensive": 0.12,
		},
		ProxyFCFMargin: 0.05,
		ProxyMinGrowth: 0.02,

		SectorExitMultiples: map[string]float64{
			"Technology":             20.0,
			"Information Technology": 20.0,
			"Communication Services": 14.0,
			"Healthcare":             15.0,
			"Consumer Discretionary": 14.0,
			"Consumer Cyclical":      14.0,
			"Consumer Staples":       14.0,
			"Consumer Defensive":     14.0,
			"Industrials":            12.0,
			"Materials":              10.0,
			"Basic Materials":        10.0,
			"Energy":                 8.0,
			"Utilities":              10.0,
			"Real Estate":            16.0,
			"Financial Services":     10.0,
			"Financials":             10.0,
		},
		IndustryExitMultiples: map[string]float64{
			"Aerospace & Defense": 15.0,
			"Airlines":            6.0,
			"Biotechnology":       12.0,
			"Credit Services":     22.0,
			"Financial Data & Stock Exchanges": 22.0,
		},
		IndustryExitMultipleFloors: map[string]float64{
			"Airlines": 6.0,
		},
		DefaultExitMultiple: 12.0,
		ExitMultipleFloor:   8.0,
		ExitMultipleCap:     25.0,
		MaxImpliedGrowth:    0.04,

		SectorRevenueMultiples: map[string]float64{
			"Technology":             6.0,
			"Information Technology": 6.0,
			"Communication Services": 3.0,
			"Healthcare":             4.0,
			"Consumer Discretionary": 1.5,
			"Consumer Cyclical":      1.5,
			"Consumer Staples":       1.5,
			"Consumer Defensive":     1.5,
			"Industrials":            1.5,
			"Materials":              1.0,
			"Basic Materials":        1.0,
			"Energy":                 1.0,
			"Utilities":              1.5,
			"Real Estate":            4.0,
		},
		IndustryRevenueMultiples: map[string]float64{
			"Biotechnology": 6.0,
			"Drug Manufacturers - Specialty & Generic": 4.0,
		},
		DefaultRevenueMultiple: 2.0,
		RevenueMultipleFloor:   1.0,
		RevenueMultipleCap:     10.0,

		MinWACCGrowthSpread: 0.03,

		BlendExitWeights: map[Confidence]float64{
			ConfidenceHigh:   0.6,
			ConfidenceMedium: 0.5,
			ConfidenceLow:    0.4,
		},
		AnalystAnchorWeight: 0.2,

		IVFloor:                   0.0,
		IVCapMultiplier:           2.0,
		MinEBITDAMargin:           0.02,
		MinAnalystsForTarget:      5,
		AnalystTargetMaxDeviation: 3.0,
		AnalystTargetCapMultiple:  2.0,
		MarginOfSafety:            0.25,
		SellDownside:              -0.10,

		PriceToBookMin: 0.05,
		PriceToBookMax: 200.0,
		EVToEBITDAMin:  1.0,
		EVToEBITDAMax:  100.0,

		AssetLightROEThreshold: 0.25,
		AssetLightPBThreshold:  5.0,
		AssetLightTickers: map[string]bool{
			"V": true, "MA": true, "PYPL": true, "SPGI": true, "MCO": true,
			"MSCI": true, "FDS": true, "ICE": true, "NDAQ": true, "CBOE": true,
			"FIS": true, "FISV": true, "GPN": true,
		},
		BankFairPBFloor:    0.5,
		BankFairPBCap:      4.0,
		BankFairPBFallback: 1.5,
		REITFairPB:         1.5,
		REITCheapPB:        1.0,
		REITExpensivePB:    2.5,
	}
}
