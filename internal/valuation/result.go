package valuation

// Confidence is a coarse trust tier for a valuation. It is driven by data
// quality and sanity-check outcomes, never by the magnitude of the output.
type Confidence string

const (
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceLow    Confidence = "Low"
)

// Status classifies the blended intrinsic value against the current price.
type Status string

const (
	StatusUndervalued      Status = "Undervalued"
	StatusFairValue        Status = "Fair Value"
	StatusOvervalued       Status = "Overvalued"
	StatusInsufficientData Status = "Insufficient Data"
)

// Method tags describing how the final intrinsic value was assembled.
const (
	MethodExitOnly         = "Exit Multiple Only"
	MethodPerpOnly         = "Perpetual Growth Only"
	MethodBlended          = "Blended (Exit+Perp)"
	MethodBlendedAnalyst   = "Blended (Exit+Perp+Analyst)"
	MethodROEAdjustedPB    = "ROE-Adjusted P/B"
	MethodREITPB           = "REIT P/B"
	MethodInsufficientData = "Insufficient Data"
)

// Result is the output of one valuation call. It is fully determined by the
// inputs: same record and peer context always yield the same Result.
type Result struct {
	// IntrinsicValue is the blended per-share fair value, floored at zero.
	// Nil when no valuation method could produce a number.
	IntrinsicValue *float64 `json:"intrinsicValue"`
	BuyPrice       *float64 `json:"buyPrice"`
	UpsidePct      *float64 `json:"upsidePct"`

	// Component estimates; either may be absent.
	IVExitMultiple    *float64 `json:"ivExitMultiple"`
	IVPerpetualGrowth *float64 `json:"ivPerpetualGrowth"`

	WACC          *float64 `json:"wacc"`
	FCFGrowthRate *float64 `json:"fcfGrowthRate"`

	ExitMultiple       *float64 `json:"exitMultiple"`
	ExitMultipleSource string   `json:"exitMultipleSource"`
	ImpliedGrowth      *float64 `json:"impliedGrowth"`

	Method     string     `json:"method"`
	Status     Status     `json:"status"`
	Confidence Confidence `json:"confidence"`

	// Notes record every degradation applied (clamped multiple, capped IV,
	// forced-low confidence) so downstream consumers can explain the number.
	Notes []string `json:"notes,omitempty"`
}

// note appends a human-readable trace line to the result.
func (r *Result) note(msg string) {
	r.Notes = append(r.Notes, msg)
}

// downgrade lowers confidence to at most the given tier; confidence is never
// raised after initial assignment.
func (r *Result) downgrade(to Confidence) {
	if rank(to) < rank(r.Confidence) {
		r.Confidence = to
	}
}

func rank(c Confidence) int {
	switch c {
	case ConfidenceHigh:
		return 2
	case ConfidenceMedium:
		return 1
	default:
		return 0
	}
}

func ptr(v float64) *float64 { return &v }
