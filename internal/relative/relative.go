package relative

import (
	"fmt"
	"sort"

	"github.com/Milokay/sp500-pipeline/internal/domain"
)

// Relative standing against sector peers.
const (
	StatusCheap             = "Cheap vs Peers"
	StatusExpensive         = "Expensive vs Peers"
	StatusInLine            = "In-Line"
	StatusInsufficientPeers = "Insufficient Peers"
	StatusNA                = "N/A"
)

// Result compares one ticker's primary multiple to its sector peers.
type Result struct {
	MultipleName     string   `json:"multipleName"`
	MultipleValue    *float64 `json:"multipleValue"`
	SectorMedian     *float64 `json:"sectorMedian"`
	SectorPercentile *float64 `json:"sectorPercentile"`
	Status           string   `json:"status"`
	Note             string   `json:"note,omitempty"`
}

type multiple struct {
	name  string
	field func(domain.FundamentalsRecord) *float64
}

var (
	forwardPE   = multiple{"Forward P/E", func(r domain.FundamentalsRecord) *float64 { return r.ForwardPE }}
	priceToBook = multiple{"P/B", func(r domain.FundamentalsRecord) *float64 { return r.PriceToBook }}
	evToEBITDA  = multiple{"EV/EBITDA", func(r domain.FundamentalsRecord) *float64 { return r.EVToEBITDA }}
)

// sectorMultiples maps each sector to the multiple its peers are usually
// compared on. P/B stands in for Price/FFO in Real Estate since the data
// source carries no FFO. Unmapped sectors compare on EV/EBITDA.
var sectorMultiples = map[string]multiple{
	"Information Technology": forwardPE,
	"Technology":             forwardPE,
	"Communication Services": forwardPE,
	"Financial Services":     priceToBook,
	"Financials":             priceToBook,
	"Real Estate":            priceToBook,
}

func sectorMultiple(sector string) multiple {
	if m, ok := sectorMultiples[sector]; ok {
		return m
	}
	return evToEBITDA
}

// Valuate ranks one ticker's primary multiple within its sector. When the
// sector multiple has fewer than three usable values, EV/EBITDA is tried as
// a fallback before conceding to Insufficient Peers.
func Valuate(ticker string, rec domain.FundamentalsRecord, all map[string]domain.FundamentalsRecord) Result {
	m := sectorMultiple(rec.Sector)
	value := positive(m.field(rec))
	peers := peerValues(ticker, rec.Sector, m, all)

	if value == nil {
		return Result{
			MultipleName: m.name,
			Status:       StatusNA,
			Note:         fmt.Sprintf("Missing %s value for %s", m.name, ticker),
		}
	}

	allValues := append(peers, *value)
	if len(allValues) < 3 && m.name != evToEBITDA.name {
		fallbackValue := positive(evToEBITDA.field(rec))
		fallbackPeers := peerValues(ticker, rec.Sector, evToEBITDA, all)
		if fallbackValue != nil && len(fallbackPeers) >= 2 {
			m = evToEBITDA
			value = fallbackValue
			allValues = append(fallbackPeers, *value)
		}
	}

	if len(allValues) < 3 {
		return Result{
			MultipleName:     m.name,
			MultipleValue:    ptr(domain.Round2(*value)),
			SectorMedian:     ptr(domain.Round2(median(allValues))),
			SectorPercentile: ptr(0.5),
			Status:           StatusInsufficientPeers,
			Note:             fmt.Sprintf("Only %d tickers in %s sector", len(allValues), rec.Sector),
		}
	}

	percentile := percentileRank(*value, allValues)
	status := StatusInLine
	switch {
	case percentile < 0.30:
		status = StatusCheap
	case percentile > 0.70:
		status = StatusExpensive
	}

	return Result{
		MultipleName:     m.name,
		MultipleValue:    ptr(domain.Round2(*value)),
		SectorMedian:     ptr(domain.Round2(median(allValues))),
		SectorPercentile: ptr(domain.Round4(percentile)),
		Status:           status,
	}
}

func peerValues(ticker, sector string, m multiple, all map[string]domain.FundamentalsRecord) []float64 {
	var values []float64
	for t, rec := range all {
		if t == ticker || rec.Sector != sector {
			continue
		}
		if v := positive(m.field(rec)); v != nil {
			values = append(values, *v)
		}
	}
	return values
}

// percentileRank places value within values, counting ties at half weight.
func percentileRank(value float64, values []float64) float64 {
	below, equal := 0, 0
	for _, v := range values {
		switch {
		case v < value:
			below++
		case v == value:
			equal++
		}
	}
	return (float64(below) + 0.5*float64(equal)) / float64(len(values))
}

func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func positive(v *float64) *float64 {
	if v == nil || *v <= 0 {
		return nil
	}
	return v
}

func ptr(v float64) *float64 { return &v }
