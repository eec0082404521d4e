package relative

import "github.com/Milokay/sp500-pipeline/internal/domain"

// SectorEVEBITDAMedians computes per-sector EV/EBITDA medians used as the
// first tier of the exit multiple chain. Ratios outside (1, 100) are treated
// as data errors, and a sector needs at least three usable values before its
// median is trusted over the static tables.
func SectorEVEBITDAMedians(all map[string]domain.FundamentalsRecord) map[string]float64 {
	bySector := make(map[string][]float64)
	for _, rec := range all {
		if rec.Sector == "" || rec.EVToEBITDA == nil {
			continue
		}
		if v := *rec.EVToEBITDA; v > 1 && v < 100 {
			bySector[rec.Sector] = append(bySector[rec.Sector], v)
		}
	}

	medians := make(map[string]float64)
	for sector, values := range bySector {
		if len(values) >= 3 {
			medians[sector] = domain.Round2(median(values))
		}
	}
	return medians
}
