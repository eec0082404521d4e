package universe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/Milokay/sp500-pipeline/internal/domain"
)

// Scraper fetches the S&P 500 constituent table from Wikipedia.
type Scraper struct {
	url        string
	httpClient *http.Client
}

// NewScraper creates a constituent scraper for the given page URL.
func NewScraper(url string) *Scraper {
	return &Scraper{
		url:        url,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch downloads and parses the constituent table.
func (s *Scraper) Fetch(ctx context.Context) ([]domain.Constituent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	// Wikipedia rejects default Go user agents with 403.
	req.Header.Set("User-Agent", "sp500-pipeline/1.0 (analysis tool)")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching constituent page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, s.url)
	}

	return parseConstituents(resp.Body)
}

// parseConstituents extracts rows from the constituents table. Columns are
// Symbol, Security, GICS Sector, GICS Sub-Industry; trailing columns are
// ignored. Dots in tickers become dashes to match the quote provider's
// symbol convention (BRK.B -> BRK-B).
func parseConstituents(r io.Reader) ([]domain.Constituent, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing constituent page: %w", err)
	}

	seen := make(map[string]bool)
	var constituents []domain.Constituent
	doc.Find("table#constituents tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 4 {
			return
		}
		ticker := strings.ReplaceAll(strings.TrimSpace(cells.Eq(0).Text()), ".", "-")
		if ticker == "" || seen[ticker] {
			return
		}
		seen[ticker] = true
		constituents = append(constituents, domain.Constituent{
			Ticker:      ticker,
			CompanyName: strings.TrimSpace(cells.Eq(1).Text()),
			Sector:      strings.TrimSpace(cells.Eq(2).Text()),
			SubIndustry: strings.TrimSpace(cells.Eq(3).Text()),
		})
	})

	if len(constituents) == 0 {
		return nil, fmt.Errorf("no constituent rows found")
	}
	return constituents, nil
}
