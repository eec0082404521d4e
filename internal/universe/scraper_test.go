package universe

import (
	"strings"
	"testing"
)

const constituentsHTML = `<html><body>
<table id="constituents" class="wikitable">
<thead><tr><th>Symbol</th><th>Security</th><th>GICS Sector</th><th>GICS Sub-Industry</th><th>HQ</th></tr></thead>
<tbody>
<tr><td>MMM</td><td>3M</td><td>Industrials</td><td>Industrial Conglomerates</td><td>Saint Paul</td></tr>
<tr><td>AAPL</td><td>Apple Inc.</td><td>Information Technology</td><td>Technology Hardware, Storage &amp; Peripherals</td><td>Cupertino</td></tr>
<tr><td>BRK.B</td><td>Berkshire Hathaway</td><td>Financials</td><td>Multi-Sector Holdings</td><td>Omaha</td></tr>
<tr><td>AAPL</td><td>Apple Inc. (dup)</td><td>Information Technology</td><td>Systems Software</td><td>Cupertino</td></tr>
<tr><td></td><td>Ghost Row</td><td>Energy</td><td>Oil</td><td>Nowhere</td></tr>
</tbody>
</table>
<table class="wikitable"><tbody><tr><td>XYZ</td><td>Changes table</td><td>-</td><td>-</td></tr></tbody></table>
</body></html>`

func TestParseConstituents(t *testing.T) {
	got, err := parseConstituents(strings.NewReader(constituentsHTML))
	if err != nil {
		t.Fatalf("parseConstituents failed: %v", err)
	}

	// 5 rows: one duplicate and one empty ticker dropped
	if len(got) != 3 {
		t.Fatalf("expected 3 constituents, got %d", len(got))
	}
	if got[0].Ticker != "MMM" || got[0].Sector != "Industrials" {
		t.Errorf("unexpected first row: %+v", got[0])
	}
	if got[1].CompanyName != "Apple Inc." || got[1].SubIndustry != "Technology Hardware, Storage & Peripherals" {
		t.Errorf("unexpected second row: %+v", got[1])
	}
}

func TestParseConstituentsDotToDash(t *testing.T) {
	got, err := parseConstituents(strings.NewReader(constituentsHTML))
	if err != nil {
		t.Fatalf("parseConstituents failed: %v", err)
	}
	if got[2].Ticker != "BRK-B" {
		t.Errorf("expected BRK.B mapped to BRK-B, got %q", got[2].Ticker)
	}
}

func TestParseConstituentsIgnoresOtherTables(t *testing.T) {
	got, _ := parseConstituents(strings.NewReader(constituentsHTML))
	for _, c := range got {
		if c.Ticker == "XYZ" {
			t.Error("row from non-constituents table should be ignored")
		}
	}
}

func TestParseConstituentsEmptyPage(t *testing.T) {
	_, err := parseConstituents(strings.NewReader("<html><body><p>no table here</p></body></html>"))
	if err == nil {
		t.Error("expected error for page without constituent table")
	}
}
