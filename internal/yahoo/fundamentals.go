package yahoo

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"time"

	"github.com/Milokay/sp500-pipeline/internal/domain"
)

// quoteSummaryModules are the statement groups requested in one call.
const quoteSummaryModules = "assetProfile,price,summaryDetail,financialData,defaultKeyStatistics,cashflowStatementHistory,balanceSheetHistory,incomeStatementHistory"

// rawValue is the {"raw": n, "fmt": "..."} wrapper the API puts around
// every numeric field. Raw is nil when the field is absent.
type rawValue struct {
	Raw *float64 `json:"raw"`
}

func (v rawValue) float() *float64 {
	if v.Raw == nil || math.IsNaN(*v.Raw) || math.IsInf(*v.Raw, 0) {
		return nil
	}
	return v.Raw
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []quoteSummaryResult `json:"result"`
		Error  *apiError            `json:"error"`
	} `json:"quoteSummary"`
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type quoteSummaryResult struct {
	AssetProfile struct {
		Sector   string `json:"sector"`
		Industry string `json:"industry"`
	} `json:"assetProfile"`
	Price struct {
		RegularMarketPrice rawValue `json:"regularMarketPrice"`
		MarketCap          rawValue `json:"marketCap"`
	} `json:"price"`
	SummaryDetail struct {
		Beta      rawValue `json:"beta"`
		ForwardPE rawValue `json:"forwardPE"`
	} `json:"summaryDetail"`
	FinancialData struct {
		CurrentPrice            rawValue `json:"currentPrice"`
		EBITDA                  rawValue `json:"ebitda"`
		EBITDAMargins           rawValue `json:"ebitdaMargins"`
		TotalRevenue            rawValue `json:"totalRevenue"`
		RevenueGrowth           rawValue `json:"revenueGrowth"`
		ReturnOnEquity          rawValue `json:"returnOnEquity"`
		TotalDebt               rawValue `json:"totalDebt"`
		TotalCash               rawValue `json:"totalCash"`
		TargetMeanPrice         rawValue `json:"targetMeanPrice"`
		NumberOfAnalystOpinions rawValue `json:"numberOfAnalystOpinions"`
	} `json:"financialData"`
	DefaultKeyStatistics struct {
		SharesOutstanding   rawValue `json:"sharesOutstanding"`
		TrailingEPS         rawValue `json:"trailingEps"`
		EnterpriseToEBITDA  rawValue `json:"enterpriseToEbitda"`
		EnterpriseToRevenue rawValue `json:"enterpriseToRevenue"`
		PriceToBook         rawValue `json:"priceToBook"`
	} `json:"defaultKeyStatistics"`
	CashflowStatementHistory struct {
		Statements []struct {
			TotalCashFromOperatingActivities rawValue `json:"totalCashFromOperatingActivities"`
			CapitalExpenditures              rawValue `json:"capitalExpenditures"`
		} `json:"cashflowStatements"`
	} `json:"cashflowStatementHistory"`
	BalanceSheetHistory struct {
		Statements []struct {
			LongTermDebt rawValue `json:"longTermDebt"`
		} `json:"balanceSheetStatements"`
	} `json:"balanceSheetHistory"`
	IncomeStatementHistory struct {
		Statements []struct {
			InterestExpense rawValue `json:"interestExpense"`
			TotalRevenue    rawValue `json:"totalRevenue"`
		} `json:"incomeStatementHistory"`
	} `json:"incomeStatementHistory"`
}

// Fundamentals fetches one ticker's fundamental snapshot. Missing fields stay
// nil; only a transport failure or an explicit API error is fatal.
func (c *Client) Fundamentals(ctx context.Context, ticker string) (domain.FundamentalsRecord, error) {
	path := fmt.Sprintf("/v10/finance/quoteSummary/%s?modules=%s", url.PathEscape(ticker), quoteSummaryModules)

	var resp quoteSummaryResponse
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return domain.FundamentalsRecord{}, fmt.Errorf("fetching fundamentals for %s: %w", ticker, err)
	}
	if resp.QuoteSummary.Error != nil {
		return domain.FundamentalsRecord{}, fmt.Errorf("fundamentals API error for %s: %s", ticker, resp.QuoteSummary.Error.Description)
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return domain.FundamentalsRecord{}, fmt.Errorf("no fundamentals result for %s", ticker)
	}

	return buildRecord(ticker, resp.QuoteSummary.Result[0]), nil
}

func buildRecord(ticker string, r quoteSummaryResult) domain.FundamentalsRecord {
	rec := domain.FundamentalsRecord{
		Ticker:   ticker,
		Sector:   r.AssetProfile.Sector,
		Industry: r.AssetProfile.Industry,

		CurrentPrice:      firstNonNil(r.FinancialData.CurrentPrice.float(), r.Price.RegularMarketPrice.float()),
		MarketCap:         r.Price.MarketCap.float(),
		SharesOutstanding: r.DefaultKeyStatistics.SharesOutstanding.float(),
		Beta:              r.SummaryDetail.Beta.float(),

		TrailingEPS:    r.DefaultKeyStatistics.TrailingEPS.float(),
		ForwardPE:      r.SummaryDetail.ForwardPE.float(),
		EBITDA:         r.FinancialData.EBITDA.float(),
		EBITDAMargin:   r.FinancialData.EBITDAMargins.float(),
		TotalRevenue:   r.FinancialData.TotalRevenue.float(),
		ReturnOnEquity: r.FinancialData.ReturnOnEquity.float(),

		TotalDebt: r.FinancialData.TotalDebt.float(),
		TotalCash: r.FinancialData.TotalCash.float(),

		EVToEBITDA:  r.DefaultKeyStatistics.EnterpriseToEBITDA.float(),
		EVToRevenue: r.DefaultKeyStatistics.EnterpriseToRevenue.float(),
		PriceToBook: r.DefaultKeyStatistics.PriceToBook.float(),

		AnalystTargetPrice: r.FinancialData.TargetMeanPrice.float(),

		FetchedAt: time.Now().UTC(),
	}

	if n := r.FinancialData.NumberOfAnalystOpinions.float(); n != nil {
		count := int(*n)
		rec.AnalystCount = &count
	}

	// Free cash flow = operating cash flow + capex (capex reported negative),
	// most recent year first, up to three years.
	for i, stmt := range r.CashflowStatementHistory.Statements {
		if i >= 3 {
			break
		}
		ocf := stmt.TotalCashFromOperatingActivities.float()
		capex := stmt.CapitalExpenditures.float()
		if ocf == nil || capex == nil {
			break
		}
		rec.FreeCashFlow = append(rec.FreeCashFlow, *ocf+*capex)
	}

	if rec.TotalDebt == nil && len(r.BalanceSheetHistory.Statements) > 0 {
		rec.TotalDebt = r.BalanceSheetHistory.Statements[0].LongTermDebt.float()
	}

	if stmts := r.IncomeStatementHistory.Statements; len(stmts) > 0 {
		if v := stmts[0].InterestExpense.float(); v != nil && *v != 0 {
			abs := math.Abs(*v)
			rec.InterestExpense = &abs
		}
		// Year-over-year revenue growth from the income statement; the
		// financialData quarterly figure is the fallback.
		if len(stmts) >= 2 {
			cur, prev := stmts[0].TotalRevenue.float(), stmts[1].TotalRevenue.float()
			if cur != nil && prev != nil && *prev != 0 {
				growth := (*cur - *prev) / math.Abs(*prev)
				rec.RevenueGrowth = &growth
			}
		}
	}
	if rec.RevenueGrowth == nil {
		rec.RevenueGrowth = r.FinancialData.RevenueGrowth.float()
	}

	return rec
}

func firstNonNil(vals ...*float64) *float64 {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}
