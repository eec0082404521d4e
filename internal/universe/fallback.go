package universe

import "github.com/Milokay/sp500-pipeline/internal/domain"

// fallbackConstituents is a hardcoded slice of large-cap names used when both
// the cache and the live scrape are unavailable. Not a substitute for the full
// index, but enough to keep a run useful.
var fallbackConstituents = []domain.Constituent{
	{Ticker: "AAPL", CompanyName: "Apple Inc.", Sector: "Information Technology", SubIndustry: "Technology Hardware, Storage & Peripherals"},
	{Ticker: "MSFT", CompanyName: "Microsoft Corporation", Sector: "Information Technology", SubIndustry: "Systems Software"},
	{Ticker: "AMZN", CompanyName: "Amazon.com Inc.", Sector: "Consumer Discretionary", SubIndustry: "Broadline Retail"},
	{Ticker: "NVDA", CompanyName: "NVIDIA Corporation", Sector: "Information Technology", SubIndustry: "Semiconductors"},
	{Ticker: "GOOGL", CompanyName: "Alphabet Inc. Class A", Sector: "Communication Services", SubIndustry: "Interactive Media & Services"},
	{Ticker: "META", CompanyName: "Meta Platforms Inc.", Sector: "Communication Services", SubIndustry: "Interactive Media & Services"},
	{Ticker: "BRK-B", CompanyName: "Berkshire Hathaway Inc.", Sector: "Financials", SubIndustry: "Multi-Sector Holdings"},
	{Ticker: "JPM", CompanyName: "JPMorgan Chase & Co.", Sector: "Financials", SubIndustry: "Diversified Banks"},
	{Ticker: "JNJ", CompanyName: "Johnson & Johnson", Sector: "Health Care", SubIndustry: "Pharmaceuticals"},
	{Ticker: "V", CompanyName: "Visa Inc.", Sector: "Financials", SubIndustry: "Transaction & Payment Processing Services"},
	{Ticker: "XOM", CompanyName: "Exxon Mobil Corporation", Sector: "Energy", SubIndustry: "Integrated Oil & Gas"},
	{Ticker: "PG", CompanyName: "Procter & Gamble Co.", Sector: "Consumer Staples", SubIndustry: "Household Products"},
	{Ticker: "UNH", CompanyName: "UnitedHealth Group Inc.", Sector: "Health Care", SubIndustry: "Managed Health Care"},
	{Ticker: "MA", CompanyName: "Mastercard Inc.", Sector: "Financials", SubIndustry: "Transaction & Payment Processing Services"},
	{Ticker: "HD", CompanyName: "The Home Depot Inc.", Sector: "Consumer Discretionary", SubIndustry: "Home Improvement Retail"},
	{Ticker: "CVX", CompanyName: "Chevron Corporation", Sector: "Energy", SubIndustry: "Integrated Oil & Gas"},
	{Ticker: "MRK", CompanyName: "Merck & Co. Inc.", Sector: "Health Care", SubIndustry: "Pharmaceuticals"},
	{Ticker: "ABBV", CompanyName: "AbbVie Inc.", Sector: "Health Care", SubIndustry: "Biotechnology"},
	{Ticker: "PEP", CompanyName: "PepsiCo Inc.", Sector: "Consumer Staples", SubIndustry: "Soft Drinks & Non-alcoholic Beverages"},
	{Ticker: "KO", CompanyName: "The Coca-Cola Company", Sector: "Consumer Staples", SubIndustry: "Soft Drinks & Non-alcoholic Beverages"},
	{Ticker: "LLY", CompanyName: "Eli Lilly and Company", Sector: "Health Care", SubIndustry: "Pharmaceuticals"},
	{Ticker: "COST", CompanyName: "Costco Wholesale Corporation", Sector: "Consumer Staples", SubIndustry: "Hypermarkets & Super Centers"},
	{Ticker: "WMT", CompanyName: "Walmart Inc.", Sector: "Consumer Staples", SubIndustry: "Hypermarkets & Super Centers"},
	{Ticker: "DIS", CompanyName: "The Walt Disney Company", Sector: "Communication Services", SubIndustry: "Movies & Entertainment"},
	{Ticker: "CSCO", CompanyName: "Cisco Systems Inc.", Sector: "Information Technology", SubIndustry: "Communications Equipment"},
	{Ticker: "VZ", CompanyName: "Verizon Communications Inc.", Sector: "Communication Services", SubIndustry: "Integrated Telecommunication Services"},
	{Ticker: "INTC", CompanyName: "Intel Corporation", Sector: "Information Technology", SubIndustry: "Semiconductors"},
	{Ticker: "CRM", CompanyName: "Salesforce Inc.", Sector: "Information Technology", SubIndustry: "Application Software"},
	{Ticker: "BA", CompanyName: "The Boeing Company", Sector: "Industrials", SubIndustry: "Aerospace & Defense"},
	{Ticker: "NKE", CompanyName: "NIKE Inc.", Sector: "Consumer Discretionary", SubIndustry: "Footwear"},
}
