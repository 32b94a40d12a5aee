package metrics

import (
	"github.com/komsit37/stockdash/pkg/stockdash/types"
)

// Rule selects how a metric value is formatted for display.
type Rule int

const (
	RuleDecimal Rule = iota
	RuleLiteral
	RuleCurrency
	RuleScaledCurrency
	RulePercent
)

func (r Rule) String() string {
	switch r {
	case RuleLiteral:
		return "literal"
	case RuleCurrency:
		return "currency"
	case RuleScaledCurrency:
		return "scaled"
	case RulePercent:
		return "percent"
	default:
		return "decimal"
	}
}

// Category names, in display order.
const (
	CategoryIdentifier = "Identifier"
	CategoryPrice      = "Stock Price Metrics"
	CategoryValue      = "Value Metrics"
	CategoryDividend   = "Dividend Metrics"
	CategoryBalance    = "Balance Sheet Metrics"
	CategoryIncome     = "Income Related Metrics"
	CategoryCashFlow   = "Cash Flow Metrics"
	CategoryLive       = "Live Quote"
)

type metric struct {
	def  types.MetricDefinition
	rule Rule
}

func m(key, name, category string, rule Rule) metric {
	return metric{def: types.MetricDefinition{Key: key, DisplayName: name, Category: category}, rule: rule}
}

// registry is the fixed, category-grouped column order of the stats table.
// Totals (market cap, cash, revenue...) arrive denominated in millions.
var registry = []metric{
	m("code", "Code", CategoryIdentifier, RuleLiteral),
	m("country", "Country", CategoryIdentifier, RuleLiteral),

	m("price", "Price", CategoryPrice, RuleCurrency),
	m("marketCap", "Market Cap", CategoryPrice, RuleScaledCurrency),
	m("numSharesAvail", "Shares Available", CategoryPrice, RuleDecimal),
	m("yearlyLowPrice", "Yearly Low", CategoryPrice, RuleCurrency),
	m("yearlyHighPrice", "Yearly High", CategoryPrice, RuleCurrency),
	m("fiftyDayMA", "50 Day MA", CategoryPrice, RuleCurrency),
	m("twoHundredDayMA", "200 Day MA", CategoryPrice, RuleCurrency),

	m("acquirersMultiple", "Acquirers Multiple", CategoryValue, RuleDecimal),
	m("currentRatio", "Current Ratio", CategoryValue, RuleDecimal),
	m("enterpriseValue", "Enterprise Value", CategoryValue, RuleScaledCurrency),
	m("eps", "EPS", CategoryValue, RuleCurrency),
	m("evToEBITDA", "EV/EBITDA", CategoryValue, RuleDecimal),
	m("evToRev", "EV/Rev", CategoryValue, RuleDecimal),
	m("peRatioTrail", "P/E (Trail)", CategoryValue, RuleDecimal),
	m("peRatioForward", "P/E (Forward)", CategoryValue, RuleDecimal),
	m("priceToSales", "Price to Sales", CategoryValue, RuleDecimal),
	m("priceToBook", "Price to Book", CategoryValue, RuleDecimal),

	m("dividendYield", "Dividend Yield", CategoryDividend, RulePercent),
	m("dividendRate", "Dividend Rate", CategoryDividend, RuleCurrency),
	m("exDivDate", "Ex-Dividend Date", CategoryDividend, RuleLiteral),
	m("payoutRatio", "Payout Ratio", CategoryDividend, RulePercent),

	m("bookValPerShare", "Book Value per Share", CategoryBalance, RuleCurrency),
	m("cash", "Cash", CategoryBalance, RuleScaledCurrency),
	m("cashPerShare", "Cash per Share", CategoryBalance, RuleCurrency),
	m("cashToMarketCap", "Cash to Market Cap", CategoryBalance, RulePercent),
	m("cashToDebt", "Cash to Debt", CategoryBalance, RuleDecimal),
	m("debt", "Debt", CategoryBalance, RuleScaledCurrency),
	m("debtToMarketCap", "Debt to Market Cap", CategoryBalance, RulePercent),
	m("debtToEquityRatio", "Debt to Equity Ratio", CategoryBalance, RulePercent),
	m("returnOnAssets", "Return on Assets", CategoryBalance, RulePercent),
	m("returnOnEquity", "Return on Equity", CategoryBalance, RulePercent),

	m("ebitda", "EBITDA", CategoryIncome, RuleScaledCurrency),
	m("ebitdaPerShare", "EBITDA per Share", CategoryIncome, RuleDecimal),
	m("earningsGrowth", "Earnings Growth", CategoryIncome, RulePercent),
	m("grossProfit", "Gross Profit", CategoryIncome, RuleScaledCurrency),
	m("grossProfitPerShare", "Gross Profit per Share", CategoryIncome, RuleDecimal),
	m("netIncome", "Net Income", CategoryIncome, RuleScaledCurrency),
	m("netIncomePerShare", "Net Income per Share", CategoryIncome, RuleDecimal),
	m("operatingMargin", "Operating Margin", CategoryIncome, RulePercent),
	m("profitMargin", "Profit Margin", CategoryIncome, RulePercent),
	m("revenue", "Revenue", CategoryIncome, RuleScaledCurrency),
	m("revenueGrowth", "Revenue Growth", CategoryIncome, RulePercent),
	m("revenuePerShare", "Revenue per Share", CategoryIncome, RuleDecimal),

	m("fcf", "Free Cash Flow", CategoryCashFlow, RuleScaledCurrency),
	m("fcfToMarketCap", "Free Cash Flow to Market Cap", CategoryCashFlow, RuleDecimal),
	m("fcfPerShare", "Free Cash Flow per Share", CategoryCashFlow, RuleDecimal),
	m("fcfToEV", "Free Cash Flow to Enterprise Value", CategoryCashFlow, RuleDecimal),
	m("ocf", "Operating Cash Flow", CategoryCashFlow, RuleScaledCurrency),
	m("ocfToRevenueRatio", "Operating Cash Flow to Revenue Ratio", CategoryCashFlow, RulePercent),
	m("ocfToMarketCap", "Operating Cash Flow to Market Cap", CategoryCashFlow, RuleDecimal),
	m("ocfPerShare", "Operating Cash Flow per Share", CategoryCashFlow, RuleDecimal),
	m("ocfToEV", "Operating Cash Flow to Enterprise Value", CategoryCashFlow, RuleDecimal),

	m("livePrice", "Live Price", CategoryLive, RuleCurrency),
	m("liveChange", "Live Chg%", CategoryLive, RulePercent),
}

var byKey = func() map[string]int {
	idx := make(map[string]int, len(registry))
	for i, mt := range registry {
		idx[mt.def.Key] = i
	}
	return idx
}()

// DefaultVisible are the metrics shown when a stats screen is first opened.
var DefaultVisible = []string{"code", "country", "price"}

// Lookup returns the definition for key.
func Lookup(key string) (types.MetricDefinition, bool) {
	i, ok := byKey[key]
	if !ok {
		return types.MetricDefinition{}, false
	}
	return registry[i].def, true
}

// Known reports whether key is a registered metric.
func Known(key string) bool {
	_, ok := byKey[key]
	return ok
}

// RuleFor returns the formatting rule for key and whether key is registered.
func RuleFor(key string) (Rule, bool) {
	i, ok := byKey[key]
	if !ok {
		return RuleDecimal, false
	}
	return registry[i].rule, true
}

// Registry returns a copy of all metric definitions in display order.
func Registry() []types.MetricDefinition {
	out := make([]types.MetricDefinition, len(registry))
	for i, mt := range registry {
		out[i] = mt.def
	}
	return out
}

// Order returns all metric keys in display order.
func Order() []string {
	out := make([]string, len(registry))
	for i, mt := range registry {
		out[i] = mt.def.Key
	}
	return out
}

// Header returns the display name for key, or key itself when unknown.
func Header(key string) string {
	if def, ok := Lookup(key); ok {
		return def.DisplayName
	}
	return key
}
