package align

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/komsit37/stockdash/pkg/stockdash/types"
)

// DefaultInitialInvestment is the capital the backtests assume.
const DefaultInitialInvestment = 1000.0

// ProfitLoss derives the per-trade profit of events when buying as many whole
// shares as initial allows at the buy price. Each entry is dated at the sell
// and rounded to cents.
func ProfitLoss(events []types.TradeEvent, initial float64) ([]types.ProfitLossEntry, error) {
	capital := decimal.NewFromFloat(initial)
	out := make([]types.ProfitLossEntry, 0, len(events))
	for _, e := range events {
		if e.BuyPrice <= 0 {
			return nil, fmt.Errorf("trade bought on %s: non-positive buy price %v", e.BuyDate, e.BuyPrice)
		}
		buy := decimal.NewFromFloat(e.BuyPrice)
		shares := capital.Div(buy).Floor()
		delta := shares.Mul(decimal.NewFromFloat(e.SellPrice).Sub(buy)).Round(2)
		out = append(out, types.ProfitLossEntry{Date: e.SellDate, Delta: delta.InexactFloat64()})
	}
	return out, nil
}

// CloseSeries maps price bars to their closing prices.
func CloseSeries(bars []types.PriceBar) []types.TimeSeriesPoint {
	out := make([]types.TimeSeriesPoint, len(bars))
	for i, b := range bars {
		out[i] = types.TimeSeriesPoint{Date: b.Date, Value: b.Close}
	}
	return out
}

// Markers splits events into buy and sell points for a price overlay.
func Markers(events []types.TradeEvent) (buys, sells []types.TimeSeriesPoint) {
	buys = make([]types.TimeSeriesPoint, 0, len(events))
	sells = make([]types.TimeSeriesPoint, 0, len(events))
	for _, e := range events {
		buys = append(buys, types.TimeSeriesPoint{Date: e.BuyDate, Value: e.BuyPrice})
		sells = append(sells, types.TimeSeriesPoint{Date: e.SellDate, Value: e.SellPrice})
	}
	return buys, sells
}

// SignalSeries maps backtest rows to their closing prices.
func SignalSeries(rows []types.TradeSignal) []types.TimeSeriesPoint {
	out := make([]types.TimeSeriesPoint, len(rows))
	for i, r := range rows {
		out[i] = types.TimeSeriesPoint{Date: r.Date, Value: r.ClosePrice}
	}
	return out
}

// CapitalGrowth aligns the running value of the backtest capital onto the
// union of the primary series dates and the result's trade dates. When the
// result carries no profit/loss entries they are derived from its trade pairs.
func CapitalGrowth(primary []types.TimeSeriesPoint, res types.StrategyResult) ([]types.TimeSeriesPoint, error) {
	initial := res.InitialInvestment
	if initial == 0 {
		initial = DefaultInitialInvestment
	}
	entries := res.ProfitLossShares
	if len(entries) == 0 && len(res.BuySellPairs) > 0 {
		var err error
		entries, err = ProfitLoss(res.BuySellPairs, initial)
		if err != nil {
			return nil, err
		}
	}
	dates, err := ConsolidateDates(primary, res.BuySellPairs, entries)
	if err != nil {
		return nil, err
	}
	return AlignCumulativeSeries(dates, initial, entries)
}
