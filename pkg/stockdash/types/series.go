package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// TimeSeriesPoint is a dated value on a chart axis. Date is ISO yyyy-mm-dd.
type TimeSeriesPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// TradeEvent is a completed buy/sell pair.
// The API encodes it as [buyDate, buyPrice, sellDate, sellPrice].
type TradeEvent struct {
	BuyDate   string  `json:"buy_date"`
	BuyPrice  float64 `json:"buy_price"`
	SellDate  string  `json:"sell_date"`
	SellPrice float64 `json:"sell_price"`
}

func (e *TradeEvent) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		type plain TradeEvent
		var p plain
		if err := json.Unmarshal(data, &p); err != nil {
			return err
		}
		*e = TradeEvent(p)
		return nil
	}
	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return fmt.Errorf("trade event: %w", err)
	}
	if len(tuple) != 4 {
		return fmt.Errorf("trade event: expected 4 elements, got %d", len(tuple))
	}
	var out TradeEvent
	if err := json.Unmarshal(tuple[0], &out.BuyDate); err != nil {
		return fmt.Errorf("trade event buy date: %w", err)
	}
	if err := json.Unmarshal(tuple[1], &out.BuyPrice); err != nil {
		return fmt.Errorf("trade event buy price: %w", err)
	}
	if err := json.Unmarshal(tuple[2], &out.SellDate); err != nil {
		return fmt.Errorf("trade event sell date: %w", err)
	}
	if err := json.Unmarshal(tuple[3], &out.SellPrice); err != nil {
		return fmt.Errorf("trade event sell price: %w", err)
	}
	*e = out
	return nil
}

// ProfitLossEntry is the realised profit of one trade, dated at the sell.
// The API encodes it as [date, delta].
type ProfitLossEntry struct {
	Date  string  `json:"date"`
	Delta float64 `json:"delta"`
}

func (p *ProfitLossEntry) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		type plain ProfitLossEntry
		var pl plain
		if err := json.Unmarshal(data, &pl); err != nil {
			return err
		}
		*p = ProfitLossEntry(pl)
		return nil
	}
	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return fmt.Errorf("profit/loss entry: %w", err)
	}
	if len(tuple) != 2 {
		return fmt.Errorf("profit/loss entry: expected 2 elements, got %d", len(tuple))
	}
	var out ProfitLossEntry
	if err := json.Unmarshal(tuple[0], &out.Date); err != nil {
		return fmt.Errorf("profit/loss date: %w", err)
	}
	if err := json.Unmarshal(tuple[1], &out.Delta); err != nil {
		return fmt.Errorf("profit/loss delta: %w", err)
	}
	*p = out
	return nil
}

// PriceBar is one OHLCV observation.
type PriceBar struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// PriceHistory is the stored price series of a stock.
type PriceHistory struct {
	Code   string     `json:"code"`
	Prices []PriceBar `json:"prices"`
}

// TradeSignal is one dated row of a backtested strategy.
// Prices are nil on rows without a buy or sell.
type TradeSignal struct {
	Country    string   `json:"country"`
	Date       string   `json:"date"`
	ClosePrice float64  `json:"close_price"`
	BuySignal  *float64 `json:"buy_signal"`
	BuyPrice   *float64 `json:"buy_price"`
	SellSignal *float64 `json:"sell_signal"`
	SellPrice  *float64 `json:"sell_price"`
}

// TradeList is the trade rows recorded for a code.
type TradeList struct {
	Code    string        `json:"code"`
	Results []TradeSignal `json:"results"`
}

// StrategyResult is the aggregate backtest summary for a code.
type StrategyResult struct {
	Code                string            `json:"code"`
	Country             string            `json:"country"`
	InitialInvestment   float64           `json:"initial_investment"`
	BuySellPairs        []TradeEvent      `json:"buy_sell_pairs_timestamp"`
	ProfitLossShares    []ProfitLossEntry `json:"profit_loss_shares"`
	StrategyROI         float64           `json:"strategy_roi"`
	TotalProfit         float64           `json:"total_profit"`
	TotalProfitPerTrade []float64         `json:"total_profit_per_trade"`
	TotalTrades         int               `json:"total_number_of_trades"`
	ProfitTrades        int               `json:"number_profit_trades"`
	LossTrades          int               `json:"number_loss_trades"`
	PctWin              float64           `json:"pct_win"`
	PctLoss             float64           `json:"pct_loss"`
	GreatestProfit      float64           `json:"greatest_profit"`
	GreatestLoss        float64           `json:"greatest_loss"`
}
