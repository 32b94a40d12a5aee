package types

import (
	"fmt"
	"strings"
)

// Choices offered by the API for stock and strategy requests.
var (
	Countries  = []string{"AUS", "US"}
	Strategies = []string{"MA", "MACD", "RSI", "VW_MACD"}
	Periods    = []string{"1d", "5d", "1mo", "3mo", "6mo", "ytd", "1y", "2y", "5y", "10y", "max"}
	Intervals  = []string{"1m", "2m", "5m", "15m", "30m", "60m", "90m", "1h", "1d", "5d", "1wk", "1mo", "3mo"}
)

// StockRequest adds a stock to the tracked list.
type StockRequest struct {
	Code    string `json:"stock"`
	Country string `json:"country"`
}

func (r StockRequest) Validate() error {
	if strings.TrimSpace(r.Code) == "" {
		return fmt.Errorf("stock code is required")
	}
	return oneOf("country", r.Country, Countries)
}

// PriceRequest asks the API to download and store a price history.
type PriceRequest struct {
	Code         string `json:"code"`
	Country      string `json:"country"`
	TimePeriod   string `json:"time_period"`
	TimeInterval string `json:"time_interval"`
}

func (r PriceRequest) Validate() error {
	if strings.TrimSpace(r.Code) == "" {
		return fmt.Errorf("stock code is required")
	}
	if err := oneOf("country", r.Country, Countries); err != nil {
		return err
	}
	if err := oneOf("time period", r.TimePeriod, Periods); err != nil {
		return err
	}
	return oneOf("time interval", r.TimeInterval, Intervals)
}

// StrategyRequest asks the API to backtest a strategy for a code.
type StrategyRequest struct {
	Code         string `json:"code"`
	Country      string `json:"country"`
	Strategy     string `json:"strategy"`
	TimePeriod   string `json:"time_period"`
	TimeInterval string `json:"time_interval"`
	WindowSlow   int    `json:"window_slow"`
	WindowFast   int    `json:"window_fast"`
}

func (r StrategyRequest) Validate() error {
	if strings.TrimSpace(r.Code) == "" {
		return fmt.Errorf("stock code is required")
	}
	if err := oneOf("country", r.Country, Countries); err != nil {
		return err
	}
	if err := oneOf("strategy", r.Strategy, Strategies); err != nil {
		return err
	}
	if err := oneOf("time period", r.TimePeriod, Periods); err != nil {
		return err
	}
	if err := oneOf("time interval", r.TimeInterval, Intervals); err != nil {
		return err
	}
	if r.WindowSlow <= 0 || r.WindowFast <= 0 {
		return fmt.Errorf("windows must be positive: slow=%d fast=%d", r.WindowSlow, r.WindowFast)
	}
	return nil
}

func oneOf(field, v string, allowed []string) error {
	for _, a := range allowed {
		if v == a {
			return nil
		}
	}
	return fmt.Errorf("invalid %s %q; expected one of: %s", field, v, strings.Join(allowed, ", "))
}
