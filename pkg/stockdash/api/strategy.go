package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/komsit37/stockdash/pkg/stockdash/types"
)

// AddStrategy backtests req on the server and stores its trades and results.
func (c *Client) AddStrategy(ctx context.Context, req types.StrategyRequest) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("add strategy: %w", err)
	}
	return c.do(ctx, "add strategy", http.MethodPost, "/api/strategy/", req, nil)
}

// GetTrades returns the per-day trade rows recorded for code.
func (c *Client) GetTrades(ctx context.Context, code string) (types.TradeList, error) {
	var out types.TradeList
	err := c.do(ctx, "get trades", http.MethodGet, "/api/strategy/trades/"+url.PathEscape(code), nil, &out)
	return out, err
}

// GetResults returns the backtest summary recorded for code.
func (c *Client) GetResults(ctx context.Context, code string) (types.StrategyResult, error) {
	var out types.StrategyResult
	err := c.do(ctx, "get results", http.MethodGet, "/api/strategy/results/"+url.PathEscape(code), nil, &out)
	return out, err
}

// DeleteStrategy removes the trades and results recorded for code.
func (c *Client) DeleteStrategy(ctx context.Context, code string) error {
	return c.do(ctx, "delete strategy", http.MethodDelete, "/api/strategy/"+url.PathEscape(code), nil, nil)
}
