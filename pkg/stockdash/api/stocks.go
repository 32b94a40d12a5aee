package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/komsit37/stockdash/pkg/stockdash/metrics"
	"github.com/komsit37/stockdash/pkg/stockdash/types"
)

// ListStocks returns every tracked stock. The API answers with a single
// object instead of an array when exactly one stock is tracked; both are
// accepted. Fields outside the metric registry are dropped.
func (c *Client) ListStocks(ctx context.Context) ([]types.Record, error) {
	var raw json.RawMessage
	if err := c.do(ctx, "list stocks", http.MethodGet, "/api/stock/", nil, &raw); err != nil {
		return nil, err
	}
	var objs []map[string]any
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var one map[string]any
		if err := json.Unmarshal(trimmed, &one); err != nil {
			return nil, fmt.Errorf("list stocks: %w", err)
		}
		objs = []map[string]any{one}
	} else if err := json.Unmarshal(trimmed, &objs); err != nil {
		return nil, fmt.Errorf("list stocks: %w", err)
	}

	out := make([]types.Record, 0, len(objs))
	for _, o := range objs {
		rec, dropped, err := metrics.ValidateRecord(o)
		if err != nil {
			return nil, fmt.Errorf("list stocks: %w", err)
		}
		if len(dropped) > 0 {
			c.Logger.Warn("dropped unknown or invalid stock fields",
				zap.String("code", rec.Code()), zap.Strings("fields", dropped))
		}
		out = append(out, rec)
	}
	return out, nil
}

// AddStock starts tracking a stock.
func (c *Client) AddStock(ctx context.Context, req types.StockRequest) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("add stock: %w", err)
	}
	return c.do(ctx, "add stock", http.MethodPost, "/api/stock/", req, nil)
}

// DeleteStock stops tracking the stock with id.
func (c *Client) DeleteStock(ctx context.Context, id int64) error {
	return c.do(ctx, "delete stock", http.MethodDelete, "/api/stock/"+strconv.FormatInt(id, 10), nil, nil)
}

// DeleteAllStocks removes every tracked stock.
func (c *Client) DeleteAllStocks(ctx context.Context) error {
	return c.do(ctx, "delete all stocks", http.MethodDelete, "/api/stock/", nil, nil)
}

// GetStockPrices returns the stored price history of code.
func (c *Client) GetStockPrices(ctx context.Context, code string) (types.PriceHistory, error) {
	var out types.PriceHistory
	err := c.do(ctx, "get stock prices", http.MethodGet, "/api/stock_price/"+url.PathEscape(code), nil, &out)
	return out, err
}

// AddStockPrices asks the API to download and store a price history.
func (c *Client) AddStockPrices(ctx context.Context, req types.PriceRequest) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("add stock prices: %w", err)
	}
	return c.do(ctx, "add stock prices", http.MethodPost, "/api/stock_price/", req, nil)
}

// DeleteAllStockPrices removes every stored price history.
func (c *Client) DeleteAllStockPrices(ctx context.Context) error {
	return c.do(ctx, "delete all stock prices", http.MethodDelete, "/api/stock_price/", nil, nil)
}
