package screen

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/komsit37/stockdash/pkg/stockdash/align"
	"github.com/komsit37/stockdash/pkg/stockdash/api"
	"github.com/komsit37/stockdash/pkg/stockdash/types"
)

// PriceAPI is the part of the API the chart screen calls.
type PriceAPI interface {
	GetStockPrices(ctx context.Context, code string) (types.PriceHistory, error)
	AddStockPrices(ctx context.Context, req types.PriceRequest) error
}

// Chart is the price history screen of one stock.
type Chart struct {
	api PriceAPI
	seq api.Sequencer
	log *zap.Logger

	code string
	bars []types.PriceBar
	err  error
}

func NewChart(a PriceAPI, logger *zap.Logger) *Chart {
	return &Chart{api: a, log: Options{Logger: logger}.logger()}
}

func (c *Chart) Begin() api.Ticket { return c.seq.Next() }

func (c *Chart) Fetch(ctx context.Context, t api.Ticket, code string) (types.PriceHistory, error) {
	return c.api.GetStockPrices(t.Context(ctx), code)
}

// Apply stores the outcome of the fetch for t, dropping stale outcomes.
func (c *Chart) Apply(t api.Ticket, code string, hist types.PriceHistory, err error) bool {
	if !c.seq.IsLatest(t) {
		c.log.Debug("dropping stale price history", zap.String("code", code), zap.Uint64("seq", t.Seq))
		return false
	}
	c.code = code
	if err != nil {
		c.bars, c.err = nil, err
		return true
	}
	c.bars, c.err = hist.Prices, nil
	return true
}

// Load fetches the stored price history of code.
func (c *Chart) Load(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)
	t := c.Begin()
	hist, err := c.Fetch(ctx, t, code)
	c.Apply(t, code, hist, err)
	return c.err
}

// Download asks the API to store a fresh history for req, then loads it.
// A conflict means the history is already stored.
func (c *Chart) Download(ctx context.Context, req types.PriceRequest) error {
	if err := c.api.AddStockPrices(ctx, req); err != nil {
		if !api.IsConflict(err) {
			c.code, c.bars, c.err = req.Code, nil, err
			return err
		}
		c.log.Info("price history already stored", zap.String("code", req.Code))
	}
	return c.Load(ctx, req.Code)
}

func (c *Chart) Code() string { return c.code }
func (c *Chart) Bars() []types.PriceBar { return c.bars }
func (c *Chart) HasData() bool { return len(c.bars) > 0 }
func (c *Chart) Err() error { return c.err }

// Series is the closing price line.
func (c *Chart) Series() []types.TimeSeriesPoint { return align.CloseSeries(c.bars) }
