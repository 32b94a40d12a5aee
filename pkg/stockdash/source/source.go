// Package source loads watch files: stocks to track and column presets.
package source

import (
	"context"

	"github.com/komsit37/stockdash/pkg/stockdash/types"
)

// Source loads watchlists from a location such as a file path.
type Source interface {
	Load(ctx context.Context, spec any) ([]types.Watchlist, error)
}

// Stocks returns every stock of lists once, first occurrence wins.
func Stocks(lists []types.Watchlist) []types.StockRequest {
	seen := map[types.StockRequest]struct{}{}
	var out []types.StockRequest
	for _, l := range lists {
		for _, s := range l.Stocks {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}
