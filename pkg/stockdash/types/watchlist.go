package types

// Watchlist is a named group of stocks to track plus the columns and
// categories to show for them.
type Watchlist struct {
	Name       string
	Columns    []string
	Categories []string
	Stocks     []StockRequest
}
