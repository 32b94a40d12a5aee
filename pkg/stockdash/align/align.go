// Package align merges independently fetched series onto one date axis.
package align

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/komsit37/stockdash/pkg/stockdash/types"
)

// DateLayout is the canonical calendar date format of aligned series.
const DateLayout = "2006-01-02"

var layouts = []string{
	DateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC1123, // "Tue, 02 Jan 2024 00:00:00 GMT" from the API JSON encoder
}

// ParseDate parses s in any accepted layout.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// NormalizeDate returns s as a yyyy-mm-dd calendar date.
func NormalizeDate(s string) (string, error) {
	t, err := ParseDate(s)
	if err != nil {
		return "", err
	}
	return t.Format(DateLayout), nil
}

// ConsolidateDates collects every distinct date in the primary series, the
// buy and sell endpoints of events, and the profit/loss entries, and returns
// them ascending by calendar date. Dates are normalized to yyyy-mm-dd before
// de-duplication.
func ConsolidateDates(primary []types.TimeSeriesPoint, events []types.TradeEvent, entries []types.ProfitLossEntry) ([]string, error) {
	seen := map[string]time.Time{}
	add := func(raw string) error {
		t, err := ParseDate(raw)
		if err != nil {
			return err
		}
		d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		seen[d.Format(DateLayout)] = d
		return nil
	}
	for _, p := range primary {
		if err := add(p.Date); err != nil {
			return nil, fmt.Errorf("primary series: %w", err)
		}
	}
	for _, e := range events {
		if err := add(e.BuyDate); err != nil {
			return nil, fmt.Errorf("buy date: %w", err)
		}
		if err := add(e.SellDate); err != nil {
			return nil, fmt.Errorf("sell date: %w", err)
		}
	}
	for _, pl := range entries {
		if err := add(pl.Date); err != nil {
			return nil, fmt.Errorf("profit/loss: %w", err)
		}
	}

	out := make([]string, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return seen[out[i]].Before(seen[out[j]]) })
	return out, nil
}

// AlignCumulativeSeries walks allDates once with a running total seeded at
// initial. Each profit/loss entry dated on a given day is added before that
// day's point is emitted; days without an entry repeat the previous total.
// The result has one point per input date, in input order.
func AlignCumulativeSeries(allDates []string, initial float64, entries []types.ProfitLossEntry) ([]types.TimeSeriesPoint, error) {
	norm := make([]string, len(entries))
	for i, e := range entries {
		d, err := NormalizeDate(e.Date)
		if err != nil {
			return nil, fmt.Errorf("profit/loss: %w", err)
		}
		norm[i] = d
	}

	running := decimal.NewFromFloat(initial)
	out := make([]types.TimeSeriesPoint, 0, len(allDates))
	for _, raw := range allDates {
		date, err := NormalizeDate(raw)
		if err != nil {
			return nil, err
		}
		for i, e := range entries {
			if norm[i] == date {
				running = running.Add(decimal.NewFromFloat(e.Delta))
			}
		}
		out = append(out, types.TimeSeriesPoint{Date: date, Value: running.InexactFloat64()})
	}
	return out, nil
}
