package align

import (
	"testing"

	"github.com/komsit37/stockdash/pkg/stockdash/types"
)

func pts(dates ...string) []types.TimeSeriesPoint {
	out := make([]types.TimeSeriesPoint, len(dates))
	for i, d := range dates {
		out[i] = types.TimeSeriesPoint{Date: d, Value: float64(i)}
	}
	return out
}

func TestConsolidateDatesChronologicalNotLexical(t *testing.T) {
	primary := pts("2024-01-03", "2024-01-01")
	events := []types.TradeEvent{{BuyDate: "2024-01-02", BuyPrice: 10, SellDate: "2024-01-10", SellPrice: 12}}
	entries := []types.ProfitLossEntry{{Date: "Wed, 10 Jan 2024 00:00:00 GMT", Delta: 20}, {Date: "2023-12-31", Delta: 1}}

	got, err := ConsolidateDates(primary, events, entries)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"2023-12-31", "2024-01-01", "2024-01-02", "2024-01-03", "2024-01-10"}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func TestConsolidateDatesNoDropNoDuplicate(t *testing.T) {
	primary := pts("2024-03-01", "2024-03-02", "2024-03-02")
	events := []types.TradeEvent{
		{BuyDate: "2024-03-01", SellDate: "2024-03-05"},
		{BuyDate: "2024-02-28", SellDate: "2024-03-02"},
	}
	entries := []types.ProfitLossEntry{{Date: "2024-03-05"}, {Date: "2024-03-07"}}
	got, err := ConsolidateDates(primary, events, entries)
	if err != nil {
		t.Fatal(err)
	}
	set := map[string]int{}
	for _, d := range got {
		set[d]++
	}
	for _, d := range []string{"2024-02-28", "2024-03-01", "2024-03-02", "2024-03-05", "2024-03-07"} {
		if set[d] != 1 {
			t.Fatalf("date %s appears %d times in %v", d, set[d], got)
		}
	}
	if len(got) != 5 {
		t.Fatalf("unexpected extra dates %v", got)
	}
	for i := 1; i < len(got); i++ {
		a, _ := ParseDate(got[i-1])
		b, _ := ParseDate(got[i])
		if b.Before(a) {
			t.Fatalf("not non-decreasing at %d: %v", i, got)
		}
	}
}

func TestConsolidateDatesInvalid(t *testing.T) {
	if _, err := ConsolidateDates(pts("not-a-date"), nil, nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestAlignCumulativeSeriesStepFunction(t *testing.T) {
	dates := []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04"}
	entries := []types.ProfitLossEntry{
		{Date: "2024-01-01", Delta: 5.5},
		{Date: "2024-01-03", Delta: -20.25},
	}
	got, err := AlignCumulativeSeries(dates, 1000, entries)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(dates) {
		t.Fatalf("len=%d want %d", len(got), len(dates))
	}
	want := []float64{1005.5, 1005.5, 985.25, 985.25}
	for i, p := range got {
		if p.Date != dates[i] || p.Value != want[i] {
			t.Fatalf("point %d = %+v want %s/%v", i, p, dates[i], want[i])
		}
	}
}

func TestAlignCumulativeSeriesNoEntries(t *testing.T) {
	got, err := AlignCumulativeSeries([]string{"2024-01-01", "2024-01-02"}, 250, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range got {
		if p.Value != 250 {
			t.Fatalf("expected flat series, got %+v", got)
		}
	}
	empty, err := AlignCumulativeSeries(nil, 250, nil)
	if err != nil || len(empty) != 0 {
		t.Fatalf("empty input: %v %v", empty, err)
	}
}

func TestAlignCumulativeSeriesSameDayEntries(t *testing.T) {
	got, err := AlignCumulativeSeries([]string{"2024-01-01"}, 0, []types.ProfitLossEntry{
		{Date: "2024-01-01", Delta: 1.1},
		{Date: "2024-01-01T00:00:00Z", Delta: 2.2},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got[0].Value != 3.3 {
		t.Fatalf("value %v want 3.3", got[0].Value)
	}
}

func TestProfitLoss(t *testing.T) {
	events := []types.TradeEvent{
		{BuyDate: "2024-01-01", BuyPrice: 30, SellDate: "2024-01-05", SellPrice: 33.5},
		{BuyDate: "2024-02-01", BuyPrice: 300, SellDate: "2024-02-09", SellPrice: 290.123},
	}
	got, err := ProfitLoss(events, 1000)
	if err != nil {
		t.Fatal(err)
	}
	// 33 shares * 3.5 = 115.5; 3 shares * -9.877 = -29.631 -> -29.63
	if got[0].Date != "2024-01-05" || got[0].Delta != 115.5 {
		t.Fatalf("first entry %+v", got[0])
	}
	if got[1].Date != "2024-02-09" || got[1].Delta != -29.63 {
		t.Fatalf("second entry %+v", got[1])
	}
	if _, err := ProfitLoss([]types.TradeEvent{{BuyPrice: 0}}, 1000); err == nil {
		t.Fatal("expected error for zero buy price")
	}
}

func TestCapitalGrowthDerivesEntries(t *testing.T) {
	prices := []types.PriceBar{
		{Date: "2024-01-01", Close: 30},
		{Date: "2024-01-02", Close: 31},
		{Date: "2024-01-05", Close: 33.5},
	}
	res := types.StrategyResult{
		BuySellPairs: []types.TradeEvent{{BuyDate: "2024-01-01", BuyPrice: 30, SellDate: "2024-01-05", SellPrice: 33.5}},
	}
	got, err := CapitalGrowth(CloseSeries(prices), res)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{1000, 1000, 1115.5}
	if len(got) != len(want) {
		t.Fatalf("got %+v", got)
	}
	for i := range want {
		if got[i].Value != want[i] {
			t.Fatalf("got %+v", got)
		}
	}
}

func TestMarkers(t *testing.T) {
	buys, sells := Markers([]types.TradeEvent{{BuyDate: "a", BuyPrice: 1, SellDate: "b", SellPrice: 2}})
	if len(buys) != 1 || buys[0].Date != "a" || sells[0].Value != 2 {
		t.Fatalf("buys=%v sells=%v", buys, sells)
	}
}

func TestSignalSeries(t *testing.T) {
	got := SignalSeries([]types.TradeSignal{{Date: "2024-01-01", ClosePrice: 9}})
	if len(got) != 1 || got[0].Value != 9 {
		t.Fatalf("series %+v", got)
	}
}
