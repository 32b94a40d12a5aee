package enrich

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/komsit37/stockdash/pkg/stockdash/types"
)

type fakeQuotes struct {
	mu    sync.Mutex
	calls map[string]int
	fail  map[string]bool
}

func (f *fakeQuotes) Get(_ context.Context, sym string) (Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[sym]++
	if f.fail[sym] {
		return Quote{}, errors.New("unavailable")
	}
	return Quote{Symbol: sym, Price: types.Number(10), Change: types.Number(-0.01)}, nil
}

func TestSymbol(t *testing.T) {
	cases := []struct{ code, country, want string }{
		{"cba", "AUS", "CBA.AX"},
		{"CBA.AX", "aus", "CBA.AX"},
		{"AAPL", "US", "AAPL"},
		{" ", "US", ""},
	}
	for _, c := range cases {
		if got := Symbol(c.code, c.country); got != c.want {
			t.Errorf("Symbol(%q,%q) = %q want %q", c.code, c.country, got, c.want)
		}
	}
}

func TestCacheServiceTTLAndLRU(t *testing.T) {
	f := &fakeQuotes{}
	c := NewCacheService(f, time.Minute, 2)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	c.Get(ctx, "A")
	c.Get(ctx, "A")
	if f.calls["A"] != 1 {
		t.Fatalf("expected cached hit, calls=%d", f.calls["A"])
	}

	c.Get(ctx, "B")
	c.Get(ctx, "A") // A is now most recent
	c.Get(ctx, "C") // evicts B
	c.Get(ctx, "A")
	if f.calls["A"] != 1 {
		t.Fatalf("A should have survived eviction, calls=%d", f.calls["A"])
	}
	c.Get(ctx, "B")
	if f.calls["B"] != 2 {
		t.Fatalf("B should have been evicted, calls=%d", f.calls["B"])
	}

	now = now.Add(2 * time.Minute)
	c.Get(ctx, "B")
	if f.calls["B"] != 3 {
		t.Fatalf("expired entry should refetch, calls=%d", f.calls["B"])
	}
}

func TestRecordsFillsLiveColumns(t *testing.T) {
	f := &fakeQuotes{fail: map[string]bool{"BAD": true}}
	in := []types.Record{
		{ID: 1, Fields: map[string]types.Value{"code": types.String("CBA"), "country": types.String("AUS")}},
		{ID: 2, Fields: map[string]types.Value{"code": types.String("BAD")}},
	}
	out := Records(context.Background(), f, in, zaptest.NewLogger(t))
	if f.calls["CBA.AX"] != 1 {
		t.Fatalf("calls %v", f.calls)
	}
	if p, _ := out[0].Get(KeyPrice).Float(); p != 10 {
		t.Fatalf("live price %v", out[0].Get(KeyPrice))
	}
	if !out[1].Get(KeyPrice).IsNull() || !out[1].Get(KeyChange).IsNull() {
		t.Fatal("failed lookup should leave null")
	}
	if _, ok := in[0].Fields[KeyPrice]; ok {
		t.Fatal("input record mutated")
	}
}
