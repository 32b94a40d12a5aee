package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/komsit37/stockdash/pkg/stockdash/types"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL + "/"}, zaptest.NewLogger(t))
}

func TestListStocksArrayAndSingleObject(t *testing.T) {
	bodies := []string{
		`[{"id":1,"code":"AAPL","price":150.5},{"id":2,"code":"MSFT","price":140.2}]`,
		`{"id":3,"code":"CBA","country":"AUS","price":null}`,
	}
	for i, body := range bodies {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet || r.URL.Path != "/api/stock/" {
				t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
			}
			if r.Header.Get("X-Request-ID") == "" {
				t.Error("missing request id")
			}
			io.WriteString(w, body)
		})
		recs, err := c.ListStocks(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		switch i {
		case 0:
			if len(recs) != 2 || recs[1].Code() != "MSFT" || recs[1].ID != 2 {
				t.Fatalf("records %+v", recs)
			}
		case 1:
			if len(recs) != 1 || recs[0].Country() != "AUS" || !recs[0].Get("price").IsNull() {
				t.Fatalf("records %+v", recs)
			}
		}
	}
}

func TestListStocksLogsDroppedFields(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"id":1,"code":"AAPL","surprise":true}]`)
	}))
	defer srv.Close()
	c := NewClient(Config{BaseURL: srv.URL}, zap.New(core))
	recs, err := c.ListStocks(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := recs[0].Fields["surprise"]; ok {
		t.Fatal("unknown field kept")
	}
	if logs.FilterMessage("dropped unknown or invalid stock fields").Len() != 1 {
		t.Fatalf("expected one warning, got %v", logs.All())
	}
}

func TestErrorResponsesBecomeNetworkErrors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"error":"No stocks found"}`)
	})
	_, err := c.ListStocks(context.Background())
	var ne *NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("expected NetworkError, got %T %v", err, err)
	}
	if ne.StatusCode != 404 || ne.Message != "No stocks found" || !IsNotFound(err) {
		t.Fatalf("unexpected error %+v", ne)
	}
	if UserMessage(err) != "No stocks found" {
		t.Fatalf("user message %q", UserMessage(err))
	}
}

func TestErrorInSuccessBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"error":"Missing required fields"}`)
	})
	err := c.AddStrategy(context.Background(), types.StrategyRequest{
		Code: "AAPL", Country: "US", Strategy: "MA", TimePeriod: "1y", TimeInterval: "1d", WindowSlow: 50, WindowFast: 20,
	})
	if err == nil || !strings.Contains(err.Error(), "Missing required fields") {
		t.Fatalf("expected error from body, got %v", err)
	}
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()
	c := NewClient(Config{BaseURL: url}, nil)
	err := c.DeleteAllStocks(context.Background())
	var ne *NetworkError
	if !errors.As(err, &ne) || ne.StatusCode != 0 || ne.Err == nil {
		t.Fatalf("expected transport NetworkError, got %v", err)
	}
	if !strings.HasPrefix(UserMessage(err), "Network error: ") {
		t.Fatalf("user message %q", UserMessage(err))
	}
}

func TestAddStockSendsBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("unexpected request %s %s", r.Method, r.Header.Get("Content-Type"))
		}
		var got map[string]string
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Error(err)
		}
		if got["stock"] != "AAPL" || got["country"] != "US" {
			t.Errorf("body %v", got)
		}
		io.WriteString(w, `{"message":"Stock AAPL successfully"}`)
	})
	if err := c.AddStock(context.Background(), types.StockRequest{Code: "AAPL", Country: "US"}); err != nil {
		t.Fatal(err)
	}
	if err := c.AddStock(context.Background(), types.StockRequest{Code: "AAPL", Country: "JP"}); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestDeleteStockPath(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/stock/42" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
	})
	if err := c.DeleteStock(context.Background(), 42); err != nil {
		t.Fatal(err)
	}
}

func TestGetResultsDecodesTuples(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/strategy/results/AAPL" {
			t.Errorf("path %s", r.URL.Path)
		}
		io.WriteString(w, `{"code":"AAPL","initial_investment":1000,
			"buy_sell_pairs_timestamp":[["2024-01-02",10.5,"2024-02-01",12.0]],
			"profit_loss_shares":[["2024-02-01",142.5]],
			"total_number_of_trades":1,"pct_win":100.0}`)
	})
	res, err := c.GetResults(context.Background(), "AAPL")
	if err != nil {
		t.Fatal(err)
	}
	if len(res.BuySellPairs) != 1 || res.BuySellPairs[0].SellPrice != 12 || res.BuySellPairs[0].BuyDate != "2024-01-02" {
		t.Fatalf("pairs %+v", res.BuySellPairs)
	}
	if len(res.ProfitLossShares) != 1 || res.ProfitLossShares[0].Delta != 142.5 {
		t.Fatalf("profit/loss %+v", res.ProfitLossShares)
	}
}

func TestLenientDecodeRepairsBody(t *testing.T) {
	h := func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"code":"AAPL","prices":[{"date":"2024-01-02","close":1.5},]}`)
	}
	strict := newTestClient(t, h)
	if _, err := strict.GetStockPrices(context.Background(), "AAPL"); err == nil {
		t.Fatal("strict client should reject trailing comma")
	}
	lenient := newTestClient(t, h)
	lenient.Config.Lenient = true
	hist, err := lenient.GetStockPrices(context.Background(), "AAPL")
	if err != nil {
		t.Fatal(err)
	}
	if len(hist.Prices) != 1 || hist.Prices[0].Close != 1.5 {
		t.Fatalf("prices %+v", hist.Prices)
	}
}

func TestRequestIDFromContext(t *testing.T) {
	var seen string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("X-Request-ID")
	})
	var seq Sequencer
	tk := seq.Next()
	if err := c.DeleteStrategy(tk.Context(context.Background()), "AAPL"); err != nil {
		t.Fatal(err)
	}
	if seen != tk.ID {
		t.Fatalf("request id %q want %q", seen, tk.ID)
	}
}

func TestSequencer(t *testing.T) {
	var s Sequencer
	a := s.Next()
	b := s.Next()
	if s.IsLatest(a) || !s.IsLatest(b) {
		t.Fatal("only the newest ticket is latest")
	}
	if a.ID == b.ID {
		t.Fatal("ticket ids should differ")
	}
}
