// Package enrich fills the live quote columns of stock records.
package enrich

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	yfgo "github.com/komsit37/yf-go"
	"go.uber.org/zap"

	"github.com/komsit37/stockdash/pkg/stockdash/types"
)

// Live quote metric keys.
const (
	KeyPrice  = "livePrice"
	KeyChange = "liveChange"
)

// Quote is the live market data of one symbol. Change is a ratio
// (0.0123 for +1.23%).
type Quote struct {
	Symbol string
	Name   string
	Price  types.Value
	Change types.Value
}

// QuoteService fetches a live quote for a symbol.
type QuoteService interface {
	Get(ctx context.Context, sym string) (Quote, error)
}

// Symbol maps a stock code and its API country to a Yahoo symbol.
func Symbol(code, country string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return ""
	}
	if strings.EqualFold(strings.TrimSpace(country), "AUS") && !strings.HasSuffix(code, ".AX") {
		return code + ".AX"
	}
	return code
}

// YFService implements QuoteService using yf-go.
type YFService struct {
	client  *yfgo.Client
	timeout time.Duration
}

func NewYFService(timeout time.Duration) *YFService {
	return &YFService{client: yfgo.NewClient(), timeout: timeout}
}

func (s *YFService) Get(ctx context.Context, sym string) (Quote, error) {
	if sym == "" {
		return Quote{}, nil
	}
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	res, err := s.client.QuoteSummaryTyped(cctx, sym, []yfgo.QuoteSummaryModule{yfgo.ModulePrice})
	if err != nil {
		return Quote{}, err
	}
	if res.Price == nil {
		return Quote{}, fmt.Errorf("no price for %s", sym)
	}

	q := Quote{Symbol: sym, Price: types.Null(), Change: types.Null()}
	if p := res.Price.RegularMarketPrice.Raw; p != nil {
		q.Price = types.Number(*p)
	}
	if cp := res.Price.RegularMarketChangePercent.Raw; cp != nil {
		q.Change = types.Number(*cp)
	}
	if res.Price.ShortName != "" {
		q.Name = res.Price.ShortName
	} else if res.Price.LongName != "" {
		q.Name = res.Price.LongName
	}
	return q, nil
}

// CacheService decorates a QuoteService with TTL+LRU cache.
type CacheService struct {
	next QuoteService
	ttl  time.Duration
	size int
	now  func() time.Time

	mu    sync.Mutex
	items map[string]cacheEntry
	order []string // simple LRU order, oldest at index 0
}

type cacheEntry struct {
	at time.Time
	q  Quote
}

func NewCacheService(next QuoteService, ttl time.Duration, size int) *CacheService {
	if size <= 0 {
		size = 1
	}
	return &CacheService{next: next, ttl: ttl, size: size, now: time.Now, items: make(map[string]cacheEntry)}
}

func (c *CacheService) Get(ctx context.Context, sym string) (Quote, error) {
	if sym == "" {
		return Quote{}, nil
	}
	now := c.now()
	c.mu.Lock()
	if ent, ok := c.items[sym]; ok {
		if now.Sub(ent.at) <= c.ttl {
			c.touchLocked(sym)
			q := ent.q
			c.mu.Unlock()
			return q, nil
		}
		delete(c.items, sym)
		c.removeFromOrderLocked(sym)
	}
	c.mu.Unlock()

	q, err := c.next.Get(ctx, sym)
	if err != nil {
		return q, err
	}
	c.mu.Lock()
	if _, ok := c.items[sym]; ok {
		c.removeFromOrderLocked(sym)
	}
	c.items[sym] = cacheEntry{at: now, q: q}
	c.order = append(c.order, sym)
	for len(c.items) > c.size && len(c.order) > 0 {
		old := c.order[0]
		c.order = c.order[1:]
		delete(c.items, old)
	}
	c.mu.Unlock()
	return q, nil
}

func (c *CacheService) touchLocked(k string) {
	c.removeFromOrderLocked(k)
	c.order = append(c.order, k)
}

func (c *CacheService) removeFromOrderLocked(k string) {
	for i, v := range c.order {
		if v == k {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

// Workers bounds the concurrent quote lookups of Records.
const Workers = 8

// Records returns copies of records with the live quote columns filled.
// A failed lookup leaves both columns null.
func Records(ctx context.Context, svc QuoteService, records []types.Record, logger *zap.Logger) []types.Record {
	if logger == nil {
		logger = zap.NewNop()
	}
	out := make([]types.Record, len(records))
	sem := make(chan struct{}, Workers)
	var wg sync.WaitGroup
	for i, rec := range records {
		fields := make(map[string]types.Value, len(rec.Fields)+2)
		for k, v := range rec.Fields {
			fields[k] = v
		}
		fields[KeyPrice], fields[KeyChange] = types.Null(), types.Null()
		out[i] = types.Record{ID: rec.ID, Fields: fields}

		sym := Symbol(rec.Code(), rec.Country())
		if sym == "" {
			continue
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(fields map[string]types.Value) {
			defer wg.Done()
			defer func() { <-sem }()
			q, err := svc.Get(ctx, sym)
			if err != nil {
				logger.Debug("live quote failed", zap.String("symbol", sym), zap.Error(err))
				return
			}
			fields[KeyPrice], fields[KeyChange] = q.Price, q.Change
		}(fields)
	}
	wg.Wait()
	return out
}
