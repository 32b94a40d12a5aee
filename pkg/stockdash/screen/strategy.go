package screen

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/komsit37/stockdash/pkg/stockdash/align"
	"github.com/komsit37/stockdash/pkg/stockdash/api"
	"github.com/komsit37/stockdash/pkg/stockdash/types"
)

// StrategyAPI is the part of the API the strategy screen calls.
type StrategyAPI interface {
	AddStrategy(ctx context.Context, req types.StrategyRequest) error
	GetTrades(ctx context.Context, code string) (types.TradeList, error)
	GetResults(ctx context.Context, code string) (types.StrategyResult, error)
	DeleteStrategy(ctx context.Context, code string) error
}

// Strategy is the backtest screen. Trades and results are separate data
// sets, each with its own request sequence.
type Strategy struct {
	api     StrategyAPI
	initial float64
	log     *zap.Logger

	tradesSeq  api.Sequencer
	resultsSeq api.Sequencer

	code      string
	trades    *types.TradeList
	result    *types.StrategyResult
	tradesErr error
	resultErr error
}

// NewStrategy returns the screen. initial is the capital assumed when a
// result does not report one; zero means align.DefaultInitialInvestment.
func NewStrategy(a StrategyAPI, initial float64, logger *zap.Logger) *Strategy {
	if initial <= 0 {
		initial = align.DefaultInitialInvestment
	}
	return &Strategy{api: a, initial: initial, log: Options{Logger: logger}.logger()}
}

// Submit runs the backtest described by req, then loads its trades and
// results. A conflict means the backtest is already stored.
func (s *Strategy) Submit(ctx context.Context, req types.StrategyRequest) error {
	if err := s.api.AddStrategy(ctx, req); err != nil {
		if !api.IsConflict(err) {
			s.code = req.Code
			s.trades, s.result = nil, nil
			s.tradesErr, s.resultErr = err, err
			return err
		}
		s.log.Info("strategy already stored", zap.String("code", req.Code))
	}
	return s.Load(ctx, req.Code)
}

// Load fetches trades and results of code concurrently.
func (s *Strategy) Load(ctx context.Context, code string) error {
	tt, rt := s.tradesSeq.Next(), s.resultsSeq.Next()
	var (
		wg     sync.WaitGroup
		trades types.TradeList
		res    types.StrategyResult
		tErr   error
		rErr   error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		trades, tErr = s.api.GetTrades(tt.Context(ctx), code)
	}()
	go func() {
		defer wg.Done()
		res, rErr = s.api.GetResults(rt.Context(ctx), code)
	}()
	wg.Wait()
	s.ApplyTrades(tt, code, trades, tErr)
	s.ApplyResult(rt, code, res, rErr)
	return s.Err()
}

// BeginTrades and BeginResult issue tickets for callers that run the fetches
// themselves and hand the outcomes to ApplyTrades and ApplyResult.
func (s *Strategy) BeginTrades() api.Ticket { return s.tradesSeq.Next() }
func (s *Strategy) BeginResult() api.Ticket { return s.resultsSeq.Next() }

func (s *Strategy) FetchTrades(ctx context.Context, t api.Ticket, code string) (types.TradeList, error) {
	return s.api.GetTrades(t.Context(ctx), code)
}

func (s *Strategy) FetchResult(ctx context.Context, t api.Ticket, code string) (types.StrategyResult, error) {
	return s.api.GetResults(t.Context(ctx), code)
}

func (s *Strategy) ApplyTrades(t api.Ticket, code string, trades types.TradeList, err error) bool {
	if !s.tradesSeq.IsLatest(t) {
		s.log.Debug("dropping stale trades", zap.String("code", code), zap.Uint64("seq", t.Seq))
		return false
	}
	s.code = code
	if err != nil {
		s.trades, s.tradesErr = nil, err
		return true
	}
	s.trades, s.tradesErr = &trades, nil
	return true
}

func (s *Strategy) ApplyResult(t api.Ticket, code string, res types.StrategyResult, err error) bool {
	if !s.resultsSeq.IsLatest(t) {
		s.log.Debug("dropping stale result", zap.String("code", code), zap.Uint64("seq", t.Seq))
		return false
	}
	s.code = code
	if err != nil {
		s.result, s.resultErr = nil, err
		return true
	}
	if res.InitialInvestment == 0 {
		res.InitialInvestment = s.initial
	}
	s.result, s.resultErr = &res, nil
	return true
}

// Remove deletes the stored backtest of code and clears the screen.
func (s *Strategy) Remove(ctx context.Context, code string) error {
	if err := s.api.DeleteStrategy(ctx, code); err != nil {
		s.tradesErr = err
		return err
	}
	s.tradesSeq.Next()
	s.resultsSeq.Next()
	s.code = ""
	s.trades, s.result = nil, nil
	s.tradesErr, s.resultErr = nil, nil
	return nil
}

func (s *Strategy) Code() string { return s.code }

// Trades is nil when no trade list is loaded.
func (s *Strategy) Trades() *types.TradeList { return s.trades }

// Result is nil when no result is loaded.
func (s *Strategy) Result() *types.StrategyResult { return s.result }

// Err is the first failure of the last trades or results fetch.
func (s *Strategy) Err() error {
	if s.tradesErr != nil {
		return s.tradesErr
	}
	return s.resultErr
}

// Prices is the closing price line of the backtest rows.
func (s *Strategy) Prices() []types.TimeSeriesPoint {
	if s.trades == nil {
		return nil
	}
	return align.SignalSeries(s.trades.Results)
}

// Growth is the backtest capital aligned onto the price and trade dates.
func (s *Strategy) Growth() ([]types.TimeSeriesPoint, error) {
	if s.result == nil {
		return nil, nil
	}
	return align.CapitalGrowth(s.Prices(), *s.result)
}

// Markers are the buy and sell points of the loaded result.
func (s *Strategy) Markers() (buys, sells []types.TimeSeriesPoint) {
	if s.result == nil {
		return nil, nil
	}
	return align.Markers(s.result.BuySellPairs)
}
