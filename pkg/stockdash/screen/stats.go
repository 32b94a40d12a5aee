// Package screen holds the state of each dashboard screen: what was fetched,
// what failed, and how the user has arranged it.
package screen

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/komsit37/stockdash/pkg/stockdash/api"
	"github.com/komsit37/stockdash/pkg/stockdash/metrics"
	"github.com/komsit37/stockdash/pkg/stockdash/table"
	"github.com/komsit37/stockdash/pkg/stockdash/types"
	"github.com/komsit37/stockdash/pkg/stockdash/visibility"
)

// StatsAPI is the part of the API the stats screen calls.
type StatsAPI interface {
	ListStocks(ctx context.Context) ([]types.Record, error)
	AddStock(ctx context.Context, req types.StockRequest) error
	DeleteStock(ctx context.Context, id int64) error
	DeleteAllStocks(ctx context.Context) error
}

type Options struct {
	// Visible metric keys at start. Empty means metrics.DefaultVisible.
	Visible []string
	// Strict returns configuration errors instead of logging them.
	Strict bool
	Logger *zap.Logger
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// Stats is the tracked-stocks screen.
type Stats struct {
	api    StatsAPI
	vis    *visibility.Controller
	sorter *table.Sorter
	order  []string
	seq    api.Sequencer
	strict bool
	log    *zap.Logger

	records []types.Record
	loaded  bool
	err     error
}

func NewStats(a StatsAPI, opts Options) (*Stats, error) {
	visible := opts.Visible
	if len(visible) == 0 {
		visible = metrics.DefaultVisible
	}
	vis, err := visibility.New(visible)
	if err != nil {
		return nil, err
	}
	return &Stats{
		api:    a,
		vis:    vis,
		sorter: table.NewSorter(),
		order:  metrics.Order(),
		strict: opts.Strict,
		log:    opts.logger(),
	}, nil
}

// Begin issues the ticket for a list fetch. Only the result of the latest
// ticket is applied.
func (s *Stats) Begin() api.Ticket { return s.seq.Next() }

// Fetch lists the stocks for t without touching screen state.
func (s *Stats) Fetch(ctx context.Context, t api.Ticket) ([]types.Record, error) {
	return s.api.ListStocks(t.Context(ctx))
}

// Apply stores the outcome of the fetch for t. A stale outcome is dropped
// and reported as false. A 404 means nothing is tracked.
func (s *Stats) Apply(t api.Ticket, records []types.Record, err error) bool {
	if !s.seq.IsLatest(t) {
		s.log.Debug("dropping stale stock list", zap.Uint64("seq", t.Seq), zap.String("request_id", t.ID))
		return false
	}
	switch {
	case err == nil:
		s.records, s.loaded, s.err = records, true, nil
	case api.IsNotFound(err):
		s.records, s.loaded, s.err = nil, true, nil
	default:
		s.records, s.loaded, s.err = nil, false, err
	}
	return true
}

// Refresh re-fetches the stock list.
func (s *Stats) Refresh(ctx context.Context) error {
	t := s.Begin()
	recs, err := s.Fetch(ctx, t)
	s.Apply(t, recs, err)
	return s.Err()
}

// Add tracks a new stock and re-fetches.
func (s *Stats) Add(ctx context.Context, req types.StockRequest) error {
	if err := s.api.AddStock(ctx, req); err != nil {
		s.err = err
		return err
	}
	return s.Refresh(ctx)
}

// Delete removes the stock with id and re-fetches.
func (s *Stats) Delete(ctx context.Context, id int64) error {
	if err := s.api.DeleteStock(ctx, id); err != nil {
		s.err = err
		return err
	}
	return s.Refresh(ctx)
}

// Clear removes every stock and re-fetches.
func (s *Stats) Clear(ctx context.Context) error {
	if err := s.api.DeleteAllStocks(ctx); err != nil && !api.IsNotFound(err) {
		s.err = err
		return err
	}
	return s.Refresh(ctx)
}

func (s *Stats) ToggleMetric(key string) error {
	return s.configuration(s.vis.ToggleMetric(key))
}

func (s *Stats) ToggleCategory(category string) error {
	return s.configuration(s.vis.ToggleCategory(category))
}

// ClickHeader sorts by column, flipping the direction on a repeated click.
func (s *Stats) ClickHeader(column string) error {
	return s.configuration(s.sorter.Click(column))
}

// ApplyPreset shows exactly keys.
func (s *Stats) ApplyPreset(keys []string) error {
	return s.configuration(s.vis.Apply(keys))
}

func (s *Stats) configuration(err error) error {
	if err == nil || s.strict {
		return err
	}
	var ce *metrics.ConfigurationError
	if !errors.As(err, &ce) {
		return err
	}
	s.log.Error("ignoring configuration error", zap.Error(err))
	return nil
}

// Table projects the loaded records through the current visibility and sort.
func (s *Stats) Table() (table.Table, error) {
	return s.Project(s.records)
}

// Project projects records, such as a filtered or enriched copy of Records,
// through the current visibility and sort.
func (s *Stats) Project(records []types.Record) (table.Table, error) {
	return table.Project(records, s.vis.State(), s.sorter.Spec(), s.order)
}

func (s *Stats) Records() []types.Record { return s.records }
func (s *Stats) Visibility() *visibility.Controller { return s.vis }
func (s *Stats) Sort() types.SortSpec { return s.sorter.Spec() }

// HasData reports whether the last fetch succeeded.
func (s *Stats) HasData() bool { return s.loaded }

// Err is the last failure, nil after a successful fetch.
func (s *Stats) Err() error { return s.err }

// Message is the user-visible text for Err.
func (s *Stats) Message() string {
	if s.err == nil {
		return ""
	}
	return api.UserMessage(s.err)
}
