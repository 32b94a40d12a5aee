// Package pipeline runs one non-interactive stats listing.
package pipeline

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/komsit37/stockdash/pkg/stockdash/enrich"
	"github.com/komsit37/stockdash/pkg/stockdash/filter"
	"github.com/komsit37/stockdash/pkg/stockdash/metrics"
	"github.com/komsit37/stockdash/pkg/stockdash/render"
	"github.com/komsit37/stockdash/pkg/stockdash/screen"
)

type Runner struct {
	API      screen.StatsAPI
	Quotes   enrich.QuoteService
	Renderer render.Renderer
	Writer   io.Writer
	Logger   *zap.Logger
}

type ExecuteOptions struct {
	Columns    []string
	Categories []string
	Filter     filter.Filter
	// Sort is a metric key; Descending flips its direction.
	Sort       string
	Descending bool
	// Live fills and shows the live quote columns.
	Live        bool
	Strict      bool
	Title       string
	Color       bool
	PrettyJSON  bool
	MaxColWidth int
}

func (r *Runner) Execute(ctx context.Context, opts ExecuteOptions) error {
	log := r.Logger
	if log == nil {
		log = zap.NewNop()
	}

	visible, err := Visible(opts.Columns, opts.Categories, opts.Live)
	if err != nil {
		return err
	}
	stats, err := screen.NewStats(r.API, screen.Options{Visible: visible, Strict: opts.Strict, Logger: log})
	if err != nil {
		return err
	}
	if opts.Sort != "" {
		clicks := 1
		if opts.Descending {
			clicks = 2
		}
		for i := 0; i < clicks; i++ {
			if err := stats.ClickHeader(opts.Sort); err != nil {
				return err
			}
		}
	}
	if err := stats.Refresh(ctx); err != nil {
		return err
	}

	records := filter.Apply(opts.Filter, stats.Records())
	if opts.Live && r.Quotes != nil {
		records = enrich.Records(ctx, r.Quotes, records, log)
	}
	log.Debug("rendering stats", zap.Int("records", len(records)), zap.Strings("columns", visible))

	t, err := stats.Project(records)
	if err != nil {
		return err
	}
	return r.Renderer.Render(r.Writer, t, render.RenderOptions{
		Title:       opts.Title,
		Color:       opts.Color,
		PrettyJSON:  opts.PrettyJSON,
		MaxColWidth: opts.MaxColWidth,
	})
}

// Visible resolves the visible metric keys from explicit columns and
// categories. Neither given means metrics.DefaultVisible.
func Visible(columns, categories []string, live bool) ([]string, error) {
	fromCats, err := metrics.ExpandCategories(categories)
	if err != nil {
		return nil, err
	}
	keys := append(append([]string(nil), columns...), fromCats...)
	if len(keys) == 0 {
		keys = append(keys, metrics.DefaultVisible...)
	}
	if live {
		keys = append(keys, enrich.KeyPrice, enrich.KeyChange)
	}
	return metrics.Compute(keys)
}
