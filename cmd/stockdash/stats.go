package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/komsit37/stockdash/pkg/stockdash/api"
	"github.com/komsit37/stockdash/pkg/stockdash/filter"
	"github.com/komsit37/stockdash/pkg/stockdash/pipeline"
	"github.com/komsit37/stockdash/pkg/stockdash/render"
	"github.com/komsit37/stockdash/pkg/stockdash/source"
	"github.com/komsit37/stockdash/pkg/stockdash/types"
)

func newStatsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Manage and list tracked stocks",
	}
	cmd.AddCommand(
		newStatsListCmd(a),
		newStatsAddCmd(a),
		newStatsDeleteCmd(a),
		newStatsClearCmd(a),
		newStatsSyncCmd(a),
	)
	return cmd
}

func newStatsListCmd(a *app) *cobra.Command {
	var (
		format     string
		filterExpr string
		sortKey    string
		desc       bool
		live       bool
		pretty     bool
		preset     string
		presetName string
	)
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show tracked stocks as a table, JSON or codes",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := render.ByName(format)
			if err != nil {
				return err
			}
			f, err := filter.Parse(filterExpr)
			if err != nil {
				return err
			}
			columns, categories := a.cfg.Columns, a.cfg.Categories
			if preset != "" {
				list, err := loadPreset(cmd, preset, presetName)
				if err != nil {
					return err
				}
				if len(columns) == 0 && len(categories) == 0 {
					columns, categories = list.Columns, list.Categories
				}
			}
			runner := &pipeline.Runner{
				API:      a.client,
				Renderer: r,
				Writer:   cmd.OutOrStdout(),
				Logger:   a.log,
			}
			if live {
				runner.Quotes = a.quotes()
			}
			return runner.Execute(cmd.Context(), pipeline.ExecuteOptions{
				Columns:     columns,
				Categories:  categories,
				Filter:      f,
				Sort:        sortKey,
				Descending:  desc,
				Live:        live,
				Strict:      a.cfg.Strict,
				Title:       "Tracked stocks",
				Color:       a.cfg.Color,
				PrettyJSON:  pretty,
				MaxColWidth: a.cfg.MaxColWidth,
			})
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&format, "format", "o", "table", "output format: table, json, codes")
	fl.StringVarP(&filterExpr, "filter", "f", "", "code filter: substring, glob, /regex/ or comma-separated codes")
	fl.StringVarP(&sortKey, "sort", "s", "", "metric key to sort by")
	fl.BoolVar(&desc, "desc", false, "sort descending")
	fl.BoolVar(&live, "live", false, "add live quote columns")
	fl.BoolVar(&pretty, "pretty", false, "pretty-print JSON output")
	fl.StringSlice("columns", nil, "metric keys to show")
	fl.StringSlice("categories", nil, "metric categories to show")
	fl.StringVar(&preset, "preset", "", "watch file whose columns and categories are used")
	fl.StringVar(&presetName, "preset-name", "", "list within the preset file (default: first with columns)")
	return cmd
}

// loadPreset returns the named list of a watch file, or its first list that
// declares columns or categories.
func loadPreset(cmd *cobra.Command, path, name string) (types.Watchlist, error) {
	lists, err := source.YAMLSource{}.Load(cmd.Context(), path)
	if err != nil {
		return types.Watchlist{}, err
	}
	for _, l := range lists {
		if name != "" && l.Name == name {
			return l, nil
		}
		if name == "" && (len(l.Columns) > 0 || len(l.Categories) > 0) {
			return l, nil
		}
	}
	if name != "" {
		return types.Watchlist{}, fmt.Errorf("preset %q not found in %s", name, path)
	}
	return types.Watchlist{}, fmt.Errorf("%s declares no columns or categories", path)
}

func newStatsAddCmd(a *app) *cobra.Command {
	var country string
	cmd := &cobra.Command{
		Use:   "add <code>...",
		Short: "Track stocks",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, code := range args {
				req := types.StockRequest{Code: strings.ToUpper(strings.TrimSpace(code)), Country: country}
				if err := req.Validate(); err != nil {
					return err
				}
				if err := a.client.AddStock(cmd.Context(), req); err != nil {
					if api.IsConflict(err) {
						fmt.Fprintf(cmd.OutOrStdout(), "%s already tracked\n", req.Code)
						continue
					}
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s)\n", req.Code, req.Country)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&country, "country", "c", source.DefaultCountry, "country: "+strings.Join(types.Countries, ", "))
	return cmd
}

func newStatsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>...",
		Aliases: []string{"rm"},
		Short:   "Stop tracking stocks by id",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, s := range args {
				id, err := strconv.ParseInt(s, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid id %q: %w", s, err)
				}
				if err := a.client.DeleteStock(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %d\n", id)
			}
			return nil
		},
	}
}

func newStatsClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Stop tracking every stock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.DeleteAllStocks(cmd.Context()); err != nil && !api.IsNotFound(err) {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "cleared")
			return nil
		},
	}
}

func newStatsSyncCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sync <file|dir>",
		Short: "Track every stock listed in YAML watch files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lists, err := source.YAMLSource{}.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			var added, skipped int
			for _, req := range source.Stocks(lists) {
				if err := req.Validate(); err != nil {
					return fmt.Errorf("%s: %w", req.Code, err)
				}
				err := a.client.AddStock(cmd.Context(), req)
				switch {
				case err == nil:
					added++
				case api.IsConflict(err):
					a.log.Info("already tracked", zap.String("code", req.Code), zap.String("country", req.Country))
					skipped++
				default:
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "synced %d lists: added %d, already tracked %d\n", len(lists), added, skipped)
			return nil
		},
	}
}
