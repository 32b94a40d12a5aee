package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/komsit37/stockdash/pkg/stockdash/metrics"
	"github.com/komsit37/stockdash/pkg/stockdash/render"
	"github.com/komsit37/stockdash/pkg/stockdash/screen"
	"github.com/komsit37/stockdash/pkg/stockdash/source"
	"github.com/komsit37/stockdash/pkg/stockdash/types"
)

func newChartCmd(a *app) *cobra.Command {
	var (
		out      string
		load     bool
		country  string
		period   string
		interval string
	)
	cmd := &cobra.Command{
		Use:   "chart <code>",
		Short: "Show the stored price history of a stock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := strings.ToUpper(strings.TrimSpace(args[0]))
			c := screen.NewChart(a.client, a.log)
			var err error
			if load {
				req := types.PriceRequest{Code: code, Country: country, TimePeriod: period, TimeInterval: interval}
				if err := req.Validate(); err != nil {
					return err
				}
				err = c.Download(cmd.Context(), req)
			} else {
				err = c.Load(cmd.Context(), code)
			}
			if err != nil {
				return err
			}
			if !c.HasData() {
				return fmt.Errorf("no prices stored for %s; fetch them with --load", code)
			}

			series := c.Series()
			first, last := series[0], series[len(series)-1]
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d bars %s .. %s, close %s -> %s\n",
				code, len(series), first.Date, last.Date, metrics.FormatDecimal(first.Value), metrics.FormatDecimal(last.Value))
			if out == "" {
				return nil
			}
			return writeChart(out, func(r *render.ChartRenderer, w io.Writer) error {
				return r.RenderPrice(w, code, series, nil, nil)
			})
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&out, "out", "", "write the chart to a .png or .svg file")
	fl.BoolVar(&load, "load", false, "download and store a fresh history first")
	addHistoryFlags(fl, &country, &period, &interval)
	return cmd
}

func addHistoryFlags(fl *pflag.FlagSet, country, period, interval *string) {
	fl.StringVarP(country, "country", "c", source.DefaultCountry, "country: "+strings.Join(types.Countries, ", "))
	fl.StringVarP(period, "period", "p", "1y", "time period: "+strings.Join(types.Periods, ", "))
	fl.StringVarP(interval, "interval", "i", "1d", "time interval: "+strings.Join(types.Intervals, ", "))
}

// writeChart creates path and renders into it in the format its extension names.
func writeChart(path string, draw func(*render.ChartRenderer, io.Writer) error) error {
	format, err := render.FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := draw(render.NewChartRenderer(format), f); err != nil {
		f.Close()
		return fmt.Errorf("render %s: %w", path, err)
	}
	return f.Close()
}
