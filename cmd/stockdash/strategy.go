package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/komsit37/stockdash/pkg/stockdash/render"
	"github.com/komsit37/stockdash/pkg/stockdash/screen"
	"github.com/komsit37/stockdash/pkg/stockdash/types"
)

type strategyOutput struct {
	trades    bool
	all       bool
	pretty    bool
	chartOut  string
	growthOut string
}

func (o *strategyOutput) addFlags(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.BoolVar(&o.trades, "trades", false, "list the buy and sell rows")
	fl.BoolVar(&o.all, "all", false, "with --trades, list every row")
	fl.BoolVar(&o.pretty, "json", false, "print the summary as JSON")
	fl.StringVar(&o.chartOut, "chart-out", "", "write prices with buy/sell markers to a .png or .svg file")
	fl.StringVar(&o.growthOut, "growth-out", "", "write capital growth to a .png or .svg file")
	fl.Float64("initial-investment", 0, "capital assumed when the result reports none")
}

func (o *strategyOutput) print(a *app, cmd *cobra.Command, s *screen.Strategy) error {
	w := cmd.OutOrStdout()
	res := s.Result()
	if res == nil {
		return fmt.Errorf("no result for %s", s.Code())
	}
	opts := render.RenderOptions{Color: a.cfg.Color, PrettyJSON: o.pretty, MaxColWidth: a.cfg.MaxColWidth}
	if err := (render.SummaryRenderer{}).Render(w, *res, opts); err != nil {
		return err
	}
	if o.trades && s.Trades() != nil {
		fmt.Fprintln(w)
		if err := (render.TradesRenderer{All: o.all}).Render(w, *s.Trades(), opts); err != nil {
			return err
		}
	}
	if o.chartOut != "" {
		buys, sells := s.Markers()
		if err := writeChart(o.chartOut, func(r *render.ChartRenderer, cw io.Writer) error {
			return r.RenderPrice(cw, s.Code(), s.Prices(), buys, sells)
		}); err != nil {
			return err
		}
	}
	if o.growthOut != "" {
		growth, err := s.Growth()
		if err != nil {
			return err
		}
		if err := writeChart(o.growthOut, func(r *render.ChartRenderer, cw io.Writer) error {
			return r.RenderGrowth(cw, s.Code(), growth)
		}); err != nil {
			return err
		}
	}
	return nil
}

func newStrategyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "strategy",
		Short: "Backtest trading strategies",
	}
	cmd.AddCommand(newStrategyRunCmd(a), newStrategyShowCmd(a), newStrategyDeleteCmd(a))
	return cmd
}

func newStrategyRunCmd(a *app) *cobra.Command {
	var (
		out                       strategyOutput
		req                       types.StrategyRequest
		country, period, interval string
	)
	cmd := &cobra.Command{
		Use:   "run <code>",
		Short: "Backtest a strategy and show its result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Code = strings.ToUpper(strings.TrimSpace(args[0]))
			req.Country, req.TimePeriod, req.TimeInterval = country, period, interval
			req.Strategy = strings.ToUpper(req.Strategy)
			if err := req.Validate(); err != nil {
				return err
			}
			s := screen.NewStrategy(a.client, a.cfg.InitialInvestment, a.log)
			if err := s.Submit(cmd.Context(), req); err != nil {
				return err
			}
			return out.print(a, cmd, s)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&req.Strategy, "strategy", "MA", "strategy: "+strings.Join(types.Strategies, ", "))
	fl.IntVar(&req.WindowSlow, "slow", 26, "slow window")
	fl.IntVar(&req.WindowFast, "fast", 12, "fast window")
	addHistoryFlags(fl, &country, &period, &interval)
	out.addFlags(cmd)
	return cmd
}

func newStrategyShowCmd(a *app) *cobra.Command {
	var out strategyOutput
	cmd := &cobra.Command{
		Use:   "show <code>",
		Short: "Show the stored backtest of a stock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := screen.NewStrategy(a.client, a.cfg.InitialInvestment, a.log)
			if err := s.Load(cmd.Context(), strings.ToUpper(strings.TrimSpace(args[0]))); err != nil {
				return err
			}
			return out.print(a, cmd, s)
		},
	}
	out.addFlags(cmd)
	return cmd
}

func newStrategyDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <code>",
		Aliases: []string{"rm"},
		Short:   "Delete the stored backtest of a stock",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := strings.ToUpper(strings.TrimSpace(args[0]))
			s := screen.NewStrategy(a.client, a.cfg.InitialInvestment, a.log)
			if err := s.Remove(cmd.Context(), code); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted strategy %s\n", code)
			return nil
		},
	}
}
