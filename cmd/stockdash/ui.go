package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/komsit37/stockdash/pkg/stockdash/api"
	"github.com/komsit37/stockdash/pkg/stockdash/logging"
	"github.com/komsit37/stockdash/pkg/stockdash/pipeline"
	"github.com/komsit37/stockdash/pkg/stockdash/screen"
	"github.com/komsit37/stockdash/pkg/stockdash/tui"
)

func newUICmd(a *app) *cobra.Command {
	var tab, logFile string
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			visible, err := pipeline.Visible(a.cfg.Columns, a.cfg.Categories, false)
			if err != nil {
				return err
			}
			// The dashboard owns the terminal, so logs go to a file or nowhere.
			log := zap.NewNop()
			if logFile != "" {
				if log, err = logging.New(a.cfg.LogLevel, a.cfg.Debug, logFile); err != nil {
					return err
				}
				defer func() { _ = log.Sync() }()
			}
			client := api.NewClient(a.cfg.API(), log.Named("api"))
			stats, err := screen.NewStats(client, screen.Options{Visible: visible, Strict: a.cfg.Strict, Logger: log})
			if err != nil {
				return err
			}
			m := tui.New(cmd.Context(), client, stats,
				screen.NewChart(client, log),
				screen.NewStrategy(client, a.cfg.InitialInvestment, log),
				tui.Options{Path: tab, MaxColWidth: a.cfg.MaxColWidth, Color: a.cfg.Color, Logger: log},
			)
			return tui.Run(cmd.Context(), m)
		},
	}
	cmd.Flags().StringSlice("columns", nil, "metric keys shown at start")
	cmd.Flags().StringSlice("categories", nil, "metric categories shown at start")
	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file while the dashboard runs")
	cmd.Flags().StringVar(&tab, "tab", "/stats", "tab opened at start: /stats, /chart, /strategy")
	return cmd
}
