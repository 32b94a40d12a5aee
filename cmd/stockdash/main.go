package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/komsit37/stockdash/pkg/stockdash/api"
	"github.com/komsit37/stockdash/pkg/stockdash/config"
	"github.com/komsit37/stockdash/pkg/stockdash/enrich"
	"github.com/komsit37/stockdash/pkg/stockdash/logging"
)

// app is the state shared by every subcommand, resolved before each run.
type app struct {
	v       *viper.Viper
	cfgFile string
	envFile string

	cfg    config.Config
	log    *zap.Logger
	client *api.Client
}

func (a *app) setup(cmd *cobra.Command) error {
	if err := config.BindFlags(a.v, cmd.Flags()); err != nil {
		return err
	}
	cfg, err := config.Load(a.v, a.cfgFile, a.envFile)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.LogLevel, cfg.Debug)
	if err != nil {
		return err
	}
	if cfg.MaxColWidth == 0 {
		cfg.MaxColWidth = columnWidth(detectTerminalWidth())
	}
	a.cfg, a.log = cfg, log
	a.client = api.NewClient(cfg.API(), log.Named("api"))
	log.Debug("config resolved", zap.String("api_url", cfg.APIURL), zap.Duration("timeout", cfg.Timeout), zap.Bool("strict", cfg.Strict))
	return nil
}

func (a *app) quotes() enrich.QuoteService {
	return enrich.NewCacheService(enrich.NewYFService(a.cfg.Timeout), a.cfg.QuoteTTL, a.cfg.QuoteCacheSize)
}

// columnWidth caps a table column at a third of the terminal.
func columnWidth(term int) int {
	if term <= 0 {
		return 0
	}
	return max(12, term/3)
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New()}
	rootCmd := &cobra.Command{
		Use:           "stockdash",
		Short:         "Track stocks, chart prices and backtest trading strategies",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (yaml, json or toml)")
	pf.StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded into the environment")
	pf.String("api-url", api.DefaultBaseURL, "base URL of the stock API")
	pf.Duration("timeout", 0, "request timeout")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.Bool("debug", false, "development logging")
	pf.Bool("strict", false, "fail on unknown metrics and categories instead of logging them")
	pf.Bool("lenient", false, "repair malformed JSON responses")
	pf.Bool("color", true, "colorize output")
	pf.Int("max-col-width", 0, "maximum table column width (0 = from terminal)")

	rootCmd.AddCommand(
		newStatsCmd(a),
		newChartCmd(a),
		newStrategyCmd(a),
		newMetricsCmd(),
		newUICmd(a),
	)
	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", api.UserMessage(err))
		stop()
		os.Exit(1)
	}
}
