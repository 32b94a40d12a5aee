package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/komsit37/stockdash/pkg/stockdash/metrics"
	"github.com/komsit37/stockdash/pkg/stockdash/types"
)

// SummaryRenderer prints a backtest result as a two column table.
type SummaryRenderer struct{}

func (SummaryRenderer) Render(w io.Writer, res types.StrategyResult, opts RenderOptions) error {
	if opts.PrettyJSON {
		return writeJSON(w, res, opts)
	}
	if res.Code != "" {
		fmt.Fprintln(w, text.Bold.Sprint(strings.ToUpper(res.Code)))
	}
	roi := money(res.StrategyROI)
	profit := money(res.TotalProfit)
	if opts.Color {
		roi = colorize(res.StrategyROI, roi)
		profit = colorize(res.TotalProfit, profit)
	}
	tw := newWriter(w)
	tw.AppendRows([]table.Row{
		{"Initial Investment", money(res.InitialInvestment)},
		{"Total Trades", res.TotalTrades},
		{"Profitable Trades", res.ProfitTrades},
		{"Losing Trades", res.LossTrades},
		{"Win %", metrics.FormatDecimal(res.PctWin) + "%"},
		{"Loss %", metrics.FormatDecimal(res.PctLoss) + "%"},
		{"Greatest Profit", money(res.GreatestProfit)},
		{"Greatest Loss", money(res.GreatestLoss)},
		{"Total Profit", profit},
		{"Strategy ROI", roi},
	})
	tw.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	tw.Render()
	return nil
}

func money(f float64) string {
	if f < 0 {
		return "-$" + metrics.FormatDecimal(-f)
	}
	return "$" + metrics.FormatDecimal(f)
}

// TradesRenderer prints the backtest rows that carry a buy or a sell.
type TradesRenderer struct {
	// All includes rows without a signal.
	All bool
}

func (r TradesRenderer) Render(w io.Writer, trades types.TradeList, opts RenderOptions) error {
	if opts.PrettyJSON {
		return writeJSON(w, trades, opts)
	}
	tw := newWriter(w)
	tw.AppendHeader(table.Row{"DATE", "CLOSE", "BUY", "SELL"})
	for _, s := range trades.Results {
		if !r.All && s.BuyPrice == nil && s.SellPrice == nil {
			continue
		}
		buy, sell := optMoney(s.BuyPrice), optMoney(s.SellPrice)
		if opts.Color {
			if s.BuyPrice != nil {
				buy = text.Colors{text.FgGreen}.Sprint(buy)
			}
			if s.SellPrice != nil {
				sell = text.Colors{text.FgRed}.Sprint(sell)
			}
		}
		tw.AppendRow(table.Row{s.Date, money(s.ClosePrice), buy, sell})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignRight},
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignRight},
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignRight},
	})
	tw.Render()
	return nil
}

func optMoney(f *float64) string {
	if f == nil {
		return ""
	}
	return money(*f)
}
