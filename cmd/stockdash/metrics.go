package main

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/komsit37/stockdash/pkg/stockdash/metrics"
)

func newMetricsCmd() *cobra.Command {
	var categories []string
	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "List the metric keys and categories usable in --columns and --categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			keys := metrics.Order()
			if len(categories) > 0 {
				var err error
				if keys, err = metrics.ExpandCategories(categories); err != nil {
					return err
				}
			}

			tw := table.NewWriter()
			tw.SetOutputMirror(cmd.OutOrStdout())
			tw.SetStyle(table.StyleColoredDark)
			tw.Style().Options.DrawBorder = false
			tw.Style().Options.SeparateRows = false
			tw.Style().Options.SeparateColumns = false
			tw.AppendHeader(table.Row{"KEY", "NAME", "CATEGORY", "FORMAT", "DEFAULT"})
			def := strings.Join(metrics.DefaultVisible, ",")
			for _, k := range keys {
				d, _ := metrics.Lookup(k)
				rule, _ := metrics.RuleFor(k)
				mark := ""
				if strings.Contains(","+def+",", ","+k+",") {
					mark = "*"
				}
				tw.AppendRow(table.Row{d.Key, d.DisplayName, d.Category, rule.String(), mark})
			}
			tw.Render()
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&categories, "category", nil, "only list these categories")
	return cmd
}
