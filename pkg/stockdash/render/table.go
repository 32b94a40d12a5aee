package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/komsit37/stockdash/pkg/stockdash/metrics"
	stable "github.com/komsit37/stockdash/pkg/stockdash/table"
	"github.com/komsit37/stockdash/pkg/stockdash/types"
)

// signKey colors the live quote columns of a row by its change.
const signKey = "liveChange"

type TableRenderer struct {
	// ShowAction includes the trailing delete column.
	ShowAction bool
}

func NewTableRenderer() *TableRenderer { return &TableRenderer{} }

func (r *TableRenderer) Render(w io.Writer, t stable.Table, opts RenderOptions) error {
	if strings.TrimSpace(opts.Title) != "" {
		fmt.Fprintln(w, text.Bold.Sprint(strings.ToUpper(opts.Title)))
	}

	cols := t.Columns
	if !r.ShowAction && len(cols) > 0 && cols[len(cols)-1].Key == stable.ActionKey {
		cols = cols[:len(cols)-1]
	}

	tw := newWriter(w)
	hdr := make(table.Row, len(cols))
	for i, c := range cols {
		hdr[i] = strings.ToUpper(c.Header)
	}
	tw.AppendHeader(hdr)

	// Wrap text to MaxColWidth (default 40), no truncation.
	maxWidth := opts.MaxColWidth
	if maxWidth <= 0 {
		maxWidth = 40
	}
	cfgs := make([]table.ColumnConfig, 0, len(cols))
	for i, c := range cols {
		cfg := table.ColumnConfig{Number: i + 1, WidthMax: maxWidth}
		if numeric(c.Key) {
			cfg.Align = text.AlignRight
			cfg.AlignHeader = text.AlignRight
		}
		cfgs = append(cfgs, cfg)
	}
	if len(cfgs) > 0 {
		tw.SetColumnConfigs(cfgs)
	}

	for _, row := range t.Rows {
		sign := signOf(row)
		out := make(table.Row, len(cols))
		for i := range cols {
			cell := row.Cells[i]
			out[i] = cell.Text
			if opts.Color && (cell.Key == signKey || cell.Key == "livePrice") {
				out[i] = colorize(sign, cell.Text)
			}
		}
		tw.AppendRow(out)
	}
	tw.Render()
	return nil
}

func newWriter(w io.Writer) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleColoredDark)
	tw.Style().Options.DrawBorder = false
	tw.Style().Options.SeparateRows = false
	tw.Style().Options.SeparateColumns = false
	return tw
}

// numeric reports whether key is formatted as a number.
func numeric(key string) bool {
	rule, ok := metrics.RuleFor(key)
	return ok && rule != metrics.RuleLiteral
}

func signOf(row stable.Row) float64 {
	f, _ := cellValue(row, signKey).Float()
	return f
}

func colorize(sign float64, s string) string {
	switch {
	case sign < 0:
		return text.Colors{text.FgRed}.Sprint(s)
	case sign > 0:
		return text.Colors{text.FgGreen}.Sprint(s)
	}
	return s
}

// cellValue returns the raw value of key in row.
func cellValue(row stable.Row, key string) types.Value {
	for _, c := range row.Cells {
		if c.Key == key {
			return c.Value
		}
	}
	return types.Null()
}
