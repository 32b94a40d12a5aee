package render

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/komsit37/stockdash/pkg/stockdash/align"
	"github.com/komsit37/stockdash/pkg/stockdash/types"
)

// ChartFormat selects the image encoding of a chart.
type ChartFormat string

const (
	PNG ChartFormat = "png"
	SVG ChartFormat = "svg"
)

// FormatFromPath picks the chart format from a file extension.
func FormatFromPath(path string) (ChartFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return PNG, nil
	case ".svg":
		return SVG, nil
	}
	return "", fmt.Errorf("unsupported chart file %q (want .png or .svg)", path)
}

type ChartRenderer struct {
	Width  int
	Height int
	Format ChartFormat
}

func NewChartRenderer(format ChartFormat) *ChartRenderer {
	return &ChartRenderer{Width: 1024, Height: 400, Format: format}
}

// markerStyle renders points only, no connecting line.
func markerStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeColor: drawing.ColorTransparent,
		StrokeWidth: 0,
		DotWidth:    5,
		DotColor:    col,
	}
}

func lineStyle(col drawing.Color) chart.Style {
	return chart.Style{StrokeColor: col, StrokeWidth: 1.5}
}

// RenderPrice draws the closing price of code with buy and sell markers.
func (r *ChartRenderer) RenderPrice(w io.Writer, code string, prices, buys, sells []types.TimeSeriesPoint) error {
	line, err := timeSeries("Close", prices, lineStyle(chart.ColorBlue))
	if err != nil {
		return err
	}
	if len(line.XValues) < 2 {
		return fmt.Errorf("price chart of %s: need at least 2 points, got %d", code, len(line.XValues))
	}
	series := []chart.Series{line}
	for _, m := range []struct {
		name   string
		points []types.TimeSeriesPoint
		color  drawing.Color
	}{
		{"Buy", buys, chart.ColorGreen},
		{"Sell", sells, chart.ColorRed},
	} {
		if len(m.points) == 0 {
			continue
		}
		s, err := timeSeries(m.name, m.points, markerStyle(m.color))
		if err != nil {
			return err
		}
		series = append(series, s)
	}
	return r.render(w, code+" price", "Price", series)
}

// RenderGrowth draws the aligned backtest capital of code.
func (r *ChartRenderer) RenderGrowth(w io.Writer, code string, growth []types.TimeSeriesPoint) error {
	line, err := timeSeries("Capital", growth, lineStyle(chart.ColorGreen))
	if err != nil {
		return err
	}
	if len(line.XValues) < 2 {
		return fmt.Errorf("capital chart of %s: need at least 2 points, got %d", code, len(line.XValues))
	}
	return r.render(w, code+" capital growth", "Capital", []chart.Series{line})
}

func (r *ChartRenderer) render(w io.Writer, title, yName string, series []chart.Series) error {
	ch := chart.Chart{
		Title:      title,
		Width:      r.Width,
		Height:     r.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		XAxis:      chart.XAxis{ValueFormatter: chart.TimeValueFormatterWithFormat(align.DateLayout)},
		YAxis:      chart.YAxis{Name: yName},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	provider := chart.PNG
	if r.Format == SVG {
		provider = chart.SVG
	}
	return ch.Render(provider, w)
}

func timeSeries(name string, points []types.TimeSeriesPoint, style chart.Style) (chart.TimeSeries, error) {
	xs := make([]time.Time, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		t, err := align.ParseDate(p.Date)
		if err != nil {
			return chart.TimeSeries{}, fmt.Errorf("%s series: %w", name, err)
		}
		xs[i] = t
		ys[i] = p.Value
	}
	return chart.TimeSeries{Name: name, XValues: xs, YValues: ys, Style: style}, nil
}
