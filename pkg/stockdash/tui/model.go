// Package tui is the interactive tabbed dashboard.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/komsit37/stockdash/pkg/stockdash/api"
	"github.com/komsit37/stockdash/pkg/stockdash/metrics"
	"github.com/komsit37/stockdash/pkg/stockdash/render"
	"github.com/komsit37/stockdash/pkg/stockdash/router"
	"github.com/komsit37/stockdash/pkg/stockdash/screen"
	"github.com/komsit37/stockdash/pkg/stockdash/types"
)

// API is everything the dashboard calls.
type API interface {
	screen.StatsAPI
	screen.PriceAPI
	screen.StrategyAPI
}

var (
	tabStyle       = lipgloss.NewStyle().Padding(0, 2).Foreground(lipgloss.Color("245"))
	activeTabStyle = lipgloss.NewStyle().Padding(0, 2).Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("6"))
	categoryStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	cursorStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

type statsMsg struct {
	ticket  api.Ticket
	records []types.Record
	err     error
}

type deletedMsg struct {
	code string
	err  error
}

type chartMsg struct {
	ticket api.Ticket
	code   string
	hist   types.PriceHistory
	err    error
}

type tradesMsg struct {
	ticket api.Ticket
	code   string
	trades types.TradeList
	err    error
}

type resultMsg struct {
	ticket api.Ticket
	code   string
	result types.StrategyResult
	err    error
}

type Options struct {
	Path        string
	MaxColWidth int
	Color       bool
	Logger      *zap.Logger
}

// Model is the bubbletea model of the dashboard. Fetches run as commands
// and their results are applied in Update, latest request wins.
type Model struct {
	ctx    context.Context
	api    API
	router *router.Router
	log    *zap.Logger
	opts   Options

	stats    *screen.Stats
	chart    *screen.Chart
	strategy *screen.Strategy

	keys         []string
	metricCursor int
	rowCursor    int
	status       string
	width        int
}

func New(ctx context.Context, a API, stats *screen.Stats, chart *screen.Chart, strategy *screen.Strategy, opts Options) *Model {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Model{
		ctx:      ctx,
		api:      a,
		router:   router.New(opts.Path),
		log:      log,
		opts:     opts,
		stats:    stats,
		chart:    chart,
		strategy: strategy,
		keys:     metrics.Order(),
	}
}

func (m *Model) Init() tea.Cmd {
	return m.refreshStats()
}

func (m *Model) refreshStats() tea.Cmd {
	t := m.stats.Begin()
	ctx := m.ctx
	return func() tea.Msg {
		recs, err := m.stats.Fetch(ctx, t)
		return statsMsg{ticket: t, records: recs, err: err}
	}
}

func (m *Model) loadChart(code string) tea.Cmd {
	t := m.chart.Begin()
	ctx := m.ctx
	return func() tea.Msg {
		hist, err := m.chart.Fetch(ctx, t, code)
		return chartMsg{ticket: t, code: code, hist: hist, err: err}
	}
}

func (m *Model) loadStrategy(code string) tea.Cmd {
	tt, rt := m.strategy.BeginTrades(), m.strategy.BeginResult()
	ctx := m.ctx
	return tea.Batch(
		func() tea.Msg {
			trades, err := m.strategy.FetchTrades(ctx, tt, code)
			return tradesMsg{ticket: tt, code: code, trades: trades, err: err}
		},
		func() tea.Msg {
			res, err := m.strategy.FetchResult(ctx, rt, code)
			return resultMsg{ticket: rt, code: code, result: res, err: err}
		},
	)
}

// selected returns the stats row under the row cursor.
func (m *Model) selected() (id int64, code string, ok bool) {
	t, err := m.stats.Table()
	if err != nil || len(t.Rows) == 0 {
		return 0, "", false
	}
	if m.rowCursor >= len(t.Rows) {
		m.rowCursor = len(t.Rows) - 1
	}
	r := t.Rows[m.rowCursor]
	return r.ID, r.Code, true
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case statsMsg:
		m.stats.Apply(msg.ticket, msg.records, msg.err)
		return m, nil
	case deletedMsg:
		if msg.err != nil {
			m.status = "delete " + msg.code + ": " + api.UserMessage(msg.err)
			return m, nil
		}
		m.status = "deleted " + msg.code
		return m, m.refreshStats()
	case chartMsg:
		m.chart.Apply(msg.ticket, msg.code, msg.hist, msg.err)
		return m, nil
	case tradesMsg:
		m.strategy.ApplyTrades(msg.ticket, msg.code, msg.trades, msg.err)
		return m, nil
	case resultMsg:
		m.strategy.ApplyResult(msg.ticket, msg.code, msg.result, msg.err)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "tab", "right":
		return m, m.enter(m.router.Next())
	case "shift+tab", "left":
		return m, m.enter(m.router.Prev())
	case "r":
		return m, m.reload()
	}
	if m.router.Current() == router.Stats {
		return m, m.handleStatsKey(msg.String())
	}
	return m, nil
}

// enter loads the data of tab for the selected stock.
func (m *Model) enter(tab router.Tab) tea.Cmd {
	m.status = ""
	_, code, ok := m.selected()
	if !ok {
		return nil
	}
	switch tab {
	case router.Chart:
		if code != m.chart.Code() || !m.chart.HasData() {
			return m.loadChart(code)
		}
	case router.Strategy:
		if code != m.strategy.Code() || m.strategy.Result() == nil {
			return m.loadStrategy(code)
		}
	}
	return nil
}

func (m *Model) reload() tea.Cmd {
	switch m.router.Current() {
	case router.Chart:
		if code := m.chart.Code(); code != "" {
			return m.loadChart(code)
		}
	case router.Strategy:
		if code := m.strategy.Code(); code != "" {
			return m.loadStrategy(code)
		}
	default:
		return m.refreshStats()
	}
	return nil
}

func (m *Model) handleStatsKey(key string) tea.Cmd {
	var err error
	switch key {
	case "up":
		if m.metricCursor > 0 {
			m.metricCursor--
		}
	case "down":
		if m.metricCursor < len(m.keys)-1 {
			m.metricCursor++
		}
	case " ":
		err = m.stats.ToggleMetric(m.keys[m.metricCursor])
	case "c":
		def, _ := metrics.Lookup(m.keys[m.metricCursor])
		err = m.stats.ToggleCategory(def.Category)
	case "enter":
		err = m.stats.ClickHeader(m.keys[m.metricCursor])
	case "j":
		if t, terr := m.stats.Table(); terr == nil && m.rowCursor < len(t.Rows)-1 {
			m.rowCursor++
		}
	case "k":
		if m.rowCursor > 0 {
			m.rowCursor--
		}
	case "d":
		id, code, ok := m.selected()
		if !ok {
			return nil
		}
		ctx := m.ctx
		return func() tea.Msg {
			return deletedMsg{code: code, err: m.api.DeleteStock(ctx, id)}
		}
	}
	if err != nil {
		m.status = err.Error()
	}
	return nil
}

func (m *Model) View() string {
	var b strings.Builder
	tabs := make([]string, 0, len(router.Tabs()))
	for _, t := range router.Tabs() {
		style := tabStyle
		if t == m.router.Current() {
			style = activeTabStyle
		}
		tabs = append(tabs, style.Render(t.String()))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n\n")

	switch m.router.Current() {
	case router.Chart:
		b.WriteString(m.chartView())
	case router.Strategy:
		b.WriteString(m.strategyView())
	default:
		b.WriteString(m.statsView())
	}

	if m.status != "" {
		b.WriteString("\n" + errStyle.Render(m.status) + "\n")
	}
	b.WriteString("\n" + dimStyle.Render(m.help()) + "\n")
	return b.String()
}

func (m *Model) help() string {
	if m.router.Current() == router.Stats {
		return "tab/←/→ tabs · ↑/↓ metric · space toggle · c category · enter sort · j/k row · d delete · r refresh · q quit"
	}
	return "tab/←/→ tabs · r reload · q quit"
}

func (m *Model) statsView() string {
	if err := m.stats.Err(); err != nil {
		return errStyle.Render(m.stats.Message()) + "\n"
	}
	if !m.stats.HasData() {
		return dimStyle.Render("Loading...") + "\n"
	}

	t, err := m.stats.Table()
	if err != nil {
		return errStyle.Render(err.Error()) + "\n"
	}
	var tb strings.Builder
	if len(t.Rows) == 0 {
		tb.WriteString(dimStyle.Render("No stocks tracked.") + "\n")
	} else {
		r := render.NewTableRenderer()
		if err := r.Render(&tb, t, render.RenderOptions{Color: m.opts.Color, MaxColWidth: m.opts.MaxColWidth}); err != nil {
			return errStyle.Render(err.Error()) + "\n"
		}
	}
	lines := strings.Split(strings.TrimRight(tb.String(), "\n"), "\n")
	for i := range lines {
		marker := "  "
		if len(t.Rows) > 0 && i == m.rowCursor+1 {
			marker = cursorStyle.Render("> ")
		}
		lines[i] = marker + lines[i]
	}
	table := strings.Join(lines, "\n")
	return lipgloss.JoinHorizontal(lipgloss.Top, m.metricList(), "  ", table) + "\n"
}

// metricList shows a window of the registry around the metric cursor.
func (m *Model) metricList() string {
	const window = 16
	start := m.metricCursor - window/2
	if start < 0 {
		start = 0
	}
	end := start + window
	if end > len(m.keys) {
		end = len(m.keys)
		if start = end - window; start < 0 {
			start = 0
		}
	}
	vis := m.stats.Visibility()
	sort := m.stats.Sort()
	var b strings.Builder
	lastCat := ""
	for i := start; i < end; i++ {
		k := m.keys[i]
		def, _ := metrics.Lookup(k)
		if def.Category != lastCat {
			full, _ := vis.IsCategoryFullyVisible(def.Category)
			mark := " "
			if full {
				mark = "*"
			}
			b.WriteString(categoryStyle.Render(mark+" "+def.Category) + "\n")
			lastCat = def.Category
		}
		box := "[ ]"
		if v, _ := vis.Visible(k); v {
			box = "[x]"
		}
		line := fmt.Sprintf("%s %s", box, def.DisplayName)
		if sort.Column == k {
			line += " (" + sort.Direction.String() + ")"
		}
		if i == m.metricCursor {
			line = cursorStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m *Model) chartView() string {
	if err := m.chart.Err(); err != nil {
		return errStyle.Render(api.UserMessage(err)) + "\n"
	}
	if !m.chart.HasData() {
		return dimStyle.Render("Select a stock on the Stats tab.") + "\n"
	}
	series := m.chart.Series()
	lo, hi := series[0].Value, series[0].Value
	for _, p := range series {
		lo, hi = min(lo, p.Value), max(hi, p.Value)
	}
	last := series[len(series)-1]
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %d bars  %s .. %s\n", categoryStyle.Render(m.chart.Code()), len(series), series[0].Date, last.Date)
	fmt.Fprintf(&b, "last %s  low %s  high %s\n", metrics.FormatDecimal(last.Value), metrics.FormatDecimal(lo), metrics.FormatDecimal(hi))
	b.WriteString(Sparkline(series, m.sparkWidth()) + "\n")
	return b.String()
}

func (m *Model) strategyView() string {
	if err := m.strategy.Err(); err != nil {
		return errStyle.Render(api.UserMessage(err)) + "\n"
	}
	res := m.strategy.Result()
	if res == nil {
		return dimStyle.Render("Select a stock on the Stats tab.") + "\n"
	}
	var b strings.Builder
	if err := (render.SummaryRenderer{}).Render(&b, *res, render.RenderOptions{Color: m.opts.Color}); err != nil {
		return errStyle.Render(err.Error()) + "\n"
	}
	growth, err := m.strategy.Growth()
	if err != nil {
		b.WriteString(errStyle.Render(err.Error()) + "\n")
		return b.String()
	}
	if len(growth) > 0 {
		fmt.Fprintf(&b, "\ncapital %s -> %s\n", metrics.FormatDecimal(growth[0].Value), metrics.FormatDecimal(growth[len(growth)-1].Value))
		b.WriteString(Sparkline(growth, m.sparkWidth()) + "\n")
	}
	return b.String()
}

func (m *Model) sparkWidth() int {
	if m.width > 4 {
		return m.width - 4
	}
	return 60
}

var sparkLevels = []rune("▁▂▃▄▅▆▇█")

// Sparkline draws points as one line of block characters, sampling down to
// at most width points.
func Sparkline(points []types.TimeSeriesPoint, width int) string {
	if len(points) == 0 || width <= 0 {
		return ""
	}
	n := min(len(points), width)
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = points[i*len(points)/n].Value
	}
	lo, hi := vals[0], vals[0]
	for _, v := range vals {
		lo, hi = min(lo, v), max(hi, v)
	}
	out := make([]rune, n)
	for i, v := range vals {
		lvl := 0
		if hi > lo {
			lvl = int((v - lo) / (hi - lo) * float64(len(sparkLevels)-1))
		}
		out[i] = sparkLevels[lvl]
	}
	return string(out)
}

// Run shows the dashboard until the user quits or ctx is done.
func Run(ctx context.Context, m *Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
