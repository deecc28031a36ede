// Package browser is the interactive list/detail view over a day's threads.
package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sdpower/cchistory/internal/calculator"
	"github.com/sdpower/cchistory/internal/output"
	"github.com/sdpower/cchistory/internal/pricing"
	"github.com/sdpower/cchistory/internal/types"
)

const defaultPageSize = 15

type Options struct {
	Date     types.CalendarDate
	NoColor  bool
	Rates    pricing.Rates
	PageSize int
}

// Run blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, threads []types.Thread, stats types.DailyStats, opts Options) error {
	p := tea.NewProgram(
		New(threads, stats, opts),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

type view int

const (
	listView view = iota
	detailView
)

// Model is the bubbletea model of the browser.
type Model struct {
	opts    Options
	styles  output.Styles
	threads []types.Thread
	stats   types.DailyStats
	maxCost float64

	view     view
	cursor   int
	offset   int
	scroll   int
	height   int
	quitting bool
}

func New(threads []types.Thread, stats types.DailyStats, opts Options) Model {
	if opts.PageSize <= 0 {
		opts.PageSize = defaultPageSize
	}
	if opts.Rates == (pricing.Rates{}) {
		opts.Rates = pricing.DefaultRates
	}
	m := Model{
		opts:    opts,
		styles:  output.NewStyles(opts.NoColor),
		threads: threads,
		stats:   stats,
	}
	for _, th := range threads {
		if th.Cost > m.maxCost {
			m.maxCost = th.Cost
		}
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		if last := m.maxScroll(); m.scroll > last {
			m.scroll = last
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		if m.view == detailView {
			return m.updateDetail(msg)
		}
		return m.updateList(msg)
	}

	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "pgup":
		m.moveCursor(-m.opts.PageSize)
	case "pgdown":
		m.moveCursor(m.opts.PageSize)
	case "home", "g":
		m.moveCursor(-len(m.threads))
	case "end", "G":
		m.moveCursor(len(m.threads))
	case "enter", "right", "l":
		if len(m.threads) > 0 {
			m.view = detailView
			m.scroll = 0
		}
	}
	return m, nil
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "b", "esc", "backspace", "left", "h":
		m.view = listView
	case "up", "k":
		if m.scroll > 0 {
			m.scroll--
		}
	case "down", "j":
		if m.scroll < m.maxScroll() {
			m.scroll++
		}
	}
	return m, nil
}

func (m *Model) moveCursor(delta int) {
	if len(m.threads) == 0 {
		return
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.threads) {
		m.cursor = len(m.threads) - 1
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.opts.PageSize {
		m.offset = m.cursor - m.opts.PageSize + 1
	}
}

// Selected returns the thread under the cursor.
func (m Model) Selected() (types.Thread, bool) {
	if len(m.threads) == 0 {
		return types.Thread{}, false
	}
	return m.threads[m.cursor], true
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.view == detailView {
		return m.viewport(m.renderDetail())
	}
	return m.renderList()
}

func (m Model) visibleLines() int {
	if m.height-1 < 1 {
		return 1
	}
	return m.height - 1
}

// maxScroll is the last start line that still fills the viewport.
func (m Model) maxScroll() int {
	if m.height <= 0 || m.view != detailView {
		return 0
	}
	last := strings.Count(m.renderDetail(), "\n") + 1 - m.visibleLines()
	if last < 0 {
		return 0
	}
	return last
}

// viewport clips content to the terminal height, starting at m.scroll.
func (m Model) viewport(content string) string {
	if m.height <= 0 {
		return content
	}
	lines := strings.Split(content, "\n")
	footer := m.styles.Muted.Render("↑/↓ scroll • b back • q quit")

	start := m.scroll
	if start > len(lines)-1 {
		start = len(lines) - 1
	}
	end := start + m.visibleLines()
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[start:end], "\n") + "\n" + footer
}

func (m Model) renderList() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render(output.Header("Claude Code Message History - " + m.opts.Date.String())))
	b.WriteString("\n\n")

	if len(m.threads) == 0 {
		b.WriteString("No messages found for " + m.opts.Date.String() + ".\n")
	}

	end := m.offset + m.opts.PageSize
	if end > len(m.threads) {
		end = len(m.threads)
	}
	for i := m.offset; i < end; i++ {
		b.WriteString(m.renderListItem(i))
	}
	if len(m.threads) > m.opts.PageSize {
		b.WriteString(m.styles.Muted.Render(fmt.Sprintf("   showing %d-%d of %d", m.offset+1, end, len(m.threads))))
		b.WriteString("\n\n")
	}

	b.WriteString(output.FormatStats(m.stats, m.styles))
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render("↑/↓ select • enter details • q quit"))
	return b.String()
}

func (m Model) renderListItem(i int) string {
	th := m.threads[i]
	s := m.styles

	marker := "  "
	index := s.Index.Render(fmt.Sprintf("%d.", i+1))
	if i == m.cursor {
		marker = "> "
		index = s.Selected.Render(fmt.Sprintf("%d.", i+1))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s%s %s %s\n", marker, index, s.Time.Render(output.Clock(th.StartTime)), s.Project.Render("["+th.Project()+"]"))
	fmt.Fprintf(&b, "     %s %s\n", s.Text.Render(output.IconPrompt), output.Truncate(output.OneLine(th.Prompt()), output.PromptPreviewLen))
	fmt.Fprintf(&b, "     %s %d exchanges | %s %d tools | %s %s\n\n",
		s.Exchange.Render(output.IconExchange), len(th.Responses),
		s.Tool.Render(output.IconTool), th.ToolCount,
		s.Cost.Render(output.IconCost), s.CostHeat(th.Cost, m.maxCost).Render(output.FormatCost(th.Cost)))
	return b.String()
}

func (m Model) renderDetail() string {
	th, ok := m.Selected()
	if !ok {
		return ""
	}
	s := m.styles

	var b strings.Builder
	b.WriteString(s.Title.Render(output.Header(fmt.Sprintf("Message Details - %s %s", th.StartTime.Local().Format("2006-01-02"), output.Clock(th.StartTime)))))
	b.WriteString("\n\n")

	b.WriteString(s.Bold.Render(fmt.Sprintf("%s User Message [%s]:", output.IconNote, th.Project())))
	b.WriteString("\n")
	b.WriteString(s.Text.Render(th.Prompt()))
	b.WriteString("\n\n")

	b.WriteString(s.Bold.Render(fmt.Sprintf("%s Assistant Response History (%d exchanges):", output.IconBot, len(th.Responses))))
	b.WriteString("\n\n")

	for i, r := range th.Responses {
		b.WriteString(m.renderResponse(i, r))
	}

	b.WriteString(m.renderThreadStats(th))
	return b.String()
}

func (m Model) renderResponse(i int, r types.LogRecord) string {
	s := m.styles
	var b strings.Builder

	header := fmt.Sprintf("%s %s %s", s.Index.Render(fmt.Sprintf("%d.", i+1)), s.Time.Render(output.Clock(r.Time)), output.ResponseIcon(r))
	if r.Message.Model != "" {
		header += " " + s.Muted.Render(output.ShortenModelName(r.Message.Model))
	}
	b.WriteString(header + "\n")

	for _, block := range r.Message.Content.Blocks {
		switch block.Type {
		case types.BlockText:
			fmt.Fprintf(&b, "   %s %s\n", s.Text.Render(output.IconPrompt), output.Truncate(output.OneLine(block.Text), output.ResponsePreviewLen))
		case types.BlockToolUse:
			line := block.Name
			if input := output.ToolInput(block.Input); input != "" {
				line += " - " + input
			}
			fmt.Fprintf(&b, "   %s %s\n", s.Tool.Render(output.IconTool), line)
		}
	}

	var tokens types.TokenCounts
	if r.Message.Usage != nil {
		tokens = r.Message.Usage.Counts()
	}
	fmt.Fprintf(&b, "   %s Input: %d | Output: %d | Cache: %d | %s %s\n\n",
		s.Muted.Render(output.IconUsage), tokens.InputTokens, tokens.OutputTokens, tokens.CacheTotal(),
		s.Cost.Render(output.IconCost), output.FormatCost(calculator.ResponseCost(r, m.opts.Rates)))
	return b.String()
}

func (m Model) renderThreadStats(th types.Thread) string {
	s := m.styles
	var b strings.Builder
	b.WriteString(s.Muted.Render(strings.Repeat("━", 81)))
	b.WriteString("\n\n")
	b.WriteString(s.Bold.Render(output.IconStats + " Question Statistics:"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "   %s Total exchanges: %d\n", s.Exchange.Render(output.IconExchange), len(th.Responses))
	fmt.Fprintf(&b, "   %s Tools used: %d%s\n", s.Tool.Render(output.IconTool), th.ToolCount, output.FormatToolBreakdown(calculator.ToolBreakdown(th)))
	fmt.Fprintf(&b, "   %s Total tokens: %s\n", s.Text.Render(output.IconTokens), output.FormatTokens(th.Tokens))
	fmt.Fprintf(&b, "   %s Estimated cost: %s\n", s.Cost.Render(output.IconCost), output.FormatCost(th.Cost))
	fmt.Fprintf(&b, "   %s Processing time: %ds\n", s.Muted.Render(output.IconClock), int(th.Duration().Round(1e9).Seconds()))
	return b.String()
}
