package output

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Icons used across the report and the browser.
const (
	IconPrompt   = "💬"
	IconExchange = "🔄"
	IconTool     = "🛠️"
	IconCost     = "💰"
	IconUser     = "👤"
	IconTokens   = "🔢"
	IconClock    = "⏰"
	IconStats    = "📈"
	IconNote     = "📝"
	IconBot      = "🤖"
	IconUsage    = "📊"
)

var (
	cheap  = colorful.Color{R: 0.37, G: 0.84, B: 0.37}
	costly = colorful.Color{R: 0.95, G: 0.30, B: 0.30}
)

// Styles bundles the lipgloss styles of the report. With NoColor every
// style renders plain text.
type Styles struct {
	Title    lipgloss.Style
	Index    lipgloss.Style
	Time     lipgloss.Style
	Project  lipgloss.Style
	Text     lipgloss.Style
	Exchange lipgloss.Style
	Tool     lipgloss.Style
	Cost     lipgloss.Style
	Muted    lipgloss.Style
	Bold     lipgloss.Style
	Selected lipgloss.Style
	noColor  bool
}

func NewStyles(noColor bool) Styles {
	if noColor {
		plain := lipgloss.NewStyle()
		return Styles{
			Title: plain, Index: plain, Time: plain, Project: plain, Text: plain,
			Exchange: plain, Tool: plain, Cost: plain, Muted: plain,
			Bold:     plain.Bold(true),
			Selected: plain.Reverse(true),
			noColor:  true,
		}
	}
	return Styles{
		Title:    lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		Index:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Time:     lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		Project:  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		Text:     lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
		Exchange: lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		Tool:     lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
		Cost:     lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Bold:     lipgloss.NewStyle().Bold(true),
		Selected: lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("6")),
	}
}

// CostHeat colours cost on a green to red ramp relative to max.
func (s Styles) CostHeat(cost, max float64) lipgloss.Style {
	if s.noColor || max <= 0 {
		return s.Cost
	}
	t := cost / max
	if t > 1 {
		t = 1
	}
	if t < 0 {
		t = 0
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(cheap.BlendLuv(costly, t).Clamped().Hex()))
}
