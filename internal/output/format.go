package output

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sdpower/cchistory/internal/calculator"
	"github.com/sdpower/cchistory/internal/types"
)

const (
	clockLayout        = "15:04:05"
	shortClockLayout   = "15:04"
	PromptPreviewLen   = 60
	ResponsePreviewLen = 100
	ToolInputLen       = 50
)

// Truncate shortens s to maxLen runes and appends "..." when cut.
func Truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen]) + "..."
}

// OneLine collapses whitespace so previews stay on a single row.
func OneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func Clock(t time.Time) string {
	return t.Local().Format(clockLayout)
}

func ShortClock(t time.Time) string {
	return t.Local().Format(shortClockLayout)
}

func FormatCost(cost float64) string {
	return fmt.Sprintf("$%.6f", cost)
}

// ToolInput renders a tool_use input for a one-line preview.
func ToolInput(input json.RawMessage) string {
	if len(input) == 0 || string(input) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(input, &s); err == nil {
		return Truncate(OneLine(s), ToolInputLen)
	}
	return Truncate(OneLine(string(input)), ToolInputLen)
}

func ResponseIcon(r types.LogRecord) string {
	switch calculator.ResponseKind(r) {
	case calculator.KindTextAndTools:
		return "[" + IconPrompt + "+" + IconTool + "]"
	case calculator.KindTools:
		return "[" + IconTool + "]"
	default:
		return "[" + IconPrompt + "]"
	}
}

// FormatToolBreakdown renders " (Read: 2x, Bash: 1x)" or "".
func FormatToolBreakdown(usage []calculator.ToolUsage) string {
	if len(usage) == 0 {
		return ""
	}
	parts := make([]string, 0, len(usage))
	for _, u := range usage {
		parts = append(parts, fmt.Sprintf("%s: %dx", u.Name, u.Count))
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

// FormatStats renders the day's statistics panel.
func FormatStats(stats types.DailyStats, s Styles) string {
	var b strings.Builder
	b.WriteString(s.Muted.Render(strings.Repeat("━", 81)))
	b.WriteString("\n\n")
	b.WriteString(s.Bold.Render(IconStats + " Daily Statistics:"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "   %s User messages: %d\n", s.Time.Render(IconUser), stats.UserMessages)
	fmt.Fprintf(&b, "   %s Total exchanges: %d (avg %.1f/question)\n", s.Exchange.Render(IconExchange), stats.TotalExchanges, stats.AverageExchanges())
	fmt.Fprintf(&b, "   %s Tools used: %d\n", s.Tool.Render(IconTool), stats.ToolsUsed)
	fmt.Fprintf(&b, "   %s Total tokens: %s\n", s.Text.Render(IconTokens), FormatTokens(stats.Tokens))
	fmt.Fprintf(&b, "   %s Estimated cost: $%.5f\n", s.Cost.Render(IconCost), stats.TotalCost)
	if stats.HasWindow() {
		fmt.Fprintf(&b, "   %s Active time: %s - %s\n", s.Muted.Render(IconClock), ShortClock(stats.WindowStart), ShortClock(stats.WindowEnd))
	}
	return b.String()
}

func FormatTokens(t types.TokenCounts) string {
	return fmt.Sprintf("input %s | output %s | cache %s",
		formatNumberWithCommas(t.InputTokens), formatNumberWithCommas(t.OutputTokens), formatNumberWithCommas(t.CacheTotal()))
}

// formatNumberWithCommas formats a number with thousand separators
func formatNumberWithCommas(n int) string {
	if n < 0 {
		return "-" + formatNumberWithCommas(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return formatNumberWithCommas(n/1000) + "," + fmt.Sprintf("%03d", n%1000)
}
