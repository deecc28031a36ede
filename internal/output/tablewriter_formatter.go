package output

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/sdpower/cchistory/internal/types"
)

// TableWriterFormatter uses tablewriter for the static thread listing
type TableWriterFormatter struct {
	noColor bool
	styles  Styles
}

func NewTableWriterFormatter(noColor bool) *TableWriterFormatter {
	return &TableWriterFormatter{
		noColor: noColor,
		styles:  NewStyles(noColor),
	}
}

// Header renders the boxed title line used by the report and the browser.
func Header(title string) string {
	const width = 81
	pad := width - 2 - len([]rune(title))
	if pad < 0 {
		pad = 0
	}
	left := pad / 2
	var b strings.Builder
	b.WriteString("┌" + strings.Repeat("─", width) + "┐\n")
	b.WriteString("│" + strings.Repeat(" ", left+1) + title + strings.Repeat(" ", pad-left+1) + "│\n")
	b.WriteString("└" + strings.Repeat("─", width) + "┘")
	return b.String()
}

func (f *TableWriterFormatter) FormatThreads(date types.CalendarDate, threads []types.Thread, stats types.DailyStats) string {
	var output strings.Builder

	output.WriteString(f.styles.Title.Render(Header("Claude Code Message History - " + date.String())))
	output.WriteString("\n")
	output.WriteString("\n")

	if len(threads) == 0 {
		output.WriteString("No messages found for " + date.String() + ".\n")
		return output.String()
	}

	var buf bytes.Buffer

	table := tablewriter.NewTable(&buf,
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Settings: tw.Settings{Separators: tw.Separators{BetweenRows: tw.Off}},
		})),
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Alignment: tw.CellAlignment{PerColumn: []tw.Align{
					tw.AlignRight, tw.AlignLeft, tw.AlignLeft, tw.AlignLeft,
					tw.AlignRight, tw.AlignRight, tw.AlignRight,
				}},
			},
		}),
		tablewriter.WithHeaderAutoFormat(tw.Off),
	)

	table.Header([]string{"#", "Time", "Project", "Message", "Exchanges", "Tools", "Cost (USD)"})

	for i, th := range threads {
		table.Append([]string{
			strconv.Itoa(i + 1),
			Clock(th.StartTime),
			th.Project(),
			Truncate(OneLine(th.Prompt()), PromptPreviewLen),
			strconv.Itoa(len(th.Responses)),
			strconv.Itoa(th.ToolCount),
			FormatCost(th.Cost),
		})
	}

	table.Footer([]string{
		"Total", "", "", "",
		strconv.Itoa(stats.TotalExchanges),
		strconv.Itoa(stats.ToolsUsed),
		FormatCost(stats.TotalCost),
	})

	table.Render()

	output.WriteString(f.colorize(buf.String()))
	output.WriteString("\n")
	output.WriteString(FormatStats(stats, f.styles))
	return output.String()
}

// colorize paints borders gray, the header cyan and the footer yellow.
func (f *TableWriterFormatter) colorize(tableOutput string) string {
	if f.noColor {
		return tableOutput
	}

	const (
		gray   = "\033[90m"
		cyan   = "\033[36m"
		yellow = "\033[33m"
		reset  = "\033[0m"
	)

	lines := strings.Split(tableOutput, "\n")
	var colored strings.Builder
	for i, line := range lines {
		switch {
		case line == "":
		case strings.HasPrefix(line, "┌") || strings.HasPrefix(line, "├") || strings.HasPrefix(line, "└"):
			colored.WriteString(gray + line + reset)
		case strings.Contains(line, "│"):
			parts := strings.Split(line, "│")
			for j, part := range parts {
				if j > 0 {
					colored.WriteString(gray + "│" + reset)
				}
				switch {
				case strings.TrimSpace(part) == "":
					colored.WriteString(part)
				case i <= 2:
					colored.WriteString(cyan + part + reset)
				case strings.Contains(line, "Total"):
					colored.WriteString(yellow + part + reset)
				default:
					colored.WriteString(part)
				}
			}
		default:
			colored.WriteString(line)
		}
		if i < len(lines)-1 {
			colored.WriteString("\n")
		}
	}
	return colored.String()
}
