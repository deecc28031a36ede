package output

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sdpower/cchistory/internal/calculator"
	"github.com/sdpower/cchistory/internal/pricing"
	"github.com/sdpower/cchistory/internal/types"
)

const (
	FormatTable = "table"
	FormatJSON  = "json"
)

type Formatter struct {
	options FormatterOptions
}

type FormatterOptions struct {
	Format  string // "table", "json"
	NoColor bool
	Rates   pricing.Rates
}

func NewFormatter(opts FormatterOptions) *Formatter {
	if opts.Rates == (pricing.Rates{}) {
		opts.Rates = pricing.DefaultRates
	}
	return &Formatter{options: opts}
}

// Report is the JSON document for one day.
type Report struct {
	Date    string           `json:"date"`
	Stats   types.DailyStats `json:"stats"`
	Threads []ThreadReport   `json:"threads"`
}

type ThreadReport struct {
	Index     int                    `json:"index"`
	Project   string                 `json:"project"`
	Prompt    string                 `json:"prompt"`
	StartTime time.Time              `json:"start_time"`
	EndTime   time.Time              `json:"end_time"`
	Exchanges int                    `json:"exchanges"`
	Tools     int                    `json:"tools"`
	ToolUsage []calculator.ToolUsage `json:"tool_usage"`
	Tokens    types.TokenCounts      `json:"tokens"`
	CostUSD   float64                `json:"cost_usd"`
	Responses []ResponseReport       `json:"responses"`
}

type ResponseReport struct {
	ID      string            `json:"id"`
	Time    time.Time         `json:"time"`
	Model   string            `json:"model,omitempty"`
	Kind    string            `json:"kind"`
	Tools   []string          `json:"tools,omitempty"`
	Tokens  types.TokenCounts `json:"tokens"`
	CostUSD float64           `json:"cost_usd"`
}

func (f *Formatter) FormatDailyReport(date types.CalendarDate, threads []types.Thread, stats types.DailyStats) (string, error) {
	switch f.options.Format {
	case FormatJSON:
		return f.FormatJSON(f.BuildReport(date, threads, stats))
	case FormatTable, "":
		tableFormatter := NewTableWriterFormatter(f.options.NoColor)
		return tableFormatter.FormatThreads(date, threads, stats), nil
	default:
		return "", fmt.Errorf("%w: unknown output format %q", types.ErrInvalidFormat, f.options.Format)
	}
}

func (f *Formatter) BuildReport(date types.CalendarDate, threads []types.Thread, stats types.DailyStats) Report {
	report := Report{
		Date:    date.String(),
		Stats:   stats,
		Threads: make([]ThreadReport, 0, len(threads)),
	}
	for i, th := range threads {
		tr := ThreadReport{
			Index:     i + 1,
			Project:   th.Project(),
			Prompt:    th.Prompt(),
			StartTime: th.StartTime,
			EndTime:   th.EndTime,
			Exchanges: len(th.Responses),
			Tools:     th.ToolCount,
			ToolUsage: calculator.ToolBreakdown(th),
			Tokens:    th.Tokens,
			CostUSD:   th.Cost,
			Responses: make([]ResponseReport, 0, len(th.Responses)),
		}
		for _, r := range th.Responses {
			rr := ResponseReport{
				ID:      r.ID,
				Time:    r.Time,
				Model:   r.Message.Model,
				Kind:    calculator.ResponseKind(r),
				CostUSD: calculator.ResponseCost(r, f.options.Rates),
			}
			if r.Message.Usage != nil {
				rr.Tokens = r.Message.Usage.Counts()
			}
			for _, tool := range r.ToolUses() {
				rr.Tools = append(rr.Tools, tool.Name)
			}
			tr.Responses = append(tr.Responses, rr)
		}
		report.Threads = append(report.Threads, tr)
	}
	return report
}

func (f *Formatter) FormatJSON(data interface{}) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData) + "\n", nil
}
