package types

import (
	"time"
)

// Thread is one user prompt and every assistant response reachable from it
// through parent links.
type Thread struct {
	Root      LogRecord   `json:"root"`
	Responses []LogRecord `json:"responses"`
	ToolCount int         `json:"tool_count"`
	Tokens    TokenCounts `json:"tokens"`
	Cost      float64     `json:"cost_usd"`
	StartTime time.Time   `json:"start_time"`
	EndTime   time.Time   `json:"end_time"`
}

// Prompt returns the text the user typed.
func (t Thread) Prompt() string {
	return t.Root.Message.Content.Text
}

func (t Thread) Project() string {
	return ProjectLabel(t.Root.CWD)
}

func (t Thread) Duration() time.Duration {
	return t.EndTime.Sub(t.StartTime)
}

// DailyStats is the fold of all threads of one day. WindowStart and
// WindowEnd are zero when there are no threads.
type DailyStats struct {
	UserMessages   int         `json:"user_messages"`
	TotalExchanges int         `json:"total_exchanges"`
	ToolsUsed      int         `json:"tools_used"`
	Tokens         TokenCounts `json:"tokens"`
	TotalCost      float64     `json:"total_cost_usd"`
	WindowStart    time.Time   `json:"window_start"`
	WindowEnd      time.Time   `json:"window_end"`
}

// AverageExchanges is the mean number of responses per user message.
func (s DailyStats) AverageExchanges() float64 {
	n := s.UserMessages
	if n < 1 {
		n = 1
	}
	return float64(s.TotalExchanges) / float64(n)
}

// HasWindow reports whether the activity window is defined.
func (s DailyStats) HasWindow() bool {
	return s.UserMessages > 0 && !s.WindowStart.IsZero()
}
