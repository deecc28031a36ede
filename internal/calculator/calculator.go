package calculator

import (
	"sort"

	"github.com/samber/lo"
	"github.com/sdpower/cchistory/internal/pricing"
	"github.com/sdpower/cchistory/internal/types"
)

// Response kinds shown next to each assistant turn.
const (
	KindText         = "text"
	KindTools        = "tools"
	KindTextAndTools = "text+tools"
)

// ToolUsage is how many times one tool was called in a thread.
type ToolUsage struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Aggregate folds threads into the day's statistics. With no threads the
// zero DailyStats is returned and the window stays undefined.
func Aggregate(threads []types.Thread) types.DailyStats {
	var stats types.DailyStats
	if len(threads) == 0 {
		return stats
	}

	stats.UserMessages = len(threads)
	stats.WindowStart = threads[0].StartTime
	stats.WindowEnd = threads[0].EndTime

	for _, thread := range threads {
		stats.TotalExchanges += len(thread.Responses)
		stats.ToolsUsed += thread.ToolCount
		stats.Tokens = stats.Tokens.Add(thread.Tokens)
		stats.TotalCost += thread.Cost

		if thread.StartTime.Before(stats.WindowStart) {
			stats.WindowStart = thread.StartTime
		}
		if thread.EndTime.After(stats.WindowEnd) {
			stats.WindowEnd = thread.EndTime
		}
	}

	return stats
}

// ToolBreakdown counts tool calls by name, most used first. Unnamed tool
// calls are left out.
func ToolBreakdown(thread types.Thread) []ToolUsage {
	calls := lo.FlatMap(thread.Responses, func(r types.LogRecord, _ int) []types.ContentBlock {
		return r.ToolUses()
	})
	named := lo.Filter(calls, func(b types.ContentBlock, _ int) bool {
		return b.Name != ""
	})
	counts := lo.CountValuesBy(named, func(b types.ContentBlock) string {
		return b.Name
	})

	usage := lo.MapToSlice(counts, func(name string, count int) ToolUsage {
		return ToolUsage{Name: name, Count: count}
	})
	sort.Slice(usage, func(i, j int) bool {
		if usage[i].Count != usage[j].Count {
			return usage[i].Count > usage[j].Count
		}
		return usage[i].Name < usage[j].Name
	})
	return usage
}

// ResponseCost prices a single assistant turn.
func ResponseCost(r types.LogRecord, rates pricing.Rates) float64 {
	if r.Message.Usage == nil {
		return 0
	}
	return rates.Cost(r.Message.Usage.Counts())
}

// ResponseKind classifies a turn by the blocks it carries.
func ResponseKind(r types.LogRecord) string {
	blocks := r.Message.Content.Blocks
	hasText := lo.ContainsBy(blocks, func(b types.ContentBlock) bool { return b.Type == types.BlockText })
	hasTools := lo.ContainsBy(blocks, func(b types.ContentBlock) bool { return b.Type == types.BlockToolUse })

	switch {
	case hasText && hasTools:
		return KindTextAndTools
	case hasTools:
		return KindTools
	default:
		return KindText
	}
}
