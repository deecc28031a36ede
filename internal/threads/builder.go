// Package threads rebuilds conversation threads from a flat day of log
// records by walking parentUuid links.
package threads

import (
	"github.com/sdpower/cchistory/internal/pricing"
	"github.com/sdpower/cchistory/internal/types"
)

// Builder turns records into threads, pricing each thread with its rates.
type Builder struct {
	rates pricing.Rates
}

func NewBuilder(rates pricing.Rates) *Builder {
	return &Builder{rates: rates}
}

// BuildThreads builds threads priced at pricing.DefaultRates.
func BuildThreads(records []types.LogRecord) []types.Thread {
	return NewBuilder(pricing.DefaultRates).Build(records)
}

// Build returns one thread per user prompt, in input order.
func (b *Builder) Build(records []types.LogRecord) []types.Thread {
	g := newGraph(records)

	var threads []types.Thread
	for i := range records {
		if records[i].IsPrompt() {
			threads = append(threads, b.buildThread(g, i))
		}
	}
	return threads
}

// graph indexes records by parent id. Records stay in the caller's slice
// and edges are indices into it.
type graph struct {
	records  []types.LogRecord
	children map[string][]int
}

func newGraph(records []types.LogRecord) *graph {
	g := &graph{
		records:  records,
		children: make(map[string][]int, len(records)),
	}
	for i := range records {
		if parent := records[i].Parent(); parent != "" {
			g.children[parent] = append(g.children[parent], i)
		}
	}
	return g
}

// buildThread walks breadth first from the root. Each id is expanded at
// most once, which bounds the walk on cyclic links and keeps a record from
// being counted twice when it is reachable along several paths.
func (b *Builder) buildThread(g *graph, rootIdx int) types.Thread {
	root := g.records[rootIdx]
	thread := types.Thread{
		Root:      root,
		Responses: []types.LogRecord{},
		StartTime: root.Time,
		EndTime:   root.Time,
	}

	visited := map[string]bool{root.ID: true}
	queue := []string{root.ID}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		for _, idx := range g.children[id] {
			child := g.records[idx]
			if child.ID != "" {
				if visited[child.ID] {
					continue
				}
				visited[child.ID] = true
				queue = append(queue, child.ID)
			}

			if child.IsResponse() {
				addResponse(&thread, child)
			}
		}
	}

	thread.Cost = b.rates.Cost(thread.Tokens)
	return thread
}

func addResponse(thread *types.Thread, r types.LogRecord) {
	thread.Responses = append(thread.Responses, r)
	thread.Tokens = thread.Tokens.Add(r.Message.Usage.Counts())
	thread.ToolCount += len(r.ToolUses())
	if r.Time.After(thread.EndTime) {
		thread.EndTime = r.Time
	}
}
