package browser

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sdpower/cchistory/internal/calculator"
	"github.com/sdpower/cchistory/internal/output"
	"github.com/sdpower/cchistory/internal/threads"
	"github.com/sdpower/cchistory/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)

func prompt(id, text string, at time.Time) types.LogRecord {
	return types.LogRecord{
		ID: id, Role: types.RoleUser, Time: at, CWD: "/work/app",
		Message: types.Message{Role: types.RoleUser, Content: types.Content{Text: text, IsText: true}},
	}
}

func reply(id, parent string, at time.Time, blocks ...types.ContentBlock) types.LogRecord {
	return types.LogRecord{
		ID: id, ParentID: &parent, Role: types.RoleAssistant, Time: at,
		Message: types.Message{
			Role:    types.RoleAssistant,
			Model:   "claude-sonnet-4-20250514",
			Content: types.Content{Blocks: blocks},
			Usage:   &types.Usage{InputTokens: 10, OutputTokens: 5},
		},
	}
}

func newModel(t *testing.T, n int) Model {
	t.Helper()
	var records []types.LogRecord
	for i := 0; i < n; i++ {
		at := start.Add(time.Duration(i) * time.Minute)
		u := fmt.Sprintf("u%d", i)
		records = append(records,
			prompt(u, fmt.Sprintf("question number %d", i), at),
			reply(fmt.Sprintf("a%d", i), u, at.Add(3*time.Second),
				types.ContentBlock{Type: types.BlockText, Text: "looking"},
				types.ContentBlock{Type: types.BlockToolUse, Name: "Read", Input: json.RawMessage(`{"file_path":"main.go"}`)},
			),
		)
	}
	ths := threads.BuildThreads(records)
	require.Len(t, ths, n)
	return New(ths, calculator.Aggregate(ths), Options{Date: "2024-01-02", NoColor: true, PageSize: 3})
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m Model, keys ...string) (Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(key(k))
		m = next.(Model)
	}
	return m, cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestListView(t *testing.T) {
	m := newModel(t, 2)
	view := m.View()

	assert.Contains(t, view, "Claude Code Message History - 2024-01-02")
	assert.Contains(t, view, "> 1. "+output.Clock(start))
	assert.Contains(t, view, "[app]")
	assert.Contains(t, view, "question number 0")
	assert.Contains(t, view, "1 exchanges | "+output.IconTool+" 1 tools")
	assert.Contains(t, view, "Daily Statistics:")
	assert.Contains(t, view, "User messages: 2")
}

func TestCursorMovementIsClamped(t *testing.T) {
	m := newModel(t, 2)

	m, _ = press(m, "up")
	assert.Equal(t, 0, m.cursor)

	m, _ = press(m, "down", "j", "down")
	assert.Equal(t, 1, m.cursor)

	m, _ = press(m, "k")
	assert.Equal(t, 0, m.cursor)
}

func TestListScrollsWithCursor(t *testing.T) {
	m := newModel(t, 5)

	m, _ = press(m, "down", "down", "down", "down")
	assert.Equal(t, 4, m.cursor)
	assert.Equal(t, 2, m.offset)

	view := m.View()
	assert.NotContains(t, view, "question number 0")
	assert.Contains(t, view, "question number 4")
	assert.Contains(t, view, "showing 3-5 of 5")

	m, _ = press(m, "g")
	assert.Equal(t, 0, m.cursor)
	assert.Equal(t, 0, m.offset)
}

func TestEnterOpensDetail(t *testing.T) {
	m := newModel(t, 2)
	m, _ = press(m, "down", "enter")
	require.Equal(t, detailView, m.view)

	view := m.View()
	assert.Contains(t, view, "Message Details - 2024-01-02")
	assert.Contains(t, view, "User Message [app]:")
	assert.Contains(t, view, "question number 1")
	assert.Contains(t, view, "Assistant Response History (1 exchanges):")
	assert.Contains(t, view, "looking")
	assert.Contains(t, view, `Read - {"file_path":"main.go"}`)
	assert.Contains(t, view, "Input: 10 | Output: 5 | Cache: 0")
	assert.Contains(t, view, "Question Statistics:")
	assert.Contains(t, view, "Tools used: 1 (Read: 1x)")
	assert.Contains(t, view, "Processing time: 3s")
	assert.NotContains(t, view, "question number 0")
}

func TestBackKeysReturnToList(t *testing.T) {
	for _, k := range []string{"b", "esc", "backspace"} {
		t.Run(k, func(t *testing.T) {
			m := newModel(t, 2)
			m, _ = press(m, "down", "enter")
			m, cmd := press(m, k)

			assert.Equal(t, listView, m.view)
			assert.Equal(t, 1, m.cursor)
			assert.False(t, isQuit(cmd))
		})
	}
}

func TestQuitKeys(t *testing.T) {
	tests := []struct {
		name string
		keys []string
	}{
		{"q in list", []string{"q"}},
		{"esc in list", []string{"esc"}},
		{"ctrl+c in list", []string{"ctrl+c"}},
		{"q in detail", []string{"enter", "q"}},
		{"ctrl+c in detail", []string{"enter", "ctrl+c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, cmd := press(newModel(t, 1), tt.keys...)
			assert.True(t, isQuit(cmd))
			assert.Empty(t, m.View())
		})
	}
}

func TestEnterWithoutThreads(t *testing.T) {
	m := New(nil, types.DailyStats{}, Options{Date: "2024-01-02", NoColor: true})
	m, _ = press(m, "enter", "down")

	assert.Equal(t, listView, m.view)
	assert.Contains(t, m.View(), "No messages found for 2024-01-02.")
	_, ok := m.Selected()
	assert.False(t, ok)
}

func TestDetailViewportClipsToHeight(t *testing.T) {
	m := newModel(t, 1)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 6})
	m = next.(Model)
	m, _ = press(m, "enter")

	lines := strings.Split(m.View(), "\n")
	assert.Len(t, lines, 6)
	assert.Contains(t, lines[5], "b back")

	for i := 0; i < 30; i++ {
		m, _ = press(m, "down")
	}
	assert.Contains(t, m.View(), "Processing time")
}

func TestDetailScrollStopsAtEnd(t *testing.T) {
	m := newModel(t, 2)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 5})
	m = next.(Model)
	m, _ = press(m, "enter")

	for i := 0; i < 200; i++ {
		m, _ = press(m, "down")
	}
	assert.Equal(t, m.maxScroll(), m.scroll)
	atEnd := m.View()
	assert.Contains(t, atEnd, "Processing time")

	m, _ = press(m, "up")
	assert.Equal(t, m.maxScroll()-1, m.scroll)
	assert.NotEqual(t, atEnd, m.View())
}

func TestResizeClampsDetailScroll(t *testing.T) {
	m := newModel(t, 1)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 5})
	m = next.(Model)
	m, _ = press(m, "enter")
	for i := 0; i < 50; i++ {
		m, _ = press(m, "j")
	}
	require.Positive(t, m.scroll)

	next, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 200})
	m = next.(Model)
	assert.Equal(t, 0, m.scroll)
}
